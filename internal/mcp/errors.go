package mcp

import (
	"fmt"
	"strings"

	"github.com/deploykit/dokploy-mcp/internal/logger"
)

// sensitivePatterns contains substrings that indicate sensitive error details
var sensitivePatterns = []string{
	"DOKPLOY_API_KEY",
	"x-api-key",
	"api_key",
	"bearer ",
	"secret",
	"credential",
}

// internalErrorPatterns contains substrings that indicate internal errors
var internalErrorPatterns = []string{
	"connection refused",
	"no such host",
	"context deadline exceeded",
	"context canceled",
	"tls handshake",
	"EOF",
}

// SanitizeError returns a client-safe error message tagged with the
// operation. Internal details are logged but not exposed to callers.
func SanitizeError(err error, operation string) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for sensitive information
	for _, pattern := range sensitivePatterns {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(pattern)) {
			logger.Error("%s failed (sensitive): %v", operation, err)
			return fmt.Errorf("%s failed: internal configuration error", operation)
		}
	}

	// Check for internal error patterns
	for _, pattern := range internalErrorPatterns {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(pattern)) {
			logger.Error("%s failed (internal): %v", operation, err)
			return fmt.Errorf("%s failed: cannot reach the Dokploy API", operation)
		}
	}

	if isUserFacingError(errStr) {
		return fmt.Errorf("%s failed: %w", operation, err)
	}

	logger.Error("%s failed: %v", operation, err)
	return fmt.Errorf("%s failed: %s", operation, genericErrorMessage(errStr))
}

// isUserFacingError returns true if the error message is safe to show to callers
func isUserFacingError(errStr string) bool {
	userFacingPatterns := []string{
		"not found",
		"already exists",
		"invalid",
		"required",
		"must be",
		"cannot be",
		"is not",
		"does not",
		"exceeded",
		"limit",
	}

	lower := strings.ToLower(errStr)
	for _, pattern := range userFacingPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// genericErrorMessage extracts a safe portion of the error or returns generic text
func genericErrorMessage(errStr string) string {
	// Short messages without sensitive markers are probably safe
	if len(errStr) < 80 {
		return errStr
	}
	return "an unexpected error occurred"
}
