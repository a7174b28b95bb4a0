package mcp

import (
	"fmt"
	"strings"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
	"github.com/deploykit/dokploy-mcp/internal/metrics"
	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// actionError returns a formatted error for invalid actions
func actionError(tool, action string, valid []string) error {
	return fmt.Errorf("unknown action '%s' for %s tool; valid actions: %s", action, tool, strings.Join(valid, ", "))
}

// missingActionError returns an error for missing action parameter
func missingActionError(tool string, valid []string) error {
	return fmt.Errorf("action parameter is required for %s tool; valid actions: %s", tool, strings.Join(valid, ", "))
}

// mutatingActions are the state-changing actions journaled per outcome.
// Read-only actions (get, list, listByApplication) are not journaled.
var mutatingActions = map[string]bool{
	"create":      true,
	"update":      true,
	"remove":      true,
	"delete":      true,
	"duplicate":   true,
	"deploy":      true,
	"redeploy":    true,
	"start":       true,
	"stop":        true,
	"reload":      true,
	"rebuild":     true,
	"move":        true,
	"cleanQueues": true,
	"generate":    true,
}

// deny converts a gate violation into the uniform error envelope and
// records it. A denied call never reaches the action switch and never
// touches the platform.
func (s *Server) deny(tool, action string, v *scope.Violation) (*mcp_sdk.CallToolResult, any, error) {
	metrics.RecordLockDenial(v.Reason)
	metrics.RecordToolCall(tool, action, "denied")
	s.journal.RecordDenial(tool, action, s.gate.Config().ProjectID, v.Reason, v.Detail)
	logger.Warn("denied %s %s: %s (%s)", tool, action, v.Reason, v.Detail)
	return nil, nil, fmt.Errorf("%s: %s", v.Reason, v.Detail)
}

// finish normalizes one dispatched action's outcome into the uniform
// envelope, tagging failures with the family and action. projectID is the
// effective project the call ran under, for the journal.
func (s *Server) finish(tool, action, projectID string, result *mcp_sdk.CallToolResult, err error) (*mcp_sdk.CallToolResult, any, error) {
	if mutatingActions[action] {
		s.journal.RecordMutation(tool, action, projectID, err)
	}
	if err != nil {
		metrics.RecordToolCall(tool, action, "error")
		return nil, nil, SanitizeError(err, tool+" "+action)
	}
	metrics.RecordToolCall(tool, action, "success")
	return result, nil, nil
}
