package mcp

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSanitizeError_Nil(t *testing.T) {
	if got := SanitizeError(nil, "project get"); got != nil {
		t.Errorf("SanitizeError(nil) = %v, want nil", got)
	}
}

func TestSanitizeError_Sensitive(t *testing.T) {
	err := errors.New("request failed: x-api-key abc123 rejected")
	got := SanitizeError(err, "project get")

	want := "project get failed: internal configuration error"
	if got.Error() != want {
		t.Errorf("error = %q, want %q", got.Error(), want)
	}
	if strings.Contains(got.Error(), "abc123") {
		t.Error("sanitized error leaked the credential")
	}
}

func TestSanitizeError_Internal(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.5:3000: connection refused")
	got := SanitizeError(err, "application deploy")

	want := "application deploy failed: cannot reach the Dokploy API"
	if got.Error() != want {
		t.Errorf("error = %q, want %q", got.Error(), want)
	}
}

func TestSanitizeError_UserFacing(t *testing.T) {
	err := errors.New("projectId is required")
	got := SanitizeError(err, "project get")

	want := "project get failed: projectId is required"
	if got.Error() != want {
		t.Errorf("error = %q, want %q", got.Error(), want)
	}
	if !errors.Is(got, err) {
		t.Error("user-facing errors should stay wrapped")
	}
}

func TestSanitizeError_ShortGeneric(t *testing.T) {
	err := errors.New("upstream replied oddly")
	got := SanitizeError(err, "domain create")

	want := "domain create failed: upstream replied oddly"
	if got.Error() != want {
		t.Errorf("error = %q, want %q", got.Error(), want)
	}
}

func TestSanitizeError_LongGeneric(t *testing.T) {
	err := fmt.Errorf("opaque failure: %s", strings.Repeat("x", 120))
	got := SanitizeError(err, "domain create")

	want := "domain create failed: an unexpected error occurred"
	if got.Error() != want {
		t.Errorf("error = %q, want %q", got.Error(), want)
	}
}
