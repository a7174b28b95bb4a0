package mcp

import (
	"context"
	"strings"
	"testing"
)

func TestHandleDomain_Create(t *testing.T) {
	s, f := newGatewayServer(t, "")
	f.respond("domain.create", `{"domainId":"dom-1"}`)

	https := true
	result, _, err := s.handleDomain(context.Background(), nil, DomainParams{
		Action:          "create",
		Host:            "app.example.com",
		Port:            3000,
		HTTPS:           &https,
		ApplicationID:   "app-1",
		CertificateType: "letsencrypt",
	})
	if err != nil {
		t.Fatalf("handleDomain() error = %v", err)
	}

	calls := f.calls("domain.create")
	if len(calls) != 1 {
		t.Fatalf("domain.create calls = %d, want 1", len(calls))
	}
	body := calls[0].Body
	if got := body["host"]; got != "app.example.com" {
		t.Errorf("body host = %v, want %q", got, "app.example.com")
	}
	if got := body["port"]; got != float64(3000) {
		t.Errorf("body port = %v, want 3000", got)
	}
	if got := body["https"]; got != true {
		t.Errorf("body https = %v, want true", got)
	}
	if got := body["certificateType"]; got != "letsencrypt" {
		t.Errorf("body certificateType = %v, want %q", got, "letsencrypt")
	}
	if text := resultText(t, result); !strings.Contains(text, "✅ Domain 'app.example.com' created for application app-1") {
		t.Errorf("result text = %q, want creation confirmation", text)
	}
}

func TestHandleDomain_CreateRequiresHost(t *testing.T) {
	s, f := newGatewayServer(t, "")

	_, _, err := s.handleDomain(context.Background(), nil, DomainParams{
		Action:        "create",
		ApplicationID: "app-1",
	})
	if err == nil {
		t.Fatal("expected error for missing host")
	}
	want := "domain create failed: host is required"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if f.requestCount() != 0 {
		t.Errorf("platform requests = %d, want 0", f.requestCount())
	}
}

func TestHandleDomain_UpdateHTTPSFalse(t *testing.T) {
	// https is a pointer so an explicit false still reaches the wire; an
	// unset pointer is omitted entirely.
	s, f := newGatewayServer(t, "")
	f.respond("domain.update", `{"domainId":"dom-1"}`)

	https := false
	_, _, err := s.handleDomain(context.Background(), nil, DomainParams{
		Action:   "update",
		DomainID: "dom-1",
		HTTPS:    &https,
	})
	if err != nil {
		t.Fatalf("handleDomain() error = %v", err)
	}

	calls := f.calls("domain.update")
	if len(calls) != 1 {
		t.Fatalf("domain.update calls = %d, want 1", len(calls))
	}
	body := calls[0].Body
	if got, present := body["https"]; !present || got != false {
		t.Errorf("body https = %v (present=%v), want explicit false", got, present)
	}
	if _, present := body["host"]; present {
		t.Error("body should omit unset host")
	}
}

func TestHandleDomain_ListByApplication(t *testing.T) {
	s, f := newGatewayServer(t, "")
	f.respond("domain.byApplicationId", `[{"domainId":"dom-1"},{"domainId":"dom-2"},{"domainId":"dom-3"}]`)

	result, _, err := s.handleDomain(context.Background(), nil, DomainParams{
		Action:        "listByApplication",
		ApplicationID: "app-1",
	})
	if err != nil {
		t.Fatalf("handleDomain() error = %v", err)
	}

	calls := f.calls("domain.byApplicationId")
	if len(calls) != 1 {
		t.Fatalf("domain.byApplicationId calls = %d, want 1", len(calls))
	}
	if got := calls[0].Query.Get("applicationId"); got != "app-1" {
		t.Errorf("applicationId query = %q, want %q", got, "app-1")
	}
	if text := resultText(t, result); !strings.Contains(text, "Found 3 domain(s) for application app-1") {
		t.Errorf("result text = %q, want count header", text)
	}
}

func TestHandleDomain_GenerateRequiresAppName(t *testing.T) {
	s, f := newGatewayServer(t, "")

	_, _, err := s.handleDomain(context.Background(), nil, DomainParams{Action: "generate"})
	if err == nil {
		t.Fatal("expected error for missing appName")
	}
	want := "domain generate failed: appName is required"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if f.requestCount() != 0 {
		t.Errorf("platform requests = %d, want 0", f.requestCount())
	}
}

func TestHandleDomain_Generate(t *testing.T) {
	s, f := newGatewayServer(t, "")
	f.respond("domain.generateDomain", `{"domain":"web-abc123.traefik.me"}`)

	result, _, err := s.handleDomain(context.Background(), nil, DomainParams{
		Action:  "generate",
		AppName: "web-abc123",
	})
	if err != nil {
		t.Fatalf("handleDomain() error = %v", err)
	}

	calls := f.calls("domain.generateDomain")
	if len(calls) != 1 {
		t.Fatalf("domain.generateDomain calls = %d, want 1", len(calls))
	}
	if got := calls[0].Body["appName"]; got != "web-abc123" {
		t.Errorf("body appName = %v, want %q", got, "web-abc123")
	}
	if text := resultText(t, result); !strings.Contains(text, "✅ Domain generated for web-abc123") {
		t.Errorf("result text = %q, want generation confirmation", text)
	}
}

func TestHandleDomain_LockViolation(t *testing.T) {
	s, f := newGatewayServer(t, "proj-locked")

	_, _, err := s.handleDomain(context.Background(), nil, DomainParams{
		Action:    "delete",
		DomainID:  "dom-1",
		ProjectID: "proj-other",
	})
	if err == nil {
		t.Fatal("expected lock violation")
	}
	if !strings.Contains(err.Error(), "lock violation") {
		t.Errorf("error = %q, want lock violation", err.Error())
	}
	if f.requestCount() != 0 {
		t.Errorf("platform requests = %d, want 0", f.requestCount())
	}
}
