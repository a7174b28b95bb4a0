package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/dokploy"
	"github.com/deploykit/dokploy-mcp/internal/scope"
)

const testAPIKey = "test-key"

// fakeDokploy stands in for the Dokploy API. It records every request so
// tests can assert what did, and did not, reach the platform.
type fakeDokploy struct {
	server    *httptest.Server
	mu        sync.Mutex
	requests  []fakeRequest
	responses map[string]string // procedure -> JSON body
}

type fakeRequest struct {
	Method    string
	Procedure string
	Query     url.Values
	Body      map[string]any
}

func newFakeDokploy(t *testing.T) *fakeDokploy {
	t.Helper()
	f := &fakeDokploy{responses: make(map[string]string)}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeDokploy) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Header.Get("x-api-key") != testAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
		return
	}

	req := fakeRequest{
		Method:    r.Method,
		Procedure: strings.TrimPrefix(r.URL.Path, "/api/"),
		Query:     r.URL.Query(),
	}
	if r.Method == http.MethodPost {
		_ = json.NewDecoder(r.Body).Decode(&req.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	body, ok := f.responses[req.Procedure]
	f.mu.Unlock()

	if !ok {
		body = "{}"
	}
	_, _ = w.Write([]byte(body))
}

// respond sets the JSON body returned for a procedure.
func (f *fakeDokploy) respond(procedure, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[procedure] = body
}

// calls returns the recorded requests for one procedure.
func (f *fakeDokploy) calls(procedure string) []fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeRequest
	for _, req := range f.requests {
		if req.Procedure == procedure {
			out = append(out, req)
		}
	}
	return out
}

// mutations returns every recorded POST.
func (f *fakeDokploy) mutations() []fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeRequest
	for _, req := range f.requests {
		if req.Method == http.MethodPost {
			out = append(out, req)
		}
	}
	return out
}

func (f *fakeDokploy) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// newGatewayServer builds a Server against the fake platform. lockedProject
// configures the project lock; empty disables it.
func newGatewayServer(t *testing.T, lockedProject string) (*Server, *fakeDokploy) {
	t.Helper()
	f := newFakeDokploy(t)
	client := dokploy.NewClient(dokploy.Config{
		BaseURL: f.server.URL,
		APIKey:  testAPIKey,
		Timeout: 5 * time.Second,
	})
	gate := scope.NewGate(scope.Config{ProjectID: lockedProject}, client)
	s, err := NewServer(client, gate, nil, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s, f
}

// lockedProjectPayload is the directory answer for the locked project used
// across the lock tests: two environments, env-a and env-b.
const lockedProjectPayload = `{
	"projectId": "proj-locked",
	"name": "locked-project",
	"environments": [
		{"environmentId": "env-a", "name": "production"},
		{"environmentId": "env-b", "name": "staging"}
	]
}`

func resultText(t *testing.T, result *mcp_sdk.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(*mcp_sdk.TextContent)
	if !ok {
		t.Fatalf("content[0] = %T, want *mcp.TextContent", result.Content[0])
	}
	return tc.Text
}
