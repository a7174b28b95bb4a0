package mcp

import (
	"context"
	"strings"
	"testing"
)

func TestHandleProject_MissingAction(t *testing.T) {
	s, f := newGatewayServer(t, "")

	_, _, err := s.handleProject(context.Background(), nil, ProjectParams{})
	if err == nil {
		t.Fatal("expected error for missing action")
	}
	want := "action parameter is required for project tool; valid actions: create, get, list, update, remove, duplicate"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if f.requestCount() != 0 {
		t.Errorf("platform requests = %d, want 0", f.requestCount())
	}
}

func TestHandleProject_UnknownAction(t *testing.T) {
	s, f := newGatewayServer(t, "")

	_, _, err := s.handleProject(context.Background(), nil, ProjectParams{Action: "teleport"})
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
	if !strings.Contains(err.Error(), "unknown action 'teleport' for project tool") {
		t.Errorf("error = %q, want unknown action message", err.Error())
	}
	if f.requestCount() != 0 {
		t.Errorf("platform requests = %d, want 0", f.requestCount())
	}
}

func TestHandleProject_Get(t *testing.T) {
	s, f := newGatewayServer(t, "")
	f.respond("project.one", `{"projectId":"proj-1","name":"alpha"}`)

	result, _, err := s.handleProject(context.Background(), nil, ProjectParams{
		Action:    "get",
		ProjectID: "proj-1",
	})
	if err != nil {
		t.Fatalf("handleProject() error = %v", err)
	}

	calls := f.calls("project.one")
	if len(calls) != 1 {
		t.Fatalf("project.one calls = %d, want 1", len(calls))
	}
	if got := calls[0].Query.Get("projectId"); got != "proj-1" {
		t.Errorf("projectId query = %q, want %q", got, "proj-1")
	}
	if text := resultText(t, result); !strings.Contains(text, "alpha") {
		t.Errorf("result text = %q, want project payload", text)
	}
}

func TestHandleProject_GetRequiresProjectID(t *testing.T) {
	s, f := newGatewayServer(t, "")

	_, _, err := s.handleProject(context.Background(), nil, ProjectParams{Action: "get"})
	if err == nil {
		t.Fatal("expected error for missing projectId")
	}
	want := "project get failed: projectId is required"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if f.requestCount() != 0 {
		t.Errorf("platform requests = %d, want 0", f.requestCount())
	}
}

func TestHandleProject_Create(t *testing.T) {
	s, f := newGatewayServer(t, "")
	f.respond("project.create", `{"projectId":"proj-new"}`)

	result, _, err := s.handleProject(context.Background(), nil, ProjectParams{
		Action:      "create",
		Name:        "shiny",
		Description: "a new project",
	})
	if err != nil {
		t.Fatalf("handleProject() error = %v", err)
	}

	calls := f.calls("project.create")
	if len(calls) != 1 {
		t.Fatalf("project.create calls = %d, want 1", len(calls))
	}
	if got := calls[0].Body["name"]; got != "shiny" {
		t.Errorf("body name = %v, want %q", got, "shiny")
	}
	if got := calls[0].Body["description"]; got != "a new project" {
		t.Errorf("body description = %v, want %q", got, "a new project")
	}
	if text := resultText(t, result); !strings.Contains(text, "✅ Project 'shiny' created") {
		t.Errorf("result text = %q, want creation confirmation", text)
	}
}

func TestHandleProject_CreateRequiresName(t *testing.T) {
	s, f := newGatewayServer(t, "")

	_, _, err := s.handleProject(context.Background(), nil, ProjectParams{Action: "create"})
	if err == nil {
		t.Fatal("expected error for missing name")
	}
	want := "project create failed: name is required"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if len(f.mutations()) != 0 {
		t.Errorf("mutations = %d, want 0", len(f.mutations()))
	}
}

func TestHandleProject_ListEmpty(t *testing.T) {
	s, f := newGatewayServer(t, "")
	f.respond("project.all", `[]`)

	result, _, err := s.handleProject(context.Background(), nil, ProjectParams{Action: "list"})
	if err != nil {
		t.Fatalf("handleProject() error = %v", err)
	}
	if text := resultText(t, result); text != "No projects found" {
		t.Errorf("result text = %q, want %q", text, "No projects found")
	}
}

func TestHandleProject_List(t *testing.T) {
	s, f := newGatewayServer(t, "")
	f.respond("project.all", `[{"projectId":"proj-1"},{"projectId":"proj-2"}]`)

	result, _, err := s.handleProject(context.Background(), nil, ProjectParams{Action: "list"})
	if err != nil {
		t.Fatalf("handleProject() error = %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Found 2 project(s)") {
		t.Errorf("result text = %q, want count header", text)
	}
}

func TestHandleProject_LockViolation(t *testing.T) {
	s, f := newGatewayServer(t, "proj-locked")

	_, _, err := s.handleProject(context.Background(), nil, ProjectParams{
		Action:    "update",
		ProjectID: "proj-other",
		Name:      "hijack",
	})
	if err == nil {
		t.Fatal("expected lock violation")
	}
	want := "lock violation: this server is locked to project proj-locked; project proj-other is not accessible"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	// The denial happens before dispatch: nothing reaches the platform,
	// not even a directory lookup (project checks are pure comparison).
	if f.requestCount() != 0 {
		t.Errorf("platform requests = %d, want 0", f.requestCount())
	}
}

func TestHandleProject_LockInjectsProjectID(t *testing.T) {
	s, f := newGatewayServer(t, "proj-locked")
	f.respond("project.one", lockedProjectPayload)

	_, _, err := s.handleProject(context.Background(), nil, ProjectParams{Action: "get"})
	if err != nil {
		t.Fatalf("handleProject() error = %v", err)
	}

	calls := f.calls("project.one")
	if len(calls) != 1 {
		t.Fatalf("project.one calls = %d, want 1", len(calls))
	}
	if got := calls[0].Query.Get("projectId"); got != "proj-locked" {
		t.Errorf("projectId query = %q, want injected %q", got, "proj-locked")
	}
}

func TestHandleProject_Remove(t *testing.T) {
	s, f := newGatewayServer(t, "")

	result, _, err := s.handleProject(context.Background(), nil, ProjectParams{
		Action:    "remove",
		ProjectID: "proj-1",
	})
	if err != nil {
		t.Fatalf("handleProject() error = %v", err)
	}

	calls := f.calls("project.remove")
	if len(calls) != 1 {
		t.Fatalf("project.remove calls = %d, want 1", len(calls))
	}
	if got := calls[0].Body["projectId"]; got != "proj-1" {
		t.Errorf("body projectId = %v, want %q", got, "proj-1")
	}
	if text := resultText(t, result); text != "✅ Project proj-1 removed" {
		t.Errorf("result text = %q, want removal confirmation", text)
	}
}

func TestHandleProject_Duplicate(t *testing.T) {
	s, f := newGatewayServer(t, "")
	f.respond("project.duplicate", `{"projectId":"proj-copy"}`)

	_, _, err := s.handleProject(context.Background(), nil, ProjectParams{
		Action:          "duplicate",
		ProjectID:       "proj-1",
		Name:            "copy",
		IncludeServices: true,
	})
	if err != nil {
		t.Fatalf("handleProject() error = %v", err)
	}

	calls := f.calls("project.duplicate")
	if len(calls) != 1 {
		t.Fatalf("project.duplicate calls = %d, want 1", len(calls))
	}
	if got := calls[0].Body["includeServices"]; got != true {
		t.Errorf("body includeServices = %v, want true", got)
	}
}
