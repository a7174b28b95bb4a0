package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
)

// Project Handlers

type CreateProjectParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (s *Server) createProject(ctx context.Context, params *CreateProjectParams) (*mcp_sdk.CallToolResult, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	logger.Info("Creating project: %s", params.Name)

	var payload json.RawMessage
	if err := s.client.Post(ctx, "project.create", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Project '%s' created", params.Name), payload), nil
}

type GetProjectParams struct {
	ProjectID string `json:"projectId"`
}

func (s *Server) getProject(ctx context.Context, params *GetProjectParams) (*mcp_sdk.CallToolResult, error) {
	if params.ProjectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}

	query := url.Values{"projectId": []string{params.ProjectID}}
	var payload json.RawMessage
	if err := s.client.Get(ctx, "project.one", query, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("Project %s", params.ProjectID), payload), nil
}

func (s *Server) listProjects(ctx context.Context) (*mcp_sdk.CallToolResult, error) {
	var payload json.RawMessage
	if err := s.client.Get(ctx, "project.all", nil, &payload); err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err == nil && len(items) == 0 {
		return NewTextResult("No projects found"), nil
	}
	return jsonResult(fmt.Sprintf("Found %d project(s)", countItems(payload)), payload), nil
}

type UpdateProjectParams struct {
	ProjectID   string `json:"projectId"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s *Server) updateProject(ctx context.Context, params *UpdateProjectParams) (*mcp_sdk.CallToolResult, error) {
	if params.ProjectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}

	var payload json.RawMessage
	if err := s.client.Post(ctx, "project.update", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Project %s updated", params.ProjectID), payload), nil
}

type RemoveProjectParams struct {
	ProjectID string `json:"projectId"`
}

func (s *Server) removeProject(ctx context.Context, params *RemoveProjectParams) (*mcp_sdk.CallToolResult, error) {
	if params.ProjectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}

	logger.Info("Removing project: %s", params.ProjectID)

	if err := s.client.Post(ctx, "project.remove", params, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Project %s removed", params.ProjectID)), nil
}

type DuplicateProjectParams struct {
	ProjectID       string `json:"projectId"`
	Name            string `json:"name,omitempty"`
	Description     string `json:"description,omitempty"`
	IncludeServices bool   `json:"includeServices,omitempty"`
}

func (s *Server) duplicateProject(ctx context.Context, params *DuplicateProjectParams) (*mcp_sdk.CallToolResult, error) {
	if params.ProjectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}

	var payload json.RawMessage
	if err := s.client.Post(ctx, "project.duplicate", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Project %s duplicated", params.ProjectID), payload), nil
}

// countItems reports the element count of a JSON array payload, 0 when the
// payload is not an array.
func countItems(payload json.RawMessage) int {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return 0
	}
	return len(items)
}
