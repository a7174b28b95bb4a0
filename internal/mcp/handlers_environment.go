package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
)

// Environment Handlers

type CreateEnvironmentParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ProjectID   string `json:"projectId"`
}

func (s *Server) createEnvironment(ctx context.Context, params *CreateEnvironmentParams) (*mcp_sdk.CallToolResult, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if params.ProjectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}

	logger.Info("Creating environment '%s' in project %s", params.Name, params.ProjectID)

	var payload json.RawMessage
	if err := s.client.Post(ctx, "environment.create", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Environment '%s' created in project %s", params.Name, params.ProjectID), payload), nil
}

type GetEnvironmentParams struct {
	EnvironmentID string `json:"environmentId"`
}

func (s *Server) getEnvironment(ctx context.Context, params *GetEnvironmentParams) (*mcp_sdk.CallToolResult, error) {
	if params.EnvironmentID == "" {
		return nil, fmt.Errorf("environmentId is required")
	}

	query := url.Values{"environmentId": []string{params.EnvironmentID}}
	var payload json.RawMessage
	if err := s.client.Get(ctx, "environment.one", query, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("Environment %s", params.EnvironmentID), payload), nil
}

type ListEnvironmentsParams struct {
	ProjectID string `json:"projectId"`
}

func (s *Server) listEnvironments(ctx context.Context, params *ListEnvironmentsParams) (*mcp_sdk.CallToolResult, error) {
	if params.ProjectID == "" {
		return nil, fmt.Errorf("projectId is required")
	}

	query := url.Values{"projectId": []string{params.ProjectID}}
	var payload json.RawMessage
	if err := s.client.Get(ctx, "environment.byProjectId", query, &payload); err != nil {
		return nil, err
	}

	count := countItems(payload)
	if count == 0 {
		return NewTextResult(fmt.Sprintf("No environments found in project %s", params.ProjectID)), nil
	}
	return jsonResult(fmt.Sprintf("Found %d environment(s) in project %s", count, params.ProjectID), payload), nil
}

type UpdateEnvironmentParams struct {
	EnvironmentID string `json:"environmentId"`
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
}

func (s *Server) updateEnvironment(ctx context.Context, params *UpdateEnvironmentParams) (*mcp_sdk.CallToolResult, error) {
	if params.EnvironmentID == "" {
		return nil, fmt.Errorf("environmentId is required")
	}

	var payload json.RawMessage
	if err := s.client.Post(ctx, "environment.update", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Environment %s updated", params.EnvironmentID), payload), nil
}

type RemoveEnvironmentParams struct {
	EnvironmentID string `json:"environmentId"`
}

func (s *Server) removeEnvironment(ctx context.Context, params *RemoveEnvironmentParams) (*mcp_sdk.CallToolResult, error) {
	if params.EnvironmentID == "" {
		return nil, fmt.Errorf("environmentId is required")
	}

	logger.Info("Removing environment: %s", params.EnvironmentID)

	if err := s.client.Post(ctx, "environment.remove", params, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Environment %s removed", params.EnvironmentID)), nil
}
