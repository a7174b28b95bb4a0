package mcp

import (
	"context"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// EnvironmentParams is the unified params struct for the environment tool
type EnvironmentParams struct {
	Action string `json:"action" jsonschema:"The operation to perform: create, get, list, update, or remove"`

	EnvironmentID string `json:"environmentId,omitempty" jsonschema:"Environment id (get, update, remove)"`
	ProjectID     string `json:"projectId,omitempty" jsonschema:"Owning project id (create, list; injected automatically when the server is locked to a project)"`

	// For create, update
	Name        string `json:"name,omitempty" jsonschema:"Environment name (required for create)"`
	Description string `json:"description,omitempty" jsonschema:"Environment description"`
}

var environmentActions = []string{"create", "get", "list", "update", "remove"}

func (p *EnvironmentParams) scopeFields() scope.Fields {
	return scope.Fields{
		Project:     &p.ProjectID,
		Environment: p.EnvironmentID,
	}
}

// handleEnvironment is the unified handler for the environment tool
func (s *Server) handleEnvironment(ctx context.Context, request *mcp_sdk.CallToolRequest, params EnvironmentParams) (*mcp_sdk.CallToolResult, any, error) {
	if v := s.gate.Enforce(ctx, params.scopeFields()); v != nil {
		return s.deny("environment", params.Action, v)
	}
	if params.Action == "" {
		return nil, nil, missingActionError("environment", environmentActions)
	}

	var (
		result *mcp_sdk.CallToolResult
		err    error
	)
	switch params.Action {
	case "create":
		result, err = s.createEnvironment(ctx, &CreateEnvironmentParams{
			Name:        params.Name,
			Description: params.Description,
			ProjectID:   params.ProjectID,
		})
	case "get":
		result, err = s.getEnvironment(ctx, &GetEnvironmentParams{EnvironmentID: params.EnvironmentID})
	case "list":
		result, err = s.listEnvironments(ctx, &ListEnvironmentsParams{ProjectID: params.ProjectID})
	case "update":
		result, err = s.updateEnvironment(ctx, &UpdateEnvironmentParams{
			EnvironmentID: params.EnvironmentID,
			Name:          params.Name,
			Description:   params.Description,
		})
	case "remove":
		result, err = s.removeEnvironment(ctx, &RemoveEnvironmentParams{EnvironmentID: params.EnvironmentID})
	default:
		return nil, nil, actionError("environment", params.Action, environmentActions)
	}

	return s.finish("environment", params.Action, params.ProjectID, result, err)
}
