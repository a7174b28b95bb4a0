package mcp

import (
	"context"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// ProjectParams is the unified params struct for the project tool
type ProjectParams struct {
	Action string `json:"action" jsonschema:"The operation to perform: create, get, list, update, remove, or duplicate"`

	ProjectID string `json:"projectId,omitempty" jsonschema:"Project id (get, update, remove, duplicate; injected automatically when the server is locked to a project)"`

	// For create, update, duplicate
	Name        string `json:"name,omitempty" jsonschema:"Project name (required for create)"`
	Description string `json:"description,omitempty" jsonschema:"Project description"`

	// For duplicate
	IncludeServices bool `json:"includeServices,omitempty" jsonschema:"Copy the source project's services into the duplicate"`
}

var projectActions = []string{"create", "get", "list", "update", "remove", "duplicate"}

func (p *ProjectParams) scopeFields() scope.Fields {
	return scope.Fields{Project: &p.ProjectID}
}

// handleProject is the unified handler for the project tool
func (s *Server) handleProject(ctx context.Context, request *mcp_sdk.CallToolRequest, params ProjectParams) (*mcp_sdk.CallToolResult, any, error) {
	if v := s.gate.Enforce(ctx, params.scopeFields()); v != nil {
		return s.deny("project", params.Action, v)
	}
	if params.Action == "" {
		return nil, nil, missingActionError("project", projectActions)
	}

	var (
		result *mcp_sdk.CallToolResult
		err    error
	)
	switch params.Action {
	case "create":
		result, err = s.createProject(ctx, &CreateProjectParams{
			Name:        params.Name,
			Description: params.Description,
		})
	case "get":
		result, err = s.getProject(ctx, &GetProjectParams{ProjectID: params.ProjectID})
	case "list":
		result, err = s.listProjects(ctx)
	case "update":
		result, err = s.updateProject(ctx, &UpdateProjectParams{
			ProjectID:   params.ProjectID,
			Name:        params.Name,
			Description: params.Description,
		})
	case "remove":
		result, err = s.removeProject(ctx, &RemoveProjectParams{ProjectID: params.ProjectID})
	case "duplicate":
		result, err = s.duplicateProject(ctx, &DuplicateProjectParams{
			ProjectID:       params.ProjectID,
			Name:            params.Name,
			Description:     params.Description,
			IncludeServices: params.IncludeServices,
		})
	default:
		return nil, nil, actionError("project", params.Action, projectActions)
	}

	return s.finish("project", params.Action, params.ProjectID, result, err)
}
