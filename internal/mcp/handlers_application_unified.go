package mcp

import (
	"context"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// ApplicationParams is the unified params struct for the application tool
type ApplicationParams struct {
	Action string `json:"action" jsonschema:"The operation to perform: create, get, update, delete, deploy, redeploy, start, stop, reload, move, or cleanQueues"`

	ApplicationID string `json:"applicationId,omitempty" jsonschema:"Application id (all actions except create)"`

	// For create, update
	Name        string `json:"name,omitempty" jsonschema:"Application display name (required for create)"`
	AppName     string `json:"appName,omitempty" jsonschema:"Internal app name used by the container runtime (create, reload)"`
	Description string `json:"description,omitempty" jsonschema:"Application description"`
	Env         string `json:"env,omitempty" jsonschema:"Environment variables in KEY=value lines (update)"`
	BuildType   string `json:"buildType,omitempty" jsonschema:"Build type, e.g. dockerfile, nixpacks, heroku_buildpacks (update)"`
	DockerImage string `json:"dockerImage,omitempty" jsonschema:"Docker image reference (update)"`
	Command     string `json:"command,omitempty" jsonschema:"Container start command override (update)"`

	// Scoping
	ProjectID           string `json:"projectId,omitempty" jsonschema:"Owning project id (injected automatically when the server is locked to a project)"`
	EnvironmentID       string `json:"environmentId,omitempty" jsonschema:"Owning environment id (required for create)"`
	TargetEnvironmentID string `json:"targetEnvironmentId,omitempty" jsonschema:"Destination environment id (required for move)"`
}

var applicationActions = []string{
	"create", "get", "update", "delete",
	"deploy", "redeploy", "start", "stop", "reload",
	"move", "cleanQueues",
}

func (p *ApplicationParams) scopeFields() scope.Fields {
	return scope.Fields{
		Project:           &p.ProjectID,
		Environment:       p.EnvironmentID,
		TargetEnvironment: p.TargetEnvironmentID,
	}
}

// handleApplication is the unified handler for the application tool
func (s *Server) handleApplication(ctx context.Context, request *mcp_sdk.CallToolRequest, params ApplicationParams) (*mcp_sdk.CallToolResult, any, error) {
	if v := s.gate.Enforce(ctx, params.scopeFields()); v != nil {
		return s.deny("application", params.Action, v)
	}
	if params.Action == "" {
		return nil, nil, missingActionError("application", applicationActions)
	}

	var (
		result *mcp_sdk.CallToolResult
		err    error
	)
	switch params.Action {
	case "create":
		result, err = s.createApplication(ctx, &CreateApplicationParams{
			Name:          params.Name,
			AppName:       params.AppName,
			Description:   params.Description,
			EnvironmentID: params.EnvironmentID,
		})
	case "get":
		result, err = s.getApplication(ctx, &GetApplicationParams{ApplicationID: params.ApplicationID})
	case "update":
		result, err = s.updateApplication(ctx, &UpdateApplicationParams{
			ApplicationID: params.ApplicationID,
			Name:          params.Name,
			Description:   params.Description,
			Env:           params.Env,
			BuildType:     params.BuildType,
			DockerImage:   params.DockerImage,
			Command:       params.Command,
		})
	case "delete":
		result, err = s.deleteApplication(ctx, &DeleteApplicationParams{ApplicationID: params.ApplicationID})
	case "deploy":
		result, err = s.deployApplication(ctx, &DeployApplicationParams{ApplicationID: params.ApplicationID})
	case "redeploy":
		result, err = s.redeployApplication(ctx, &DeployApplicationParams{ApplicationID: params.ApplicationID})
	case "start":
		result, err = s.startApplication(ctx, &DeployApplicationParams{ApplicationID: params.ApplicationID})
	case "stop":
		result, err = s.stopApplication(ctx, &DeployApplicationParams{ApplicationID: params.ApplicationID})
	case "reload":
		result, err = s.reloadApplication(ctx, &ReloadApplicationParams{
			ApplicationID: params.ApplicationID,
			AppName:       params.AppName,
		})
	case "move":
		result, err = s.moveApplication(ctx, &MoveApplicationParams{
			ApplicationID:       params.ApplicationID,
			TargetEnvironmentID: params.TargetEnvironmentID,
		})
	case "cleanQueues":
		result, err = s.cleanQueuesApplication(ctx, &DeployApplicationParams{ApplicationID: params.ApplicationID})
	default:
		return nil, nil, actionError("application", params.Action, applicationActions)
	}

	return s.finish("application", params.Action, params.ProjectID, result, err)
}
