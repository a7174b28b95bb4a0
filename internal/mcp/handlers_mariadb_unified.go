package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// MariaDBParams is the unified params struct for the mariadb tool
type MariaDBParams struct {
	Action string `json:"action" jsonschema:"The operation to perform: create, get, update, remove, deploy, start, stop, reload, rebuild, or move"`

	MariaDBID string `json:"mariadbId,omitempty" jsonschema:"Database id (all actions except create)"`

	// For create, update
	Name                 string `json:"name,omitempty" jsonschema:"Display name (required for create)"`
	AppName              string `json:"appName,omitempty" jsonschema:"Internal app name used by the container runtime (create, reload)"`
	DatabaseName         string `json:"databaseName,omitempty" jsonschema:"Name of the initial database (create)"`
	DatabaseUser         string `json:"databaseUser,omitempty" jsonschema:"Database user (create)"`
	DatabasePassword     string `json:"databasePassword,omitempty" jsonschema:"Database password (create)"`
	DatabaseRootPassword string `json:"databaseRootPassword,omitempty" jsonschema:"Root password (create)"`
	Description          string `json:"description,omitempty" jsonschema:"Description"`
	DockerImage          string `json:"dockerImage,omitempty" jsonschema:"Docker image reference, e.g. mariadb:11"`
	Env                  string `json:"env,omitempty" jsonschema:"Environment variables in KEY=value lines (update)"`

	// Scoping
	ProjectID           string `json:"projectId,omitempty" jsonschema:"Owning project id (injected automatically when the server is locked to a project)"`
	EnvironmentID       string `json:"environmentId,omitempty" jsonschema:"Owning environment id (required for create)"`
	TargetEnvironmentID string `json:"targetEnvironmentId,omitempty" jsonschema:"Destination environment id (required for move)"`
}

func (p *MariaDBParams) scopeFields() scope.Fields {
	return scope.Fields{
		Project:           &p.ProjectID,
		Environment:       p.EnvironmentID,
		TargetEnvironment: p.TargetEnvironmentID,
	}
}

type CreateMariaDBParams struct {
	Name                 string `json:"name"`
	AppName              string `json:"appName,omitempty"`
	DatabaseName         string `json:"databaseName,omitempty"`
	DatabaseUser         string `json:"databaseUser,omitempty"`
	DatabasePassword     string `json:"databasePassword,omitempty"`
	DatabaseRootPassword string `json:"databaseRootPassword,omitempty"`
	Description          string `json:"description,omitempty"`
	DockerImage          string `json:"dockerImage,omitempty"`
	EnvironmentID        string `json:"environmentId"`
}

func (s *Server) createMariaDB(ctx context.Context, params *CreateMariaDBParams) (*mcp_sdk.CallToolResult, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if params.EnvironmentID == "" {
		return nil, fmt.Errorf("environmentId is required")
	}

	logger.Info("Creating MariaDB database '%s' in environment %s", params.Name, params.EnvironmentID)

	var payload json.RawMessage
	if err := s.client.Post(ctx, "mariadb.create", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ MariaDB database '%s' created in environment %s", params.Name, params.EnvironmentID), payload), nil
}

// handleMariaDB is the unified handler for the mariadb tool
func (s *Server) handleMariaDB(ctx context.Context, request *mcp_sdk.CallToolRequest, params MariaDBParams) (*mcp_sdk.CallToolResult, any, error) {
	if v := s.gate.Enforce(ctx, params.scopeFields()); v != nil {
		return s.deny(mariadbKind.tool, params.Action, v)
	}
	if params.Action == "" {
		return nil, nil, missingActionError(mariadbKind.tool, databaseActions)
	}

	var (
		result *mcp_sdk.CallToolResult
		err    error
	)
	switch params.Action {
	case "create":
		result, err = s.createMariaDB(ctx, &CreateMariaDBParams{
			Name:                 params.Name,
			AppName:              params.AppName,
			DatabaseName:         params.DatabaseName,
			DatabaseUser:         params.DatabaseUser,
			DatabasePassword:     params.DatabasePassword,
			DatabaseRootPassword: params.DatabaseRootPassword,
			Description:          params.Description,
			DockerImage:          params.DockerImage,
			EnvironmentID:        params.EnvironmentID,
		})
	case "get":
		result, err = s.databaseGet(ctx, mariadbKind, params.MariaDBID)
	case "update":
		result, err = s.databaseUpdate(ctx, mariadbKind, &UpdateDatabaseParams{
			ID:          params.MariaDBID,
			Name:        params.Name,
			Description: params.Description,
			DockerImage: params.DockerImage,
			Env:         params.Env,
		})
	case "remove":
		result, err = s.databaseRemove(ctx, mariadbKind, params.MariaDBID)
	case "deploy":
		result, err = s.databaseDeploy(ctx, mariadbKind, params.MariaDBID)
	case "start":
		result, err = s.databaseStart(ctx, mariadbKind, params.MariaDBID)
	case "stop":
		result, err = s.databaseStop(ctx, mariadbKind, params.MariaDBID)
	case "reload":
		result, err = s.databaseReload(ctx, mariadbKind, params.MariaDBID, params.AppName)
	case "rebuild":
		result, err = s.databaseRebuild(ctx, mariadbKind, params.MariaDBID)
	case "move":
		result, err = s.databaseMove(ctx, mariadbKind, params.MariaDBID, params.TargetEnvironmentID)
	default:
		return nil, nil, actionError(mariadbKind.tool, params.Action, databaseActions)
	}

	return s.finish(mariadbKind.tool, params.Action, params.ProjectID, result, err)
}
