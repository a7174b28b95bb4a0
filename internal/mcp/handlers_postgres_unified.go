package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// PostgresParams is the unified params struct for the postgresql tool
type PostgresParams struct {
	Action string `json:"action" jsonschema:"The operation to perform: create, get, update, remove, deploy, start, stop, reload, rebuild, or move"`

	PostgresID string `json:"postgresId,omitempty" jsonschema:"Database id (all actions except create)"`

	// For create, update
	Name             string `json:"name,omitempty" jsonschema:"Display name (required for create)"`
	AppName          string `json:"appName,omitempty" jsonschema:"Internal app name used by the container runtime (create, reload)"`
	DatabaseName     string `json:"databaseName,omitempty" jsonschema:"Name of the initial database (create)"`
	DatabaseUser     string `json:"databaseUser,omitempty" jsonschema:"Database user (create)"`
	DatabasePassword string `json:"databasePassword,omitempty" jsonschema:"Database password (create)"`
	Description      string `json:"description,omitempty" jsonschema:"Description"`
	DockerImage      string `json:"dockerImage,omitempty" jsonschema:"Docker image reference, e.g. postgres:16"`
	Env              string `json:"env,omitempty" jsonschema:"Environment variables in KEY=value lines (update)"`

	// Scoping
	ProjectID           string `json:"projectId,omitempty" jsonschema:"Owning project id (injected automatically when the server is locked to a project)"`
	EnvironmentID       string `json:"environmentId,omitempty" jsonschema:"Owning environment id (required for create)"`
	TargetEnvironmentID string `json:"targetEnvironmentId,omitempty" jsonschema:"Destination environment id (required for move)"`
}

var databaseActions = []string{
	"create", "get", "update", "remove",
	"deploy", "start", "stop", "reload", "rebuild",
	"move",
}

func (p *PostgresParams) scopeFields() scope.Fields {
	return scope.Fields{
		Project:           &p.ProjectID,
		Environment:       p.EnvironmentID,
		TargetEnvironment: p.TargetEnvironmentID,
	}
}

type CreatePostgresParams struct {
	Name             string `json:"name"`
	AppName          string `json:"appName,omitempty"`
	DatabaseName     string `json:"databaseName,omitempty"`
	DatabaseUser     string `json:"databaseUser,omitempty"`
	DatabasePassword string `json:"databasePassword,omitempty"`
	Description      string `json:"description,omitempty"`
	DockerImage      string `json:"dockerImage,omitempty"`
	EnvironmentID    string `json:"environmentId"`
}

func (s *Server) createPostgres(ctx context.Context, params *CreatePostgresParams) (*mcp_sdk.CallToolResult, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if params.EnvironmentID == "" {
		return nil, fmt.Errorf("environmentId is required")
	}

	logger.Info("Creating PostgreSQL database '%s' in environment %s", params.Name, params.EnvironmentID)

	var payload json.RawMessage
	if err := s.client.Post(ctx, "postgres.create", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ PostgreSQL database '%s' created in environment %s", params.Name, params.EnvironmentID), payload), nil
}

// handlePostgres is the unified handler for the postgresql tool
func (s *Server) handlePostgres(ctx context.Context, request *mcp_sdk.CallToolRequest, params PostgresParams) (*mcp_sdk.CallToolResult, any, error) {
	if v := s.gate.Enforce(ctx, params.scopeFields()); v != nil {
		return s.deny(postgresKind.tool, params.Action, v)
	}
	if params.Action == "" {
		return nil, nil, missingActionError(postgresKind.tool, databaseActions)
	}

	var (
		result *mcp_sdk.CallToolResult
		err    error
	)
	switch params.Action {
	case "create":
		result, err = s.createPostgres(ctx, &CreatePostgresParams{
			Name:             params.Name,
			AppName:          params.AppName,
			DatabaseName:     params.DatabaseName,
			DatabaseUser:     params.DatabaseUser,
			DatabasePassword: params.DatabasePassword,
			Description:      params.Description,
			DockerImage:      params.DockerImage,
			EnvironmentID:    params.EnvironmentID,
		})
	case "get":
		result, err = s.databaseGet(ctx, postgresKind, params.PostgresID)
	case "update":
		result, err = s.databaseUpdate(ctx, postgresKind, &UpdateDatabaseParams{
			ID:          params.PostgresID,
			Name:        params.Name,
			Description: params.Description,
			DockerImage: params.DockerImage,
			Env:         params.Env,
		})
	case "remove":
		result, err = s.databaseRemove(ctx, postgresKind, params.PostgresID)
	case "deploy":
		result, err = s.databaseDeploy(ctx, postgresKind, params.PostgresID)
	case "start":
		result, err = s.databaseStart(ctx, postgresKind, params.PostgresID)
	case "stop":
		result, err = s.databaseStop(ctx, postgresKind, params.PostgresID)
	case "reload":
		result, err = s.databaseReload(ctx, postgresKind, params.PostgresID, params.AppName)
	case "rebuild":
		result, err = s.databaseRebuild(ctx, postgresKind, params.PostgresID)
	case "move":
		result, err = s.databaseMove(ctx, postgresKind, params.PostgresID, params.TargetEnvironmentID)
	default:
		return nil, nil, actionError(postgresKind.tool, params.Action, databaseActions)
	}

	return s.finish(postgresKind.tool, params.Action, params.ProjectID, result, err)
}
