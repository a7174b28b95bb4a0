package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// MySQLParams is the unified params struct for the mysql tool
type MySQLParams struct {
	Action string `json:"action" jsonschema:"The operation to perform: create, get, update, remove, deploy, start, stop, reload, rebuild, or move"`

	MySQLID string `json:"mysqlId,omitempty" jsonschema:"Database id (all actions except create)"`

	// For create, update
	Name                 string `json:"name,omitempty" jsonschema:"Display name (required for create)"`
	AppName              string `json:"appName,omitempty" jsonschema:"Internal app name used by the container runtime (create, reload)"`
	DatabaseName         string `json:"databaseName,omitempty" jsonschema:"Name of the initial database (create)"`
	DatabaseUser         string `json:"databaseUser,omitempty" jsonschema:"Database user (create)"`
	DatabasePassword     string `json:"databasePassword,omitempty" jsonschema:"Database password (create)"`
	DatabaseRootPassword string `json:"databaseRootPassword,omitempty" jsonschema:"Root password (create)"`
	Description          string `json:"description,omitempty" jsonschema:"Description"`
	DockerImage          string `json:"dockerImage,omitempty" jsonschema:"Docker image reference, e.g. mysql:8"`
	Env                  string `json:"env,omitempty" jsonschema:"Environment variables in KEY=value lines (update)"`

	// Scoping
	ProjectID           string `json:"projectId,omitempty" jsonschema:"Owning project id (injected automatically when the server is locked to a project)"`
	EnvironmentID       string `json:"environmentId,omitempty" jsonschema:"Owning environment id (required for create)"`
	TargetEnvironmentID string `json:"targetEnvironmentId,omitempty" jsonschema:"Destination environment id (required for move)"`
}

func (p *MySQLParams) scopeFields() scope.Fields {
	return scope.Fields{
		Project:           &p.ProjectID,
		Environment:       p.EnvironmentID,
		TargetEnvironment: p.TargetEnvironmentID,
	}
}

type CreateMySQLParams struct {
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

func (s *Server) createMySQL(ctx context.Context, params *CreateMySQLParams) (*mcp_sdk.CallToolResult, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if params.EnvironmentID == "" {
		return nil, fmt.Errorf("environmentId is required")
	}

	logger.Info("Creating MySQL database '%s' in environment %s", params.Name, params.EnvironmentID)

	var payload json.RawMessage
	if err := s.client.Post(ctx, "mysql.create", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ MySQL database '%s' created in environment %s", params.Name, params.EnvironmentID), payload), nil
}

// handleMySQL is the unified handler for the mysql tool
func (s *Server) handleMySQL(ctx context.Context, request *mcp_sdk.CallToolRequest, params MySQLParams) (*mcp_sdk.CallToolResult, any, error) {
	if v := s.gate.Enforce(ctx, params.scopeFields()); v != nil {
		return s.deny(mysqlKind.tool, params.Action, v)
	}
	if params.Action == "" {
		return nil, nil, missingActionError(mysqlKind.tool, databaseActions)
	}

	var (
		result *mcp_sdk.CallToolResult
		err    error
	)
	switch params.Action {
	case "create":
		result, err = s.createMySQL(ctx, &CreateMySQLParams{
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
		result, err = s.databaseGet(ctx, mysqlKind, params.MySQLID)
	case "update":
		result, err = s.databaseUpdate(ctx, mysqlKind, &UpdateDatabaseParams{
			ID:          params.MySQLID,
			Name:        params.Name,
			Description: params.Description,
			DockerImage: params.DockerImage,
			Env:         params.Env,
		})
	case "remove":
		result, err = s.databaseRemove(ctx, mysqlKind, params.MySQLID)
	case "deploy":
		result, err = s.databaseDeploy(ctx, mysqlKind, params.MySQLID)
	case "start":
		result, err = s.databaseStart(ctx, mysqlKind, params.MySQLID)
	case "stop":
		result, err = s.databaseStop(ctx, mysqlKind, params.MySQLID)
	case "reload":
		result, err = s.databaseReload(ctx, mysqlKind, params.MySQLID, params.AppName)
	case "rebuild":
		result, err = s.databaseRebuild(ctx, mysqlKind, params.MySQLID)
	case "move":
		result, err = s.databaseMove(ctx, mysqlKind, params.MySQLID, params.TargetEnvironmentID)
	default:
		return nil, nil, actionError(mysqlKind.tool, params.Action, databaseActions)
	}

	return s.finish(mysqlKind.tool, params.Action, params.ProjectID, result, err)
}
