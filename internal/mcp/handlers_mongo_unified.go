package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// MongoParams is the unified params struct for the mongodb tool
type MongoParams struct {
	Action string `json:"action" jsonschema:"The operation to perform: create, get, update, remove, deploy, start, stop, reload, rebuild, or move"`

	MongoID string `json:"mongoId,omitempty" jsonschema:"Database id (all actions except create)"`

	// For create, update. MongoDB has no initial database name; collections
	// are created on first use.
	Name             string `json:"name,omitempty" jsonschema:"Display name (required for create)"`
	AppName          string `json:"appName,omitempty" jsonschema:"Internal app name used by the container runtime (create, reload)"`
	DatabaseUser     string `json:"databaseUser,omitempty" jsonschema:"Database user (create)"`
	DatabasePassword string `json:"databasePassword,omitempty" jsonschema:"Database password (create)"`
	ReplicaSets      bool   `json:"replicaSets,omitempty" jsonschema:"Enable replica sets (create)"`
	Description      string `json:"description,omitempty" jsonschema:"Description"`
	DockerImage      string `json:"dockerImage,omitempty" jsonschema:"Docker image reference, e.g. mongo:7"`
	Env              string `json:"env,omitempty" jsonschema:"Environment variables in KEY=value lines (update)"`

	// Scoping
	ProjectID           string `json:"projectId,omitempty" jsonschema:"Owning project id (injected automatically when the server is locked to a project)"`
	EnvironmentID       string `json:"environmentId,omitempty" jsonschema:"Owning environment id (required for create)"`
	TargetEnvironmentID string `json:"targetEnvironmentId,omitempty" jsonschema:"Destination environment id (required for move)"`
}

func (p *MongoParams) scopeFields() scope.Fields {
	return scope.Fields{
		Project:           &p.ProjectID,
		Environment:       p.EnvironmentID,
		TargetEnvironment: p.TargetEnvironmentID,
	}
}

type CreateMongoParams struct {
	Name             string `json:"name"`
	AppName          string `json:"appName,omitempty"`
	DatabaseUser     string `json:"databaseUser,omitempty"`
	DatabasePassword string `json:"databasePassword,omitempty"`
	ReplicaSets      bool   `json:"replicaSets,omitempty"`
	Description      string `json:"description,omitempty"`
	DockerImage      string `json:"dockerImage,omitempty"`
	EnvironmentID    string `json:"environmentId"`
}

func (s *Server) createMongo(ctx context.Context, params *CreateMongoParams) (*mcp_sdk.CallToolResult, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if params.EnvironmentID == "" {
		return nil, fmt.Errorf("environmentId is required")
	}

	logger.Info("Creating MongoDB database '%s' in environment %s", params.Name, params.EnvironmentID)

	var payload json.RawMessage
	if err := s.client.Post(ctx, "mongo.create", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ MongoDB database '%s' created in environment %s", params.Name, params.EnvironmentID), payload), nil
}

// handleMongo is the unified handler for the mongodb tool
func (s *Server) handleMongo(ctx context.Context, request *mcp_sdk.CallToolRequest, params MongoParams) (*mcp_sdk.CallToolResult, any, error) {
	if v := s.gate.Enforce(ctx, params.scopeFields()); v != nil {
		return s.deny(mongoKind.tool, params.Action, v)
	}
	if params.Action == "" {
		return nil, nil, missingActionError(mongoKind.tool, databaseActions)
	}

	var (
		result *mcp_sdk.CallToolResult
		err    error
	)
	switch params.Action {
	case "create":
		result, err = s.createMongo(ctx, &CreateMongoParams{
			Name:             params.Name,
			AppName:          params.AppName,
			DatabaseUser:     params.DatabaseUser,
			DatabasePassword: params.DatabasePassword,
			ReplicaSets:      params.ReplicaSets,
			Description:      params.Description,
			DockerImage:      params.DockerImage,
			EnvironmentID:    params.EnvironmentID,
		})
	case "get":
		result, err = s.databaseGet(ctx, mongoKind, params.MongoID)
	case "update":
		result, err = s.databaseUpdate(ctx, mongoKind, &UpdateDatabaseParams{
			ID:          params.MongoID,
			Name:        params.Name,
			Description: params.Description,
			DockerImage: params.DockerImage,
			Env:         params.Env,
		})
	case "remove":
		result, err = s.databaseRemove(ctx, mongoKind, params.MongoID)
	case "deploy":
		result, err = s.databaseDeploy(ctx, mongoKind, params.MongoID)
	case "start":
		result, err = s.databaseStart(ctx, mongoKind, params.MongoID)
	case "stop":
		result, err = s.databaseStop(ctx, mongoKind, params.MongoID)
	case "reload":
		result, err = s.databaseReload(ctx, mongoKind, params.MongoID, params.AppName)
	case "rebuild":
		result, err = s.databaseRebuild(ctx, mongoKind, params.MongoID)
	case "move":
		result, err = s.databaseMove(ctx, mongoKind, params.MongoID, params.TargetEnvironmentID)
	default:
		return nil, nil, actionError(mongoKind.tool, params.Action, databaseActions)
	}

	return s.finish(mongoKind.tool, params.Action, params.ProjectID, result, err)
}
