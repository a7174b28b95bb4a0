package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// RedisParams is the unified params struct for the redis tool
type RedisParams struct {
	Action string `json:"action" jsonschema:"The operation to perform: create, get, update, remove, deploy, start, stop, reload, rebuild, or move"`

	RedisID string `json:"redisId,omitempty" jsonschema:"Database id (all actions except create)"`

	// For create, update. Redis has no database name or user.
	Name             string `json:"name,omitempty" jsonschema:"Display name (required for create)"`
	AppName          string `json:"appName,omitempty" jsonschema:"Internal app name used by the container runtime (create, reload)"`
	DatabasePassword string `json:"databasePassword,omitempty" jsonschema:"Redis password (create)"`
	Description      string `json:"description,omitempty" jsonschema:"Description"`
	DockerImage      string `json:"dockerImage,omitempty" jsonschema:"Docker image reference, e.g. redis:7"`
	Env              string `json:"env,omitempty" jsonschema:"Environment variables in KEY=value lines (update)"`

	// Scoping
	ProjectID           string `json:"projectId,omitempty" jsonschema:"Owning project id (injected automatically when the server is locked to a project)"`
	EnvironmentID       string `json:"environmentId,omitempty" jsonschema:"Owning environment id (required for create)"`
	TargetEnvironmentID string `json:"targetEnvironmentId,omitempty" jsonschema:"Destination environment id (required for move)"`
}

func (p *RedisParams) scopeFields() scope.Fields {
	return scope.Fields{
		Project:           &p.ProjectID,
		Environment:       p.EnvironmentID,
		TargetEnvironment: p.TargetEnvironmentID,
	}
}

type CreateRedisParams struct {
	Name             string `json:"name"`
	AppName          string `json:"appName,omitempty"`
	DatabasePassword string `json:"databasePassword,omitempty"`
	Description      string `json:"description,omitempty"`
	DockerImage      string `json:"dockerImage,omitempty"`
	EnvironmentID    string `json:"environmentId"`
}

func (s *Server) createRedis(ctx context.Context, params *CreateRedisParams) (*mcp_sdk.CallToolResult, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if params.EnvironmentID == "" {
		return nil, fmt.Errorf("environmentId is required")
	}

	logger.Info("Creating Redis database '%s' in environment %s", params.Name, params.EnvironmentID)

	var payload json.RawMessage
	if err := s.client.Post(ctx, "redis.create", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Redis database '%s' created in environment %s", params.Name, params.EnvironmentID), payload), nil
}

// handleRedis is the unified handler for the redis tool
func (s *Server) handleRedis(ctx context.Context, request *mcp_sdk.CallToolRequest, params RedisParams) (*mcp_sdk.CallToolResult, any, error) {
	if v := s.gate.Enforce(ctx, params.scopeFields()); v != nil {
		return s.deny(redisKind.tool, params.Action, v)
	}
	if params.Action == "" {
		return nil, nil, missingActionError(redisKind.tool, databaseActions)
	}

	var (
		result *mcp_sdk.CallToolResult
		err    error
	)
	switch params.Action {
	case "create":
		result, err = s.createRedis(ctx, &CreateRedisParams{
			Name:             params.Name,
			AppName:          params.AppName,
			DatabasePassword: params.DatabasePassword,
			Description:      params.Description,
			DockerImage:      params.DockerImage,
			EnvironmentID:    params.EnvironmentID,
		})
	case "get":
		result, err = s.databaseGet(ctx, redisKind, params.RedisID)
	case "update":
		result, err = s.databaseUpdate(ctx, redisKind, &UpdateDatabaseParams{
			ID:          params.RedisID,
			Name:        params.Name,
			Description: params.Description,
			DockerImage: params.DockerImage,
			Env:         params.Env,
		})
	case "remove":
		result, err = s.databaseRemove(ctx, redisKind, params.RedisID)
	case "deploy":
		result, err = s.databaseDeploy(ctx, redisKind, params.RedisID)
	case "start":
		result, err = s.databaseStart(ctx, redisKind, params.RedisID)
	case "stop":
		result, err = s.databaseStop(ctx, redisKind, params.RedisID)
	case "reload":
		result, err = s.databaseReload(ctx, redisKind, params.RedisID, params.AppName)
	case "rebuild":
		result, err = s.databaseRebuild(ctx, redisKind, params.RedisID)
	case "move":
		result, err = s.databaseMove(ctx, redisKind, params.RedisID, params.TargetEnvironmentID)
	default:
		return nil, nil, actionError(redisKind.tool, params.Action, databaseActions)
	}

	return s.finish(redisKind.tool, params.Action, params.ProjectID, result, err)
}
