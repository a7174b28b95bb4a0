package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
)

// databaseKind describes one database engine family. The Dokploy routers for
// the five engines are shape-identical apart from the router prefix and the
// id parameter name, so every action except create runs through the shared
// handlers below.
type databaseKind struct {
	tool    string // MCP tool name
	router  string // Dokploy API router prefix
	idParam string // id field name, e.g. "postgresId"
	label   string // human-readable label for result texts
}

var (
	postgresKind = databaseKind{tool: "postgresql", router: "postgres", idParam: "postgresId", label: "PostgreSQL database"}
	mysqlKind    = databaseKind{tool: "mysql", router: "mysql", idParam: "mysqlId", label: "MySQL database"}
	mariadbKind  = databaseKind{tool: "mariadb", router: "mariadb", idParam: "mariadbId", label: "MariaDB database"}
	mongoKind    = databaseKind{tool: "mongodb", router: "mongo", idParam: "mongoId", label: "MongoDB database"}
	redisKind    = databaseKind{tool: "redis", router: "redis", idParam: "redisId", label: "Redis database"}
)

func (k databaseKind) procedure(name string) string {
	return k.router + "." + name
}

// Shared database handlers. The id field name differs per engine, so request
// bodies are built with the kind's idParam as the key.

func (s *Server) databaseGet(ctx context.Context, kind databaseKind, id string) (*mcp_sdk.CallToolResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%s is required", kind.idParam)
	}

	query := url.Values{kind.idParam: []string{id}}
	var payload json.RawMessage
	if err := s.client.Get(ctx, kind.procedure("one"), query, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("%s %s", kind.label, id), payload), nil
}

type UpdateDatabaseParams struct {
	ID          string
	Name        string
	Description string
	DockerImage string
	Env         string
}

func (s *Server) databaseUpdate(ctx context.Context, kind databaseKind, params *UpdateDatabaseParams) (*mcp_sdk.CallToolResult, error) {
	if params.ID == "" {
		return nil, fmt.Errorf("%s is required", kind.idParam)
	}

	body := map[string]any{kind.idParam: params.ID}
	if params.Name != "" {
		body["name"] = params.Name
	}
	if params.Description != "" {
		body["description"] = params.Description
	}
	if params.DockerImage != "" {
		body["dockerImage"] = params.DockerImage
	}
	if params.Env != "" {
		body["env"] = params.Env
	}

	var payload json.RawMessage
	if err := s.client.Post(ctx, kind.procedure("update"), body, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ %s %s updated", kind.label, params.ID), payload), nil
}

func (s *Server) databaseRemove(ctx context.Context, kind databaseKind, id string) (*mcp_sdk.CallToolResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%s is required", kind.idParam)
	}

	logger.Info("Removing %s: %s", kind.label, id)

	body := map[string]any{kind.idParam: id}
	if err := s.client.Post(ctx, kind.procedure("remove"), body, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ %s %s removed", kind.label, id)), nil
}

func (s *Server) databaseDeploy(ctx context.Context, kind databaseKind, id string) (*mcp_sdk.CallToolResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%s is required", kind.idParam)
	}

	logger.Info("Deploying %s: %s", kind.label, id)

	body := map[string]any{kind.idParam: id}
	if err := s.client.Post(ctx, kind.procedure("deploy"), body, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Deployment queued for %s %s", kind.label, id)), nil
}

func (s *Server) databaseStart(ctx context.Context, kind databaseKind, id string) (*mcp_sdk.CallToolResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%s is required", kind.idParam)
	}

	body := map[string]any{kind.idParam: id}
	if err := s.client.Post(ctx, kind.procedure("start"), body, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ %s %s started", kind.label, id)), nil
}

func (s *Server) databaseStop(ctx context.Context, kind databaseKind, id string) (*mcp_sdk.CallToolResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%s is required", kind.idParam)
	}

	body := map[string]any{kind.idParam: id}
	if err := s.client.Post(ctx, kind.procedure("stop"), body, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ %s %s stopped", kind.label, id)), nil
}

func (s *Server) databaseReload(ctx context.Context, kind databaseKind, id, appName string) (*mcp_sdk.CallToolResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%s is required", kind.idParam)
	}

	body := map[string]any{kind.idParam: id}
	if appName != "" {
		body["appName"] = appName
	}
	if err := s.client.Post(ctx, kind.procedure("reload"), body, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ %s %s reloaded", kind.label, id)), nil
}

func (s *Server) databaseRebuild(ctx context.Context, kind databaseKind, id string) (*mcp_sdk.CallToolResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%s is required", kind.idParam)
	}

	logger.Info("Rebuilding %s: %s", kind.label, id)

	body := map[string]any{kind.idParam: id}
	if err := s.client.Post(ctx, kind.procedure("rebuild"), body, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Rebuild queued for %s %s", kind.label, id)), nil
}

func (s *Server) databaseMove(ctx context.Context, kind databaseKind, id, targetEnvironmentID string) (*mcp_sdk.CallToolResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%s is required", kind.idParam)
	}
	if targetEnvironmentID == "" {
		return nil, fmt.Errorf("targetEnvironmentId is required")
	}

	logger.Info("Moving %s %s to environment %s", kind.label, id, targetEnvironmentID)

	body := map[string]any{
		kind.idParam:          id,
		"targetEnvironmentId": targetEnvironmentID,
	}
	var payload json.RawMessage
	if err := s.client.Post(ctx, kind.procedure("move"), body, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ %s %s moved to environment %s", kind.label, id, targetEnvironmentID), payload), nil
}
