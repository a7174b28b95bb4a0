package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
)

// Application Handlers

type CreateApplicationParams struct {
	Name          string `json:"name"`
	AppName       string `json:"appName,omitempty"`
	Description   string `json:"description,omitempty"`
	EnvironmentID string `json:"environmentId"`
}

func (s *Server) createApplication(ctx context.Context, params *CreateApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if params.EnvironmentID == "" {
		return nil, fmt.Errorf("environmentId is required")
	}

	logger.Info("Creating application '%s' in environment %s", params.Name, params.EnvironmentID)

	var payload json.RawMessage
	if err := s.client.Post(ctx, "application.create", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Application '%s' created in environment %s", params.Name, params.EnvironmentID), payload), nil
}

type GetApplicationParams struct {
	ApplicationID string `json:"applicationId"`
}

func (s *Server) getApplication(ctx context.Context, params *GetApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	query := url.Values{"applicationId": []string{params.ApplicationID}}
	var payload json.RawMessage
	if err := s.client.Get(ctx, "application.one", query, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("Application %s", params.ApplicationID), payload), nil
}

type UpdateApplicationParams struct {
	ApplicationID string `json:"applicationId"`
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	Env           string `json:"env,omitempty"`
	BuildType     string `json:"buildType,omitempty"`
	DockerImage   string `json:"dockerImage,omitempty"`
	Command       string `json:"command,omitempty"`
}

func (s *Server) updateApplication(ctx context.Context, params *UpdateApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	var payload json.RawMessage
	if err := s.client.Post(ctx, "application.update", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Application %s updated", params.ApplicationID), payload), nil
}

type DeleteApplicationParams struct {
	ApplicationID string `json:"applicationId"`
}

func (s *Server) deleteApplication(ctx context.Context, params *DeleteApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	logger.Info("Deleting application: %s", params.ApplicationID)

	if err := s.client.Post(ctx, "application.delete", params, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Application %s deleted", params.ApplicationID)), nil
}

type DeployApplicationParams struct {
	ApplicationID string `json:"applicationId"`
}

func (s *Server) deployApplication(ctx context.Context, params *DeployApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	logger.Info("Deploying application: %s", params.ApplicationID)

	if err := s.client.Post(ctx, "application.deploy", params, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Deployment queued for application %s", params.ApplicationID)), nil
}

func (s *Server) redeployApplication(ctx context.Context, params *DeployApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	logger.Info("Redeploying application: %s", params.ApplicationID)

	if err := s.client.Post(ctx, "application.redeploy", params, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Redeployment queued for application %s", params.ApplicationID)), nil
}

func (s *Server) startApplication(ctx context.Context, params *DeployApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	if err := s.client.Post(ctx, "application.start", params, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Application %s started", params.ApplicationID)), nil
}

func (s *Server) stopApplication(ctx context.Context, params *DeployApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	if err := s.client.Post(ctx, "application.stop", params, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Application %s stopped", params.ApplicationID)), nil
}

type ReloadApplicationParams struct {
	ApplicationID string `json:"applicationId"`
	AppName       string `json:"appName,omitempty"`
}

func (s *Server) reloadApplication(ctx context.Context, params *ReloadApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	if err := s.client.Post(ctx, "application.reload", params, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Application %s reloaded", params.ApplicationID)), nil
}

type MoveApplicationParams struct {
	ApplicationID       string `json:"applicationId"`
	TargetEnvironmentID string `json:"targetEnvironmentId"`
}

func (s *Server) moveApplication(ctx context.Context, params *MoveApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}
	if params.TargetEnvironmentID == "" {
		return nil, fmt.Errorf("targetEnvironmentId is required")
	}

	logger.Info("Moving application %s to environment %s", params.ApplicationID, params.TargetEnvironmentID)

	var payload json.RawMessage
	if err := s.client.Post(ctx, "application.move", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Application %s moved to environment %s", params.ApplicationID, params.TargetEnvironmentID), payload), nil
}

func (s *Server) cleanQueuesApplication(ctx context.Context, params *DeployApplicationParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	if err := s.client.Post(ctx, "application.cleanQueues", params, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Deployment queues cleaned for application %s", params.ApplicationID)), nil
}
