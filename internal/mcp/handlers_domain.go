package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/logger"
)

// Domain Handlers

type CreateDomainParams struct {
	Host            string `json:"host"`
	Path            string `json:"path,omitempty"`
	Port            int    `json:"port,omitempty"`
	HTTPS           *bool  `json:"https,omitempty"`
	ApplicationID   string `json:"applicationId"`
	CertificateType string `json:"certificateType,omitempty"`
	DomainType      string `json:"domainType,omitempty"`
}

func (s *Server) createDomain(ctx context.Context, params *CreateDomainParams) (*mcp_sdk.CallToolResult, error) {
	if params.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	logger.Info("Creating domain '%s' for application %s", params.Host, params.ApplicationID)

	var payload json.RawMessage
	if err := s.client.Post(ctx, "domain.create", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Domain '%s' created for application %s", params.Host, params.ApplicationID), payload), nil
}

type GetDomainParams struct {
	DomainID string `json:"domainId"`
}

func (s *Server) getDomain(ctx context.Context, params *GetDomainParams) (*mcp_sdk.CallToolResult, error) {
	if params.DomainID == "" {
		return nil, fmt.Errorf("domainId is required")
	}

	query := url.Values{"domainId": []string{params.DomainID}}
	var payload json.RawMessage
	if err := s.client.Get(ctx, "domain.one", query, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("Domain %s", params.DomainID), payload), nil
}

type ListDomainsParams struct {
	ApplicationID string `json:"applicationId"`
}

func (s *Server) listDomainsByApplication(ctx context.Context, params *ListDomainsParams) (*mcp_sdk.CallToolResult, error) {
	if params.ApplicationID == "" {
		return nil, fmt.Errorf("applicationId is required")
	}

	query := url.Values{"applicationId": []string{params.ApplicationID}}
	var payload json.RawMessage
	if err := s.client.Get(ctx, "domain.byApplicationId", query, &payload); err != nil {
		return nil, err
	}

	count := countItems(payload)
	if count == 0 {
		return NewTextResult(fmt.Sprintf("No domains found for application %s", params.ApplicationID)), nil
	}
	return jsonResult(fmt.Sprintf("Found %d domain(s) for application %s", count, params.ApplicationID), payload), nil
}

type UpdateDomainParams struct {
	DomainID        string `json:"domainId"`
	Host            string `json:"host,omitempty"`
	Path            string `json:"path,omitempty"`
	Port            int    `json:"port,omitempty"`
	HTTPS           *bool  `json:"https,omitempty"`
	CertificateType string `json:"certificateType,omitempty"`
}

func (s *Server) updateDomain(ctx context.Context, params *UpdateDomainParams) (*mcp_sdk.CallToolResult, error) {
	if params.DomainID == "" {
		return nil, fmt.Errorf("domainId is required")
	}

	var payload json.RawMessage
	if err := s.client.Post(ctx, "domain.update", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Domain %s updated", params.DomainID), payload), nil
}

type DeleteDomainParams struct {
	DomainID string `json:"domainId"`
}

func (s *Server) deleteDomain(ctx context.Context, params *DeleteDomainParams) (*mcp_sdk.CallToolResult, error) {
	if params.DomainID == "" {
		return nil, fmt.Errorf("domainId is required")
	}

	logger.Info("Deleting domain: %s", params.DomainID)

	if err := s.client.Post(ctx, "domain.delete", params, nil); err != nil {
		return nil, err
	}
	return NewTextResult(fmt.Sprintf("✅ Domain %s deleted", params.DomainID)), nil
}

type GenerateDomainParams struct {
	AppName string `json:"appName"`
}

func (s *Server) generateDomain(ctx context.Context, params *GenerateDomainParams) (*mcp_sdk.CallToolResult, error) {
	if params.AppName == "" {
		return nil, fmt.Errorf("appName is required")
	}

	var payload json.RawMessage
	if err := s.client.Post(ctx, "domain.generateDomain", params, &payload); err != nil {
		return nil, err
	}
	return jsonResult(fmt.Sprintf("✅ Domain generated for %s", params.AppName), payload), nil
}
