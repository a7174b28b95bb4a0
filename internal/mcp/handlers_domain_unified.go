package mcp

import (
	"context"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// DomainParams is the unified params struct for the domain tool
type DomainParams struct {
	Action string `json:"action" jsonschema:"The operation to perform: create, get, listByApplication, update, delete, or generate"`

	DomainID      string `json:"domainId,omitempty" jsonschema:"Domain id (get, update, delete)"`
	ApplicationID string `json:"applicationId,omitempty" jsonschema:"Owning application id (create, listByApplication)"`

	// For create, update
	Host            string `json:"host,omitempty" jsonschema:"Hostname, e.g. app.example.com (required for create)"`
	Path            string `json:"path,omitempty" jsonschema:"Path prefix routed to the service, default /"`
	Port            int    `json:"port,omitempty" jsonschema:"Container port the domain routes to"`
	HTTPS           *bool  `json:"https,omitempty" jsonschema:"Serve the domain over HTTPS"`
	CertificateType string `json:"certificateType,omitempty" jsonschema:"Certificate provider: none, letsencrypt, or custom"`
	DomainType      string `json:"domainType,omitempty" jsonschema:"Resource type the domain attaches to, e.g. application or compose"`

	// For generate
	AppName string `json:"appName,omitempty" jsonschema:"Internal app name to generate a traefik.me domain for (required for generate)"`

	// Scoping
	ProjectID string `json:"projectId,omitempty" jsonschema:"Owning project id (injected automatically when the server is locked to a project)"`
}

var domainActions = []string{"create", "get", "listByApplication", "update", "delete", "generate"}

func (p *DomainParams) scopeFields() scope.Fields {
	return scope.Fields{Project: &p.ProjectID}
}

// handleDomain is the unified handler for the domain tool
func (s *Server) handleDomain(ctx context.Context, request *mcp_sdk.CallToolRequest, params DomainParams) (*mcp_sdk.CallToolResult, any, error) {
	if v := s.gate.Enforce(ctx, params.scopeFields()); v != nil {
		return s.deny("domain", params.Action, v)
	}
	if params.Action == "" {
		return nil, nil, missingActionError("domain", domainActions)
	}

	var (
		result *mcp_sdk.CallToolResult
		err    error
	)
	switch params.Action {
	case "create":
		result, err = s.createDomain(ctx, &CreateDomainParams{
			Host:            params.Host,
			Path:            params.Path,
			Port:            params.Port,
			HTTPS:           params.HTTPS,
			ApplicationID:   params.ApplicationID,
			CertificateType: params.CertificateType,
			DomainType:      params.DomainType,
		})
	case "get":
		result, err = s.getDomain(ctx, &GetDomainParams{DomainID: params.DomainID})
	case "listByApplication":
		result, err = s.listDomainsByApplication(ctx, &ListDomainsParams{ApplicationID: params.ApplicationID})
	case "update":
		result, err = s.updateDomain(ctx, &UpdateDomainParams{
			DomainID:        params.DomainID,
			Host:            params.Host,
			Path:            params.Path,
			Port:            params.Port,
			HTTPS:           params.HTTPS,
			CertificateType: params.CertificateType,
		})
	case "delete":
		result, err = s.deleteDomain(ctx, &DeleteDomainParams{DomainID: params.DomainID})
	case "generate":
		result, err = s.generateDomain(ctx, &GenerateDomainParams{AppName: params.AppName})
	default:
		return nil, nil, actionError("domain", params.Action, domainActions)
	}

	return s.finish("domain", params.Action, params.ProjectID, result, err)
}
