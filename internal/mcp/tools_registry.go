package mcp

import (
	"fmt"
	"strings"
)

// toolFamilies is the canonical registration order. DOKPLOY_TOOLS entries are
// validated against this list at startup.
var toolFamilies = []string{
	"project",
	"environment",
	"application",
	"postgresql",
	"mysql",
	"mariadb",
	"mongodb",
	"redis",
	"domain",
}

func validateToolFamilies(names []string) error {
	known := make(map[string]bool, len(toolFamilies))
	for _, f := range toolFamilies {
		known[f] = true
	}
	for _, name := range names {
		if !known[name] {
			return fmt.Errorf("unknown tool family %q; known families: %s", name, strings.Join(toolFamilies, ", "))
		}
	}
	return nil
}

// registerAllTools registers the enabled tool families with the registry
func (s *Server) registerAllTools(r *Registry) error {
	registrations := []struct {
		family   string
		register func(*Registry) error
	}{
		{"project", s.registerProjectTool},
		{"environment", s.registerEnvironmentTool},
		{"application", s.registerApplicationTool},
		{"postgresql", s.registerPostgresTool},
		{"mysql", s.registerMySQLTool},
		{"mariadb", s.registerMariaDBTool},
		{"mongodb", s.registerMongoTool},
		{"redis", s.registerRedisTool},
		{"domain", s.registerDomainTool},
	}

	for _, reg := range registrations {
		if !s.familyEnabled(reg.family) {
			continue
		}
		if err := reg.register(r); err != nil {
			return fmt.Errorf("failed to register %s tool: %w", reg.family, err)
		}
	}
	return nil
}

func (s *Server) registerProjectTool(r *Registry) error {
	return Register(r, ToolDef{
		Name:   "project",
		Family: "project",
		Description: `Manage Dokploy projects — the top-level grouping for environments and services.

Actions:
  create     — Create a project. Requires name.
  get        — Get project details by projectId. Returns environments and services.
  list       — List all projects. No parameters required.
  update     — Update a project's name or description. Requires projectId.
  remove     — Delete a project and everything in it. Requires projectId.
  duplicate  — Copy a project. Requires projectId; set includeServices to copy services too.

When the server is locked to a project, projectId is filled in automatically and
calls naming any other project are denied.`,
	}, s.handleProject)
}

func (s *Server) registerEnvironmentTool(r *Registry) error {
	return Register(r, ToolDef{
		Name:   "environment",
		Family: "environment",
		Description: `Manage environments — deployment stages (production, staging, ...) within a project.

Actions:
  create  — Create an environment. Requires name and projectId.
  get     — Get environment details by environmentId.
  list    — List a project's environments. Requires projectId.
  update  — Update an environment's name or description. Requires environmentId.
  remove  — Delete an environment and its services. Requires environmentId.

When the server is locked to a project, projectId is filled in automatically and
environmentId is checked for membership in the locked project.`,
	}, s.handleEnvironment)
}

func (s *Server) registerApplicationTool(r *Registry) error {
	return Register(r, ToolDef{
		Name:   "application",
		Family: "application",
		Description: `Manage applications — deployable services built from Git repos or Docker images.

Actions:
  create       — Create an application. Requires name and environmentId.
  get          — Get application details by applicationId.
  update       — Update application settings (name, env, buildType, dockerImage, command).
  delete       — Delete an application. Requires applicationId.
  deploy       — Queue a deployment. Requires applicationId.
  redeploy     — Re-run the last deployment without pulling changes.
  start        — Start a stopped application.
  stop         — Stop a running application.
  reload       — Reload the application container. Optionally pass appName.
  move         — Move an application to another environment. Requires targetEnvironmentId.
  cleanQueues  — Clear pending deployments from the application's queue.

Deployments are asynchronous: deploy/redeploy return once the job is queued, not
when it finishes.`,
	}, s.handleApplication)
}

const databaseToolDescription = `Actions:
  create   — Create the database service. Requires name and environmentId.
  get      — Get database details by %[1]s.
  update   — Update settings (name, description, dockerImage, env). Requires %[1]s.
  remove   — Delete the database service. Requires %[1]s.
  deploy   — Queue a deployment. Requires %[1]s.
  start    — Start a stopped database.
  stop     — Stop a running database.
  reload   — Reload the database container. Optionally pass appName.
  rebuild  — Rebuild the database container from scratch.
  move     — Move the database to another environment. Requires targetEnvironmentId.`

func (s *Server) registerPostgresTool(r *Registry) error {
	return Register(r, ToolDef{
		Name:   "postgresql",
		Family: "postgresql",
		Description: `Manage PostgreSQL database services.

` + fmt.Sprintf(databaseToolDescription, "postgresId") + `

Key parameters (create): databaseName, databaseUser, databasePassword.`,
	}, s.handlePostgres)
}

func (s *Server) registerMySQLTool(r *Registry) error {
	return Register(r, ToolDef{
		Name:   "mysql",
		Family: "mysql",
		Description: `Manage MySQL database services.

` + fmt.Sprintf(databaseToolDescription, "mysqlId") + `

Key parameters (create): databaseName, databaseUser, databasePassword, databaseRootPassword.`,
	}, s.handleMySQL)
}

func (s *Server) registerMariaDBTool(r *Registry) error {
	return Register(r, ToolDef{
		Name:   "mariadb",
		Family: "mariadb",
		Description: `Manage MariaDB database services.

` + fmt.Sprintf(databaseToolDescription, "mariadbId") + `

Key parameters (create): databaseName, databaseUser, databasePassword, databaseRootPassword.`,
	}, s.handleMariaDB)
}

func (s *Server) registerMongoTool(r *Registry) error {
	return Register(r, ToolDef{
		Name:   "mongodb",
		Family: "mongodb",
		Description: `Manage MongoDB database services.

` + fmt.Sprintf(databaseToolDescription, "mongoId") + `

Key parameters (create): databaseUser, databasePassword, replicaSets.`,
	}, s.handleMongo)
}

func (s *Server) registerRedisTool(r *Registry) error {
	return Register(r, ToolDef{
		Name:   "redis",
		Family: "redis",
		Description: `Manage Redis database services.

` + fmt.Sprintf(databaseToolDescription, "redisId") + `

Key parameters (create): databasePassword.`,
	}, s.handleRedis)
}

func (s *Server) registerDomainTool(r *Registry) error {
	return Register(r, ToolDef{
		Name:   "domain",
		Family: "domain",
		Description: `Manage domains — hostnames routed to applications through the proxy.

Actions:
  create             — Attach a domain to an application. Requires host and applicationId.
  get                — Get domain details by domainId.
  listByApplication  — List an application's domains. Requires applicationId.
  update             — Update a domain (host, path, port, https, certificateType). Requires domainId.
  delete             — Detach and delete a domain. Requires domainId.
  generate           — Generate a traefik.me test domain. Requires appName.

Set certificateType to "letsencrypt" to provision a certificate automatically.`,
	}, s.handleDomain)
}
