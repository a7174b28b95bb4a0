package scope

import (
	"context"
	"errors"
	"fmt"

	"github.com/deploykit/dokploy-mcp/internal/dokploy"
	"github.com/deploykit/dokploy-mcp/internal/logger"
)

// Violation reasons. They double as error envelope titles and as the
// reason label on the denial metric.
const (
	ReasonLockViolation = "lock violation"
	ReasonEnvironment   = "environment validation failed"
	ReasonTarget        = "target environment validation failed"
)

// Violation is a structured denial. nil means the check passed.
type Violation struct {
	Reason string
	Detail string
}

// Directory resolves a project id to the project and its environment list.
// The dokploy client implements it; tests substitute fakes.
type Directory interface {
	Project(ctx context.Context, projectID string) (*dokploy.Project, error)
}

// Fields is the scoping view of one call's parameters. Project points into
// the caller's params struct so that injecting the locked id is visible to
// the handler that runs afterwards.
type Fields struct {
	Project           *string
	Environment       string
	TargetEnvironment string
}

// Gate enforces the project lock. Every consolidated tool call passes
// through Enforce before any action is dispatched.
type Gate struct {
	cfg Config
	dir Directory
}

// NewGate builds a gate over an immutable lock configuration.
func NewGate(cfg Config, dir Directory) *Gate {
	return &Gate{cfg: cfg, dir: dir}
}

// Config returns the injected lock configuration.
func (g *Gate) Config() Config {
	return g.cfg
}

// ValidateStartup verifies the lock target exists. It must run once, before
// the server accepts calls: operating with a dangling lock target is a
// fatal configuration error, not something to discover per request.
func (g *Gate) ValidateStartup(ctx context.Context) error {
	if !g.cfg.Enabled() {
		return nil
	}

	project, err := g.dir.Project(ctx, g.cfg.ProjectID)
	if err != nil {
		if errors.Is(err, dokploy.ErrNotFound) {
			return fmt.Errorf("locked project %q does not exist on the configured Dokploy instance", g.cfg.ProjectID)
		}
		return fmt.Errorf("failed to verify locked project %q: %w", g.cfg.ProjectID, err)
	}

	logger.Info("project lock active: %s (%s)", g.cfg.ProjectID, project.Name)
	return nil
}

// CheckProject validates a caller-supplied project id against the lock.
// An empty candidate passes here; injecting the locked id is Enforce's job.
func (g *Gate) CheckProject(candidate string) *Violation {
	if !g.cfg.Enabled() || candidate == "" || candidate == g.cfg.ProjectID {
		return nil
	}
	return &Violation{
		Reason: ReasonLockViolation,
		Detail: fmt.Sprintf("this server is locked to project %s; project %s is not accessible", g.cfg.ProjectID, candidate),
	}
}

// CheckEnvironment validates that an environment belongs to the locked
// project. The membership list is fetched fresh on every call; it can
// change between calls within one process, so nothing is cached.
func (g *Gate) CheckEnvironment(ctx context.Context, envID string) *Violation {
	if !g.cfg.Enabled() {
		return nil
	}

	project, err := g.dir.Project(ctx, g.cfg.ProjectID)
	if err != nil {
		// A check that cannot be performed denies; it never passes.
		return &Violation{
			Reason: ReasonEnvironment,
			Detail: fmt.Sprintf("failed to validate environment %s against locked project %s: %v", envID, g.cfg.ProjectID, err),
		}
	}

	if project.Environments == nil {
		// The payload carried no environment list at all. Skipping keeps
		// older platform versions working, but it also means a payload
		// schema change would disable this check, hence the loud warning.
		logger.Warn("locked project %s returned no environment list; skipping environment validation for %s", g.cfg.ProjectID, envID)
		return nil
	}

	for _, env := range project.Environments {
		if env.Matches(envID) {
			return nil
		}
	}

	return &Violation{
		Reason: ReasonEnvironment,
		Detail: fmt.Sprintf("environment %s does not belong to locked project %s", envID, g.cfg.ProjectID),
	}
}

// EffectiveProjectID is the project id outbound calls should use. When the
// lock is enabled it always wins over the candidate.
func (g *Gate) EffectiveProjectID(candidate string) string {
	if g.cfg.Enabled() {
		return g.cfg.ProjectID
	}
	return candidate
}

// Enforce applies the lock to one call's scoping fields, in order, stopping
// at the first violation:
//
//  1. lock disabled: pass untouched
//  2. supplied project id mismatching the lock: deny, no mutation
//  3. missing project id: inject the locked id through f.Project
//  4. environment id present: membership check
//  5. target environment id present: membership check
//
// Enforce is idempotent: re-running it on already-gated fields passes
// without further mutation.
func (g *Gate) Enforce(ctx context.Context, f Fields) *Violation {
	if !g.cfg.Enabled() {
		return nil
	}

	if f.Project != nil {
		if v := g.CheckProject(*f.Project); v != nil {
			return v
		}
		if *f.Project == "" {
			*f.Project = g.cfg.ProjectID
		}
	}

	if f.Environment != "" {
		if v := g.CheckEnvironment(ctx, f.Environment); v != nil {
			return v
		}
	}

	if f.TargetEnvironment != "" {
		if v := g.CheckEnvironment(ctx, f.TargetEnvironment); v != nil {
			v.Reason = ReasonTarget
			return v
		}
	}

	return nil
}
