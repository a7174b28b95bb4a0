package scope

import (
	"os"
	"strings"
)

// EnvLockedProject pins the whole server instance to one project.
const EnvLockedProject = "DOKPLOY_LOCKED_PROJECT_ID"

// Config is the immutable lock configuration. It is read once at startup
// and passed by value to the gate; the lock target must not change while
// the process runs, because callers may cache the effective project id.
type Config struct {
	// ProjectID is the locked project. Empty means the lock is disabled
	// and the server operates unrestricted.
	ProjectID string
}

// FromEnv reads the lock target from the environment.
func FromEnv() Config {
	return Config{ProjectID: strings.TrimSpace(os.Getenv(EnvLockedProject))}
}

// Enabled reports whether a lock target is configured.
func (c Config) Enabled() bool {
	return c.ProjectID != ""
}
