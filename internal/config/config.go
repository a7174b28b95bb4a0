package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// Transport names accepted by MCP_TRANSPORT.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultListenAddr         = ":8239"
	DefaultAPIRate            = 10.0
	DefaultAPIBurst           = 20
	DefaultAPITimeout         = 30 * time.Second
	DefaultAuditRetentionDays = 30
	DefaultAuditSweepSchedule = "0 3 * * *"
)

// Config is the process configuration, read once from the environment at
// startup. MCP servers are configured through the env block of the client
// that launches them, so there is no config file.
type Config struct {
	// ServerURL is the base URL of the Dokploy instance (DOKPLOY_URL).
	ServerURL string
	// APIKey authenticates against the Dokploy API (DOKPLOY_API_KEY).
	APIKey string

	// Lock restricts the whole server to one project when set
	// (DOKPLOY_LOCKED_PROJECT_ID).
	Lock scope.Config

	// Transport selects stdio or http serving (MCP_TRANSPORT).
	Transport string
	// ListenAddr is the HTTP listen address (MCP_LISTEN_ADDR).
	ListenAddr string
	// AuthToken, when set, is required as a Bearer token on HTTP requests
	// (MCP_AUTH_TOKEN). Stdio transport ignores it.
	AuthToken string

	// Tools optionally narrows which tool families are registered
	// (DOKPLOY_TOOLS, comma-separated). Empty means all.
	Tools []string

	// Outbound API client tuning.
	APIRate    float64       // requests per second (DOKPLOY_API_RPS, <=0 disables)
	APIBurst   int           // burst size (DOKPLOY_API_BURST)
	APITimeout time.Duration // per-request timeout (DOKPLOY_API_TIMEOUT)

	// DataDir holds logs and the audit journal (DOKPLOY_MCP_DATA,
	// overridable with the --data flag).
	DataDir string

	// Audit journal settings.
	AuditDisabled      bool   // AUDIT_DISABLED
	AuditRetentionDays int    // AUDIT_RETENTION_DAYS
	AuditSweepSchedule string // AUDIT_SWEEP_SCHEDULE, cron expression
}

// Load reads the configuration from the environment. Values are read once;
// the returned Config is not re-synced with later environment changes.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:          strings.TrimSpace(os.Getenv("DOKPLOY_URL")),
		APIKey:             strings.TrimSpace(os.Getenv("DOKPLOY_API_KEY")),
		Lock:               scope.FromEnv(),
		Transport:          strings.TrimSpace(os.Getenv("MCP_TRANSPORT")),
		ListenAddr:         strings.TrimSpace(os.Getenv("MCP_LISTEN_ADDR")),
		AuthToken:          strings.TrimSpace(os.Getenv("MCP_AUTH_TOKEN")),
		DataDir:            strings.TrimSpace(os.Getenv("DOKPLOY_MCP_DATA")),
		APIRate:            DefaultAPIRate,
		APIBurst:           DefaultAPIBurst,
		APITimeout:         DefaultAPITimeout,
		AuditRetentionDays: DefaultAuditRetentionDays,
		AuditSweepSchedule: DefaultAuditSweepSchedule,
	}

	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".dokploy-mcp")
	}

	if tools := strings.TrimSpace(os.Getenv("DOKPLOY_TOOLS")); tools != "" {
		for _, name := range strings.Split(tools, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Tools = append(cfg.Tools, name)
			}
		}
	}

	if v := os.Getenv("DOKPLOY_API_RPS"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DOKPLOY_API_RPS %q: %w", v, err)
		}
		cfg.APIRate = rate
	}
	if v := os.Getenv("DOKPLOY_API_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DOKPLOY_API_BURST %q: %w", v, err)
		}
		cfg.APIBurst = burst
	}
	if v := os.Getenv("DOKPLOY_API_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DOKPLOY_API_TIMEOUT %q: %w", v, err)
		}
		cfg.APITimeout = timeout
	}

	if v := os.Getenv("AUDIT_DISABLED"); v == "1" || strings.EqualFold(v, "true") {
		cfg.AuditDisabled = true
	}
	if v := os.Getenv("AUDIT_RETENTION_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUDIT_RETENTION_DAYS %q: %w", v, err)
		}
		cfg.AuditRetentionDays = days
	}
	if v := strings.TrimSpace(os.Getenv("AUDIT_SWEEP_SCHEDULE")); v != "" {
		cfg.AuditSweepSchedule = v
	}

	return cfg, nil
}

// Validate checks that the configuration can actually run a server.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("DOKPLOY_URL is required")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("DOKPLOY_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("DOKPLOY_URL must be http or https, got %q", c.ServerURL)
	}
	if c.APIKey == "" {
		return fmt.Errorf("DOKPLOY_API_KEY is required")
	}
	if c.Transport != TransportStdio && c.Transport != TransportHTTP {
		return fmt.Errorf("MCP_TRANSPORT must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("DOKPLOY_API_TIMEOUT must be positive")
	}
	if c.AuditRetentionDays < 0 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must not be negative")
	}
	return nil
}

// LogDir is where the process logs live.
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// AuditDBPath is the audit journal location.
func (c *Config) AuditDBPath() string {
	return filepath.Join(c.DataDir, "audit.db")
}
