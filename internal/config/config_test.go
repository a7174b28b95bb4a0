package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so tests see a known baseline.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DOKPLOY_URL", "DOKPLOY_API_KEY", "DOKPLOY_LOCKED_PROJECT_ID",
		"MCP_TRANSPORT", "MCP_LISTEN_ADDR", "MCP_AUTH_TOKEN",
		"DOKPLOY_MCP_DATA", "DOKPLOY_TOOLS",
		"DOKPLOY_API_RPS", "DOKPLOY_API_BURST", "DOKPLOY_API_TIMEOUT",
		"AUDIT_DISABLED", "AUDIT_RETENTION_DAYS", "AUDIT_SWEEP_SCHEDULE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Transport != TransportStdio {
		t.Errorf("Transport = %q, want %q", cfg.Transport, TransportStdio)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.APIRate != DefaultAPIRate {
		t.Errorf("APIRate = %v, want %v", cfg.APIRate, DefaultAPIRate)
	}
	if cfg.APIBurst != DefaultAPIBurst {
		t.Errorf("APIBurst = %d, want %d", cfg.APIBurst, DefaultAPIBurst)
	}
	if cfg.APITimeout != DefaultAPITimeout {
		t.Errorf("APITimeout = %v, want %v", cfg.APITimeout, DefaultAPITimeout)
	}
	if cfg.AuditRetentionDays != DefaultAuditRetentionDays {
		t.Errorf("AuditRetentionDays = %d, want %d", cfg.AuditRetentionDays, DefaultAuditRetentionDays)
	}
	if cfg.AuditSweepSchedule != DefaultAuditSweepSchedule {
		t.Errorf("AuditSweepSchedule = %q, want %q", cfg.AuditSweepSchedule, DefaultAuditSweepSchedule)
	}
	if cfg.Lock.Enabled() {
		t.Error("Lock should be disabled by default")
	}
	if cfg.AuditDisabled {
		t.Error("AuditDisabled should be false by default")
	}
	if len(cfg.Tools) != 0 {
		t.Errorf("Tools = %v, want empty", cfg.Tools)
	}
	if !strings.HasSuffix(cfg.DataDir, ".dokploy-mcp") {
		t.Errorf("DataDir = %q, want home-relative .dokploy-mcp", cfg.DataDir)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOKPLOY_URL", "https://deploy.example.com")
	t.Setenv("DOKPLOY_API_KEY", "key-123")
	t.Setenv("DOKPLOY_LOCKED_PROJECT_ID", "  proj-locked  ")
	t.Setenv("MCP_TRANSPORT", "http")
	t.Setenv("MCP_LISTEN_ADDR", ":9000")
	t.Setenv("MCP_AUTH_TOKEN", "bearer-secret")
	t.Setenv("DOKPLOY_MCP_DATA", "/var/lib/dokploy-mcp")
	t.Setenv("DOKPLOY_API_RPS", "2.5")
	t.Setenv("DOKPLOY_API_BURST", "5")
	t.Setenv("DOKPLOY_API_TIMEOUT", "10s")
	t.Setenv("AUDIT_RETENTION_DAYS", "7")
	t.Setenv("AUDIT_SWEEP_SCHEDULE", "30 2 * * *")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerURL != "https://deploy.example.com" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.APIKey != "key-123" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Lock.ProjectID != "proj-locked" {
		t.Errorf("Lock.ProjectID = %q, want trimmed id", cfg.Lock.ProjectID)
	}
	if !cfg.Lock.Enabled() {
		t.Error("Lock should be enabled")
	}
	if cfg.Transport != TransportHTTP {
		t.Errorf("Transport = %q, want http", cfg.Transport)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.AuthToken != "bearer-secret" {
		t.Errorf("AuthToken = %q", cfg.AuthToken)
	}
	if cfg.DataDir != "/var/lib/dokploy-mcp" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.APIRate != 2.5 {
		t.Errorf("APIRate = %v, want 2.5", cfg.APIRate)
	}
	if cfg.APIBurst != 5 {
		t.Errorf("APIBurst = %d, want 5", cfg.APIBurst)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Errorf("APITimeout = %v, want 10s", cfg.APITimeout)
	}
	if cfg.AuditRetentionDays != 7 {
		t.Errorf("AuditRetentionDays = %d, want 7", cfg.AuditRetentionDays)
	}
	if cfg.AuditSweepSchedule != "30 2 * * *" {
		t.Errorf("AuditSweepSchedule = %q", cfg.AuditSweepSchedule)
	}
}

func TestLoad_ToolsParsing(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOKPLOY_TOOLS", "project, domain ,,postgresql ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"project", "domain", "postgresql"}
	if len(cfg.Tools) != len(want) {
		t.Fatalf("Tools = %v, want %v", cfg.Tools, want)
	}
	for i := range want {
		if cfg.Tools[i] != want[i] {
			t.Errorf("Tools[%d] = %q, want %q", i, cfg.Tools[i], want[i])
		}
	}
}

func TestLoad_AuditDisabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"0", false},
		{"1", true},
		{"true", true},
		{"TRUE", true},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("AUDIT_DISABLED", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.AuditDisabled != tt.want {
				t.Errorf("AuditDisabled = %v, want %v", cfg.AuditDisabled, tt.want)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"DOKPLOY_API_RPS", "fast"},
		{"DOKPLOY_API_BURST", "many"},
		{"DOKPLOY_API_TIMEOUT", "5 minutes"},
		{"AUDIT_RETENTION_DAYS", "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() with %s=%q should fail", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error = %q, want to name %s", err.Error(), tt.key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServerURL:          "https://deploy.example.com",
			APIKey:             "key-123",
			Transport:          TransportStdio,
			APITimeout:         30 * time.Second,
			AuditRetentionDays: 30,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"missing url", func(c *Config) { c.ServerURL = "" }, "DOKPLOY_URL is required"},
		{"bad scheme", func(c *Config) { c.ServerURL = "ftp://deploy.example.com" }, "must be http or https"},
		{"missing key", func(c *Config) { c.APIKey = "" }, "DOKPLOY_API_KEY is required"},
		{"bad transport", func(c *Config) { c.Transport = "websocket" }, "MCP_TRANSPORT"},
		{"zero timeout", func(c *Config) { c.APITimeout = 0 }, "must be positive"},
		{"negative retention", func(c *Config) { c.AuditRetentionDays = -1 }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestConfig_Paths(t *testing.T) {
	cfg := &Config{DataDir: "/data"}

	if got := cfg.LogDir(); got != filepath.Join("/data", "logs") {
		t.Errorf("LogDir() = %q", got)
	}
	if got := cfg.AuditDBPath(); got != filepath.Join("/data", "audit.db") {
		t.Errorf("AuditDBPath() = %q", got)
	}
}
