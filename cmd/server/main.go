package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/deploykit/dokploy-mcp/internal/audit"
	"github.com/deploykit/dokploy-mcp/internal/config"
	"github.com/deploykit/dokploy-mcp/internal/dokploy"
	"github.com/deploykit/dokploy-mcp/internal/logger"
	"github.com/deploykit/dokploy-mcp/internal/mcp"
	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// Version is set at build time via -ldflags "-X main.Version=v1.0.0"
var Version = "dev"

func main() {
	// Check for subcommands before parsing flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "check":
			cmdCheck()
			return
		case "audit":
			cmdAudit(os.Args[2:])
			return
		case "--version", "-v":
			fmt.Printf("dokploy-mcp %s\n", Version)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	// Default: run server
	runServer()
}

func printUsage() {
	fmt.Printf(`Dokploy MCP %s - Dokploy deployments for AI agents

Usage: dokploy-mcp [command] [options]

Commands:
  (default)    Start the MCP server
  check        Verify configuration, API connectivity, and the lock target
  audit        List recorded audit events

Server Options:
  --data <path>   Data directory for logs and the audit journal
                  (default: DOKPLOY_MCP_DATA or ~/.dokploy-mcp)

Environment:
  DOKPLOY_URL                Dokploy instance URL (required)
  DOKPLOY_API_KEY            API key (required)
  DOKPLOY_LOCKED_PROJECT_ID  Lock the server to one project
  DOKPLOY_TOOLS              Comma-separated tool families to expose
  MCP_TRANSPORT              "stdio" (default) or "http"
  MCP_LISTEN_ADDR            HTTP listen address (default :8239)
  MCP_AUTH_TOKEN             Bearer token required on HTTP requests

Examples:
  DOKPLOY_URL=https://deploy.example.com DOKPLOY_API_KEY=... dokploy-mcp
  MCP_TRANSPORT=http dokploy-mcp
  dokploy-mcp check
  dokploy-mcp audit --kind denial --limit 20
`, Version)
}

func runServer() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	dataFlag := flag.String("data", "", "Data directory (default: DOKPLOY_MCP_DATA or ~/.dokploy-mcp)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dokploy-mcp %s\n", Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dataFlag != "" {
		cfg.DataDir = *dataFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize loggers. Everything goes to stderr and the log file; on
	// stdio transport stdout belongs to the MCP protocol.
	if err := logger.Init(cfg.LogDir()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Close() }()
	if err := logger.InitSlog(cfg.LogDir(), true); err != nil {
		log.Fatalf("Failed to initialize structured logger: %v", err)
	}
	defer func() { _ = logger.CloseSlog() }()

	logger.Info("🔒 Dokploy MCP %s", Version)
	logger.Info("📡 Dokploy instance: %s", cfg.ServerURL)

	// Audit journal
	var journal *audit.Store
	if !cfg.AuditDisabled {
		journal, err = audit.NewStore(cfg.AuditDBPath())
		if err != nil {
			logger.Fatalf("Failed to open audit journal: %v", err)
		}
		defer func() { _ = journal.Close() }()
		logger.Info("📓 Audit journal: %s", cfg.AuditDBPath())
	}

	sweeper, err := audit.NewSweeper(journal, cfg.AuditSweepSchedule, cfg.AuditRetentionDays)
	if err != nil {
		logger.Fatalf("Failed to configure audit sweeper: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Dokploy API client
	client := dokploy.NewClient(dokploy.Config{
		BaseURL: cfg.ServerURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.APITimeout,
		Rate:    cfg.APIRate,
		Burst:   cfg.APIBurst,
	})

	// Project lock. A dangling lock target is a fatal configuration error:
	// refusing to start beats running with a lock nobody can satisfy.
	gate := scope.NewGate(cfg.Lock, client)
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = gate.ValidateStartup(startupCtx)
	cancel()
	journal.RecordStartup(cfg.Lock.ProjectID, err)
	if err != nil {
		logger.Fatalf("Startup validation failed: %v", err)
	}

	server, err := mcp.NewServer(client, gate, journal, &mcp.ServerConfig{
		Version:   Version,
		AuthToken: cfg.AuthToken,
		Tools:     cfg.Tools,
	})
	if err != nil {
		logger.Fatalf("Failed to build MCP server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case config.TransportHTTP:
		err = server.Serve(ctx, cfg.ListenAddr)
	default:
		err = server.ServeStdio(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Info("✅ Shutdown complete")
}

// cmdCheck validates the configuration without serving: it pings the
// Dokploy API and, when a lock is configured, verifies the lock target.
func cmdCheck() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Configuration valid (transport: %s)\n", cfg.Transport)

	client := dokploy.NewClient(dokploy.Config{
		BaseURL: cfg.ServerURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.APITimeout,
		Rate:    cfg.APIRate,
		Burst:   cfg.APIBurst,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Dokploy API unreachable: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Dokploy API reachable at %s\n", cfg.ServerURL)

	if !cfg.Lock.Enabled() {
		fmt.Println("ℹ️  No project lock configured (server operates unrestricted)")
		return
	}

	gate := scope.NewGate(cfg.Lock, client)
	if err := gate.ValidateStartup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Lock target verified: project %s\n", cfg.Lock.ProjectID)
}

// cmdAudit lists recorded audit events, newest first.
func cmdAudit(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	dataFlag := fs.String("data", "", "Data directory (default: DOKPLOY_MCP_DATA or ~/.dokploy-mcp)")
	kindFlag := fs.String("kind", "", "Filter by kind: denial, mutation, startup")
	limitFlag := fs.Int("limit", 50, "Maximum number of events")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if *dataFlag != "" {
		cfg.DataDir = *dataFlag
	}

	store, err := audit.NewStore(cfg.AuditDBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening audit journal: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	events, err := store.List(audit.Filter{Kind: *kindFlag, Limit: *limitFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing events: %v\n", err)
		os.Exit(1)
	}

	if len(events) == 0 {
		fmt.Println("No audit events recorded.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tKIND\tTOOL\tACTION\tPROJECT\tOUTCOME\tREASON")
	for _, e := range events {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Kind,
			e.Tool,
			e.Action,
			e.ProjectID,
			e.Outcome,
			e.Reason,
		)
	}
	_ = w.Flush()
}
