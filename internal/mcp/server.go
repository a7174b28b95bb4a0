package mcp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deploykit/dokploy-mcp/internal/audit"
	"github.com/deploykit/dokploy-mcp/internal/dokploy"
	"github.com/deploykit/dokploy-mcp/internal/logger"
	"github.com/deploykit/dokploy-mcp/internal/metrics"
	"github.com/deploykit/dokploy-mcp/internal/scope"
)

// Server wraps the MCP server with the Dokploy client and the project lock
type Server struct {
	client    *dokploy.Client
	gate      *scope.Gate
	journal   *audit.Store
	registry  *Registry
	mcpServer *mcp_sdk.Server
	version   string
	authToken string
	enabled   map[string]bool // nil means all tool families
}

// ServerConfig holds optional server settings
type ServerConfig struct {
	Version   string
	AuthToken string   // static bearer token for the HTTP transport; empty disables auth
	Tools     []string // tool families to expose; empty means all
}

// NewServer creates a new MCP server instance. The journal may be nil, in
// which case nothing is recorded.
func NewServer(client *dokploy.Client, gate *scope.Gate, journal *audit.Store, cfg *ServerConfig) (*Server, error) {
	version := "0.1.0"
	var authToken string
	var tools []string
	if cfg != nil {
		if cfg.Version != "" {
			version = cfg.Version
		}
		authToken = cfg.AuthToken
		tools = cfg.Tools
	}

	s := &Server{
		client:    client,
		gate:      gate,
		journal:   journal,
		registry:  NewRegistry(),
		version:   version,
		authToken: authToken,
	}

	if len(tools) > 0 {
		if err := validateToolFamilies(tools); err != nil {
			return nil, err
		}
		s.enabled = make(map[string]bool, len(tools))
		for _, f := range tools {
			s.enabled[f] = true
		}
	}

	if err := s.registerAllTools(s.registry); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) familyEnabled(name string) bool {
	if s.enabled == nil {
		return true
	}
	return s.enabled[name]
}

// GetRegistry returns the tool registry for external access
func (s *Server) GetRegistry() *Registry {
	return s.registry
}

func (s *Server) buildMCPServer() *mcp_sdk.Server {
	srv := mcp_sdk.NewServer(&mcp_sdk.Implementation{
		Name:    "dokploy-mcp",
		Version: s.version,
	}, nil)
	s.registry.RegisterWithMCPServer(srv)
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is canceled.
// All logging goes to stderr; stdout belongs to the protocol.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.mcpServer = s.buildMCPServer()
	logger.Info("Dokploy MCP server on stdio (%d tools)", len(s.registry.GetAllTools()))
	return s.mcpServer.Run(ctx, &mcp_sdk.StdioTransport{})
}

// Serve starts the MCP HTTP server and blocks until ctx is canceled or the
// listener fails.
func (s *Server) Serve(ctx context.Context, addr string) error {
	s.mcpServer = s.buildMCPServer()

	// Streamable transport with an event store so SSE streams can resume
	mcpHandler := mcp_sdk.NewStreamableHTTPHandler(func(req *http.Request) *mcp_sdk.Server {
		return s.mcpServer
	}, &mcp_sdk.StreamableHTTPOptions{
		EventStore: mcp_sdk.NewMemoryEventStore(nil),
	})

	// Wrap with request ID and logging middleware
	loggingHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), logger.ContextKeyRequestID, requestID)
		r = r.WithContext(ctx)

		logger.Info("HTTP %s %s from %s [request_id=%s]", r.Method, r.URL.Path, r.RemoteAddr, requestID)
		mcpHandler.ServeHTTP(w, r)
	})

	// Auth, then rate limiting per-token
	authedHandler := s.authMiddleware(loggingHandler)
	rateLimitedHandler := RateLimitMiddleware(DefaultRateLimiter())(authedHandler)

	mainMux := http.NewServeMux()

	// Health endpoints - no authentication required
	mainMux.HandleFunc("/health", s.handleHealthCheck)
	mainMux.HandleFunc("/ready", s.handleReadinessCheck)

	// Metrics endpoint - no authentication required (Prometheus scraping)
	mainMux.Handle("/metrics", metrics.Handler())

	// MCP endpoints - authenticated, rate limited, wrapped with metrics middleware
	mainMux.Handle("/mcp", metrics.Middleware(rateLimitedHandler))
	mainMux.Handle("/mcp/", metrics.Middleware(rateLimitedHandler))

	logger.Info("🚀 Dokploy MCP server listening on %s (%d tools)", addr, len(s.registry.GetAllTools()))
	logger.Info("💚 Health check: http://localhost%s/health", addr)
	logger.Info("💚 Readiness check: http://localhost%s/ready", addr)
	logger.Info("📊 Metrics: http://localhost%s/metrics", addr)
	if s.authToken == "" {
		logger.Warn("MCP_AUTH_TOKEN not set; the HTTP transport accepts unauthenticated requests")
	}

	httpServer := &http.Server{Addr: addr, Handler: mainMux}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// authMiddleware enforces the static bearer token when one is configured
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			jsonRPCError(w, http.StatusUnauthorized, -32001, "Authentication required (Bearer token)")
			return
		}

		supplied := strings.TrimPrefix(header, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(s.authToken)) != 1 {
			logger.Warn("Rejected request with invalid token %s from %s", maskToken(supplied), r.RemoteAddr)
			jsonRPCError(w, http.StatusUnauthorized, -32001, "Invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonRPCError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
		"id": nil,
	})
}

// maskToken keeps enough of a token to correlate log lines without leaking it
func maskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// handleHealthCheck is a basic liveness check
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleReadinessCheck verifies the Dokploy API is reachable
func (s *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := s.client.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"not ready","reason":"dokploy api unreachable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
