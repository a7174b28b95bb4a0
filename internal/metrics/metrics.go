package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests against the MCP endpoint
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dokploy_mcp_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration tracks HTTP request latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dokploy_mcp_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ToolCalls counts tool invocations by family, action and outcome
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dokploy_mcp_tool_calls_total",
			Help: "Total number of MCP tool calls",
		},
		[]string{"tool", "action", "status"},
	)

	// LockDenials counts calls rejected by the project lock
	LockDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dokploy_mcp_lock_denials_total",
			Help: "Total number of calls denied by project lock enforcement",
		},
		[]string{"reason"},
	)

	// APIRequests counts outbound Dokploy API calls
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dokploy_mcp_api_requests_total",
			Help: "Total number of outbound Dokploy API requests",
		},
		[]string{"procedure", "status"},
	)

	// APIRequestDuration tracks outbound Dokploy API latency
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dokploy_mcp_api_request_duration_seconds",
			Help:    "Outbound Dokploy API request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"procedure"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush implements http.Flusher for SSE support
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware creates an HTTP middleware that records metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		RequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		RequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// normalizePath normalizes URL paths to avoid high cardinality
func normalizePath(path string) string {
	switch path {
	case "/health", "/ready", "/mcp", "/mcp/", "/metrics":
		return path
	default:
		if len(path) > 5 && path[:5] == "/mcp/" {
			return "/mcp"
		}
		return "other"
	}
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordToolCall records a tool invocation outcome
func RecordToolCall(tool, action, status string) {
	ToolCalls.WithLabelValues(tool, action, status).Inc()
}

// RecordLockDenial records a call denied by lock enforcement
func RecordLockDenial(reason string) {
	LockDenials.WithLabelValues(reason).Inc()
}

// RecordAPIRequest records an outbound Dokploy API call
func RecordAPIRequest(procedure, status string, durationSeconds float64) {
	APIRequests.WithLabelValues(procedure, status).Inc()
	APIRequestDuration.WithLabelValues(procedure).Observe(durationSeconds)
}
