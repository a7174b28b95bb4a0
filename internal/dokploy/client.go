package dokploy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/deploykit/dokploy-mcp/internal/logger"
	"github.com/deploykit/dokploy-mcp/internal/metrics"
)

// ErrNotFound reports that the requested resource does not exist on the
// platform. Callers that need to distinguish "absent" from transport
// failures test for it with errors.Is.
var ErrNotFound = errors.New("resource not found")

// APIError is a non-success response from the Dokploy API.
type APIError struct {
	Status    int
	Procedure string
	Message   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("dokploy %s: %s (status %d)", e.Procedure, e.Message, e.Status)
	}
	return fmt.Sprintf("dokploy %s: status %d", e.Procedure, e.Status)
}

// Unwrap maps 404 responses onto ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

const (
	breakerMaxFailures uint32 = 5
	breakerTimeout            = 30 * time.Second
	breakerInterval           = 60 * time.Second
)

// Config configures the API client.
type Config struct {
	// BaseURL is the Dokploy instance root, e.g. https://deploy.example.com.
	// The /api prefix is appended here (a trailing /api is tolerated);
	// callers pass bare procedure names.
	BaseURL string
	// APIKey is sent as the x-api-key header on every request.
	APIKey string
	// Timeout bounds each request end to end.
	Timeout time.Duration
	// Rate/Burst throttle outbound calls. Rate <= 0 disables throttling.
	Rate  float64
	Burst int
}

// Client talks to the Dokploy REST API. Queries are GETs with procedure
// parameters in the query string, mutations are POSTs with a JSON body.
// A circuit breaker fails calls fast while the platform is unreachable,
// and an optional limiter keeps agent loops from hammering it.
type Client struct {
	apiBase    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	limiter    *rate.Limiter
}

// NewClient builds a Client from cfg. The base URL must already be
// validated by config loading.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")
	base = strings.TrimSuffix(base, "/api")

	c := &Client{
		apiBase: base + "/api",
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newPooledTransport(),
		},
	}

	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "dokploy-api",
		MaxRequests: 1, // one probe in half-open state
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	})

	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}

	return c
}

func newPooledTransport() *http.Transport {
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// Get performs a query procedure, e.g. Get(ctx, "project.one", query, &out).
func (c *Client) Get(ctx context.Context, procedure string, query url.Values, out any) error {
	endpoint := c.apiBase + "/" + procedure
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dokploy %s: %w", procedure, err)
	}
	return c.roundTrip(req, procedure, out)
}

// Post performs a mutation procedure with a JSON body.
func (c *Client) Post(ctx context.Context, procedure string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("dokploy %s: encode request: %w", procedure, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/"+procedure, &buf)
	if err != nil {
		return fmt.Errorf("dokploy %s: %w", procedure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.roundTrip(req, procedure, out)
}

func (c *Client) roundTrip(req *http.Request, procedure string, out any) error {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("dokploy %s: %w", procedure, err)
		}
	}

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		// 5xx counts as a breaker failure; 4xx is a valid platform answer.
		if resp.StatusCode >= http.StatusInternalServerError {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, &APIError{Status: resp.StatusCode, Procedure: procedure, Message: errorMessage(body)}
		}
		return resp, nil
	})
	if err != nil {
		metrics.RecordAPIRequest(procedure, "error", time.Since(start).Seconds())
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return fmt.Errorf("dokploy %s: %w", procedure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	metrics.RecordAPIRequest(procedure, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("dokploy %s: read response: %w", procedure, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{Status: resp.StatusCode, Procedure: procedure, Message: errorMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("dokploy %s: decode response: %w", procedure, err)
		}
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error payload.
// The API nests it differently across versions, so try both before falling
// back to the raw body.
func errorMessage(body []byte) string {
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if wrapped.Error.Message != "" {
			return wrapped.Error.Message
		}
		if wrapped.Message != "" {
			return wrapped.Message
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// Project fetches one project with its environment list.
func (c *Client) Project(ctx context.Context, projectID string) (*Project, error) {
	query := url.Values{"projectId": []string{projectID}}
	var project Project
	if err := c.Get(ctx, "project.one", query, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Ping checks that the platform is reachable and the API key works.
func (c *Client) Ping(ctx context.Context) error {
	var out json.RawMessage
	return c.Get(ctx, "project.all", nil, &out)
}
