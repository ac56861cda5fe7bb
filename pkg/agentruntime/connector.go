// Package agentruntime implements AgentRuntime (C9): capability-based agent
// wiring, a uniform Connector interface over external services, and a
// bounded worker-pool scheduler shared by the Orchestrator and device
// fan-out. Grounded on a Python BaseConnector/HTTPConnector pair with
// explicit connect/disconnect plus service-specific verbs, generalized to
// http/vector/sql/bus verbs.
package agentruntime

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ConnectorConfig is the retry/timeout contract every connector exposes.
type ConnectorConfig struct {
	TimeoutMs        int
	MaxRetries       int
	BackoffInitialMs int
	BackoffFactor    float64
}

func (c ConnectorConfig) timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Connector is the uniform lifecycle every external-service adapter
// implements; verb methods live on the concrete connector types below.
type Connector interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// HTTPConnector implements the http.post/get verbs over a base URL.
type HTTPConnector struct {
	cfg     ConnectorConfig
	baseURL string
	client  *http.Client
}

func NewHTTPConnector(baseURL string, cfg ConnectorConfig) *HTTPConnector {
	return &HTTPConnector{cfg: cfg, baseURL: baseURL, client: &http.Client{Timeout: cfg.timeout()}}
}

func (c *HTTPConnector) Connect(ctx context.Context) error    { return nil }
func (c *HTTPConnector) Disconnect(ctx context.Context) error { return nil }

func (c *HTTPConnector) withRetry(ctx context.Context, do func() (map[string]any, error)) (map[string]any, error) {
	eb := backoff.NewExponentialBackOff()
	if c.cfg.BackoffInitialMs > 0 {
		eb.InitialInterval = time.Duration(c.cfg.BackoffInitialMs) * time.Millisecond
	} else {
		eb.InitialInterval = 200 * time.Millisecond
	}
	if c.cfg.BackoffFactor > 0 {
		eb.Multiplier = c.cfg.BackoffFactor
	} else {
		eb.Multiplier = 2.0
	}

	maxTries := uint(c.cfg.MaxRetries + 1)
	if maxTries < 1 {
		maxTries = 1
	}

	return backoff.Retry(ctx, do, backoff.WithBackOff(eb), backoff.WithMaxTries(maxTries))
}

func (c *HTTPConnector) Post(ctx context.Context, path string, body map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return c.withRetry(ctx, func() (map[string]any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return c.do(req)
	})
}

func (c *HTTPConnector) Get(ctx context.Context, path string) (map[string]any, error) {
	return c.withRetry(ctx, func() (map[string]any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		return c.do(req)
	})
}

func (c *HTTPConnector) do(req *http.Request) (map[string]any, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("connector: upstream %s returned %d", req.URL, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, backoff.Permanent(fmt.Errorf("connector: upstream %s returned %d", req.URL, resp.StatusCode))
	}

	out := make(map[string]any)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// VectorConnector implements vector.upsert/query against the RAG corpus's
// backing embedding provider; kept as an interface so pkg/memory's sqlite
// store and a future external vector DB can both satisfy it.
type VectorConnector interface {
	Connector
	Upsert(ctx context.Context, docID string, vector []float32, meta map[string]any) error
	Query(ctx context.Context, vector []float32, topK int) ([]string, error)
}

// SQLConnector implements sql.query/execute over a database/sql handle,
// used by anything that needs direct access beyond the memory façade.
type SQLConnector struct {
	db *sql.DB
}

func NewSQLConnector(db *sql.DB) *SQLConnector { return &SQLConnector{db: db} }

func (c *SQLConnector) Connect(ctx context.Context) error    { return c.db.PingContext(ctx) }
func (c *SQLConnector) Disconnect(ctx context.Context) error { return c.db.Close() }

func (c *SQLConnector) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

func (c *SQLConnector) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}
