package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/modernreader/orchestrator/internal/apierr"
)

// HTTPPort is the Gateway's built-in DevicePort: it POSTs the shaped
// payload as JSON to the address a device supplied when it registered,
// respecting the per-dispatch deadline. A vendor adapter with its own
// transport can implement DevicePort directly and skip this type; HTTPPort
// only covers the common case of a device reachable over plain HTTP.
type HTTPPort struct {
	addr   string
	client *http.Client
}

func NewHTTPPort(addr string) *HTTPPort {
	return &HTTPPort{addr: addr, client: &http.Client{}}
}

func (p *HTTPPort) Send(ctx context.Context, deadline time.Time, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, p.addr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apierr.Unauth("device rejected payload")
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return apierr.Incompat(fmt.Sprintf("device %s returned %d", p.addr, resp.StatusCode))
	case resp.StatusCode >= 500:
		return fmt.Errorf("device %s returned %d", p.addr, resp.StatusCode)
	}
	return nil
}
