package device

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/pkg/mapping"
)

// DevicePort is the vendor-agnostic adapter every concrete device
// implementation (watch, glasses, vest, diffuser...) satisfies.
type DevicePort interface {
	Send(ctx context.Context, deadline time.Time, payload any) error
}

// ContentRefs carries the optional text/image material AR overlays and
// displays can render alongside the emotion-derived sensory payload.
type ContentRefs struct {
	Text   string
	Images []string
}

// Broadcaster dispatches a single EmotionReading to a set of devices
// concurrently, shaping the payload per device capability and recording one
// DispatchResult per target regardless of individual outcome.
type Broadcaster struct {
	registry *Registry
	tables   *mapping.Tables
	ports    map[string]DevicePort // device id -> port; tests/adapters populate directly
	mu       sync.RWMutex
	timeout  time.Duration
}

func NewBroadcaster(registry *Registry, tables *mapping.Tables, timeout time.Duration) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		tables:   tables,
		ports:    make(map[string]DevicePort),
		timeout:  timeout,
	}
}

// Bind associates a live DevicePort with a registered device id.
func (b *Broadcaster) Bind(deviceID string, port DevicePort) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ports[deviceID] = port
}

func (b *Broadcaster) port(deviceID string) (DevicePort, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.ports[deviceID]
	return p, ok
}

// Broadcast fans out reading to targetIDs (or every registered device when
// targetIDs is empty), shapes a per-capability payload from MappingTables,
// and returns one DispatchResult per targeted id. It never returns an error
// for individual device failures; those are recorded in the result map.
func (b *Broadcaster) Broadcast(ctx context.Context, reading entity.EmotionReading, content ContentRefs, targetIDs []string) map[string]entity.DispatchResult {
	var targets []entity.DeviceDescriptor
	var missing []string

	if len(targetIDs) == 0 {
		targets = b.registry.List()
	} else {
		targets, missing = b.registry.Resolve(targetIDs)
	}

	results := make(map[string]entity.DispatchResult, len(targets)+len(missing))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, d := range targets {
		wg.Add(1)
		go func(d entity.DeviceDescriptor) {
			defer wg.Done()
			res := b.dispatchOne(ctx, d, reading, content)
			mu.Lock()
			results[d.ID] = res
			mu.Unlock()
		}(d)
	}
	wg.Wait()

	for _, id := range missing {
		results[id] = entity.DispatchResult{Status: entity.DispatchSkippedIncompatible, Error: "unknown device"}
	}

	return results
}

func (b *Broadcaster) dispatchOne(ctx context.Context, d entity.DeviceDescriptor, reading entity.EmotionReading, content ContentRefs) entity.DispatchResult {
	payload, cap, ok := b.shapePayload(d, reading, content)
	if !ok {
		return entity.DispatchResult{Status: entity.DispatchSkippedIncompatible, Error: "device lacks required capability"}
	}
	_ = cap

	port, ok := b.port(d.ID)
	if !ok {
		return entity.DispatchResult{Status: entity.DispatchFailed, Error: "no connector bound for device"}
	}

	start := time.Now()
	attempts := 0

	op := func() (struct{}, error) {
		attempts++
		deadline := time.Now().Add(b.timeout)
		sendCtx, cancel := context.WithDeadline(ctx, deadline)
		defer cancel()

		err := port.Send(sendCtx, deadline, payload)
		if err == nil {
			return struct{}{}, nil
		}
		if !isTransient(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 200 * time.Millisecond
	eb.Multiplier = 2.0

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(3), // first attempt + 2 retries, per the fan-out retry budget
	)

	latency := time.Since(start).Milliseconds()

	if err == nil {
		status := entity.DispatchSuccess
		if attempts > 1 {
			status = entity.DispatchRetriedSuccess
		}
		return entity.DispatchResult{Status: status, Attempts: attempts, LatencyMs: latency}
	}
	return entity.DispatchResult{Status: entity.DispatchFailed, Attempts: attempts, Error: err.Error(), LatencyMs: latency}
}

func isTransient(err error) bool {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case apierr.Incompatible, apierr.Unauthorized:
			return false
		default:
			return true
		}
	}
	return true // unclassified errors (network blips, timeouts) are assumed transient
}

// shapePayload returns the device-specific subset of the mapping output, the
// capability it was built for, and whether the device declares that capability.
func (b *Broadcaster) shapePayload(d entity.DeviceDescriptor, r entity.EmotionReading, content ContentRefs) (any, entity.Capability, bool) {
	switch {
	case d.Has(entity.CapHaptic):
		return b.tables.Haptic(r.Primary, r.Intensity), entity.CapHaptic, true
	case d.Has(entity.CapScent):
		return b.tables.Scent(r.Primary, r.Intensity), entity.CapScent, true
	case d.Has(entity.CapAR):
		overlay := b.tables.AR(r.Primary, r.Intensity)
		return struct {
			Overlay entity.AROverlay `json:"overlay"`
			Text    string           `json:"text,omitempty"`
			Images  []string         `json:"images,omitempty"`
		}{Overlay: overlay, Text: content.Text, Images: firstN(content.Images, 3)}, entity.CapAR, true
	case d.Has(entity.CapTTS):
		return b.tables.Prosody(r.Primary), entity.CapTTS, true
	case d.Has(entity.CapDisplay):
		return struct {
			Emotion   entity.EmotionLabel `json:"emotion"`
			Intensity float64             `json:"intensity"`
		}{Emotion: r.Primary, Intensity: r.Intensity}, entity.CapDisplay, true
	default:
		return nil, "", false
	}
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
