// Package device implements DeviceRegistry and the fan-out broadcaster
// (C5): a capability-typed table of connected devices and a concurrent
// dispatcher that shapes MappingTables output per device and tolerates
// partial failure. Grounded on a Python sensory hub that tracks a set of
// active device ids and gathers per-device sends concurrently, generalized
// to typed capabilities, heartbeat expiry and retry-on-transient-error.
package device

import (
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"

	"github.com/modernreader/orchestrator/internal/entity"
)

// Registry is read-mostly; writes go through a single mutex while reads take
// a point-in-time snapshot, matching the read-mostly/single-writer discipline.
type Registry struct {
	mu              sync.RWMutex
	devices         map[string]entity.DeviceDescriptor
	heartbeatPeriod time.Duration
	expiry          *cache.Cache
}

func NewRegistry(heartbeatPeriod time.Duration) *Registry {
	r := &Registry{
		devices:         make(map[string]entity.DeviceDescriptor),
		heartbeatPeriod: heartbeatPeriod,
		expiry:          cache.New(heartbeatPeriod*3, heartbeatPeriod),
	}
	r.expiry.OnEvicted(func(id string, _ interface{}) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if d, ok := r.devices[id]; ok {
			d.Status = entity.DeviceOffline
			r.devices[id] = d
		}
	})
	return r
}

// capabilityFingerprint hashes a device's sorted capability set so Register
// can tell a reconnect with the same capabilities apart from one where the
// client's capability set actually changed.
func capabilityFingerprint(caps map[entity.Capability]bool) uint64 {
	names := make([]string, 0, len(caps))
	for c, on := range caps {
		if on {
			names = append(names, string(c))
		}
	}
	sort.Strings(names)

	h := xxhash.New()
	for _, n := range names {
		_, _ = h.WriteString(n)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// Register adds or replaces a device, marking it online. Re-registering an
// id whose capability fingerprint changed since the last call is reported
// via the changed return value, so callers can decide whether to re-run
// capability-dependent setup (e.g. renegotiating a device's preferred
// content format).
func (r *Registry) Register(id string, class entity.DeviceClass, caps map[entity.Capability]bool, addr string) (desc entity.DeviceDescriptor, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fp := capabilityFingerprint(caps)
	if prev, ok := r.devices[id]; ok {
		changed = capabilityFingerprint(prev.Capabilities) != fp
	} else {
		changed = true
	}

	d := entity.DeviceDescriptor{
		ID:           id,
		Class:        class,
		Capabilities: caps,
		Addr:         addr,
		Status:       entity.DeviceOnline,
		LastSeen:     time.Now().UTC(),
	}
	r.devices[id] = d
	r.expiry.Set(id, struct{}{}, r.heartbeatPeriod*3)
	return d, changed
}

// Heartbeat refreshes last_seen and brings a degraded/offline device back online.
func (r *Registry) Heartbeat(id string) (entity.DeviceDescriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return entity.DeviceDescriptor{}, false
	}
	d.LastSeen = time.Now().UTC()
	d.Status = entity.DeviceOnline
	r.devices[id] = d
	r.expiry.Set(id, struct{}{}, r.heartbeatPeriod*3)
	return d, true
}

// Get resolves offline status lazily: if 3x heartbeat_period has elapsed
// since last_seen, the returned snapshot reports offline even if the
// background sweep hasn't run yet.
func (r *Registry) Get(id string) (entity.DeviceDescriptor, bool) {
	r.mu.RLock()
	d, ok := r.devices[id]
	r.mu.RUnlock()
	if !ok {
		return entity.DeviceDescriptor{}, false
	}
	return r.withLazyExpiry(d), true
}

func (r *Registry) withLazyExpiry(d entity.DeviceDescriptor) entity.DeviceDescriptor {
	if d.Status != entity.DeviceOffline && time.Since(d.LastSeen) > r.heartbeatPeriod*3 {
		d.Status = entity.DeviceOffline
	}
	return d
}

// List returns a snapshot of every registered device.
func (r *Registry) List() []entity.DeviceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.DeviceDescriptor, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, r.withLazyExpiry(d))
	}
	return out
}

// Resolve returns the subset of ids that are registered, skipping unknown
// ones; callers decide whether an unresolved id is not_found or skipped.
func (r *Registry) Resolve(ids []string) (found []entity.DeviceDescriptor, missing []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range ids {
		if d, ok := r.devices[id]; ok {
			found = append(found, r.withLazyExpiry(d))
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

// SweepOffline marks every device whose last_seen is stale as offline; meant
// to run periodically from a background goroutine owned by the caller.
func (r *Registry) SweepOffline() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, d := range r.devices {
		if d.Status != entity.DeviceOffline && time.Since(d.LastSeen) > r.heartbeatPeriod*3 {
			d.Status = entity.DeviceOffline
			r.devices[id] = d
		}
	}
}

// Unregister removes a device entirely (explicit disconnect).
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, id)
	r.expiry.Delete(id)
}
