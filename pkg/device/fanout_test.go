package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/pkg/mapping"
)

type fakePort struct {
	failures int
	err      error
	calls    int
}

func (f *fakePort) Send(ctx context.Context, deadline time.Time, payload any) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func setup(t *testing.T) (*Registry, *Broadcaster) {
	t.Helper()
	reg := NewRegistry(20 * time.Second)
	b := NewBroadcaster(reg, mapping.New(), time.Second)
	return reg, b
}

func TestBroadcast_PartialFailureStillReturnsAllResults(t *testing.T) {
	reg, b := setup(t)
	reg.Register("watch-1", entity.ClassWatch, map[entity.Capability]bool{entity.CapHaptic: true}, "")
	reg.Register("vest-1", entity.ClassHapticVest, map[entity.Capability]bool{entity.CapHaptic: true}, "")

	b.Bind("watch-1", &fakePort{})
	b.Bind("vest-1", &fakePort{failures: 99, err: errors.New("device offline")})

	results := b.Broadcast(context.Background(), entity.EmotionReading{Primary: entity.Happy, Intensity: 0.8}, ContentRefs{}, nil)

	require.Len(t, results, 2)
	assert.Equal(t, entity.DispatchSuccess, results["watch-1"].Status)
	assert.Equal(t, entity.DispatchFailed, results["vest-1"].Status)
}

func TestBroadcast_IncompatibleDeviceSkipped(t *testing.T) {
	reg, b := setup(t)
	reg.Register("display-1", entity.ClassGenericDisplay, map[entity.Capability]bool{entity.CapDisplay: true}, "")
	b.Bind("display-1", &fakePort{})

	results := b.Broadcast(context.Background(), entity.EmotionReading{Primary: entity.Sad, Intensity: 0.5}, ContentRefs{}, []string{"display-1", "unknown-device"})

	assert.Equal(t, entity.DispatchSuccess, results["display-1"].Status)
	assert.Equal(t, entity.DispatchSkippedIncompatible, results["unknown-device"].Status)
}

func TestBroadcast_TransientFailureRetriesThenSucceeds(t *testing.T) {
	reg, b := setup(t)
	reg.Register("vest-1", entity.ClassHapticVest, map[entity.Capability]bool{entity.CapHaptic: true}, "")
	b.Bind("vest-1", &fakePort{failures: 1, err: errors.New("timeout")})

	results := b.Broadcast(context.Background(), entity.EmotionReading{Primary: entity.Fear, Intensity: 0.6}, ContentRefs{}, nil)

	assert.Equal(t, entity.DispatchRetriedSuccess, results["vest-1"].Status)
	assert.Equal(t, 2, results["vest-1"].Attempts)
}

func TestBroadcast_PermanentErrorDoesNotRetry(t *testing.T) {
	reg, b := setup(t)
	reg.Register("vest-1", entity.ClassHapticVest, map[entity.Capability]bool{entity.CapHaptic: true}, "")
	b.Bind("vest-1", &fakePort{failures: 99, err: apierr.Incompat("missing firmware feature")})

	results := b.Broadcast(context.Background(), entity.EmotionReading{Primary: entity.Angry, Intensity: 0.9}, ContentRefs{}, nil)

	assert.Equal(t, entity.DispatchFailed, results["vest-1"].Status)
	assert.Equal(t, 1, results["vest-1"].Attempts)
}

func TestRegistry_HeartbeatKeepsDeviceOnline(t *testing.T) {
	reg := NewRegistry(50 * time.Millisecond)
	reg.Register("watch-1", entity.ClassWatch, map[entity.Capability]bool{entity.CapHaptic: true}, "")

	_, ok := reg.Heartbeat("watch-1")
	assert.True(t, ok)

	d, _ := reg.Get("watch-1")
	assert.Equal(t, entity.DeviceOnline, d.Status)
}

func TestRegistry_NoContactBecomesOffline(t *testing.T) {
	reg := NewRegistry(10 * time.Millisecond)
	reg.Register("watch-1", entity.ClassWatch, map[entity.Capability]bool{entity.CapHaptic: true}, "")

	time.Sleep(60 * time.Millisecond)

	d, ok := reg.Get("watch-1")
	require.True(t, ok)
	assert.Equal(t, entity.DeviceOffline, d.Status)
}
