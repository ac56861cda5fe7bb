package agentruntime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_BoundsInFlightPerSession(t *testing.T) {
	s := NewScheduler(2, time.Minute)
	var maxSeen int32
	var current int32

	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() {
			_ = s.Submit(context.Background(), "session-a", func(ctx context.Context) {
				n := atomic.AddInt32(&current, 1)
				for {
					old := atomic.LoadInt32(&maxSeen)
					if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&current, -1)
			})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 5; i++ {
		<-done
	}

	assert.LessOrEqual(t, int(maxSeen), 2)
}

func TestScheduler_SessionsAreIndependent(t *testing.T) {
	s := NewScheduler(1, time.Minute)
	blockA := make(chan struct{})
	started := make(chan struct{})

	go s.Submit(context.Background(), "a", func(ctx context.Context) {
		close(started)
		<-blockA
	})
	<-started

	doneB := make(chan struct{})
	go func() {
		s.Submit(context.Background(), "b", func(ctx context.Context) {})
		close(doneB)
	}()

	select {
	case <-doneB:
	case <-time.After(time.Second):
		t.Fatal("session b blocked by session a's in-flight work")
	}
	close(blockA)
}

func TestScheduler_EvictsStaleSessionSemaphore(t *testing.T) {
	s := NewScheduler(2, 20*time.Millisecond)
	_ = s.Submit(context.Background(), "stale", func(ctx context.Context) {})

	s.mu.Lock()
	_, ok := s.sems["stale"]
	s.mu.Unlock()
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		s.mu.Lock()
		_, ok := s.sems["stale"]
		s.mu.Unlock()
		return !ok
	}, time.Second, 10*time.Millisecond)
}
