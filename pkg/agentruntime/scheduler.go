package agentruntime

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Scheduler is the single-process worker pool the Orchestrator and device
// fan-out share. It bounds in-flight work per session (default 32); because
// each session gets its own independent semaphore, one busy session can
// never exhaust another session's budget. A session's semaphore is evicted
// after sessionTTL of inactivity so a long-lived process doesn't accumulate
// one channel per session id forever.
type Scheduler struct {
	maxInFlightPerSession int
	sessionTTL            time.Duration

	mu     sync.Mutex
	sems   map[string]chan struct{}
	expiry *cache.Cache
}

func NewScheduler(maxInFlightPerSession int, sessionTTL time.Duration) *Scheduler {
	if maxInFlightPerSession <= 0 {
		maxInFlightPerSession = 32
	}
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	s := &Scheduler{
		maxInFlightPerSession: maxInFlightPerSession,
		sessionTTL:            sessionTTL,
		sems:                  make(map[string]chan struct{}),
		expiry:                cache.New(sessionTTL, sessionTTL/2),
	}
	s.expiry.OnEvicted(func(id string, _ interface{}) {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.sems, id)
	})
	return s
}

func (s *Scheduler) semFor(sessionID string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	sem, ok := s.sems[sessionID]
	if !ok {
		sem = make(chan struct{}, s.maxInFlightPerSession)
		s.sems[sessionID] = sem
	}
	s.expiry.Set(sessionID, struct{}{}, s.sessionTTL)
	return sem
}

// Submit runs fn once a slot under sessionID's in-flight budget is free,
// blocking until either a slot opens or ctx is cancelled.
func (s *Scheduler) Submit(ctx context.Context, sessionID string, fn func(context.Context)) error {
	sem := s.semFor(sessionID)

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-sem }()

	fn(ctx)
	return nil
}

// InFlight reports how many tasks are currently running for sessionID.
func (s *Scheduler) InFlight(sessionID string) int {
	s.mu.Lock()
	sem, ok := s.sems[sessionID]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	return len(sem)
}
