// Package orchestrator coordinates the Segmenter, EmotionEngine,
// MappingTables and MemoryStore into the per-session play/pause/seek/summary
// lifecycle (C6). Grounded on a Python Orchestrator that pulls preferences,
// segments text, scores emotion and composes a playback result from its
// agents, generalized into a stateful Go session table with a monotonic
// generation counter for cancellation.
package orchestrator

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/modernreader/orchestrator/internal/entity"
)

// sessionLock is a fine-grained, one-per-session mutex so play/pause/seek on
// a given session are linearizable without serializing unrelated sessions.
type sessionLock struct {
	mu sync.Mutex
}

// sessionTable is the orchestrator's read-mostly in-memory state, discarded
// after an inactivity TTL; it is not durable across restart.
type sessionTable struct {
	mu     sync.RWMutex
	rows   map[string]*entity.Session
	locks  map[string]*sessionLock
	ttl    time.Duration
	expiry *cache.Cache
}

func newSessionTable(ttl time.Duration) *sessionTable {
	t := &sessionTable{
		rows:   make(map[string]*entity.Session),
		locks:  make(map[string]*sessionLock),
		ttl:    ttl,
		expiry: cache.New(ttl, ttl/2),
	}
	t.expiry.OnEvicted(func(id string, _ interface{}) {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.rows, id)
		delete(t.locks, id)
	})
	return t
}

func (t *sessionTable) touch(id string) {
	t.expiry.Set(id, struct{}{}, t.ttl)
}

func (t *sessionTable) lockFor(id string) *sessionLock {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[id]
	if !ok {
		l = &sessionLock{}
		t.locks[id] = l
	}
	return l
}

func (t *sessionTable) get(id string) (*entity.Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.rows[id]
	return s, ok
}

func (t *sessionTable) put(s *entity.Session) {
	t.mu.Lock()
	t.rows[s.ID] = s
	t.mu.Unlock()
	t.touch(s.ID)
}
