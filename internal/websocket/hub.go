// Package websocket carries the SyncService's push_channel (§4.7) over a
// Fiber WebSocket connection. The fan-out and frame semantics live in
// pkg/sync.PushHub; this package is the transport glue plus the
// cross-instance relay, which republishes manifest changes over Redis so
// every process instance's local subscribers hear about an update detected
// on any instance.
package websocket

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/modernreader/orchestrator/pkg/sync"
)

const manifestChangeChannel = "sync_manifest_events"

// Hub adapts a pkg/sync.PushHub to the Fiber WebSocket transport. Each
// process instance only knows about the subscribers connected to it
// locally; PushHub.NotifyIfChanged only reaches those. Redis closes the
// gap across instances: whichever instance's poll loop notices the etag
// change first publishes it, and every instance (including itself)
// re-runs NotifyIfChanged so its own local subscribers hear about it
// without waiting for their own next poll tick.
type Hub struct {
	Push *sync.PushHub
	rdb  *redis.Client

	lastETag atomic.Value // string
}

func NewHub(push *sync.PushHub, rdb *redis.Client) *Hub {
	h := &Hub{Push: push, rdb: rdb}
	h.lastETag.Store("")
	return h
}

// PublishChange notifies local subscribers and, if Redis is configured,
// every other instance watching the same manifest.
func (h *Hub) PublishChange(ctx context.Context, now time.Time) {
	last, _ := h.lastETag.Load().(string)
	etag, err := h.Push.NotifyIfChanged(last, now)
	if err != nil {
		log.Printf("websocket: manifest recompute failed: %v", err)
		return
	}
	changed := etag != last
	h.lastETag.Store(etag)

	if changed && h.rdb != nil {
		if err := h.rdb.Publish(ctx, manifestChangeChannel, etag).Err(); err != nil {
			log.Printf("websocket: failed to publish manifest change: %v", err)
		}
	}
}

// Relay subscribes to other instances' manifest-change announcements and
// re-runs the local notify path so this instance's subscribers hear about
// changes detected elsewhere. Blocks until ctx is done.
func (h *Hub) Relay(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	pubsub := h.rdb.Subscribe(ctx, manifestChangeChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			h.PublishChange(ctx, time.Now())
		}
	}
}
