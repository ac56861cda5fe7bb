package main

import (
	"context"
	"log"
	"time"

	"github.com/modernreader/orchestrator/internal/bootstrap"
	"github.com/modernreader/orchestrator/internal/config"
	"github.com/modernreader/orchestrator/internal/server"
	"github.com/modernreader/orchestrator/internal/tracer"
	"github.com/modernreader/orchestrator/internal/websocket"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)

	go sweepOfflineDevices(container.Registry, container.HeartbeatPeriod)
	go pollManifest(container.WSHub, container.SyncCacheTTL)
	go container.WSHub.Relay(context.Background())

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}

// sweepOfflineDevices reaps devices that missed three heartbeat periods, per
// the DeviceRegistry's read-mostly, single-writer discipline (§5).
func sweepOfflineDevices(registry interface{ SweepOffline() }, period time.Duration) {
	if period <= 0 {
		period = 20 * time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for range ticker.C {
		registry.SweepOffline()
	}
}

// pollManifest recomputes the SyncService manifest on the cache's own TTL
// and fans out an update frame to every push_channel subscriber when the
// etag changed, since nothing else in-process is watching the filesystem.
func pollManifest(hub *websocket.Hub, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for now := range ticker.C {
		hub.PublishChange(context.Background(), now)
	}
}
