package agentruntime

import (
	"context"
	"time"

	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/pkg/device"
	"github.com/modernreader/orchestrator/pkg/events"
	"github.com/modernreader/orchestrator/pkg/nats"
)

// DeviceHeartbeatEvent is the wire shape an out-of-process device adapter
// publishes on "events.device.heartbeat" to keep its DeviceRegistry entry
// alive without holding an HTTP connection open.
type DeviceHeartbeatEvent struct {
	DeviceID   string
	OccurredAt time.Time
}

func (e DeviceHeartbeatEvent) EventType() string { return "device.heartbeat" }

func (e DeviceHeartbeatEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"device_id": e.DeviceID}
}

func (e DeviceHeartbeatEvent) Timestamp() time.Time { return e.OccurredAt }

// IngestHeartbeats wires a NATS subscription so every device.heartbeat event
// refreshes the matching entry in registry, letting out-of-process adapters
// (a phone app, a watch companion) hold a device online over an
// asynchronous transport instead of a kept-open HTTP connection. A device
// that heartbeats before it has ever registered through the Gateway's
// POST /devices/register gets a bare capability-less placeholder entry here
// so it at least shows up as online; it stays `skipped_incompatible` on
// dispatch until it registers with a real capability set.
func IngestHeartbeats(sub *nats.Subscriber, registry *device.Registry) error {
	return sub.Subscribe("events.device.heartbeat", "device-heartbeat-ingest", func(ctx context.Context, event events.Event) error {
		deviceID, _ := event.Payload()["device_id"].(string)
		if deviceID == "" {
			return nil
		}
		if _, ok := registry.Heartbeat(deviceID); !ok {
			registry.Register(deviceID, entity.ClassGenericDisplay, nil, "")
		}
		return nil
	})
}
