package agentruntime

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// BusConnector implements the bus.publish/subscribe verb over an in-process
// event bus, used by agents that react to device heartbeats or session
// lifecycle events without a direct dependency on the Orchestrator.
type BusConnector struct {
	pubsub *gochannel.GoChannel
}

func NewBusConnector() *BusConnector {
	return &BusConnector{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NopLogger{}),
	}
}

func (c *BusConnector) Connect(ctx context.Context) error    { return nil }
func (c *BusConnector) Disconnect(ctx context.Context) error { return c.pubsub.Close() }

func (c *BusConnector) Publish(topic string, payload []byte) error {
	return c.pubsub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload))
}

func (c *BusConnector) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return c.pubsub.Subscribe(ctx, topic)
}
