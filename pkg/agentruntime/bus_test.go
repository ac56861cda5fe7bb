package agentruntime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusConnector_PublishSubscribeRoundTrip(t *testing.T) {
	bus := NewBusConnector()
	defer bus.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	messages, err := bus.Subscribe(ctx, "device.heartbeat")
	require.NoError(t, err)

	require.NoError(t, bus.Publish("device.heartbeat", []byte(`{"device_id":"apple_watch"}`)))

	select {
	case msg := <-messages:
		assert.Equal(t, `{"device_id":"apple_watch"}`, string(msg.Payload))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for published message")
	}
}
