package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/modernreader/orchestrator/pkg/sync"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client pumps Frames from a pkg/sync.Subscriber's Outbox onto a WebSocket
// connection, and forwards client pings to PushHub.Pong.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	sub  *sync.Subscriber
}

// readPump pumps client-sent control messages; any text frame is treated as
// a ping and answered with a pong frame, matching the push_channel's
// client-driven liveness check (§4.7).
func (c *Client) readPump() {
	defer func() {
		c.hub.Push.Unsubscribe(c.sub.ID)
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
		c.hub.Push.Pong(c.sub.ID)
	}
}

// writePump drains the subscriber's Outbox and writes each Frame as JSON.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.sub.Outbox:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				log.Printf("websocket: failed to marshal frame: %v", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
