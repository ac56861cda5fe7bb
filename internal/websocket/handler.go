package websocket

import (
	"log"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeSync registers a new push_channel subscriber and pumps frames to it
// until the connection closes.
func ServeSync(hub *Hub, conn *websocket.Conn) {
	sub, err := hub.Push.Subscribe(uuid.NewString())
	if err != nil {
		log.Printf("websocket: subscribe failed: %v", err)
		conn.Close()
		return
	}

	client := &Client{hub: hub, conn: conn, sub: sub}
	go client.writePump()
	client.readPump()
}
