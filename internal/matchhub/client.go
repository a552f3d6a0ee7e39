package matchhub

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// client holds what keepers and watchers share: a connection, an outbound queue fed by the
// hub and the two pumps that move frames over the wire.
type client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn) client {
	return client{
		ID:   uuid.New().String(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// trySend must only be called from the hub goroutine.
func (c *client) trySend(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) writeEvents(leave func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		leave()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			writer, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = writer.Write(msg)

			n := len(c.send)
			for i := 0; i < n; i++ {
				_, _ = writer.Write(newline)
				_, _ = writer.Write(<-c.send)
			}

			if err := writer.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readEvents keeps the read deadline moving and hands each text frame to handle. Watchers
// pass a nil handle; their reads only serve pongs and close frames.
func (c *client) readEvents(handle func([]byte), leave func()) {
	defer leave()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.hub.logError(err, map[string]string{"client": c.ID})
			}
			return
		}

		if handle != nil {
			handle(msg)
		}
	}
}
