package matchhub

import (
	"github.com/gorilla/websocket"
)

// Watcher receives the scoreboard after every change and never sends events.
type Watcher struct {
	client
}

func newWatcher(hub *Hub, conn *websocket.Conn) *Watcher {
	return &Watcher{client: newClient(hub, conn)}
}
