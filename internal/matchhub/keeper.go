package matchhub

import (
	"CricketScoreApi/internal/cricket"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

// Keeper is an authorized scorer connection. Every message it sends is a match event.
type Keeper struct {
	client
}

func newKeeper(hub *Hub, conn *websocket.Conn) *Keeper {
	return &Keeper{client: newClient(hub, conn)}
}

func (k *Keeper) handle(msg []byte) {
	event, err := parseMessage(msg)
	if err != nil {
		// Routed through the hub so only the hub goroutine writes to k.send.
		_ = k.hub.submit(context.Background(), command{
			fn:   func(*cricket.Match) error { return err },
			from: k,
		})
		return
	}

	_ = k.hub.submit(context.Background(), command{
		fn:      event.Apply,
		kind:    event.Kind(),
		mutates: true,
		from:    k,
	})
}

func parseMessage(msg []byte) (MatchEvent, error) {
	var genericEvent GenericEvent
	if err := json.Unmarshal(msg, &genericEvent); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEventParseFailed, err)
	}
	return genericEvent.parseEvent()
}
