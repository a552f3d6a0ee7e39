package matchhub

import (
	"CricketScoreApi/internal/cricket"
	"CricketScoreApi/internal/jsonlog"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

type envelope map[string]any

// Change describes the match right after a successful mutation.
type Change struct {
	Pin        string
	Kind       string
	Snapshot   cricket.Snapshot
	Scoreboard cricket.Scoreboard
}

type Config struct {
	Logger *jsonlog.Logger
	// OnChange runs on the hub goroutine after every successful mutation, so calls for one
	// match never overlap and arrive in order. When it fails the mutation is rolled back and
	// the error is returned from Do.
	OnChange func(Change) error
	// IdleTimeout closes a hub that has had no clients and no commands for that long.
	// Zero keeps hubs open until they are cancelled.
	IdleTimeout time.Duration
	// OnClose is called by the Registry after a hub it opened has stopped by itself.
	OnClose func(pin string)
}

type command struct {
	fn      func(m *cricket.Match) error
	kind    string
	mutates bool
	from    *Keeper
	result  chan error
}

// Hub owns one match. Its Run goroutine is the only code that touches the match, so every
// read and write goes through Do or View.
type Hub struct {
	Pin          string
	match        *cricket.Match
	config       Config
	keepers      map[*Keeper]bool
	watchers     map[*Watcher]bool
	commands     chan command
	joinKeeper   chan *Keeper
	leaveKeeper  chan *Keeper
	joinWatcher  chan *Watcher
	leaveWatcher chan *Watcher
	done         chan struct{}
}

func New(pin string, m *cricket.Match, cfg Config) *Hub {
	return &Hub{
		Pin:          pin,
		match:        m,
		config:       cfg,
		keepers:      make(map[*Keeper]bool),
		watchers:     make(map[*Watcher]bool),
		commands:     make(chan command),
		joinKeeper:   make(chan *Keeper),
		leaveKeeper:  make(chan *Keeper),
		joinWatcher:  make(chan *Watcher),
		leaveWatcher: make(chan *Watcher),
		done:         make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	var idle <-chan time.Time
	if h.config.IdleTimeout > 0 {
		ticker := time.NewTicker(h.config.IdleTimeout)
		defer ticker.Stop()
		idle = ticker.C
	}
	lastActive := time.Now()

	for {
		select {
		case <-idle:
			if len(h.keepers)+len(h.watchers) == 0 && time.Since(lastActive) >= h.config.IdleTimeout {
				return
			}
			continue
		case <-ctx.Done():
			h.dropClients()
			return
		case watcher := <-h.joinWatcher:
			h.watchers[watcher] = true
			watcher.trySend(h.scoreboardMessage(KindJoined))
		case watcher := <-h.leaveWatcher:
			if _, ok := h.watchers[watcher]; ok {
				delete(h.watchers, watcher)
				close(watcher.send)
			}
		case keeper := <-h.joinKeeper:
			h.keepers[keeper] = true
			keeper.trySend(h.scoreboardMessage(KindJoined))
		case keeper := <-h.leaveKeeper:
			if _, ok := h.keepers[keeper]; ok {
				delete(h.keepers, keeper)
				close(keeper.send)
			}
		case cmd := <-h.commands:
			if !h.execute(cmd) {
				// The match could not be put back, so nothing it holds can be trusted.
				h.dropClients()
				return
			}
		}
		lastActive = time.Now()
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) dropClients() {
	for k := range h.keepers {
		delete(h.keepers, k)
		close(k.send)
	}
	for w := range h.watchers {
		delete(h.watchers, w)
		close(w.send)
	}
}

func (h *Hub) closed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// execute replies to the caller once the change has been handed to OnChange and broadcast.
// It reports false when a failed change could not be rolled back.
func (h *Hub) execute(cmd command) bool {
	var before cricket.Snapshot
	if cmd.mutates && h.config.OnChange != nil {
		before = h.match.Snapshot()
	}

	err := cmd.fn(h.match)
	defer func() { cmd.result <- err }()

	if err == nil && cmd.mutates && h.config.OnChange != nil {
		err = h.config.OnChange(Change{
			Pin:        h.Pin,
			Kind:       cmd.kind,
			Snapshot:   h.match.Snapshot(),
			Scoreboard: h.match.Scoreboard(),
		})
		if err != nil {
			if rbErr := h.rollback(before); rbErr != nil {
				h.logError(fmt.Errorf("rolling back %s: %w", cmd.kind, rbErr), nil)
				return false
			}
		}
	}

	if err != nil {
		if cmd.from != nil && h.keepers[cmd.from] {
			cmd.from.trySend(errorMessage(err))
		}
		return true
	}
	if !cmd.mutates {
		return true
	}

	msg := h.scoreboardMessage(cmd.kind)
	h.toAllKeepers(msg)
	h.toAllWatchers(msg)
	return true
}

// rollback puts the match back to before so memory never runs ahead of what was stored.
func (h *Hub) rollback(before cricket.Snapshot) error {
	m, err := cricket.Restore(before)
	if err != nil {
		return err
	}
	h.match = m
	return nil
}

func (h *Hub) submit(ctx context.Context, cmd command) error {
	cmd.result = make(chan error, 1)

	select {
	case h.commands <- cmd:
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn against the match on the hub goroutine and waits for its result. When fn
// succeeds the new scoreboard is broadcast under the given kind.
func (h *Hub) Do(ctx context.Context, kind string, fn func(m *cricket.Match) error) error {
	return h.submit(ctx, command{fn: fn, kind: kind, mutates: true})
}

// View runs a read-only fn against the match. Nothing is broadcast.
func (h *Hub) View(ctx context.Context, fn func(m *cricket.Match) error) error {
	return h.submit(ctx, command{fn: fn})
}

// Scoreboard is a convenience View.
func (h *Hub) Scoreboard(ctx context.Context) (cricket.Scoreboard, error) {
	var sb cricket.Scoreboard
	err := h.View(ctx, func(m *cricket.Match) error {
		sb = m.Scoreboard()
		return nil
	})
	return sb, err
}

func (h *Hub) JoinKeeper(conn *websocket.Conn) (*Keeper, error) {
	keeper := newKeeper(h, conn)

	select {
	case h.joinKeeper <- keeper:
	case <-h.done:
		return nil, ErrHubClosed
	}

	go keeper.writeEvents(func() { h.dropKeeper(keeper) })
	go keeper.readEvents(keeper.handle, func() { h.dropKeeper(keeper) })

	return keeper, nil
}

func (h *Hub) JoinWatcher(conn *websocket.Conn) (*Watcher, error) {
	watcher := newWatcher(h, conn)

	select {
	case h.joinWatcher <- watcher:
	case <-h.done:
		return nil, ErrHubClosed
	}

	go watcher.writeEvents(func() { h.dropWatcher(watcher) })
	go watcher.readEvents(nil, func() { h.dropWatcher(watcher) })

	return watcher, nil
}

func (h *Hub) dropKeeper(k *Keeper) {
	select {
	case h.leaveKeeper <- k:
	case <-h.done:
	}
}

func (h *Hub) dropWatcher(w *Watcher) {
	select {
	case h.leaveWatcher <- w:
	case <-h.done:
	}
}

func (h *Hub) toAllWatchers(msg []byte) {
	for watcher := range h.watchers {
		if !watcher.trySend(msg) {
			close(watcher.send)
			delete(h.watchers, watcher)
		}
	}
}

func (h *Hub) toAllKeepers(msg []byte) {
	for keeper := range h.keepers {
		if !keeper.trySend(msg) {
			close(keeper.send)
			delete(h.keepers, keeper)
		}
	}
}

func (h *Hub) scoreboardMessage(kind string) []byte {
	return toBytes(envelope{"type": "scoreboard", "change": kind, "scoreboard": h.match.Scoreboard()})
}

func (h *Hub) logError(err error, properties map[string]string) {
	if h.config.Logger == nil {
		return
	}
	if properties == nil {
		properties = make(map[string]string)
	}
	properties["pin"] = h.Pin
	h.config.Logger.PrintError(err, properties)
}

func errorMessage(err error) []byte {
	code := cricket.ErrorCode(err)
	if code == "" && (errors.Is(err, ErrEventParseFailed) || errors.Is(err, ErrEventValidationFailed)) {
		code = "bad_event"
	}
	return toBytes(envelope{"type": "error", "code": code, "error": err.Error()})
}

func toBytes(e envelope) []byte {
	b, err := json.Marshal(e)
	if err != nil {
		return []byte(`{"type":"error","error":"could not encode message"}`)
	}
	return b
}
