package matchhub

import (
	"CricketScoreApi/internal/cricket"
	"context"
	"slices"
	"sync"
)

type entry struct {
	hub    *Hub
	cancel context.CancelFunc
}

// Registry tracks the hubs of matches currently open for scoring, keyed by pin.
type Registry struct {
	ctx    context.Context
	config Config
	mu     sync.Mutex
	hubs   map[string]entry
}

// NewRegistry starts every hub under ctx; cancelling it stops them all.
func NewRegistry(ctx context.Context, cfg Config) *Registry {
	return &Registry{
		ctx:    ctx,
		config: cfg,
		hubs:   make(map[string]entry),
	}
}

func (r *Registry) Get(pin string) (*Hub, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.hubs[pin]
	if !ok || e.hub.closed() {
		return nil, false
	}
	return e.hub, true
}

// Open returns the running hub for pin, starting one from load if there is none.
func (r *Registry) Open(pin string, load func() (*cricket.Match, error)) (*Hub, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.hubs[pin]; ok && !e.hub.closed() {
		return e.hub, nil
	}

	m, err := load()
	if err != nil {
		return nil, err
	}

	hub := New(pin, m, r.config)
	ctx, cancel := context.WithCancel(r.ctx)
	e := entry{hub: hub, cancel: cancel}
	r.hubs[pin] = e
	go hub.Run(ctx)
	go r.reap(pin, e)

	return hub, nil
}

// reap forgets a hub once it stops. Hubs removed by Close or Shutdown are already gone, so
// OnClose only hears about hubs that went idle.
func (r *Registry) reap(pin string, e entry) {
	<-e.hub.Done()
	e.cancel()

	r.mu.Lock()
	current, ok := r.hubs[pin]
	removed := ok && current.hub == e.hub
	if removed {
		delete(r.hubs, pin)
	}
	r.mu.Unlock()

	if removed && r.config.OnClose != nil {
		r.config.OnClose(pin)
	}
}

// Close stops the hub for pin and waits for it to exit.
func (r *Registry) Close(pin string) bool {
	r.mu.Lock()
	e, ok := r.hubs[pin]
	delete(r.hubs, pin)
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.cancel()
	<-e.hub.Done()
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.hubs)
}

func (r *Registry) Pins() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	pins := make([]string, 0, len(r.hubs))
	for pin := range r.hubs {
		pins = append(pins, pin)
	}
	slices.Sort(pins)
	return pins
}

// Shutdown stops every hub and waits for them to exit.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	entries := make([]entry, 0, len(r.hubs))
	for pin, e := range r.hubs {
		entries = append(entries, e)
		delete(r.hubs, pin)
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.cancel()
		<-e.hub.Done()
	}
}
