package main

import (
	"CricketScoreApi/internal/cricket"
	"CricketScoreApi/internal/data"
	"CricketScoreApi/internal/matchhub"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gorilla/websocket"
)

func (app *application) loader(pin string) func() (*cricket.Match, error) {
	return func() (*cricket.Match, error) {
		match, err := app.matches.Get(pin)
		if err != nil {
			return nil, err
		}

		m, err := match.Match()
		if err != nil {
			// A stored snapshot that will not restore is our fault, not the client's.
			return nil, fmt.Errorf("restoring match %s: %s", pin, err)
		}
		return m, nil
	}
}

// openHub returns the running hub for a match, starting it from storage if needed.
func (app *application) openHub(pin string) (*matchhub.Hub, error) {
	_, live := app.hubs.Get(pin)

	hub, err := app.hubs.Open(pin, app.loader(pin))
	if err != nil {
		return nil, err
	}

	if !live {
		app.refreshLiveMatches()
	}
	return hub, nil
}

// viewMatch runs a read against a match: through its hub when one is running, otherwise on
// a copy restored from storage.
func (app *application) viewMatch(ctx context.Context, pin string,
	fn func(m *cricket.Match) error) error {
	if hub, live := app.hubs.Get(pin); live {
		err := hub.View(ctx, fn)
		if !errors.Is(err, matchhub.ErrHubClosed) {
			return err
		}
	}

	m, err := app.loader(pin)()
	if err != nil {
		return err
	}
	return fn(m)
}

// doMatch applies a change to the match loaded by requireScorerKey.
func (app *application) doMatch(r *http.Request, kind string, fn func(m *cricket.Match) error) error {
	pin := app.contextGetMatch(r).Pin.Pin

	hub, err := app.openHub(pin)
	if err != nil {
		return err
	}

	err = hub.Do(r.Context(), kind, fn)
	if !errors.Is(err, matchhub.ErrHubClosed) {
		return err
	}

	// The hub went idle between opening and submitting; fn never ran, so start another.
	hub, err = app.openHub(pin)
	if err != nil {
		return err
	}
	return hub.Do(r.Context(), kind, fn)
}

func (app *application) viewErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, data.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, data.ErrEditConflict):
		app.editConflictResponse(w, r)
	default:
		app.matchRuleResponse(w, r, err)
	}
}

// persistChange runs on a hub goroutine after every successful change to its match. A
// failed store is returned so the hub rolls the change back; the cache and the stream are
// best effort.
func (app *application) persistChange(c matchhub.Change) error {
	props := map[string]string{"pin": c.Pin, "change": c.Kind}

	match, err := app.matches.Get(c.Pin)
	if err != nil {
		return fmt.Errorf("loading match for update: %w", err)
	}

	match.SetState(c.Snapshot)
	if err := app.matches.Update(match); err != nil {
		return fmt.Errorf("storing match: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if app.cache != nil {
		if err := app.cache.WriteScoreboard(ctx, c.Pin, c.Scoreboard); err != nil {
			app.logger.PrintError(fmt.Errorf("caching scoreboard: %w", err), props)
		}
	}
	if app.publisher != nil {
		if err := app.publisher.PublishMatchUpdate(ctx, c.Pin, c.Kind, c.Scoreboard); err != nil {
			app.logger.PrintError(fmt.Errorf("publishing update: %w", err), props)
		}
	}
	return nil
}

// hubClosed runs when an idle hub has been dropped from the registry.
func (app *application) hubClosed(pin string) {
	app.logger.PrintInfo("closed idle match hub", map[string]string{"pin": pin})
	app.refreshLiveMatches()
}

func (app *application) refreshLiveMatches() {
	if app.cache == nil {
		return
	}

	app.backgroundTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := app.cache.WriteLiveMatches(ctx, app.hubs.Pins()); err != nil {
			app.logger.PrintError(fmt.Errorf("caching live matches: %w", err), nil)
		}
	})
}

func (app *application) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     app.checkOrigin,
	}
}

// checkOrigin accepts same-host pages and the trusted CORS origins.
func (app *application) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(app.config.cors.trustedOrigins, origin) {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func (app *application) KeepMatch(w http.ResponseWriter, r *http.Request) {
	hub, err := app.openHub(app.contextGetMatch(r).Pin.Pin)
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	upgrader := app.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		return
	}

	if _, err := hub.JoinKeeper(conn); err != nil {
		_ = conn.Close()
	}
}

func (app *application) WatchMatch(w http.ResponseWriter, r *http.Request) {
	pin := app.readPin(r)
	if pin == "" {
		app.notFoundResponse(w, r)
		return
	}

	hub, err := app.openHub(pin)
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	upgrader := app.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	if _, err := hub.JoinWatcher(conn); err != nil {
		_ = conn.Close()
	}
}
