package main

import (
	"CricketScoreApi/internal/data"
	"errors"
	"expvar"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"golang.org/x/time/rate"
)

const scorerKeyHeader = "X-Scorer-Key"

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) rateLimit(next http.Handler) http.Handler {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	go func() {
		for {
			time.Sleep(time.Minute)

			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.config.limiter.enabled {
			next.ServeHTTP(w, r)
			return
		}

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		mu.Lock()
		if _, found := clients[ip]; !found {
			clients[ip] = &client{
				limiter: rate.NewLimiter(rate.Limit(app.config.limiter.rps), app.config.limiter.burst),
			}
		}
		clients[ip].lastSeen = time.Now()

		if !clients[ip].limiter.Allow() {
			mu.Unlock()
			app.rateLimitExceededResponse(w, r)
			return
		}
		mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// metrics is safe to build more than once; the expvar maps are shared.
func (app *application) metrics(next http.Handler) http.Handler {
	totalRequestsReceived := expvarInt("total_requests_received")
	totalResponsesSent := expvarInt("total_responses_sent")
	totalProcessingTimeMicroseconds := expvarInt("total_processing_time_μs")
	totalResponsesSentByStatus := expvarMap("total_responses_sent_by_status")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		totalRequestsReceived.Add(1)

		metrics := httpsnoop.CaptureMetrics(next, w, r)

		totalResponsesSent.Add(1)
		totalProcessingTimeMicroseconds.Add(metrics.Duration.Microseconds())
		totalResponsesSentByStatus.Add(strconv.Itoa(metrics.Code), 1)
	})
}

func expvarInt(name string) *expvar.Int {
	if v, ok := expvar.Get(name).(*expvar.Int); ok {
		return v
	}
	return expvar.NewInt(name)
}

func expvarMap(name string) *expvar.Map {
	if v, ok := expvar.Get(name).(*expvar.Map); ok {
		return v
	}
	return expvar.NewMap(name)
}

// requireScorerKey loads the match named by the {pin} parameter and checks the scorer key
// from the X-Scorer-Key header, or the key query parameter for websocket upgrades.
func (app *application) requireScorerKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", scorerKeyHeader)

		pin := app.readPin(r)
		if pin == "" {
			app.notFoundResponse(w, r)
			return
		}

		key := r.Header.Get(scorerKeyHeader)
		if key == "" {
			key = r.URL.Query().Get("key")
		}
		if key == "" {
			app.invalidScorerKeyResponse(w, r)
			return
		}

		match, err := app.matches.Get(pin)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrRecordNotFound):
				app.notFoundResponse(w, r)
			default:
				app.serverErrorResponse(w, r, err)
			}
			return
		}

		ok, err := match.ScorerKey.Matches(key)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		if !ok {
			app.invalidScorerKeyResponse(w, r)
			return
		}

		next.ServeHTTP(w, app.contextSetMatch(r, match))
	})
}
