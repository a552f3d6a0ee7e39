package main

import (
	"CricketScoreApi/internal/data"
	"context"
	"net/http"
)

type contextKey string

const matchContextKey = contextKey("match")

func (app *application) contextSetMatch(r *http.Request, match *data.MatchRecord) *http.Request {
	ctx := context.WithValue(r.Context(), matchContextKey, match)
	return r.WithContext(ctx)
}

// contextGetMatch is only valid behind requireScorerKey.
func (app *application) contextGetMatch(r *http.Request) *data.MatchRecord {
	match, ok := r.Context().Value(matchContextKey).(*data.MatchRecord)
	if !ok {
		panic("missing match value in request context")
	}

	return match
}
