package main

import (
	"CricketScoreApi/internal/assert"
	"net/http"
	"strings"
	"testing"
)

func TestInsertMatch(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	t.Run("valid setup", func(t *testing.T) {
		code, body := ts.do(t, http.MethodPost, "/v1/match", "", matchSetupBody())
		assert.Equal(t, code, http.StatusCreated)

		match := body["match"].(map[string]any)
		assert.Equal(t, len(match["pin"].(string)), 6)
		assert.Equal(t, match["status"].(string), "setup")
		assert.Equal(t, match["overs"].(float64), 6)
		key := body["scorer_key"].(string)
		assert.Equal(t, len(key), 26)

		stored, err := app.matches.Get(match["pin"].(string))
		assert.NilError(t, err)
		ok, err := stored.ScorerKey.Matches(key)
		assert.NilError(t, err)
		assert.True(t, ok)

		sb := body["scoreboard"].(map[string]any)
		assert.Equal(t, sb["batting_side"].(string), "one")
		assert.False(t, sb["ready"].(bool))
	})

	tests := []struct {
		name   string
		change func(body map[string]any)
		field  string
	}{
		{"missing team", func(b map[string]any) { delete(b, "team_one") }, "team_one"},
		{"same names", func(b map[string]any) { b["team_two"] = "Rovers" }, "team_two"},
		{"short roster", func(b map[string]any) { b["players_one"] = []string{"Ann", "Bob"} }, "players_one"},
		{"odd overs", func(b map[string]any) { b["overs"] = 10 }, "overs"},
		{"bad side", func(b map[string]any) { b["batting_side"] = "three" }, "batting_side"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := matchSetupBody()
			tt.change(body)

			code, resp := ts.do(t, http.MethodPost, "/v1/match", "", body)
			assert.Equal(t, code, http.StatusUnprocessableEntity)

			errs := resp["error"].(map[string]any)
			_, ok := errs[tt.field]
			assert.True(t, ok)
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		body := matchSetupBody()
		body["umpire"] = "Dickie"

		code, _ := ts.do(t, http.MethodPost, "/v1/match", "", body)
		assert.Equal(t, code, http.StatusBadRequest)
	})
}

func TestGetMatch(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	pin, _ := ts.createMatch(t)

	tests := []struct {
		name     string
		urlPath  string
		wantCode int
	}{
		{"stored match", "/v1/match/" + pin, http.StatusOK},
		{"upper case pin", "/v1/match/" + strings.ToUpper(pin), http.StatusOK},
		{"unknown pin", "/v1/match/zzzzzz", http.StatusNotFound},
		{"malformed pin", "/v1/match/abc", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := ts.get(t, tt.urlPath)
			assert.Equal(t, code, tt.wantCode)
		})
	}
}

func TestGetAllMatches(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	ts.createMatch(t)
	ts.createMatch(t)

	code, body := ts.get(t, "/v1/match")
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, len(body["matches"].([]any)), 2)

	code, _ = ts.get(t, "/v1/match?status=paused")
	assert.Equal(t, code, http.StatusUnprocessableEntity)

	code, _ = ts.get(t, "/v1/match?sort=umpire")
	assert.Equal(t, code, http.StatusUnprocessableEntity)
}

func TestDeleteMatch(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	pin, key := ts.startMatch(t)
	assert.Equal(t, app.hubs.Len(), 1)

	code, _ := ts.do(t, http.MethodDelete, "/v1/match/"+pin, "", nil)
	assert.Equal(t, code, http.StatusUnauthorized)

	code, _ = ts.do(t, http.MethodDelete, "/v1/match/"+pin, key, nil)
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, app.hubs.Len(), 0)

	code, _ = ts.get(t, "/v1/match/"+pin)
	assert.Equal(t, code, http.StatusNotFound)
}
