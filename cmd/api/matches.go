package main

import (
	"CricketScoreApi/internal/cricket"
	"CricketScoreApi/internal/data"
	"CricketScoreApi/internal/validator"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

func (app *application) InsertMatch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamOne     string   `json:"team_one"`
		TeamTwo     string   `json:"team_two"`
		PlayersOne  []string `json:"players_one"`
		PlayersTwo  []string `json:"players_two"`
		Overs       int      `json:"overs"`
		BattingSide string   `json:"batting_side"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	setup := data.MatchSetup{
		TeamOne:     input.TeamOne,
		TeamTwo:     input.TeamTwo,
		PlayersOne:  input.PlayersOne,
		PlayersTwo:  input.PlayersTwo,
		Overs:       input.Overs,
		BattingSide: input.BattingSide,
	}

	v := validator.New()
	if data.ValidateMatchSetup(v, setup); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	m, err := setup.Configure()
	if err != nil {
		app.matchRuleResponse(w, r, err)
		return
	}

	generated, err := data.GenerateScorerKey()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	match := &data.MatchRecord{}
	if err := match.ScorerKey.Set(generated); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	match.SetState(m.Snapshot())

	err = app.matches.Insert(match)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// The only time the plaintext key leaves the server.
	key, ok := match.ScorerKey.Plaintext()
	if !ok {
		app.serverErrorResponse(w, r, errors.New("scorer key lost its plaintext"))
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/match/%s", match.Pin.Pin))
	err = app.writeJSON(w, http.StatusCreated, envelope{
		"match":      match,
		"scorer_key": key,
		"scoreboard": m.Scoreboard(),
	}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetMatch(w http.ResponseWriter, r *http.Request) {
	pin := app.readPin(r)
	if pin == "" {
		app.notFoundResponse(w, r)
		return
	}

	if _, live := app.hubs.Get(pin); !live && app.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		sb, err := app.cache.ReadScoreboard(ctx, pin)
		cancel()
		if err == nil {
			app.writeScoreboard(w, r, *sb)
			return
		}
	}

	var sb cricket.Scoreboard
	err := app.viewMatch(r.Context(), pin, func(m *cricket.Match) error {
		sb = m.Scoreboard()
		return nil
	})
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	app.writeScoreboard(w, r, sb)
}

func (app *application) writeScoreboard(w http.ResponseWriter, r *http.Request,
	sb cricket.Scoreboard) {
	err := app.writeJSON(w, http.StatusOK, envelope{"scoreboard": sb}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetAllMatches(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator.New()
	filters := data.MatchesFilter{}

	filters.Team = app.readString(qs, "team", "")
	filters.Status = app.readCSMatchStatus(qs, nil, v)

	filters.Filters.Page = app.readInt(qs, "page", 1, v)
	filters.Filters.PageSize = app.readInt(qs, "page_size", 20, v)
	filters.Filters.Sort = app.readString(qs, "sort", "-created_at")
	filters.Filters.SortSafeList = data.MatchesSortSafeList

	if data.ValidateMatchesFilter(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	matches, metadata, err := app.matches.GetAll(filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"metadata": metadata, "matches": matches}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	pin := app.contextGetMatch(r).Pin.Pin

	if app.hubs.Close(pin) {
		app.refreshLiveMatches()
	}

	err := app.matches.Delete(pin)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if app.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		if err := app.cache.DeleteScoreboard(ctx, pin); err != nil {
			app.logError(r, err)
		}
		cancel()
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"message": fmt.Sprintf("match (%s) successfully deleted", pin)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetLiveMatches(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"matches": app.hubs.Pins()}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
