package main

import (
	"CricketScoreApi/internal/cricket"
	"CricketScoreApi/internal/mailer"
	"CricketScoreApi/internal/matchhub"
	"CricketScoreApi/internal/validator"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) SelectOpeners(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Batsmen []int `json:"batsmen"`
		Bowler  *int  `json:"bowler"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(len(input.Batsmen) == 2, "batsmen", "must name exactly two batsmen")
	v.Check(input.Bowler != nil, "bowler", "must be provided")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	var sb cricket.Scoreboard
	err = app.doMatch(r, matchhub.KindOpeners, func(m *cricket.Match) error {
		if err := m.SelectOpeningPlayers(input.Batsmen[0], input.Batsmen[1], *input.Bowler); err != nil {
			return err
		}
		sb = m.Scoreboard()
		return nil
	})
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	app.writeScoreboard(w, r, sb)
}

func (app *application) RecordBall(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Slot   string `json:"slot"`
		Ball   *int   `json:"ball"`
		Runs   *int   `json:"runs"`
		Wicket bool   `json:"wicket"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(validator.PermittedValue(input.Slot, "first", "second"), "slot",
		`must be "first" or "second"`)
	v.Check(input.Ball != nil, "ball", "must be provided")
	v.Check(input.Runs != nil, "runs", "must be provided")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	slot, err := cricket.ParseBatsmanSlot(input.Slot)
	if err != nil {
		app.matchRuleResponse(w, r, err)
		return
	}
	delivery := cricket.Delivery{Runs: *input.Runs, Wicket: input.Wicket}

	var over cricket.OverBoard
	err = app.doMatch(r, matchhub.KindBall, func(m *cricket.Match) error {
		if err := m.RecordDelivery(slot, *input.Ball, delivery); err != nil {
			return err
		}
		over = m.CurrentOver().Board()
		return nil
	})
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"over": over}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) AdvanceOver(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Bowler  *int  `json:"bowler"`
		Batsmen []int `json:"batsmen"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(input.Bowler != nil, "bowler", "must be provided")
	v.Check(len(input.Batsmen) <= 2, "batsmen", "must name at most two batsmen")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	bowler := *input.Bowler

	var (
		result cricket.OverResult
		sb     cricket.Scoreboard
	)
	err = app.doMatch(r, matchhub.KindOver, func(m *cricket.Match) error {
		res, err := m.AdvanceOver(bowler, input.Batsmen...)
		if err != nil {
			return err
		}
		result, sb = res, m.Scoreboard()
		return nil
	})
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"result": result, "scoreboard": sb}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetRemainingPlayers(w http.ResponseWriter, r *http.Request) {
	pin := app.readPin(r)
	if pin == "" {
		app.notFoundResponse(w, r)
		return
	}

	side, err := cricket.ParseTeamSide(chi.URLParam(r, "side"))
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var players []cricket.EligiblePlayer
	err = app.viewMatch(r.Context(), pin, func(m *cricket.Match) error {
		var err error
		players, err = m.RemainingPlayers(side)
		return err
	})
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"side": side.String(), "players": players}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetCurrentOver(w http.ResponseWriter, r *http.Request) {
	pin := app.readPin(r)
	if pin == "" {
		app.notFoundResponse(w, r)
		return
	}

	var (
		over   cricket.OverBoard
		number int
	)
	err := app.viewMatch(r.Context(), pin, func(m *cricket.Match) error {
		over, number = m.CurrentOver().Board(), m.CurrentOverNumber()
		return nil
	})
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"over_number": number, "over": over}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetPreviousOver(w http.ResponseWriter, r *http.Request) {
	pin := app.readPin(r)
	if pin == "" {
		app.notFoundResponse(w, r)
		return
	}

	index, err := app.readIntParam(r, "index")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var over cricket.OverBoard
	err = app.viewMatch(r.Context(), pin, func(m *cricket.Match) error {
		o, err := m.PreviousOver(index)
		if err != nil {
			return err
		}
		over = o.Board()
		return nil
	})
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"index": index, "over": over}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetAwards(w http.ResponseWriter, r *http.Request) {
	pin := app.readPin(r)
	if pin == "" {
		app.notFoundResponse(w, r)
		return
	}

	var awards []cricket.AwardNames
	err := app.viewMatch(r.Context(), pin, func(m *cricket.Match) error {
		for _, side := range []cricket.TeamSide{cricket.TeamOne, cricket.TeamTwo} {
			team, err := m.Team(side)
			if err != nil {
				return err
			}
			awards = append(awards, team.AwardNames())
		}
		return nil
	})
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"awards": awards}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SendReport emails a summary of the match. Delivery happens in the background.
func (app *application) SendReport(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(input.Email != "", "email", "must be provided")
	v.Check(validator.Matches(input.Email, validator.EmailRX), "email",
		"must be a valid email address")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	pin := app.contextGetMatch(r).Pin.Pin

	var report mailer.MatchReport
	err = app.viewMatch(r.Context(), pin, func(m *cricket.Match) error {
		var err error
		report, err = mailer.NewMatchReport(pin, m)
		return err
	})
	if err != nil {
		app.viewErrorResponse(w, r, err)
		return
	}

	app.backgroundTask(func() {
		err := app.mailer.Send(input.Email, mailer.MatchReportTemplate, report)
		if err != nil {
			app.logger.PrintError(fmt.Errorf("sending match report: %w", err),
				map[string]string{"pin": pin})
		}
	})

	err = app.writeJSON(w, http.StatusAccepted, envelope{
		"message": fmt.Sprintf("a report for match (%s) will be emailed shortly", pin)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
