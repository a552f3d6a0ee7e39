package data

import (
	"CricketScoreApi/internal/cricket"
	"CricketScoreApi/internal/pins"
	"CricketScoreApi/internal/validator"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
)

type MatchStatus string

const (
	StatusSetup      MatchStatus = "setup"
	StatusInProgress MatchStatus = "in-progress"
	StatusComplete   MatchStatus = "complete"
)

// maxPinAttempts bounds retries when a generated pin collides with a stored one.
const maxPinAttempts = 5

type MatchRecord struct {
	ID        int64            `json:"-"`
	Pin       pins.Pin         `json:"pin"`
	CreatedAt time.Time        `json:"created_at"`
	Version   int              `json:"version"`
	TeamOne   string           `json:"team_one"`
	TeamTwo   string           `json:"team_two"`
	Overs     int              `json:"overs"`
	Status    MatchStatus      `json:"status"`
	ScorerKey ScorerKey        `json:"-"`
	State     cricket.Snapshot `json:"-"`
}

// StatusOf reports where a match is in its lifecycle.
func StatusOf(s cricket.Snapshot) MatchStatus {
	switch {
	case s.Complete:
		return StatusComplete
	case s.OpenersSelected:
		return StatusInProgress
	default:
		return StatusSetup
	}
}

// SetState stores a snapshot along with the columns derived from it.
func (r *MatchRecord) SetState(s cricket.Snapshot) {
	r.State = s
	r.Status = StatusOf(s)
	if s.TeamNames != nil {
		r.TeamOne, r.TeamTwo = s.TeamNames[cricket.TeamOne], s.TeamNames[cricket.TeamTwo]
	}
	if s.Overs != 0 {
		r.Overs = int(s.Overs)
	}
}

// Match rebuilds the live match from the stored state.
func (r *MatchRecord) Match() (*cricket.Match, error) {
	return cricket.Restore(r.State)
}

type MatchModel struct {
	db *sql.DB
}

func (m *MatchModel) Insert(match *MatchRecord) error {
	state, err := json.Marshal(match.State)
	if err != nil {
		return err
	}

	stmt := `
		INSERT INTO matches (pin, scorer_key_hash, team_one, team_two, overs, status, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version`

	for attempt := 0; attempt < maxPinAttempts; attempt++ {
		match.Pin = pins.New(pins.PinScopeMatches)
		args := []any{
			match.Pin.Pin,
			match.ScorerKey.hash,
			match.TeamOne,
			match.TeamTwo,
			match.Overs,
			match.Status,
			state,
		}

		err = m.insert(stmt, args, match)
		if !errors.Is(err, pins.ErrDuplicatePin) {
			return err
		}
	}

	return err
}

func (m *MatchModel) insert(stmt string, args []any, match *MatchRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(&match.ID, &match.CreatedAt,
		&match.Version)
	if err != nil {
		var pqErr *pq.Error
		switch {
		case errors.As(err, &pqErr) && pqErr.Code == "23505" &&
			pqErr.Constraint == "matches_pin_key":
			return pins.ErrDuplicatePin
		default:
			return err
		}
	}
	match.Pin.ID = match.ID

	return nil
}

func (m *MatchModel) Get(pin string) (*MatchRecord, error) {
	stmt := `
		SELECT id, pin, created_at, version, scorer_key_hash, team_one, team_two, overs, status,
			state
		FROM matches
		WHERE pin = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var match MatchRecord
	var state []byte
	err := m.db.QueryRowContext(ctx, stmt, pin).Scan(
		&match.ID,
		&match.Pin.Pin,
		&match.CreatedAt,
		&match.Version,
		&match.ScorerKey.hash,
		&match.TeamOne,
		&match.TeamTwo,
		&match.Overs,
		&match.Status,
		&state,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	match.Pin.ID = match.ID
	match.Pin.Scope = pins.PinScopeMatches

	err = json.Unmarshal(state, &match.State)
	if err != nil {
		return nil, err
	}

	return &match, nil
}

// Update stores the record's state if nobody else has written it since it was read.
func (m *MatchModel) Update(match *MatchRecord) error {
	state, err := json.Marshal(match.State)
	if err != nil {
		return err
	}

	stmt := `
		UPDATE matches
		SET team_one = $1, team_two = $2, overs = $3, status = $4, state = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version`

	args := []any{
		match.TeamOne,
		match.TeamTwo,
		match.Overs,
		match.Status,
		state,
		match.ID,
		match.Version,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = m.db.QueryRowContext(ctx, stmt, args...).Scan(&match.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

func (m *MatchModel) Delete(pin string) error {
	stmt := `
		DELETE FROM matches
		WHERE pin = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.db.ExecContext(ctx, stmt, pin)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// MatchSetup is everything needed to configure a match before the openers walk out.
type MatchSetup struct {
	TeamOne     string
	TeamTwo     string
	PlayersOne  []string
	PlayersTwo  []string
	Overs       int
	BattingSide string
}

func ValidateMatchSetup(v *validator.Validator, setup MatchSetup) {
	v.Check(setup.TeamOne != "", "team_one", "must be provided")
	v.Check(len(setup.TeamOne) <= 50, "team_one", "must be fewer than 50 characters")
	v.Check(setup.TeamTwo != "", "team_two", "must be provided")
	v.Check(len(setup.TeamTwo) <= 50, "team_two", "must be fewer than 50 characters")
	v.Check(setup.TeamOne != setup.TeamTwo, "team_two", "must differ from team_one")

	validateRoster(v, "players_one", setup.PlayersOne)
	validateRoster(v, "players_two", setup.PlayersTwo)

	v.Check(setup.Overs != 0, "overs", "must be provided")
	v.Check(validator.PermittedValue(cricket.OverCount(setup.Overs), cricket.AllowedOverCounts...),
		"overs", "must be 6, 8, 12 or 16")

	_, err := cricket.ParseTeamSide(setup.BattingSide)
	v.Check(err == nil, "batting_side", `must be "one" or "two"`)
}

func validateRoster(v *validator.Validator, key string, names []string) {
	v.Check(names != nil, key, "must be provided")
	v.Check(validator.PermittedValue(len(names), cricket.RosterSizes...), key,
		"must have 6 or 8 players")
	v.Check(validator.Unique(names), key, "must not contain duplicate names")
	for _, name := range names {
		v.Check(name != "", key, "must not contain empty names")
		v.Check(len(name) <= 50, key, "names must be fewer than 50 characters")
	}
}

// Configure applies a validated setup to a fresh match.
func (s MatchSetup) Configure() (*cricket.Match, error) {
	side, err := cricket.ParseTeamSide(s.BattingSide)
	if err != nil {
		return nil, err
	}

	m := cricket.NewMatch()
	if err := m.SetTeamNames(s.TeamOne, s.TeamTwo); err != nil {
		return nil, err
	}
	if err := m.SetPlayerNames(s.PlayersOne, s.PlayersTwo); err != nil {
		return nil, err
	}
	if err := m.SetOvers(cricket.OverCount(s.Overs)); err != nil {
		return nil, err
	}
	if err := m.SetBattingTeam(side); err != nil {
		return nil, err
	}
	return m, nil
}
