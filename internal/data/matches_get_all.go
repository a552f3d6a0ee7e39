package data

import (
	"CricketScoreApi/internal/pins"
	"CricketScoreApi/internal/validator"
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type MatchesFilter struct {
	Filters `json:"-"`
	Team    string        `json:"team,omitempty"`
	Status  []MatchStatus `json:"status,omitempty"`
}

type MatchesMetadata struct {
	Pag    Metadata      `json:"pag"`
	Team   string        `json:"team,omitempty"`
	Status []MatchStatus `json:"status,omitempty"`
}

var MatchesSortSafeList = []string{"created_at", "team_one", "team_two", "-created_at",
	"-team_one", "-team_two"}

func ValidateMatchesFilter(v *validator.Validator, f MatchesFilter) {
	ValidateFilters(v, f.Filters)
	for _, s := range f.Status {
		v.Check(validator.PermittedValue(s, StatusSetup, StatusInProgress, StatusComplete),
			"status", `must be selected from the following: "setup","in-progress","complete"`)
	}
}

// GetAll lists stored matches without their state. Team matches either side by substring.
func (m *MatchModel) GetAll(filters MatchesFilter) ([]*MatchRecord, MatchesMetadata, error) {
	stmt := fmt.Sprintf(`
		SELECT count(*) OVER(), id, pin, created_at, version, team_one, team_two, overs, status
		FROM matches
		WHERE (($1 = '')
			OR team_one ILIKE '%%' || $1 || '%%'
			OR team_two ILIKE '%%' || $1 || '%%')
		AND (($2 IS FALSE)
			OR status = ANY($3::text[]))
		ORDER BY %s %s, id ASC
		LIMIT $4 OFFSET $5`, filters.sortColumn(), filters.sortDirection())

	statuses := make([]string, len(filters.Status))
	for i, s := range filters.Status {
		statuses[i] = string(s)
	}

	args := []any{
		filters.Team,
		len(statuses) > 0,
		pq.Array(statuses),
		filters.limit(),
		filters.offset(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, MatchesMetadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	matches := make([]*MatchRecord, 0)
	for rows.Next() {
		var match MatchRecord
		err := rows.Scan(
			&totalRecords,
			&match.ID,
			&match.Pin.Pin,
			&match.CreatedAt,
			&match.Version,
			&match.TeamOne,
			&match.TeamTwo,
			&match.Overs,
			&match.Status,
		)
		if err != nil {
			return nil, MatchesMetadata{}, err
		}
		match.Pin.ID = match.ID
		match.Pin.Scope = pins.PinScopeMatches
		matches = append(matches, &match)
	}

	if err = rows.Err(); err != nil {
		return nil, MatchesMetadata{}, err
	}

	metadata := MatchesMetadata{
		Pag:    calculateMetadata(totalRecords, filters.Page, filters.PageSize),
		Team:   filters.Team,
		Status: filters.Status,
	}

	return matches, metadata, nil
}
