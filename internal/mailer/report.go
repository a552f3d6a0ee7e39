package mailer

import (
	"CricketScoreApi/internal/cricket"
)

const MatchReportTemplate = "match_report.tmpl"

type TeamReport struct {
	Name          string
	Score         int
	ManOfTheMatch string
	BestBatsman   string
	BestBowler    string
}

// MatchReport is the data behind the match report email.
type MatchReport struct {
	Pin      string
	TeamOne  string
	TeamTwo  string
	Overs    int
	Innings  int
	Complete bool
	Teams    []TeamReport
}

// NewMatchReport summarises a match. The match must have both rosters set.
func NewMatchReport(pin string, m *cricket.Match) (MatchReport, error) {
	r := MatchReport{
		Pin:      pin,
		Innings:  m.Innings(),
		Complete: m.Complete(),
	}
	if overs, ok := m.Overs(); ok {
		r.Overs = int(overs)
	}

	for _, side := range []cricket.TeamSide{cricket.TeamOne, cricket.TeamTwo} {
		team, err := m.Team(side)
		if err != nil {
			return MatchReport{}, err
		}
		awards := team.AwardNames()
		r.Teams = append(r.Teams, TeamReport{
			Name:          team.Name(),
			Score:         team.TeamScore(),
			ManOfTheMatch: awards.ManOfTheMatch,
			BestBatsman:   awards.BestBatsman,
			BestBowler:    awards.BestBowler,
		})
	}
	r.TeamOne, r.TeamTwo = r.Teams[0].Name, r.Teams[1].Name

	return r, nil
}
