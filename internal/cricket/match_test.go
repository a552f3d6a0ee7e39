package cricket

import (
	"CricketScoreApi/internal/assert"
	"encoding/json"
	"testing"
)

func newTestMatch(t *testing.T, overs OverCount, size int) *Match {
	t.Helper()

	m := NewMatch()
	assert.NilError(t, m.SetTeamNames("Team A", "Team B"))
	assert.NilError(t, m.SetPlayerNames(roster("A", size), roster("B", size)))
	assert.NilError(t, m.SetOvers(overs))
	assert.NilError(t, m.SetBattingTeam(TeamOne))
	assert.NilError(t, m.SelectOpeningPlayers(0, 1, 2))
	return m
}

func TestMatchPreconditionGate(t *testing.T) {
	m := NewMatch()

	steps := []struct {
		want  string
		apply func() error
	}{
		{want: "names", apply: func() error { return m.SetTeamNames("Team A", "Team B") }},
		{want: "players", apply: func() error {
			return m.SetPlayerNames(roster("A", 6), roster("B", 6))
		}},
		{want: "overs", apply: func() error { return m.SetOvers(6) }},
		{want: "batting team", apply: func() error { return m.SetBattingTeam(TeamTwo) }},
		{want: "opening players", apply: func() error { return m.SelectOpeningPlayers(4, 5, 0) }},
	}

	for _, step := range steps {
		err := m.RecordBallScore(First, 1, 1)
		assert.ErrorIs(t, err, ErrInitialization)
		assert.StringContains(t, err.Error(), step.want)

		_, err = m.AdvanceOver(1)
		assert.ErrorIs(t, err, ErrInitialization)
		assert.False(t, m.Ready())

		assert.NilError(t, step.apply())
	}

	assert.True(t, m.Ready())
	assert.NilError(t, m.RecordBallScore(First, 1, 1))
}

func TestMatchPlayerNamesNeedTeamNames(t *testing.T) {
	m := NewMatch()
	assert.ErrorIs(t, m.SetPlayerNames(roster("A", 6), roster("B", 6)), ErrInitialization)
	assert.ErrorIs(t, m.SetBattingTeam(TeamOne), ErrInitialization)

	assert.NilError(t, m.SetTeamNames("Team A", "Team B"))
	assert.ErrorIs(t, m.SetPlayerNames(roster("A", 6), roster("B", 7)), ErrValidation)
	_, err := m.Team(TeamOne)
	assert.ErrorIs(t, err, ErrInitialization)
}

func TestMatchSetOvers(t *testing.T) {
	for overs := OverCount(0); overs <= 20; overs++ {
		m := NewMatch()
		err := m.SetOvers(overs)
		switch overs {
		case 6, 8, 12, 16:
			assert.NilError(t, err)
			got, ok := m.Overs()
			assert.True(t, ok)
			assert.Equal(t, got, overs)
		default:
			assert.ErrorIs(t, err, ErrValidation)
		}
	}

	m := NewMatch()
	assert.NilError(t, m.SetOvers(8))
	assert.NilError(t, m.SetOvers(8))
	assert.ErrorIs(t, m.SetOvers(12), ErrValidation)
}

func TestMatchConfigurationLockedAfterStart(t *testing.T) {
	m := newTestMatch(t, 8, 8)

	assert.ErrorIs(t, m.SetTeamNames("X", "Y"), ErrInitialization)
	assert.ErrorIs(t, m.SetPlayerNames(roster("X", 6), roster("Y", 6)), ErrInitialization)
	assert.ErrorIs(t, m.SetOvers(8), ErrInitialization)
	assert.ErrorIs(t, m.SetBattingTeam(TeamTwo), ErrInitialization)
	assert.ErrorIs(t, m.SelectOpeningPlayers(2, 3, 4), ErrInitialization)
}

func TestMatchSetBowlingTeam(t *testing.T) {
	m := NewMatch()
	assert.NilError(t, m.SetTeamNames("Team A", "Team B"))
	assert.NilError(t, m.SetPlayerNames(roster("A", 6), roster("B", 6)))
	assert.NilError(t, m.SetBowlingTeam(TeamOne))

	side, ok := m.BattingSide()
	assert.True(t, ok)
	assert.Equal(t, side, TeamTwo)
	batting, _ := m.BattingTeam()
	assert.Equal(t, batting.Name(), "Team B")
	bowling, _ := m.BowlingTeam()
	assert.Equal(t, bowling.Mode(), ModeBowling)
}

func TestMatchSelectOpeningPlayersAtomic(t *testing.T) {
	m := NewMatch()
	assert.NilError(t, m.SetTeamNames("Team A", "Team B"))
	assert.NilError(t, m.SetPlayerNames(roster("A", 8), roster("B", 8)))
	assert.NilError(t, m.SetOvers(8))
	assert.NilError(t, m.SetBattingTeam(TeamOne))

	assert.ErrorIs(t, m.SelectOpeningPlayers(0, 1, 8), ErrValidation)
	assert.ErrorIs(t, m.SelectOpeningPlayers(0, 0, 2), ErrSelectionConflict)

	p, err := m.Player(TeamOne, 0)
	assert.NilError(t, err)
	assert.False(t, p.HasBatted())
	assert.False(t, m.OpenersSelected())

	assert.NilError(t, m.SelectOpeningPlayers(0, 1, 2))
	assert.True(t, m.OpenersSelected())
}

func TestMatchFirstOver(t *testing.T) {
	m := newTestMatch(t, 8, 8)

	for i, runs := range []int{1, 0, 4, 0, 6, 1} {
		assert.NilError(t, m.RecordBallScore(First, i+1, runs))
	}
	assert.Equal(t, m.CurrentOver().TotalRuns(), 12)

	result, err := m.AdvanceOver(3)
	assert.NilError(t, err)
	assert.Equal(t, result.Rotation, NoRotation)
	assert.False(t, result.InningsSwitched)

	batsman, _ := m.Player(TeamOne, 0)
	assert.Equal(t, batsman.BattingScore(), 12)
	teamA, _ := m.Team(TeamOne)
	assert.Equal(t, teamA.TeamScore(), 12)

	opener, _ := m.Player(TeamTwo, 2)
	assert.Equal(t, opener.BowlingScore(), -12)
	next, _ := m.Player(TeamTwo, 3)
	assert.Equal(t, next.SpellsBowled(), 1)
	teamB, _ := m.Team(TeamTwo)
	assert.Equal(t, teamB.TeamScore(), -12)

	assert.Equal(t, m.CurrentOverNumber(), 1)
	assert.Equal(t, m.CompletedOvers(), 1)
	assert.Equal(t, m.CurrentOver().TotalRuns(), 0)

	previous, err := m.PreviousOver(0)
	assert.NilError(t, err)
	assert.Equal(t, previous.TotalRuns(First), 12)
	_, err = m.PreviousOver(1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMatchRotationRequired(t *testing.T) {
	m := newTestMatch(t, 8, 8)

	_, err := m.AdvanceOver(3)
	assert.NilError(t, err)
	assert.NilError(t, m.RecordBallScore(Second, 2, 4))

	_, err = m.AdvanceOver(4)
	assert.ErrorIs(t, err, ErrMissingArgument)
	_, err = m.AdvanceOver(4, 2)
	assert.ErrorIs(t, err, ErrMissingArgument)

	assert.Equal(t, m.CurrentOverNumber(), 1)
	assert.Equal(t, m.CompletedOvers(), 1)
	assert.Equal(t, m.CurrentOver().TotalRuns(Second), 4)
	bowler, _ := m.Player(TeamTwo, 4)
	assert.Equal(t, bowler.SpellsBowled(), 0)

	_, err = m.AdvanceOver(4, 0, 2)
	assert.ErrorIs(t, err, ErrSelectionConflict)

	result, err := m.AdvanceOver(4, 2, 3)
	assert.NilError(t, err)
	assert.Equal(t, result.Rotation, BatsmenRotated)
	assert.Equal(t, result.OverNumber, 2)

	batting, _ := m.BattingTeam()
	batsmen, _ := batting.SelectedBatsmen()
	assert.Equal(t, batsmen[First].Name(), "AC")
	assert.Equal(t, batsmen[Second].Name(), "AD")
	second, _ := m.Player(TeamOne, 1)
	assert.Equal(t, second.BattingScore(), 4)
}

func TestMatchAdvanceRejectsSpentBowler(t *testing.T) {
	m := newTestMatch(t, 8, 8)
	assert.NilError(t, m.RecordBallScore(First, 1, 6))

	_, err := m.AdvanceOver(2)
	assert.ErrorIs(t, err, ErrSelectionConflict)
	_, err = m.AdvanceOver(9)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = m.AdvanceOver(3, 4, 5, 6)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, m.CompletedOvers(), 0)
	assert.Equal(t, m.CurrentOver().TotalRuns(), 6)
	teamA, _ := m.Team(TeamOne)
	assert.Equal(t, teamA.TeamScore(), 0)
}

func TestMatchSecondSpellInLongFormat(t *testing.T) {
	m := newTestMatch(t, 12, 6)

	_, err := m.AdvanceOver(2)
	assert.NilError(t, err)
	p, _ := m.Player(TeamTwo, 2)
	assert.Equal(t, p.SpellsBowled(), 2)

	_, err = m.AdvanceOver(2)
	assert.ErrorIs(t, err, ErrSelectionConflict)
	_, err = m.AdvanceOver(3)
	assert.NilError(t, err)

	remaining, err := m.RemainingBowlers()
	assert.NilError(t, err)
	for _, p := range remaining {
		if p.Index == 2 {
			t.Errorf("bowler %d should have used both spells", p.Index)
		}
	}
}

func TestMatchBatsmenChangeNeeded(t *testing.T) {
	for _, overs := range AllowedOverCounts {
		m := newTestMatch(t, overs, 8)
		for i := 0; i < int(overs); i++ {
			m.overNumber = i
			want := i%2 == 0
			if overs > 10 {
				want = i%4 == 0
			}
			assert.Equal(t, m.BatsmenChangeNeeded(), want)
		}
	}

	assert.False(t, NewMatch().BatsmenChangeNeeded())
}

// playFirstInnings advances a six over match to the innings switch with team one batting.
func playFirstInnings(t *testing.T, m *Match) OverResult {
	t.Helper()

	steps := []struct {
		bowler  int
		batsmen []int
	}{
		{bowler: 3},
		{bowler: 4, batsmen: []int{2, 3}},
		{bowler: 5},
		{bowler: 6, batsmen: []int{4, 5}},
	}
	for _, s := range steps {
		assert.NilError(t, m.RecordBallScore(First, 1, 1))
		_, err := m.AdvanceOver(s.bowler, s.batsmen...)
		assert.NilError(t, err)
	}

	assert.NilError(t, m.RecordBallScore(Second, 6, 2))
	result, err := m.AdvanceOver(0, 0, 1)
	assert.NilError(t, err)
	return result
}

func TestMatchInningsSwitch(t *testing.T) {
	m := newTestMatch(t, 6, 8)
	result := playFirstInnings(t, m)

	assert.True(t, result.InningsSwitched)
	assert.Equal(t, result.Rotation, BatsmenRotated)
	assert.Equal(t, result.Innings, 2)
	assert.Equal(t, m.CurrentOverNumber(), 0)
	assert.Equal(t, m.CompletedOvers(), 5)
	assert.Equal(t, m.Innings(), 2)

	side, _ := m.BattingSide()
	assert.Equal(t, side, TeamTwo)
	teamA, _ := m.Team(TeamOne)
	teamB, _ := m.Team(TeamTwo)
	assert.Equal(t, teamA.Mode(), ModeBowling)
	assert.Equal(t, teamB.Mode(), ModeBatting)
	assert.Equal(t, teamA.TeamScore(), 6)

	bowler, ok := teamA.SelectedBowler()
	assert.True(t, ok)
	assert.Equal(t, bowler.Name(), "AA")
	batsmen, ok := teamB.SelectedBatsmen()
	assert.True(t, ok)
	assert.Equal(t, batsmen[First].Name(), "BA")
}

func TestMatchInningsSwitchNeedsBatsmen(t *testing.T) {
	m := newTestMatch(t, 6, 8)
	for _, s := range [][]int{{3}, {4, 2, 3}, {5}, {6, 4, 5}} {
		_, err := m.AdvanceOver(s[0], s[1:]...)
		assert.NilError(t, err)
	}

	_, err := m.AdvanceOver(0)
	assert.ErrorIs(t, err, ErrMissingArgument)
	side, _ := m.BattingSide()
	assert.Equal(t, side, TeamOne)
	assert.Equal(t, m.CurrentOverNumber(), 4)

	_, err = m.AdvanceOver(2, 0, 1)
	assert.NilError(t, err)
	side, _ = m.BattingSide()
	assert.Equal(t, side, TeamTwo)
}

func TestMatchComplete(t *testing.T) {
	m := newTestMatch(t, 6, 8)
	playFirstInnings(t, m)

	for _, s := range [][]int{{1}, {2, 2, 3}, {3}, {4, 4, 5}} {
		_, err := m.AdvanceOver(s[0], s[1:]...)
		assert.NilError(t, err)
	}

	assert.NilError(t, m.RecordDelivery(First, 1, Delivery{Runs: 4}))
	assert.NilError(t, m.RecordDelivery(Second, 2, Delivery{Wicket: true}))
	assert.False(t, m.Complete())

	// The closing over still needs a bowler who is eligible on the side that bowled first.
	_, err := m.AdvanceOver(99)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = m.AdvanceOver(5)
	assert.ErrorIs(t, err, ErrSelectionConflict)
	assert.Equal(t, m.CompletedOvers(), 9)
	assert.Equal(t, m.CurrentOver().TotalRuns(), 4-WicketValue)

	result, err := m.AdvanceOver(7)
	assert.NilError(t, err)
	assert.True(t, result.MatchComplete)
	assert.True(t, result.InningsSwitched)
	assert.Equal(t, result.Rotation, NoRotation)
	assert.True(t, m.Complete())
	assert.Equal(t, m.CompletedOvers(), 10)
	assert.Equal(t, m.CurrentOverNumber(), 0)
	assert.Equal(t, m.Innings(), 2)
	side, _ := m.BattingSide()
	assert.Equal(t, side, TeamOne)
	bowler, _ := m.Player(TeamTwo, 7)
	assert.Equal(t, bowler.SpellsBowled(), 1)

	// Team two conceded 6 while bowling the first innings.
	teamB, _ := m.Team(TeamTwo)
	assert.Equal(t, teamB.TeamScore(), -6+4-WicketValue)
	batsman, _ := m.Player(TeamTwo, 5)
	assert.Equal(t, batsman.BattingScore(), -WicketValue)

	assert.ErrorIs(t, m.RecordBallScore(First, 1, 1), ErrInitialization)
	_, err = m.AdvanceOver(5)
	assert.ErrorIs(t, err, ErrInitialization)

	snapshot := m.Snapshot()
	assert.True(t, snapshot.Complete)
	restored, err := Restore(snapshot)
	assert.NilError(t, err)
	assert.True(t, restored.Complete())
	assert.ErrorIs(t, restored.RecordBallScore(First, 1, 1), ErrInitialization)
}

func TestMatchRemainingPlayers(t *testing.T) {
	m := newTestMatch(t, 8, 8)

	batsmen, err := m.RemainingBatsmen()
	assert.NilError(t, err)
	assert.Equal(t, len(batsmen), 6)
	assert.Equal(t, batsmen[0], EligiblePlayer{Index: 2, Name: "AC"})

	bowlers, err := m.RemainingBowlers()
	assert.NilError(t, err)
	assert.Equal(t, len(bowlers), 7)

	byTeam, err := m.RemainingPlayers(TeamTwo)
	assert.NilError(t, err)
	assert.SliceEqual(t, byTeam, bowlers)

	_, err = NewMatch().RemainingBatsmen()
	assert.ErrorIs(t, err, ErrInitialization)
}

func TestMatchSnapshotRestore(t *testing.T) {
	m := newTestMatch(t, 8, 8)
	assert.NilError(t, m.RecordBallScore(First, 1, 4))
	_, err := m.AdvanceOver(3)
	assert.NilError(t, err)
	assert.NilError(t, m.RecordBallScore(Second, 5, 2))

	encoded, err := json.Marshal(m.Snapshot())
	assert.NilError(t, err)
	var decoded Snapshot
	assert.NilError(t, json.Unmarshal(encoded, &decoded))

	restored, err := Restore(decoded)
	assert.NilError(t, err)

	want, _ := json.Marshal(m.Scoreboard())
	got, _ := json.Marshal(restored.Scoreboard())
	assert.Equal(t, string(got), string(want))

	_, err = restored.AdvanceOver(3, 2, 3)
	assert.ErrorIs(t, err, ErrSelectionConflict)
	_, err = restored.AdvanceOver(4, 2, 3)
	assert.NilError(t, err)
	assert.Equal(t, restored.CurrentOverNumber(), 2)
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	m := newTestMatch(t, 8, 8)

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{name: "Bowler Out Of Range", mutate: func(s *Snapshot) {
			bad := 11
			s.Teams[TeamTwo].Bowler = &bad
		}},
		{name: "Invalid Overs", mutate: func(s *Snapshot) { s.Overs = 7 }},
		{name: "One Team", mutate: func(s *Snapshot) { s.Teams = s.Teams[:1] }},
		{name: "Third Innings", mutate: func(s *Snapshot) { s.Innings = 3 }},
		{name: "Modes Swapped", mutate: func(s *Snapshot) {
			s.Teams[TeamOne].Mode, s.Teams[TeamTwo].Mode = ModeBowling, ModeBatting
		}},
		{name: "Short Roster", mutate: func(s *Snapshot) {
			s.Teams[TeamOne].Players = s.Teams[TeamOne].Players[:5]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := m.Snapshot()
			tt.mutate(&s)
			_, err := Restore(s)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestMatchScoreboard(t *testing.T) {
	sb := NewMatch().Scoreboard()
	assert.Equal(t, len(sb.Teams), 0)
	assert.False(t, sb.Ready)

	m := newTestMatch(t, 8, 6)
	assert.NilError(t, m.RecordBallScore(First, 3, 6))
	sb = m.Scoreboard()

	assert.True(t, sb.Ready)
	assert.Equal(t, sb.BattingSide, "one")
	assert.Equal(t, sb.Overs, 8)
	assert.StringSliceEqual(t, sb.Batsmen, []string{"AA", "AB"})
	assert.Equal(t, sb.Bowler, "BC")
	assert.Equal(t, sb.CurrentOver.Total, 6)
	assert.Equal(t, sb.Teams[TeamTwo].Mode, "bowling")
	assert.Equal(t, sb.Teams[TeamTwo].Players[2].Spells, 1)
	assert.True(t, sb.RotationDue)
}
