package cricket

// Scoreboard is a read-only view of a match for display.
type Scoreboard struct {
	Teams          []TeamBoard `json:"teams"`
	BattingSide    string      `json:"batting_side,omitempty"`
	Overs          int         `json:"overs,omitempty"`
	Innings        int         `json:"innings"`
	OverNumber     int         `json:"over_number"`
	CompletedOvers int         `json:"completed_overs"`
	RotationDue    bool        `json:"rotation_due"`
	Ready          bool        `json:"ready"`
	Complete       bool        `json:"complete"`
	Batsmen        []string    `json:"batsmen,omitempty"`
	Bowler         string      `json:"bowler,omitempty"`
	CurrentOver    OverBoard   `json:"current_over"`
}

type TeamBoard struct {
	Name    string       `json:"name"`
	Mode    string       `json:"mode"`
	Score   int          `json:"score"`
	Players []PlayerLine `json:"players"`
}

type PlayerLine struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	Batted       bool   `json:"batted"`
	Spells       int    `json:"spells"`
	BattingScore int    `json:"batting_score"`
	BowlingScore int    `json:"bowling_score"`
	TotalScore   int    `json:"total_score"`
}

type OverBoard struct {
	First  [BallsPerOver]int `json:"first"`
	Second [BallsPerOver]int `json:"second"`
	Total  int               `json:"total"`
}

// AwardNames are a team's awards by player name.
type AwardNames struct {
	Team          string `json:"team"`
	ManOfTheMatch string `json:"man_of_the_match"`
	BestBatsman   string `json:"best_batsman"`
	BestBowler    string `json:"best_bowler"`
}

// Board is the display view of an over.
func (o Over) Board() OverBoard {
	return OverBoard{First: o.first, Second: o.second, Total: o.TotalRuns()}
}

// Scoreboard builds the display view of the match.
func (m *Match) Scoreboard() Scoreboard {
	sb := Scoreboard{
		Teams:          []TeamBoard{},
		Innings:        m.innings,
		OverNumber:     m.overNumber,
		CompletedOvers: len(m.completed),
		RotationDue:    m.BatsmenChangeNeeded(),
		Ready:          m.Ready(),
		Complete:       m.Complete(),
		CurrentOver:    m.current.Board(),
	}
	if overs, ok := m.overs.get(); ok {
		sb.Overs = int(overs)
	}
	if teams, ok := m.teams.get(); ok {
		sb.Teams = []TeamBoard{teams[TeamOne].board(), teams[TeamTwo].board()}
	}
	if side, ok := m.batting.get(); ok {
		sb.BattingSide = side.String()
	}
	if batting, ok := m.BattingTeam(); ok {
		if batsmen, ok := batting.SelectedBatsmen(); ok {
			sb.Batsmen = []string{batsmen[First].Name(), batsmen[Second].Name()}
		}
	}
	if bowling, ok := m.BowlingTeam(); ok {
		if bowler, ok := bowling.SelectedBowler(); ok {
			sb.Bowler = bowler.Name()
		}
	}
	return sb
}

func (t *Team) board() TeamBoard {
	tb := TeamBoard{
		Name:    t.name,
		Mode:    t.mode.String(),
		Score:   t.score,
		Players: make([]PlayerLine, len(t.players)),
	}
	for i, p := range t.players {
		tb.Players[i] = PlayerLine{
			Index:        i,
			Name:         p.Name(),
			Batted:       p.HasBatted(),
			Spells:       p.SpellsBowled(),
			BattingScore: p.BattingScore(),
			BowlingScore: p.BowlingScore(),
			TotalScore:   p.TotalScore(),
		}
	}
	return tb
}

// AwardNames returns the team's awards by player name.
func (t *Team) AwardNames() AwardNames {
	a := t.Awards()
	return AwardNames{
		Team:          t.name,
		ManOfTheMatch: a.ManOfTheMatch.Name(),
		BestBatsman:   a.BestBatsman.Name(),
		BestBowler:    a.BestBowler.Name(),
	}
}
