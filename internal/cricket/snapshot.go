package cricket

// Snapshot is the complete, serializable state of a Match. It is what storage layers persist
// and what Restore rebuilds a Match from.
type Snapshot struct {
	TeamNames       *[2]string     `json:"team_names,omitempty"`
	Teams           []TeamSnapshot `json:"teams,omitempty"`
	Overs           OverCount      `json:"overs,omitempty"`
	BattingSide     *TeamSide      `json:"batting_side,omitempty"`
	OpenersSelected bool           `json:"openers_selected"`
	Complete        bool           `json:"complete"`
	Innings         int            `json:"innings"`
	OverNumber      int            `json:"over_number"`
	CompletedOvers  []OverSnapshot `json:"completed_overs"`
	CurrentOver     OverSnapshot   `json:"current_over"`
}

type TeamSnapshot struct {
	Name    string           `json:"name"`
	Mode    Mode             `json:"mode"`
	Score   int              `json:"score"`
	Batsmen *[2]int          `json:"batsmen,omitempty"`
	Bowler  *int             `json:"bowler,omitempty"`
	Players []PlayerSnapshot `json:"players"`
}

type PlayerSnapshot struct {
	Name         string  `json:"name"`
	Batted       bool    `json:"batted"`
	Bowled       [2]bool `json:"bowled"`
	BattingScore int     `json:"batting_score"`
	BowlingScore int     `json:"bowling_score"`
}

type OverSnapshot struct {
	First  [BallsPerOver]int `json:"first"`
	Second [BallsPerOver]int `json:"second"`
}

func snapshotOver(o Over) OverSnapshot {
	return OverSnapshot{First: o.first, Second: o.second}
}

func (s OverSnapshot) over() Over {
	return Over{first: s.First, second: s.Second}
}

// Snapshot captures the match state.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		OpenersSelected: m.openersSelected,
		Complete:        m.Complete(),
		Innings:         m.innings,
		OverNumber:      m.overNumber,
		CompletedOvers:  make([]OverSnapshot, len(m.completed)),
		CurrentOver:     snapshotOver(m.current),
	}
	if names, ok := m.names.get(); ok {
		s.TeamNames = &names
	}
	if teams, ok := m.teams.get(); ok {
		s.Teams = []TeamSnapshot{teams[TeamOne].snapshot(), teams[TeamTwo].snapshot()}
	}
	if overs, ok := m.overs.get(); ok {
		s.Overs = overs
	}
	if side, ok := m.batting.get(); ok {
		s.BattingSide = &side
	}
	for i, o := range m.completed {
		s.CompletedOvers[i] = snapshotOver(o)
	}
	return s
}

func (t *Team) snapshot() TeamSnapshot {
	s := TeamSnapshot{
		Name:    t.name,
		Mode:    t.mode,
		Score:   t.score,
		Players: make([]PlayerSnapshot, len(t.players)),
	}
	if b, ok := t.batsmen.get(); ok {
		s.Batsmen = &b
	}
	if b, ok := t.bowler.get(); ok {
		s.Bowler = &b
	}
	for i, p := range t.players {
		s.Players[i] = PlayerSnapshot{
			Name:         p.name,
			Batted:       p.hasBatted,
			Bowled:       p.bowled,
			BattingScore: p.battingScore,
			BowlingScore: p.bowlingScore,
		}
	}
	return s
}

// Restore rebuilds a Match from a snapshot, rejecting snapshots that could not have been
// produced by a valid sequence of operations.
func Restore(s Snapshot) (*Match, error) {
	m := NewMatch()

	if s.TeamNames != nil {
		m.names.set(*s.TeamNames)
	}

	switch len(s.Teams) {
	case 0:
	case 2:
		if !m.names.isSet() {
			return nil, validationErr("snapshot has rosters but no team names")
		}
		one, err := restoreTeam(s.Teams[TeamOne])
		if err != nil {
			return nil, err
		}
		two, err := restoreTeam(s.Teams[TeamTwo])
		if err != nil {
			return nil, err
		}
		m.teams.set([2]*Team{one, two})
	default:
		return nil, validationErr("snapshot must hold 0 or 2 teams, got %d", len(s.Teams))
	}

	if s.Overs != 0 {
		if !s.Overs.Valid() {
			return nil, validationErr("snapshot has invalid over count %d", s.Overs)
		}
		m.overs.set(s.Overs)
	}

	if s.BattingSide != nil {
		side := *s.BattingSide
		if !side.valid() || !m.teams.isSet() {
			return nil, validationErr("snapshot has invalid batting side")
		}
		teams, _ := m.teams.get()
		if teams[side].mode != ModeBatting || teams[side.Opposite()].mode != ModeBowling {
			return nil, validationErr("snapshot team modes do not match the batting side")
		}
		m.batting.set(side)
	}

	if s.OpenersSelected {
		if err := m.checkConfigured(); err != nil {
			return nil, validationErr("snapshot started play before configuration was complete")
		}
		if _, ok := m.battingTeam().batsmen.get(); !ok {
			return nil, validationErr("snapshot has no batsmen selected")
		}
		if _, ok := m.bowlingTeam().bowler.get(); !ok {
			return nil, validationErr("snapshot has no bowler selected")
		}
	}
	m.openersSelected = s.OpenersSelected

	if s.Innings < 1 || s.Innings > 2 {
		return nil, validationErr("snapshot has invalid innings %d", s.Innings)
	}
	m.innings = s.Innings
	if s.OverNumber < 0 || (m.overs.isSet() && s.OverNumber >= int(s.Overs)) {
		return nil, validationErr("snapshot has invalid over number %d", s.OverNumber)
	}
	m.overNumber = s.OverNumber

	m.completed = make([]Over, len(s.CompletedOvers))
	for i, o := range s.CompletedOvers {
		m.completed[i] = o.over()
	}
	m.current = s.CurrentOver.over()

	return m, nil
}

func restoreTeam(s TeamSnapshot) (*Team, error) {
	names := make([]string, len(s.Players))
	for i, p := range s.Players {
		names[i] = p.Name
	}
	t, err := NewTeam(s.Name, names)
	if err != nil {
		return nil, err
	}

	switch s.Mode {
	case ModeUnset, ModeBatting, ModeBowling:
		t.mode = s.Mode
	default:
		return nil, validationErr("snapshot has invalid mode %d for team %q", s.Mode, s.Name)
	}
	t.score = s.Score

	for i, p := range s.Players {
		t.players[i].hasBatted = p.Batted
		t.players[i].bowled = p.Bowled
		t.players[i].battingScore = p.BattingScore
		t.players[i].bowlingScore = p.BowlingScore
	}

	if s.Batsmen != nil {
		b := *s.Batsmen
		if t.checkIndex(b[0]) != nil || t.checkIndex(b[1]) != nil || b[0] == b[1] {
			return nil, validationErr("snapshot has invalid batsmen for team %q", s.Name)
		}
		t.batsmen.set(b)
	}
	if s.Bowler != nil {
		if t.checkIndex(*s.Bowler) != nil {
			return nil, validationErr("snapshot has invalid bowler for team %q", s.Name)
		}
		t.bowler.set(*s.Bowler)
	}
	return t, nil
}
