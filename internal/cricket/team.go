package cricket

import (
	"slices"
)

// Mode is whether a team is currently batting or bowling.
type Mode int

const (
	ModeUnset Mode = iota
	ModeBatting
	ModeBowling
)

func (m Mode) String() string {
	switch m {
	case ModeBatting:
		return "batting"
	case ModeBowling:
		return "bowling"
	default:
		return "unset"
	}
}

// Team is a fixed roster of players plus the team score and the players currently selected
// to bat or bowl.
type Team struct {
	name    string
	players []*Player
	mode    Mode
	score   int
	batsmen setting[[2]int]
	bowler  setting[int]
	awards  *Awards
}

// Awards are the end of match selections for a team.
type Awards struct {
	ManOfTheMatch *Player
	BestBatsman   *Player
	BestBowler    *Player
}

// NewTeam builds a team from a list of player names. The roster must hold 6 or 8 names.
func NewTeam(name string, playerNames []string) (*Team, error) {
	if !slices.Contains(RosterSizes, len(playerNames)) {
		return nil, validationErr("a team can only have 6 or 8 players, got %d", len(playerNames))
	}

	t := &Team{
		name:    name,
		players: make([]*Player, len(playerNames)),
	}
	for i, n := range playerNames {
		t.players[i] = newPlayer(n)
	}
	return t, nil
}

func (t *Team) Name() string {
	return t.name
}

func (t *Team) Size() int {
	return len(t.players)
}

// Player returns the player at a 0-based roster index.
func (t *Team) Player(index int) (*Player, error) {
	if err := t.checkIndex(index); err != nil {
		return nil, err
	}
	return t.players[index], nil
}

// TeamScore is the cumulative score credited to the team.
func (t *Team) TeamScore() int {
	return t.score
}

func (t *Team) Mode() Mode {
	return t.mode
}

func (t *Team) IsBatting() bool {
	return t.mode == ModeBatting
}

// SetBatting puts the team in batting mode.
func (t *Team) SetBatting() {
	t.mode = ModeBatting
}

// SetBowling puts the team in bowling mode.
func (t *Team) SetBowling() {
	t.mode = ModeBowling
}

// SelectedBatsmen returns the two batsmen at the crease, first slot then second.
func (t *Team) SelectedBatsmen() ([2]*Player, bool) {
	idx, ok := t.batsmen.get()
	if !ok {
		return [2]*Player{}, false
	}
	return [2]*Player{t.players[idx[0]], t.players[idx[1]]}, true
}

// SelectedBowler returns the player bowling the current over.
func (t *Team) SelectedBowler() (*Player, bool) {
	idx, ok := t.bowler.get()
	if !ok {
		return nil, false
	}
	return t.players[idx], true
}

func (t *Team) checkIndex(index int) error {
	if index < 0 || index >= len(t.players) {
		return validationErr("player index %d out of range (team %q has players 0-%d)", index,
			t.name, len(t.players)-1)
	}
	return nil
}

func (t *Team) checkBatsmen(first, second int) error {
	if err := t.checkIndex(first); err != nil {
		return err
	}
	if err := t.checkIndex(second); err != nil {
		return err
	}
	if first == second {
		return conflictErr("same batsman selected twice (index %d)", first)
	}
	if t.players[first].HasBatted() || t.players[second].HasBatted() {
		return conflictErr("selected player(s) have already batted")
	}
	return nil
}

func (t *Team) checkBowler(index int, overs OverCount) error {
	if overs == 0 {
		return missingErr("total number of overs not specified")
	}
	if !overs.Valid() {
		return validationErr("a match can only have 6, 8, 12, or 16 overs, not %d", overs)
	}
	if err := t.checkIndex(index); err != nil {
		return err
	}
	if t.players[index].HasBowledFullQuota(overs) {
		return conflictErr("%s has already bowled their full quota", t.players[index].Name())
	}
	return nil
}

// SelectBatsmen sends two players in to bat. Both must be distinct and must not have batted.
func (t *Team) SelectBatsmen(first, second int) error {
	if t.mode != ModeBatting {
		return initErr("team %q is not batting", t.name)
	}
	if err := t.checkBatsmen(first, second); err != nil {
		return err
	}

	t.players[first].MarkBatted()
	t.players[second].MarkBatted()
	t.batsmen.set([2]int{first, second})
	return nil
}

// SelectBowler picks the bowler for the next over and uses up one of their spells.
func (t *Team) SelectBowler(index int, overs OverCount) error {
	if t.mode != ModeBowling {
		return initErr("team %q is not bowling", t.name)
	}
	if err := t.checkBowler(index, overs); err != nil {
		return err
	}

	t.players[index].RecordBowlingSpell()
	t.bowler.set(index)
	return nil
}

// SelectPlayers selects batsmen or a bowler depending on the team's mode. Batting needs two
// indices; bowling needs one index and the match's over count.
func (t *Team) SelectPlayers(indices []int, overs OverCount) error {
	switch t.mode {
	case ModeBatting:
		switch len(indices) {
		case 0:
			return missingErr("no batsmen specified")
		case 1:
			return missingErr("no second batsman specified")
		case 2:
			return t.SelectBatsmen(indices[0], indices[1])
		default:
			return validationErr("expected 2 batsmen, got %d", len(indices))
		}
	case ModeBowling:
		if len(indices) == 0 {
			return missingErr("no bowler specified")
		}
		return t.SelectBowler(indices[0], overs)
	default:
		return initErr("team %q is neither batting nor bowling", t.name)
	}
}

// RemainingPlayers lists players that can still be selected in the team's current mode.
// The over count is only needed while bowling.
func (t *Team) RemainingPlayers(overs OverCount) ([]EligiblePlayer, error) {
	available := make([]EligiblePlayer, 0, len(t.players))
	switch t.mode {
	case ModeBatting:
		for i, p := range t.players {
			if !p.HasBatted() {
				available = append(available, EligiblePlayer{Index: i, Name: p.Name()})
			}
		}
	case ModeBowling:
		if overs == 0 {
			return nil, missingErr("total number of overs not specified")
		}
		for i, p := range t.players {
			if !p.HasBowledFullQuota(overs) {
				available = append(available, EligiblePlayer{Index: i, Name: p.Name()})
			}
		}
	default:
		return nil, initErr("team %q is neither batting nor bowling", t.name)
	}
	return available, nil
}

// Score credits the team and the active player. While batting the slot picks which batsman
// is credited; while bowling the selected bowler is credited.
func (t *Team) Score(amount int, slot ...BatsmanSlot) error {
	switch t.mode {
	case ModeBatting:
		if len(slot) == 0 {
			return missingErr("no batsman specified")
		}
		if !slot[0].valid() {
			return validationErr("unknown batsman slot %d", int(slot[0]))
		}
		batsmen, ok := t.SelectedBatsmen()
		if !ok {
			return initErr("team %q has no batsmen selected", t.name)
		}
		batsmen[slot[0]].AddBattingRuns(amount)
	case ModeBowling:
		bowler, ok := t.SelectedBowler()
		if !ok {
			return initErr("team %q has no bowler selected", t.name)
		}
		bowler.AddBowlingScore(amount)
	default:
		return initErr("team %q is neither batting nor bowling", t.name)
	}

	t.score += amount
	t.awards = nil
	return nil
}

// ManOfTheMatch is the player with the highest total score.
func (t *Team) ManOfTheMatch() *Player {
	return t.Awards().ManOfTheMatch
}

// BestBatsman is the player with the highest batting score.
func (t *Team) BestBatsman() *Player {
	return t.Awards().BestBatsman
}

// BestBowler is the player with the highest bowling score.
func (t *Team) BestBowler() *Player {
	return t.Awards().BestBowler
}

// Awards computes all three selections in one pass over the roster. Ties go to the lowest
// roster index. The result is cached until the next score change.
func (t *Team) Awards() Awards {
	if t.awards != nil {
		return *t.awards
	}

	mom, bat, bowl := 0, 0, 0
	for i, p := range t.players {
		if p.TotalScore() > t.players[mom].TotalScore() {
			mom = i
		}
		if p.BattingScore() > t.players[bat].BattingScore() {
			bat = i
		}
		if p.BowlingScore() > t.players[bowl].BowlingScore() {
			bowl = i
		}
	}

	t.awards = &Awards{
		ManOfTheMatch: t.players[mom],
		BestBatsman:   t.players[bat],
		BestBowler:    t.players[bowl],
	}
	return *t.awards
}
