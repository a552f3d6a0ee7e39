package cricket

// Player holds one player's eligibility flags and cumulative scores. Scores are signed: a
// wicket lowers the batsman's score and raises the bowler's.
type Player struct {
	name         string
	hasBatted    bool
	bowled       [2]bool
	battingScore int
	bowlingScore int
}

func newPlayer(name string) *Player {
	return &Player{name: name}
}

func (p *Player) Name() string {
	return p.name
}

// HasBatted reports whether the player has been sent in to bat.
func (p *Player) HasBatted() bool {
	return p.hasBatted
}

// MarkBatted flags the player as having batted. Once set it stays set for the match.
func (p *Player) MarkBatted() {
	p.hasBatted = true
}

// RecordBowlingSpell consumes the first unused bowling slot. Team guards against calling it
// when both are used.
func (p *Player) RecordBowlingSpell() {
	if p.bowled[0] {
		p.bowled[1] = true
		return
	}
	p.bowled[0] = true
}

// SpellsBowled returns how many bowling slots have been consumed (0, 1 or 2).
func (p *Player) SpellsBowled() int {
	n := 0
	for _, b := range p.bowled {
		if b {
			n++
		}
	}
	return n
}

// HasBowledFullQuota reports whether the player may no longer bowl. Six and eight over
// matches allow one spell per player, twelve and sixteen over matches allow two.
func (p *Player) HasBowledFullQuota(overs OverCount) bool {
	return p.SpellsBowled() >= overs.spellLimit()
}

func (p *Player) BattingScore() int {
	return p.battingScore
}

func (p *Player) BowlingScore() int {
	return p.bowlingScore
}

func (p *Player) TotalScore() int {
	return p.battingScore + p.bowlingScore
}

// AddBattingRuns adds runs scored as a batsman. Negative for a wicket.
func (p *Player) AddBattingRuns(runs int) {
	p.battingScore += runs
}

// AddBowlingScore adds to the bowling score. Negative for runs conceded, positive for wickets.
func (p *Player) AddBowlingScore(score int) {
	p.bowlingScore += score
}
