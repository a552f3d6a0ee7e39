package cricket

// Match is the live state of a two innings limited overs match. It owns both teams, the
// completed overs and the over in progress, and enforces over progression, rotation and
// innings switch rules.
//
// A Match is not safe for concurrent use. Callers that share one must serialize access.
type Match struct {
	names   setting[[2]string]
	teams   setting[[2]*Team]
	overs   setting[OverCount]
	batting setting[TeamSide]

	openersSelected bool

	completed  []Over
	current    Over
	overNumber int
	innings    int
}

// Rotation says whether the batsmen were replaced when an over was advanced.
type Rotation int

const (
	NoRotation Rotation = iota
	BatsmenRotated
)

func (r Rotation) String() string {
	if r == BatsmenRotated {
		return "batsmen-rotated"
	}
	return "no-rotation"
}

// OverResult describes what AdvanceOver did.
type OverResult struct {
	OverNumber      int      `json:"over_number"`
	Innings         int      `json:"innings"`
	InningsSwitched bool     `json:"innings_switched"`
	Rotation        Rotation `json:"rotation"`
	MatchComplete   bool     `json:"match_complete"`
}

func NewMatch() *Match {
	return &Match{innings: 1}
}

func (m *Match) started() error {
	if m.openersSelected {
		return initErr("match configuration cannot change once play has started")
	}
	return nil
}

// SetTeamNames sets the names of both teams.
func (m *Match) SetTeamNames(teamOne, teamTwo string) error {
	if err := m.started(); err != nil {
		return err
	}
	if teamOne == "" || teamTwo == "" {
		return validationErr("both team names must be provided")
	}

	m.names.set([2]string{teamOne, teamTwo})
	if teams, ok := m.teams.get(); ok {
		teams[TeamOne].name = teamOne
		teams[TeamTwo].name = teamTwo
	}
	return nil
}

// SetPlayerNames builds both rosters. Team names must be set first.
func (m *Match) SetPlayerNames(teamOne, teamTwo []string) error {
	if err := m.started(); err != nil {
		return err
	}
	names, ok := m.names.get()
	if !ok {
		return initErr("please set the teams' names first")
	}

	one, err := NewTeam(names[TeamOne], teamOne)
	if err != nil {
		return err
	}
	two, err := NewTeam(names[TeamTwo], teamTwo)
	if err != nil {
		return err
	}

	m.teams.set([2]*Team{one, two})
	if side, ok := m.batting.get(); ok {
		m.assignBattingSide(side)
	}
	return nil
}

// SetOvers sets the number of overs per innings: 6, 8, 12 or 16. It cannot be changed once
// set.
func (m *Match) SetOvers(overs OverCount) error {
	if err := m.started(); err != nil {
		return err
	}
	if !overs.Valid() {
		return validationErr("a match can only have 6, 8, 12, or 16 overs, not %d", overs)
	}
	if current, ok := m.overs.get(); ok && current != overs {
		return validationErr("the number of overs is already set to %d", current)
	}

	m.overs.set(overs)
	return nil
}

// SetBattingTeam selects which team bats first. The other team bowls.
func (m *Match) SetBattingTeam(side TeamSide) error {
	if err := m.started(); err != nil {
		return err
	}
	if !side.valid() {
		return validationErr("unknown team %d", int(side))
	}
	if !m.teams.isSet() {
		return initErr("please set both teams' players' names")
	}

	m.assignBattingSide(side)
	return nil
}

// SetBowlingTeam selects which team bowls first. The other team bats.
func (m *Match) SetBowlingTeam(side TeamSide) error {
	if !side.valid() {
		return validationErr("unknown team %d", int(side))
	}
	return m.SetBattingTeam(side.Opposite())
}

func (m *Match) assignBattingSide(side TeamSide) {
	teams, _ := m.teams.get()
	teams[side].SetBatting()
	teams[side.Opposite()].SetBowling()
	m.batting.set(side)
}

// SelectOpeningPlayers picks the two opening batsmen and the first bowler. Nothing is
// selected unless all three are eligible.
func (m *Match) SelectOpeningPlayers(batsman1, batsman2, bowler int) error {
	if m.openersSelected {
		return initErr("opening players have already been selected")
	}
	if err := m.checkConfigured(); err != nil {
		return err
	}

	batting, bowling := m.battingTeam(), m.bowlingTeam()
	overs, _ := m.overs.get()
	if err := batting.checkBatsmen(batsman1, batsman2); err != nil {
		return err
	}
	if err := bowling.checkBowler(bowler, overs); err != nil {
		return err
	}

	if err := batting.SelectBatsmen(batsman1, batsman2); err != nil {
		return err
	}
	if err := bowling.SelectBowler(bowler, overs); err != nil {
		return err
	}
	m.openersSelected = true
	return nil
}

func (m *Match) checkConfigured() error {
	if !m.names.isSet() {
		return initErr("please set both teams' names")
	}
	if !m.teams.isSet() {
		return initErr("please set both teams' players' names")
	}
	if !m.overs.isSet() {
		return initErr("please set the number of overs for this match")
	}
	if !m.batting.isSet() {
		return initErr("please select the batting team")
	}
	return nil
}

// check returns the first unmet precondition for play.
func (m *Match) check() error {
	if err := m.checkConfigured(); err != nil {
		return err
	}
	if !m.openersSelected {
		return initErr("please select the opening players")
	}
	if m.Complete() {
		return initErr("the match is complete")
	}
	return nil
}

// Ready reports whether the match is fully configured and open for scoring.
func (m *Match) Ready() bool {
	return m.check() == nil
}

// RecordBallScore sets the score for one ball of the current over.
func (m *Match) RecordBallScore(slot BatsmanSlot, ball int, runs int) error {
	if err := m.check(); err != nil {
		return err
	}
	return m.current.SetScore(slot, ball, runs)
}

// RecordDelivery records a ball described as runs plus an optional wicket.
func (m *Match) RecordDelivery(slot BatsmanSlot, ball int, d Delivery) error {
	return m.RecordBallScore(slot, ball, d.Value())
}

// BatsmenChangeNeeded reports whether both batsmen must be replaced for the current over.
// Matches longer than ten overs rotate every four overs, shorter matches every two.
func (m *Match) BatsmenChangeNeeded() bool {
	overs, ok := m.overs.get()
	if !ok {
		return false
	}
	return m.overNumber%overs.rotationPeriod() == 0
}

// AdvanceOver closes the current over and starts the next one. The next bowler is always
// required. Two new batsmen are required when a rotation falls due (see
// BatsmenChangeNeeded); otherwise any batsmen given are ignored. All arguments are checked
// before anything changes, so a failed call leaves the match as it was.
//
// Reaching the last over of an innings swaps the sides and resets the over number. When that
// happens at the end of the second innings the match is complete: the bowler is still
// checked and selected, but no batsmen are needed and no further play is accepted.
func (m *Match) AdvanceOver(bowler int, batsmen ...int) (OverResult, error) {
	if err := m.check(); err != nil {
		return OverResult{}, err
	}
	if len(batsmen) > 2 {
		return OverResult{}, validationErr("expected at most 2 batsmen, got %d", len(batsmen))
	}

	overs, _ := m.overs.get()
	side, _ := m.batting.get()

	next := m.overNumber + 1
	switching := next >= int(overs)-1
	final := switching && m.innings == 2
	if switching {
		next = 0
		side = side.Opposite()
	}

	teams, _ := m.teams.get()
	nextBatting, nextBowling := teams[side], teams[side.Opposite()]

	if err := nextBowling.checkBowler(bowler, overs); err != nil {
		return OverResult{}, err
	}
	rotate := !final && next%overs.rotationPeriod() == 0
	if rotate {
		switch len(batsmen) {
		case 0:
			return OverResult{}, missingErr("no batsmen specified to bat the next over")
		case 1:
			return OverResult{}, missingErr("no second batsman specified")
		}
		if err := nextBatting.checkBatsmen(batsmen[0], batsmen[1]); err != nil {
			return OverResult{}, err
		}
	}

	if err := m.flush(); err != nil {
		return OverResult{}, err
	}
	if switching {
		m.switchTeams()
	}

	if err := nextBowling.SelectBowler(bowler, overs); err != nil {
		return OverResult{}, err
	}
	result := OverResult{
		OverNumber:      m.overNumber,
		Innings:         m.innings,
		InningsSwitched: switching,
		MatchComplete:   final,
	}
	if rotate {
		if err := nextBatting.SelectBatsmen(batsmen[0], batsmen[1]); err != nil {
			return OverResult{}, err
		}
		result.Rotation = BatsmenRotated
	}
	return result, nil
}

// flush credits the current over to the players and teams and starts a fresh over.
func (m *Match) flush() error {
	batting, bowling := m.battingTeam(), m.bowlingTeam()
	if err := batting.Score(m.current.TotalRuns(First), First); err != nil {
		return err
	}
	if err := batting.Score(m.current.TotalRuns(Second), Second); err != nil {
		return err
	}
	if err := bowling.Score(m.current.BowlerOverScore()); err != nil {
		return err
	}

	m.completed = append(m.completed, m.current)
	m.current = Over{}
	m.overNumber++
	return nil
}

func (m *Match) switchTeams() {
	side, _ := m.batting.get()
	m.overNumber = 0
	m.current = Over{}
	if m.innings == 1 {
		m.innings++
	}
	m.assignBattingSide(side.Opposite())
}

func (m *Match) battingTeam() *Team {
	teams, _ := m.teams.get()
	side, _ := m.batting.get()
	return teams[side]
}

func (m *Match) bowlingTeam() *Team {
	teams, _ := m.teams.get()
	side, _ := m.batting.get()
	return teams[side.Opposite()]
}

// Team returns one of the two teams.
func (m *Match) Team(side TeamSide) (*Team, error) {
	if !side.valid() {
		return nil, validationErr("unknown team %d", int(side))
	}
	teams, ok := m.teams.get()
	if !ok {
		return nil, initErr("please set both teams' players' names")
	}
	return teams[side], nil
}

// TeamNames returns the configured team names, if set.
func (m *Match) TeamNames() ([2]string, bool) {
	return m.names.get()
}

// Player returns one player from one team.
func (m *Match) Player(side TeamSide, index int) (*Player, error) {
	team, err := m.Team(side)
	if err != nil {
		return nil, err
	}
	return team.Player(index)
}

// BattingTeam returns the team currently batting.
func (m *Match) BattingTeam() (*Team, bool) {
	if !m.teams.isSet() || !m.batting.isSet() {
		return nil, false
	}
	return m.battingTeam(), true
}

// BowlingTeam returns the team currently bowling.
func (m *Match) BowlingTeam() (*Team, bool) {
	if !m.teams.isSet() || !m.batting.isSet() {
		return nil, false
	}
	return m.bowlingTeam(), true
}

// BattingSide returns which side is batting.
func (m *Match) BattingSide() (TeamSide, bool) {
	return m.batting.get()
}

// Overs returns the configured number of overs per innings.
func (m *Match) Overs() (OverCount, bool) {
	return m.overs.get()
}

// CurrentOver returns a copy of the over in progress.
func (m *Match) CurrentOver() Over {
	return m.current
}

// PreviousOver returns a copy of a completed over, 0-based across the whole match.
func (m *Match) PreviousOver(index int) (Over, error) {
	if index < 0 || index >= len(m.completed) {
		return Over{}, validationErr("over %d has not been played (%d completed)", index,
			len(m.completed))
	}
	return m.completed[index], nil
}

// CompletedOvers is the number of overs played so far across both innings.
func (m *Match) CompletedOvers() int {
	return len(m.completed)
}

// CurrentOverNumber is the 0-based index of the current over within the innings.
func (m *Match) CurrentOverNumber() int {
	return m.overNumber
}

// Innings is 1 for the first innings and 2 for the second.
func (m *Match) Innings() int {
	return m.innings
}

// OpenersSelected reports whether play has started.
func (m *Match) OpenersSelected() bool {
	return m.openersSelected
}

// Complete reports whether both innings have been played out: overs-1 completed overs each.
func (m *Match) Complete() bool {
	overs, ok := m.overs.get()
	if !ok {
		return false
	}
	return len(m.completed) >= 2*(int(overs)-1)
}

// RemainingPlayers lists the players on one side still eligible in that side's mode.
func (m *Match) RemainingPlayers(side TeamSide) ([]EligiblePlayer, error) {
	team, err := m.Team(side)
	if err != nil {
		return nil, err
	}
	overs, _ := m.overs.get()
	return team.RemainingPlayers(overs)
}

// RemainingBatsmen lists the batting team's players who have not batted yet.
func (m *Match) RemainingBatsmen() ([]EligiblePlayer, error) {
	side, ok := m.batting.get()
	if !ok {
		return nil, initErr("please select the batting team")
	}
	return m.RemainingPlayers(side)
}

// RemainingBowlers lists the bowling team's players who still have a spell left.
func (m *Match) RemainingBowlers() ([]EligiblePlayer, error) {
	side, ok := m.batting.get()
	if !ok {
		return nil, initErr("please select the batting team")
	}
	if !m.overs.isSet() {
		return nil, initErr("please set the number of overs for this match")
	}
	return m.RemainingPlayers(side.Opposite())
}
