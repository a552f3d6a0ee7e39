package cricket

import (
	"fmt"
	"slices"
)

// BatsmanSlot selects one of the two batsmen currently at the crease.
type BatsmanSlot int

const (
	First BatsmanSlot = iota
	Second
)

func (s BatsmanSlot) String() string {
	switch s {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

func (s BatsmanSlot) valid() bool {
	return s == First || s == Second
}

// TeamSide identifies one of the two teams in a match.
type TeamSide int

const (
	TeamOne TeamSide = iota
	TeamTwo
)

func (s TeamSide) String() string {
	switch s {
	case TeamOne:
		return "one"
	case TeamTwo:
		return "two"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Opposite returns the other side.
func (s TeamSide) Opposite() TeamSide {
	if s == TeamOne {
		return TeamTwo
	}
	return TeamOne
}

func (s TeamSide) valid() bool {
	return s == TeamOne || s == TeamTwo
}

// OverCount is the number of overs per innings. Only 6, 8, 12 and 16 are allowed.
type OverCount int

var AllowedOverCounts = []OverCount{6, 8, 12, 16}

func (o OverCount) Valid() bool {
	return slices.Contains(AllowedOverCounts, o)
}

// spellLimit is how many spells a single player may bowl in a match of this length.
func (o OverCount) spellLimit() int {
	if o == 6 || o == 8 {
		return 1
	}
	return 2
}

// rotationPeriod is the number of overs after which both batsmen must be replaced.
func (o OverCount) rotationPeriod() int {
	if o > 10 {
		return 4
	}
	return 2
}

// RosterSizes lists the allowed team sizes.
var RosterSizes = []int{6, 8}

// EligiblePlayer is a roster entry that can still be selected.
type EligiblePlayer struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// ParseTeamSide parses "one" or "two".
func ParseTeamSide(s string) (TeamSide, error) {
	switch s {
	case "one", "1":
		return TeamOne, nil
	case "two", "2":
		return TeamTwo, nil
	default:
		return 0, validationErr(`team must be "one" or "two", not %q`, s)
	}
}

// ParseBatsmanSlot parses "first" or "second".
func ParseBatsmanSlot(s string) (BatsmanSlot, error) {
	switch s {
	case "first":
		return First, nil
	case "second":
		return Second, nil
	default:
		return 0, validationErr(`batsman must be "first" or "second", not %q`, s)
	}
}
