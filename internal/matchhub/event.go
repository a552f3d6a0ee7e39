package matchhub

import (
	"CricketScoreApi/internal/cricket"
	"fmt"
)

// Change kinds reported to watchers and to the OnChange hook.
const (
	KindBall    = "ball"
	KindOver    = "over"
	KindOpeners = "openers"
	KindJoined  = "joined"
)

type MatchEvent interface {
	Apply(m *cricket.Match) error
	Kind() string
}

type MatchEventType int

const (
	ball MatchEventType = iota
	over
	openers
)

// GenericEvent is a keeper message as decoded from JSON, before its type is known.
type GenericEvent map[string]any

func (e GenericEvent) parseEvent() (MatchEvent, error) {
	eventType, err := checkAndAssertIntFromMap(e, "type")
	if err != nil {
		return nil, fmt.Errorf("%w: type: %s", ErrEventParseFailed, err)
	}

	switch MatchEventType(eventType) {
	case ball:
		event := BallEvent{}

		slot, err := checkAndAssertIntFromMap(e, "slot")
		if err != nil {
			return nil, fmt.Errorf("%w: slot: %s", ErrEventParseFailed, err)
		}
		event.Slot = cricket.BatsmanSlot(slot)

		event.Ball, err = checkAndAssertIntFromMap(e, "ball")
		if err != nil {
			return nil, fmt.Errorf("%w: ball: %s", ErrEventParseFailed, err)
		}

		event.Runs, err = checkAndAssertIntFromMap(e, "runs")
		if err != nil {
			return nil, fmt.Errorf("%w: runs: %s", ErrEventParseFailed, err)
		}

		if _, ok := e["wicket"]; ok {
			event.Wicket, err = checkAndAssertBoolFromMap(e, "wicket")
			if err != nil {
				return nil, fmt.Errorf("%w: wicket: %s", ErrEventParseFailed, err)
			}
		}

		if err := event.validate(); err != nil {
			return nil, err
		}
		return event, nil
	case over:
		event := OverEvent{}

		event.Bowler, err = checkAndAssertIntFromMap(e, "bowler")
		if err != nil {
			return nil, fmt.Errorf("%w: bowler: %s", ErrEventParseFailed, err)
		}

		if _, ok := e["batsmen"]; ok {
			event.Batsmen, err = checkAndAssertIntSliceFromMap(e, "batsmen")
			if err != nil {
				return nil, fmt.Errorf("%w: batsmen: %s", ErrEventParseFailed, err)
			}
		}

		if err := event.validate(); err != nil {
			return nil, err
		}
		return event, nil
	case openers:
		event := OpenersEvent{}

		batsmen, err := checkAndAssertIntSliceFromMap(e, "batsmen")
		if err != nil {
			return nil, fmt.Errorf("%w: batsmen: %s", ErrEventParseFailed, err)
		}
		if len(batsmen) != 2 {
			return nil, fmt.Errorf("%w: exactly two opening batsmen are required",
				ErrEventValidationFailed)
		}
		event.Batsmen = [2]int{batsmen[0], batsmen[1]}

		event.Bowler, err = checkAndAssertIntFromMap(e, "bowler")
		if err != nil {
			return nil, fmt.Errorf("%w: bowler: %s", ErrEventParseFailed, err)
		}
		return event, nil
	}

	return nil, fmt.Errorf("%w: unknown event type %d", ErrEventParseFailed, eventType)
}

// BallEvent records one ball of the current over.
type BallEvent struct {
	Slot   cricket.BatsmanSlot
	Ball   int
	Runs   int
	Wicket bool
}

func (e BallEvent) validate() error {
	if e.Slot != cricket.First && e.Slot != cricket.Second {
		return fmt.Errorf("%w: slot must be 0 or 1", ErrEventValidationFailed)
	}
	return nil
}

func (e BallEvent) Apply(m *cricket.Match) error {
	return m.RecordDelivery(e.Slot, e.Ball, cricket.Delivery{Runs: e.Runs, Wicket: e.Wicket})
}

func (e BallEvent) Kind() string {
	return KindBall
}

// OverEvent closes the current over.
type OverEvent struct {
	Bowler  int
	Batsmen []int
}

func (e OverEvent) validate() error {
	if len(e.Batsmen) > 2 {
		return fmt.Errorf("%w: at most two batsmen", ErrEventValidationFailed)
	}
	return nil
}

func (e OverEvent) Apply(m *cricket.Match) error {
	_, err := m.AdvanceOver(e.Bowler, e.Batsmen...)
	return err
}

func (e OverEvent) Kind() string {
	return KindOver
}

type OpenersEvent struct {
	Batsmen [2]int
	Bowler  int
}

func (e OpenersEvent) Apply(m *cricket.Match) error {
	return m.SelectOpeningPlayers(e.Batsmen[0], e.Batsmen[1], e.Bowler)
}

func (e OpenersEvent) Kind() string {
	return KindOpeners
}
