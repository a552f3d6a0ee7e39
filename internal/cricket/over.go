package cricket

// BallsPerOver is the fixed number of deliveries in an over.
const BallsPerOver = 6

// WicketValue is what a wicket is worth. The batsman loses it and the bowler gains it.
const WicketValue = 5

// Over records the runs credited to each of the two batsmen, ball by ball.
type Over struct {
	first  [BallsPerOver]int
	second [BallsPerOver]int
}

// Delivery describes one ball. It is encoded into a signed ball value by Value.
type Delivery struct {
	Runs   int  `json:"runs"`
	Wicket bool `json:"wicket"`
}

// Value returns the signed ball value: the runs scored, less WicketValue if a wicket fell.
func (d Delivery) Value() int {
	if d.Wicket {
		return d.Runs - WicketValue
	}
	return d.Runs
}

func (o *Over) ledger(slot BatsmanSlot) (*[BallsPerOver]int, error) {
	switch slot {
	case First:
		return &o.first, nil
	case Second:
		return &o.second, nil
	default:
		return nil, validationErr("unknown batsman slot %d", int(slot))
	}
}

func ballIndex(ball int) (int, error) {
	if ball < 1 || ball > BallsPerOver {
		return 0, validationErr("ball number out of bounds (over only has 1-%d balls, not %d)",
			BallsPerOver, ball)
	}
	return ball - 1, nil
}

// SetScore sets the score for a ball (1-6) of the over. Setting a ball again replaces the
// previous value.
func (o *Over) SetScore(slot BatsmanSlot, ball int, runs int) error {
	i, err := ballIndex(ball)
	if err != nil {
		return err
	}
	l, err := o.ledger(slot)
	if err != nil {
		return err
	}
	l[i] = runs
	return nil
}

// Ball returns the value recorded for one ball.
func (o Over) Ball(slot BatsmanSlot, ball int) (int, error) {
	i, err := ballIndex(ball)
	if err != nil {
		return 0, err
	}
	l, err := o.ledger(slot)
	if err != nil {
		return 0, err
	}
	return l[i], nil
}

// Balls returns a copy of the six ball values for a slot.
func (o Over) Balls(slot BatsmanSlot) [BallsPerOver]int {
	if slot == Second {
		return o.second
	}
	return o.first
}

// TotalRuns sums the over for the given batsman, or for both if no slot is given.
func (o Over) TotalRuns(slot ...BatsmanSlot) int {
	total := 0
	if len(slot) == 0 {
		for i := 0; i < BallsPerOver; i++ {
			total += o.first[i] + o.second[i]
		}
		return total
	}
	l, err := o.ledger(slot[0])
	if err != nil {
		return 0
	}
	for _, v := range l {
		total += v
	}
	return total
}

// BowlerOverScore is the bowler's contribution for the over: runs conceded count against
// the bowler.
func (o Over) BowlerOverScore() int {
	return -o.TotalRuns()
}
