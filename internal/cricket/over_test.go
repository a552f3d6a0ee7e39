package cricket

import (
	"CricketScoreApi/internal/assert"
	"testing"
)

func TestOverSetScoreBounds(t *testing.T) {
	for ball := -1; ball <= 8; ball++ {
		var o Over
		err := o.SetScore(First, ball, 4)
		if ball < 1 || ball > BallsPerOver {
			assert.ErrorIs(t, err, ErrValidation)
			continue
		}
		assert.NilError(t, err)
		got, err := o.Ball(First, ball)
		assert.NilError(t, err)
		assert.Equal(t, got, 4)
	}
}

func TestOverLastWriteWins(t *testing.T) {
	var o Over
	assert.NilError(t, o.SetScore(Second, 3, 6))
	assert.NilError(t, o.SetScore(Second, 3, 1))

	got, err := o.Ball(Second, 3)
	assert.NilError(t, err)
	assert.Equal(t, got, 1)
	assert.Equal(t, o.TotalRuns(Second), 1)
}

func TestOverTotals(t *testing.T) {
	var o Over
	first := []int{1, 0, 4, 0, 6, 1}
	second := []int{2, 2, -5, 0, 0, 3}
	for i := range first {
		assert.NilError(t, o.SetScore(First, i+1, first[i]))
		assert.NilError(t, o.SetScore(Second, i+1, second[i]))
	}

	assert.Equal(t, o.TotalRuns(First), 12)
	assert.Equal(t, o.TotalRuns(Second), 2)
	assert.Equal(t, o.TotalRuns(), 14)
	assert.Equal(t, o.BowlerOverScore(), -14)
	assert.Equal(t, o.Balls(First), [BallsPerOver]int{1, 0, 4, 0, 6, 1})
}

func TestOverUnknownSlot(t *testing.T) {
	var o Over
	assert.ErrorIs(t, o.SetScore(BatsmanSlot(7), 1, 1), ErrValidation)
}

func TestDeliveryValue(t *testing.T) {
	tests := []struct {
		name     string
		delivery Delivery
		want     int
	}{
		{name: "Dot Ball", delivery: Delivery{}, want: 0},
		{name: "Boundary", delivery: Delivery{Runs: 4}, want: 4},
		{name: "Wicket", delivery: Delivery{Wicket: true}, want: -WicketValue},
		{name: "Run Then Wicket", delivery: Delivery{Runs: 1, Wicket: true}, want: 1 - WicketValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.delivery.Value(), tt.want)
		})
	}
}
