package breakout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Highs [10, 11, 9] and lows [9, 8, 8.5] form a range of 8 to 11.
func TestOpeningRange(t *testing.T) {
	d := newDaySession("2024-01-02")
	assert.Equal(t, StateOpeningRange, d.State)

	assert.False(t, d.addRangeBar(10, 9, 3))
	assert.False(t, d.addRangeBar(11, 8, 3))
	assert.True(t, d.addRangeBar(9, 8.5, 3))

	assert.Equal(t, 11.0, d.OpeningRangeHigh)
	assert.Equal(t, 8.0, d.OpeningRangeLow)
	assert.False(t, d.IsOpen())
	assert.True(t, d.DailyPL.IsZero())
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "opening_range", StateOpeningRange.String())
	assert.Equal(t, "scanning", StateScanning.String())
	assert.Equal(t, "long", StateLong.String())
	assert.Equal(t, "short", StateShort.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "unknown", SessionState(42).String())
}
