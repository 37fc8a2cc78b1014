package breakout

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/shopspring/decimal"
)

// SessionState is the phase of one trading day.
type SessionState int

const (
	StateOpeningRange SessionState = iota
	StateScanning
	StateLong
	StateShort
	StateDone
)

func (s SessionState) String() string {
	switch s {
	case StateOpeningRange:
		return "opening_range"
	case StateScanning:
		return "scanning"
	case StateLong:
		return "long"
	case StateShort:
		return "short"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ActivePosition is the open trade of a session with its protective levels.
type ActivePosition struct {
	types.Position
	Stop   float64
	Target float64
	// Trailed is set once the stop has been ratcheted.
	Trailed bool
}

// DaySession is the state of one trading day.
type DaySession struct {
	// Date is the local calendar date, formatted 2006-01-02.
	Date             string
	OpeningRangeHigh float64
	OpeningRangeLow  float64
	State            SessionState
	Position         optional.Option[ActivePosition]
	DailyPL          decimal.Decimal
	Trades           int
	Wins             int

	rangeBars int
}

func newDaySession(date string) *DaySession {
	return &DaySession{
		Date:     date,
		State:    StateOpeningRange,
		Position: optional.None[ActivePosition](),
		DailyPL:  decimal.Zero,
	}
}

// addRangeBar folds one opening-range bar into the range. It reports whether the range is complete.
func (d *DaySession) addRangeBar(high float64, low float64, rangeBars int) bool {
	if d.rangeBars == 0 {
		d.OpeningRangeHigh = high
		d.OpeningRangeLow = low
	} else {
		d.OpeningRangeHigh = max(d.OpeningRangeHigh, high)
		d.OpeningRangeLow = min(d.OpeningRangeLow, low)
	}
	d.rangeBars++

	return d.rangeBars >= rangeBars
}

// IsOpen reports whether the session holds a position.
func (d *DaySession) IsOpen() bool {
	return d.Position.IsSome()
}
