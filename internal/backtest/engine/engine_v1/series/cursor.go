// Package series holds the temporal authority of a backtest run: the Cursor that tracks the
// bar being processed and the Windows that expose arrays only up to that bar.
package series

import (
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

// Cursor tracks the current bar index of a run. It starts at 0, only moves forward and
// is sealed once the strategy setup phase is over.
type Cursor struct {
	current int
	length  int
	sealed  bool
}

// NewCursor creates a cursor over a series of the given length.
func NewCursor(length int) (*Cursor, error) {
	if length <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "cursor length must be positive, got %d", length)
	}

	return &Cursor{
		current: 0,
		length:  length,
		sealed:  false,
	}, nil
}

// Advance moves the cursor to bar i.
func (c *Cursor) Advance(i int) error {
	if i < 0 || i >= c.length {
		return errors.Newf(errors.ErrCodeOutOfRangeAccess, "bar index %d outside [0, %d)", i, c.length)
	}

	if i < c.current {
		return errors.Newf(errors.ErrCodeCursorRegression, "cursor cannot move back from %d to %d", c.current, i)
	}

	c.current = i

	return nil
}

// Current returns the index of the bar being processed.
func (c *Cursor) Current() int {
	return c.current
}

// Len returns the total number of bars.
func (c *Cursor) Len() int {
	return c.length
}

// Seal ends the setup phase. After it, full-history reads are rejected.
func (c *Cursor) Seal() {
	c.sealed = true
}

// Sealed reports whether the setup phase is over.
func (c *Cursor) Sealed() bool {
	return c.sealed
}
