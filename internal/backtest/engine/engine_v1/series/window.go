package series

import (
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

// Window is a read-only view over a raw array that never exposes values past the cursor.
// It is the single enforcement point for the no-look-ahead guarantee.
type Window struct {
	values []float64
	cursor *Cursor
}

// NewWindow wraps values. The window keeps its own reference; callers must not mutate values.
func NewWindow(values []float64, cursor *Cursor) *Window {
	return &Window{
		values: values,
		cursor: cursor,
	}
}

// Get returns the value at i. Negative indices count back from the current bar:
// -1 is the current bar, -2 the previous one.
func (w *Window) Get(i int) (float64, error) {
	current := w.cursor.Current()

	resolved := i
	if i < 0 {
		resolved = current + i + 1
	}

	if resolved > current {
		return 0, errors.Newf(errors.ErrCodeLookAheadViolation,
			"index %d resolves to bar %d, beyond current bar %d", i, resolved, current)
	}

	if resolved < 0 || resolved >= len(w.values) {
		return 0, errors.Newf(errors.ErrCodeOutOfRangeAccess,
			"index %d resolves to bar %d, outside [0, %d)", i, resolved, len(w.values))
	}

	return w.values[resolved], nil
}

// Prefix returns a copy of the values from the first bar through the current one.
func (w *Window) Prefix() []float64 {
	end := min(w.cursor.Current()+1, len(w.values))
	out := make([]float64, end)
	copy(out, w.values[:end])

	return out
}

// Len returns the number of visible values.
func (w *Window) Len() int {
	return min(w.cursor.Current()+1, len(w.values))
}

// Cap returns the length of the underlying array.
func (w *Window) Cap() int {
	return len(w.values)
}

// Full returns a copy of the whole array. It is only available before the cursor is sealed,
// which is the window in which indicators are precomputed.
func (w *Window) Full() ([]float64, error) {
	if w.cursor.Sealed() {
		return nil, errors.New(errors.ErrCodeLookAheadViolation, "full history is only readable during setup")
	}

	out := make([]float64, len(w.values))
	copy(out, w.values)

	return out, nil
}

// Cursor returns the cursor the window is keyed to.
func (w *Window) Cursor() *Cursor {
	return w.cursor
}
