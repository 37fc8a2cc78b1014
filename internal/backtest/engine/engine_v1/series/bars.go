package series

import (
	"time"

	"github.com/rxtech-lab/argo-breakout/internal/types"
)

// Bars groups the windows over one bound BarSeries.
type Bars struct {
	Symbol string
	Time   *Window
	Open   *Window
	High   *Window
	Low    *Window
	Close  *Window
	Volume *Window

	timestamps []int64
	cursor     *Cursor
}

// NewBars builds the OHLCV windows over s. s must already be validated.
func NewBars(s types.BarSeries, cursor *Cursor) *Bars {
	times := make([]float64, len(s.Timestamps))
	for i, ts := range s.Timestamps {
		times[i] = float64(ts)
	}

	return &Bars{
		Symbol:     s.Symbol,
		Time:       NewWindow(times, cursor),
		Open:       NewWindow(clone(s.Opens), cursor),
		High:       NewWindow(clone(s.Highs), cursor),
		Low:        NewWindow(clone(s.Lows), cursor),
		Close:      NewWindow(clone(s.Closes), cursor),
		Volume:     NewWindow(clone(s.Volumes), cursor),
		timestamps: clone(s.Timestamps),
		cursor:     cursor,
	}
}

// Index returns the current bar index.
func (b *Bars) Index() int {
	return b.cursor.Current()
}

// Timestamp returns the unix time of bar i, resolved like Window.Get.
func (b *Bars) Timestamp(i int) (time.Time, error) {
	if _, err := b.Time.Get(i); err != nil {
		return time.Time{}, err
	}

	resolved := i
	if i < 0 {
		resolved = b.cursor.Current() + i + 1
	}

	return time.Unix(b.timestamps[resolved], 0), nil
}

// Current returns the bar at the cursor.
func (b *Bars) Current() types.Bar {
	i := b.cursor.Current()

	return types.Bar{
		Symbol: b.Symbol,
		Time:   time.Unix(b.timestamps[i], 0),
		Open:   b.Open.values[i],
		High:   b.High.values[i],
		Low:    b.Low.values[i],
		Close:  b.Close.values[i],
		Volume: b.Volume.values[i],
	}
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)

	return out
}
