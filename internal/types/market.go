package types

import (
	"time"

	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

// Bar is one OHLCV sample.
type Bar struct {
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// BarSeries is the column-oriented input of one backtest run.
// All columns share one length and Timestamps (unix seconds) are non-decreasing.
type BarSeries struct {
	Symbol     string
	Timestamps []int64
	Opens      []float64
	Highs      []float64
	Lows       []float64
	Closes     []float64
	Volumes    []float64
}

// NewBarSeries builds a column-oriented series from row bars.
func NewBarSeries(symbol string, bars []Bar) BarSeries {
	s := BarSeries{
		Symbol:     symbol,
		Timestamps: make([]int64, len(bars)),
		Opens:      make([]float64, len(bars)),
		Highs:      make([]float64, len(bars)),
		Lows:       make([]float64, len(bars)),
		Closes:     make([]float64, len(bars)),
		Volumes:    make([]float64, len(bars)),
	}

	for i, b := range bars {
		s.Timestamps[i] = b.Time.Unix()
		s.Opens[i] = b.Open
		s.Highs[i] = b.High
		s.Lows[i] = b.Low
		s.Closes[i] = b.Close
		s.Volumes[i] = b.Volume
	}

	return s
}

// Len returns the number of bars. It is only meaningful after Validate succeeds.
func (s BarSeries) Len() int {
	return len(s.Closes)
}

// Validate checks the series shape: every column has the same non-zero length and
// timestamps never go backwards.
func (s BarSeries) Validate() error {
	n := len(s.Timestamps)
	if n == 0 {
		return errors.Newf(errors.ErrCodeEmptySeries, "series %q has no bars", s.Symbol)
	}

	lengths := map[string]int{
		"opens":   len(s.Opens),
		"highs":   len(s.Highs),
		"lows":    len(s.Lows),
		"closes":  len(s.Closes),
		"volumes": len(s.Volumes),
	}
	for column, l := range lengths {
		if l != n {
			return errors.Newf(errors.ErrCodeSeriesLengthMismatch,
				"series %q: column %s has %d values, timestamps has %d", s.Symbol, column, l, n)
		}
	}

	for i := 1; i < n; i++ {
		if s.Timestamps[i] < s.Timestamps[i-1] {
			return errors.Newf(errors.ErrCodeUnorderedTimestamps,
				"series %q: timestamp at %d goes backwards", s.Symbol, i)
		}
	}

	return nil
}

// BarAt returns the row view of bar i.
func (s BarSeries) BarAt(i int) Bar {
	return Bar{
		Symbol: s.Symbol,
		Time:   time.Unix(s.Timestamps[i], 0).UTC(),
		Open:   s.Opens[i],
		High:   s.Highs[i],
		Low:    s.Lows[i],
		Close:  s.Closes[i],
		Volume: s.Volumes[i],
	}
}
