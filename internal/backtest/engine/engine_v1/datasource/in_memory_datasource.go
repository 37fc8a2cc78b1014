package datasource

import (
	"sort"
	"time"

	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

// InMemoryDataSource serves bars held in memory. It follows the same query rules as
// DuckDBDataSource so tests and programmatic callers can swap one for the other.
type InMemoryDataSource struct {
	bars map[string][]types.Bar
}

// NewInMemoryDataSource groups bars by symbol and orders each group by time.
func NewInMemoryDataSource(bars []types.Bar) *InMemoryDataSource {
	grouped := make(map[string][]types.Bar)
	for _, b := range bars {
		grouped[b.Symbol] = append(grouped[b.Symbol], b)
	}

	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Time.Before(group[j].Time)
		})
	}

	return &InMemoryDataSource{bars: grouped}
}

// Symbols implements DataSource.
func (m *InMemoryDataSource) Symbols() ([]string, error) {
	symbols := make([]string, 0, len(m.bars))
	for symbol := range m.bars {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols, nil
}

// Count implements DataSource.
func (m *InMemoryDataSource) Count(q Query) (int, error) {
	return len(m.filter(q)), nil
}

// Load implements DataSource.
func (m *InMemoryDataSource) Load(q Query) (types.BarSeries, error) {
	if q.Symbol == "" {
		return types.BarSeries{}, errors.New(errors.ErrCodeInvalidParameter, "symbol is required")
	}

	bars := m.filter(q)

	if q.Interval.IsSome() {
		minutes, err := getIntervalMinutes(q.Interval.Unwrap())
		if err != nil {
			return types.BarSeries{}, err
		}

		bars = resample(bars, time.Duration(minutes)*time.Minute)
	}

	if len(bars) == 0 {
		return types.BarSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no bars for symbol %q", q.Symbol)
	}

	series := types.NewBarSeries(q.Symbol, bars)
	if err := series.Validate(); err != nil {
		return types.BarSeries{}, err
	}

	return series, nil
}

// Close implements DataSource.
func (m *InMemoryDataSource) Close() error {
	return nil
}

func (m *InMemoryDataSource) filter(q Query) []types.Bar {
	out := []types.Bar{}

	for _, b := range m.bars[q.Symbol] {
		if q.Start.IsSome() && b.Time.Before(q.Start.Unwrap()) {
			continue
		}

		if q.End.IsSome() && b.Time.After(q.End.Unwrap()) {
			continue
		}

		out = append(out, b)
	}

	return out
}

// resample folds time ordered bars into buckets starting at Time.Truncate(d).
func resample(bars []types.Bar, d time.Duration) []types.Bar {
	out := []types.Bar{}

	for _, b := range bars {
		start := b.Time.Truncate(d)

		if n := len(out); n > 0 && out[n-1].Time.Equal(start) {
			last := &out[n-1]
			last.High = max(last.High, b.High)
			last.Low = min(last.Low, b.Low)
			last.Close = b.Close
			last.Volume += b.Volume

			continue
		}

		b.Time = start
		out = append(out, b)
	}

	return out
}
