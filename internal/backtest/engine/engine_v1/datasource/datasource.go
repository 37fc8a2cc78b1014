package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/types"
)

type Interval string

const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval10m Interval = "10m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
)

// Query selects the bars of one symbol.
type Query struct {
	Symbol string
	Start  optional.Option[time.Time]
	End    optional.Option[time.Time]
	// Interval resamples the stored bars into larger buckets when set.
	Interval optional.Option[Interval]
}

// NewQuery returns a query for every bar of symbol at the stored resolution.
func NewQuery(symbol string) Query {
	return Query{
		Symbol:   symbol,
		Start:    optional.None[time.Time](),
		End:      optional.None[time.Time](),
		Interval: optional.None[Interval](),
	}
}

type DataSource interface {
	// Symbols lists the distinct symbols available, sorted.
	Symbols() ([]string, error)
	// Load returns the bars matched by q as a validated, time ordered series.
	Load(q Query) (types.BarSeries, error)
	// Count returns the number of stored bars matched by q, before resampling.
	Count(q Query) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}
