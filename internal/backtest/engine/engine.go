package engine

import (
	"github.com/rxtech-lab/argo-breakout/internal/runtime"
	"github.com/rxtech-lab/argo-breakout/internal/trading"
	"github.com/rxtech-lab/argo-breakout/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnBacktestStartCallback is called when a batch of runs begins.
type OnBacktestStartCallback func(totalSymbols int) error

// OnBacktestEndCallback is called when a batch of runs completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnRunStartCallback is called before the first bar of a run.
// runID is a unique identifier for this run, generated before processing starts.
type OnRunStartCallback func(runID string, symbol string, totalBars int) error

// OnRunEndCallback is called after a run produced its result.
type OnRunEndCallback func(runID string, symbol string, result types.RunResult)

// OnProcessDataCallback is called after each bar is processed.
type OnProcessDataCallback func(current int, total int) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnRunStart      *OnRunStartCallback
	OnRunEnd        *OnRunEndCallback
	OnProcessData   *OnProcessDataCallback
}

// Engine replays one bar series through one strategy.
type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// Bind validates series and makes it the input of the next run.
	// Binding resets the cursor, the indicator cache and the ledger.
	Bind(series types.BarSeries) error
	// Run drives strategy over every bound bar and returns the result.
	// A run consumes the binding; bind again before the next run.
	Run(strategy runtime.Strategy, callbacks LifecycleCallbacks) (types.RunResult, error)
	// SetFillModel replaces the fill model built from the configuration.
	SetFillModel(fill trading.FillModel)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
