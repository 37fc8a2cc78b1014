package runtime

import (
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/cache"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/ledger"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/series"
	"github.com/rxtech-lab/argo-breakout/internal/indicator"
	"github.com/rxtech-lab/argo-breakout/internal/logger"
	"github.com/rxtech-lab/argo-breakout/internal/trading"
	"github.com/rxtech-lab/argo-breakout/internal/types"
)

// Strategy is driven by the engine: Setup once before the first bar, then OnBar for every bar.
type Strategy interface {
	// Name returns the name of the strategy
	Name() string
	// Setup precomputes indicators. It is the only phase in which full history is readable.
	Setup(ctx *RuntimeContext) error
	// OnBar runs once per bar, in order, with the cursor at that bar.
	OnBar(ctx *RuntimeContext) error
}

// Finisher is implemented by strategies that need a hook after the last bar.
type Finisher interface {
	Finish(ctx *RuntimeContext) error
}

// Versioned is implemented by strategies built against a specific engine version.
type Versioned interface {
	RuntimeVersion() string
}

// Configurable is implemented by strategies that accept a YAML or JSON configuration.
type Configurable interface {
	Initialize(config string) error
	GetConfigSchema() (string, error)
}

// RuntimeContext is everything a strategy may touch during a run.
type RuntimeContext struct {
	// Bars exposes the OHLCV windows of the bound series, up to the current bar
	Bars *series.Bars
	// Cache memoises indicator arrays
	Cache cache.Cache
	// IndicatorRegistry resolves indicators by name
	IndicatorRegistry indicator.IndicatorRegistry
	// Ledger holds the open position and the closed trades
	Ledger ledger.Ledger
	// FillModel prices simulated fills
	FillModel trading.FillModel
	// CommissionFee prices each order leg
	CommissionFee commission_fee.CommissionFee
	// InitialCapital is the starting account value from the engine configuration
	InitialCapital float64
	Logger         *logger.Logger
}

// Indicator resolves name in the registry and registers it with the cache.
func (c *RuntimeContext) Indicator(name types.IndicatorType, inputs []*series.Window, params indicator.Params) (*series.Window, error) {
	fn, err := c.IndicatorRegistry.GetIndicator(name)
	if err != nil {
		return nil, err
	}

	return c.Cache.Register(fn, inputs, params)
}
