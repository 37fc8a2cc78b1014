package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/cache"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/ledger"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/series"
	"github.com/rxtech-lab/argo-breakout/internal/indicator"
	"github.com/rxtech-lab/argo-breakout/internal/logger"
	"github.com/rxtech-lab/argo-breakout/internal/runtime"
	"github.com/rxtech-lab/argo-breakout/internal/trading"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/internal/version"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type engineState int

const (
	stateUnbound engineState = iota
	stateInitialized
	stateRunning
	stateFinished
)

func (s engineState) String() string {
	switch s {
	case stateUnbound:
		return "unbound"
	case stateInitialized:
		return "initialized"
	case stateRunning:
		return "running"
	case stateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

type BacktestEngineV1 struct {
	config            BacktestEngineV1Config
	log               *logger.Logger
	indicatorRegistry indicator.IndicatorRegistry
	cache             cache.Cache
	ledger            ledger.Ledger
	fillModel         trading.FillModel
	commissionFee     commission_fee.CommissionFee
	series            optional.Option[types.BarSeries]
	cursor            *series.Cursor
	bars              *series.Bars
	state             engineState
}

// NewBacktestEngineV1 creates an engine with the EmptyConfig defaults and a no-op logger.
func NewBacktestEngineV1() engine.Engine {
	b := &BacktestEngineV1{
		config:            EmptyConfig(),
		log:               logger.NewNopLogger(),
		indicatorRegistry: indicator.NewDefaultRegistry(),
		cache:             cache.NewIndicatorCache(),
		ledger:            ledger.NewPositionLedger(),
		fillModel:         nil,
		commissionFee:     nil,
		series:            optional.None[types.BarSeries](),
		cursor:            nil,
		bars:              nil,
		state:             stateUnbound,
	}
	b.applyConfig()

	return b
}

// NewBacktestEngineV1WithConfig creates an engine from an already parsed configuration.
func NewBacktestEngineV1WithConfig(cfg BacktestEngineV1Config, log *logger.Logger) (*BacktestEngineV1, error) {
	b := NewBacktestEngineV1().(*BacktestEngineV1)
	if err := b.InitializeWithConfig(cfg); err != nil {
		return nil, err
	}

	if log != nil {
		b.log = log.Named("engine")
	}

	return b, nil
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	cfg := EmptyConfig()

	// parse the config
	if err := yaml.Unmarshal([]byte(config), &cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse backtest engine config", err)
	}

	if err := b.InitializeWithConfig(cfg); err != nil {
		return err
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create logger", err)
	}

	b.log = log.Named("engine")
	b.log.Debug("Backtest engine initialized",
		zap.String("config", config),
	)

	return nil
}

// InitializeWithConfig applies an already parsed configuration. The logger is left unchanged.
func (b *BacktestEngineV1) InitializeWithConfig(cfg BacktestEngineV1Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	b.config = cfg
	b.applyConfig()

	return nil
}

// SetLogger replaces the engine logger.
func (b *BacktestEngineV1) SetLogger(log *logger.Logger) {
	b.log = log
}

// SetFillModel implements engine.Engine.
func (b *BacktestEngineV1) SetFillModel(fill trading.FillModel) {
	b.fillModel = fill
}

// SetIndicatorRegistry replaces the default registry of built-in indicators.
func (b *BacktestEngineV1) SetIndicatorRegistry(registry indicator.IndicatorRegistry) {
	b.indicatorRegistry = registry
}

func (b *BacktestEngineV1) applyConfig() {
	b.fillModel = trading.NewRandomFill(b.config.Seed, b.config.SlippageBound)
	b.commissionFee = commission_fee.GetCommissionFeeHandler(b.config.Broker)
}

// Bind implements engine.Engine.
func (b *BacktestEngineV1) Bind(s types.BarSeries) error {
	if b.state == stateRunning {
		return errors.New(errors.ErrCodeBacktestState, "cannot bind while a run is in progress")
	}

	if err := s.Validate(); err != nil {
		return err
	}

	s = clipToWindow(s, b.config.StartTime, b.config.EndTime)
	if s.Len() == 0 {
		return errors.Newf(errors.ErrCodeEmptySeries, "series %q has no bars inside the configured time window", s.Symbol)
	}

	cursor, err := series.NewCursor(s.Len())
	if err != nil {
		return err
	}

	b.series = optional.Some(s)
	b.cursor = cursor
	b.bars = series.NewBars(s, cursor)
	b.cache.Bind(cursor)
	b.ledger.Reset()
	b.state = stateInitialized

	b.log.Debug("Series bound",
		zap.String("symbol", s.Symbol),
		zap.Int("bars", s.Len()),
	)

	return nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(strategy runtime.Strategy, callbacks engine.LifecycleCallbacks) (types.RunResult, error) {
	if strategy == nil {
		return types.RunResult{}, errors.New(errors.ErrCodeBacktestNoStrategy, "no strategy given")
	}

	if b.state != stateInitialized {
		return types.RunResult{}, errors.Newf(errors.ErrCodeBacktestState,
			"engine is %s; bind a series before running", b.state)
	}

	if v, ok := strategy.(runtime.Versioned); ok {
		if err := version.CheckVersionCompatibility(version.GetVersion(), v.RuntimeVersion()); err != nil {
			b.log.Error("Strategy version incompatible",
				zap.String("strategy", strategy.Name()),
				zap.String("engine_version", version.GetVersion()),
				zap.String("strategy_version", v.RuntimeVersion()),
				zap.Error(err),
			)

			return types.RunResult{}, err
		}
	}

	s := b.series.Unwrap()
	total := s.Len()
	runID := uuid.New().String()

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, s.Symbol, total); err != nil {
			return types.RunResult{}, err
		}
	}

	// every exit path below consumes the binding
	b.state = stateRunning
	defer func() { b.state = stateFinished }()

	ctx := &runtime.RuntimeContext{
		Bars:              b.bars,
		Cache:             b.cache,
		IndicatorRegistry: b.indicatorRegistry,
		Ledger:            b.ledger,
		FillModel:         b.fillModel,
		CommissionFee:     b.commissionFee,
		InitialCapital:    b.config.InitialCapital,
		Logger:            b.log.Named(strategy.Name()),
	}

	start := time.Now()

	if err := strategy.Setup(ctx); err != nil {
		return types.RunResult{}, errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err,
			"strategy %s setup failed", strategy.Name())
	}

	b.cursor.Seal()

	for i := 0; i < total; i++ {
		if err := b.cursor.Advance(i); err != nil {
			return types.RunResult{}, err
		}

		if err := strategy.OnBar(ctx); err != nil {
			b.log.Error("Strategy failed",
				zap.String("strategy", strategy.Name()),
				zap.Int("bar", i),
				zap.Error(err),
			)

			return types.RunResult{}, errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err,
				"strategy %s failed at bar %d", strategy.Name(), i)
		}

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(i+1, total); err != nil {
				return types.RunResult{}, err
			}
		}
	}

	if f, ok := strategy.(runtime.Finisher); ok {
		if err := f.Finish(ctx); err != nil {
			return types.RunResult{}, errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err,
				"strategy %s finish failed", strategy.Name())
		}
	}

	result := buildRunResult(s.Symbol, b.ledger.Trades())

	b.log.Debug("Run finished",
		zap.String("run_id", runID),
		zap.String("symbol", s.Symbol),
		zap.Int("bars", total),
		zap.Int("trades", result.TradeCount),
		zap.Duration("elapsed", time.Since(start)),
	)

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(runID, s.Symbol, result)
	}

	return result, nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to generate schema", err)
	}

	return schema, nil
}
