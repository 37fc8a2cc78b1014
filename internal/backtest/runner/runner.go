// Package runner backtests the breakout strategy over many symbols of one data source.
package runner

import (
	"context"
	"path/filepath"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-breakout/internal/logger"
	"github.com/rxtech-lab/argo-breakout/internal/strategy/breakout"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/internal/version"
	"github.com/rxtech-lab/argo-breakout/internal/writers"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	StatsFileName  = "stats.yaml"
	TradesFileName = "trades.parquet"
	// DefaultConcurrency is the number of symbols backtested at once.
	DefaultConcurrency = 4
)

// Config selects what a batch runs over and where its output goes.
type Config struct {
	// Symbols to run; empty means every symbol of the data source.
	Symbols  []string
	Interval optional.Option[datasource.Interval]
	// ResultsFolder receives stats.yaml and trades.parquet. Empty disables output files.
	ResultsFolder string
	Concurrency   int
	// RiskFreeRate is subtracted from trade returns for Sharpe and Sortino.
	RiskFreeRate float64
	// DataPath is recorded in the stats.
	DataPath string
}

// SymbolResult is the outcome of one symbol.
type SymbolResult struct {
	RunID   string
	Symbol  string
	Summary breakout.Summary
	Result  types.RunResult
	Stats   types.RunStats
}

// Runner runs one engine per symbol, a bounded number at a time.
type Runner struct {
	source         datasource.DataSource
	engineConfig   enginev1.BacktestEngineV1Config
	strategyConfig breakout.Config
	log            *logger.Logger
}

// NewRunner validates both configurations.
func NewRunner(source datasource.DataSource, engineConfig enginev1.BacktestEngineV1Config, strategyConfig breakout.Config, log *logger.Logger) (*Runner, error) {
	if source == nil {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "no data source given")
	}

	if err := engineConfig.Validate(); err != nil {
		return nil, err
	}

	if err := strategyConfig.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Runner{
		source:         source,
		engineConfig:   engineConfig,
		strategyConfig: strategyConfig,
		log:            log,
	}, nil
}

// Run backtests every configured symbol and returns the results in symbol order.
// The first failing symbol cancels the symbols that have not started yet.
// Callbacks may be invoked from several goroutines at once.
func (r *Runner) Run(ctx context.Context, cfg Config, callbacks engine.LifecycleCallbacks) (results []SymbolResult, err error) {
	symbols := cfg.Symbols
	if len(symbols) == 0 {
		symbols, err = r.source.Symbols()
		if err != nil {
			return nil, err
		}
	}

	if callbacks.OnBacktestEnd != nil {
		defer func() { (*callbacks.OnBacktestEnd)(err) }()
	}

	if callbacks.OnBacktestStart != nil {
		if err = (*callbacks.OnBacktestStart)(len(symbols)); err != nil {
			return nil, err
		}
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var trades *writers.TradesWriter
	if cfg.ResultsFolder != "" {
		trades = writers.NewTradesWriter(filepath.Join(cfg.ResultsFolder, TradesFileName))
		if err = trades.Initialize(); err != nil {
			return nil, err
		}
		defer trades.Close()
	}

	results = make([]SymbolResult, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, symbol := range symbols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := r.runSymbol(symbol, cfg, callbacks, trades)
			if err != nil {
				return errors.Wrapf(errors.GetCode(err), err, "backtest of %s failed", symbol)
			}

			results[i] = res

			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return nil, err
	}

	if cfg.ResultsFolder != "" {
		if err = r.writeOutput(cfg, results, trades); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (r *Runner) runSymbol(symbol string, cfg Config, callbacks engine.LifecycleCallbacks, trades *writers.TradesWriter) (SymbolResult, error) {
	q := datasource.NewQuery(symbol)
	q.Start = r.engineConfig.StartTime
	q.End = r.engineConfig.EndTime
	q.Interval = cfg.Interval

	s, err := r.source.Load(q)
	if err != nil {
		return SymbolResult{}, err
	}

	strategy, err := breakout.NewStrategy(r.strategyConfig)
	if err != nil {
		return SymbolResult{}, err
	}

	eng, err := enginev1.NewBacktestEngineV1WithConfig(r.engineConfig, r.log)
	if err != nil {
		return SymbolResult{}, err
	}

	if err := eng.Bind(s); err != nil {
		return SymbolResult{}, err
	}

	var runID string

	onRunStart := engine.OnRunStartCallback(func(id string, sym string, total int) error {
		runID = id
		if callbacks.OnRunStart != nil {
			return (*callbacks.OnRunStart)(id, sym, total)
		}

		return nil
	})

	runCallbacks := engine.LifecycleCallbacks{
		OnRunStart:    &onRunStart,
		OnRunEnd:      callbacks.OnRunEnd,
		OnProcessData: callbacks.OnProcessData,
	}

	result, err := eng.Run(strategy, runCallbacks)
	if err != nil {
		return SymbolResult{}, err
	}

	summary := strategy.Summary()

	stats := types.RunStats{
		ID:            runID,
		Timestamp:     time.Now(),
		Symbol:        symbol,
		Strategy:      strategy.Name(),
		EngineVersion: version.GetVersion(),
		NetReturn:     result.NetReturn(),
		WinRate:       result.WinRate,
		TradeCount:    result.TradeCount,
		NetPnL:        summary.NetPL,
		Risk:          types.ComputeRiskMetrics(result.Returns, cfg.RiskFreeRate),
		DataPath:      cfg.DataPath,
	}

	if trades != nil {
		stats.TradesFilePath = trades.GetOutputPath()

		if err := trades.Write(runID, writers.NewTradeRows(s, result.Trades)); err != nil {
			return SymbolResult{}, err
		}
	}

	r.log.Info("Symbol finished",
		zap.String("run_id", runID),
		zap.String("symbol", symbol),
		zap.Int("bars", s.Len()),
		zap.Int("trades", result.TradeCount),
		zap.Float64("net_pl", summary.NetPL),
	)

	return SymbolResult{
		RunID:   runID,
		Symbol:  symbol,
		Summary: summary,
		Result:  result,
		Stats:   stats,
	}, nil
}

func (r *Runner) writeOutput(cfg Config, results []SymbolResult, trades *writers.TradesWriter) error {
	stats := make([]types.RunStats, len(results))
	for i, res := range results {
		stats[i] = res.Stats
	}

	if err := types.WriteRunStats(filepath.Join(cfg.ResultsFolder, StatsFileName), stats); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write run stats", err)
	}

	return trades.Flush()
}
