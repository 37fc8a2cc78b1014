package breakout

import (
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-breakout/internal/logger"
	"github.com/rxtech-lab/argo-breakout/internal/types"
)

// Evaluate runs the strategy once over s and returns its account summary and the engine result.
// It is the black box an optimizer calls for one parameter set.
func Evaluate(s types.BarSeries, config Config, engineConfig enginev1.BacktestEngineV1Config) (Summary, types.RunResult, error) {
	return EvaluateWithLogger(s, config, engineConfig, logger.NewNopLogger())
}

// EvaluateWithLogger is Evaluate with engine and strategy output sent to log.
func EvaluateWithLogger(s types.BarSeries, config Config, engineConfig enginev1.BacktestEngineV1Config, log *logger.Logger) (Summary, types.RunResult, error) {
	strategy, err := NewStrategy(config)
	if err != nil {
		return Summary{}, types.RunResult{}, err
	}

	eng, err := enginev1.NewBacktestEngineV1WithConfig(engineConfig, log)
	if err != nil {
		return Summary{}, types.RunResult{}, err
	}

	if err := eng.Bind(s); err != nil {
		return Summary{}, types.RunResult{}, err
	}

	result, err := eng.Run(strategy, engine.LifecycleCallbacks{})
	if err != nil {
		return Summary{}, types.RunResult{}, err
	}

	return strategy.Summary(), result, nil
}
