package runner

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-breakout/internal/strategy/breakout"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/mocks"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"
)

type RunnerTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	source *datasource.InMemoryDataSource
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (suite *RunnerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())

	gen := mocks.NewDataGenerator(3)
	cfg := mocks.DefaultConfig()
	cfg.Days = 5
	cfg.InitialPrice = 1000
	cfg.Volatility = 0.003

	var bars []types.Bar
	for _, symbol := range []string{"RELIANCE", "INFY"} {
		cfg.Symbol = symbol
		bars = append(bars, gen.Generate(cfg)...)
	}

	suite.source = datasource.NewInMemoryDataSource(bars)
}

func (suite *RunnerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func strategyConfig() breakout.Config {
	cfg := breakout.DefaultConfig()
	cfg.EMAFilter = false
	cfg.VolumeFilter = false

	return cfg
}

func (suite *RunnerTestSuite) newRunner(source datasource.DataSource) *Runner {
	r, err := NewRunner(source, enginev1.TestConfig(11, commission_fee.BrokerZerodhaIntraday), strategyConfig(), nil)
	suite.Require().NoError(err)

	return r
}

func (suite *RunnerTestSuite) TestRunAllSymbolsWritesOutput() {
	dir := suite.T().TempDir()

	var started, ended atomic.Int32

	var endErr error

	onStart := engine.OnBacktestStartCallback(func(total int) error {
		suite.Equal(2, total)
		return nil
	})
	onEnd := engine.OnBacktestEndCallback(func(err error) { endErr = err })
	onRunStart := engine.OnRunStartCallback(func(runID string, symbol string, totalBars int) error {
		started.Add(1)
		suite.NotEmpty(runID)
		suite.Equal(5*75, totalBars)

		return nil
	})
	onRunEnd := engine.OnRunEndCallback(func(runID string, symbol string, result types.RunResult) {
		ended.Add(1)
	})

	results, err := suite.newRunner(suite.source).Run(context.Background(), Config{
		ResultsFolder: dir,
		Concurrency:   2,
		DataPath:      "memory",
	}, engine.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnBacktestEnd:   &onEnd,
		OnRunStart:      &onRunStart,
		OnRunEnd:        &onRunEnd,
	})
	suite.Require().NoError(err)
	suite.NoError(endErr)

	suite.Require().Len(results, 2)
	suite.Equal("INFY", results[0].Symbol)
	suite.Equal("RELIANCE", results[1].Symbol)
	suite.Equal(int32(2), started.Load())
	suite.Equal(int32(2), ended.Load())

	for _, res := range results {
		suite.NotEmpty(res.RunID)
		suite.Equal(res.RunID, res.Stats.ID)
		suite.Equal(5, res.Summary.Days)
		suite.Equal(res.Result.TradeCount, res.Stats.TradeCount)
		suite.Equal(filepath.Join(dir, TradesFileName), res.Stats.TradesFilePath)
	}

	data, err := os.ReadFile(filepath.Join(dir, StatsFileName))
	suite.Require().NoError(err)

	var stats []types.RunStats
	suite.Require().NoError(yaml.Unmarshal(data, &stats))
	suite.Require().Len(stats, 2)
	suite.Equal("opening_range_breakout", stats[0].Strategy)
	suite.Equal("memory", stats[0].DataPath)

	suite.FileExists(filepath.Join(dir, TradesFileName))
}

func (suite *RunnerTestSuite) TestSelectedSymbolsWithoutOutput() {
	results, err := suite.newRunner(suite.source).Run(context.Background(), Config{
		Symbols: []string{"RELIANCE"},
	}, engine.LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.Require().Len(results, 1)
	suite.Equal("RELIANCE", results[0].Symbol)
	suite.Empty(results[0].Stats.TradesFilePath)
}

func (suite *RunnerTestSuite) TestLoadFailureAbortsBatch() {
	source := mocks.NewMockDataSource(suite.ctrl)
	source.EXPECT().Symbols().Return([]string{"MISSING"}, nil)
	source.EXPECT().Load(gomock.Any()).Return(types.BarSeries{}, errors.New(errors.ErrCodeNoDataFound, "no bars"))

	var endErr error
	onEnd := engine.OnBacktestEndCallback(func(err error) { endErr = err })

	_, err := suite.newRunner(source).Run(context.Background(), Config{}, engine.LifecycleCallbacks{
		OnBacktestEnd: &onEnd,
	})
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
	suite.Equal(err, endErr)
}

func (suite *RunnerTestSuite) TestCancelledContextSkipsSymbols() {
	source := mocks.NewMockDataSource(suite.ctrl)
	source.EXPECT().Load(gomock.Any()).Times(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.newRunner(source).Run(ctx, Config{Symbols: []string{"A", "B"}}, engine.LifecycleCallbacks{})
	suite.ErrorIs(err, context.Canceled)
}

func (suite *RunnerTestSuite) TestStartCallbackErrorAborts() {
	source := mocks.NewMockDataSource(suite.ctrl)

	onStart := engine.OnBacktestStartCallback(func(total int) error {
		return errors.New(errors.ErrCodeBacktestState, "stop")
	})

	_, err := suite.newRunner(source).Run(context.Background(), Config{Symbols: []string{"A"}}, engine.LifecycleCallbacks{
		OnBacktestStart: &onStart,
	})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestState))
}

func (suite *RunnerTestSuite) TestNewRunnerValidates() {
	_, err := NewRunner(nil, enginev1.EmptyConfig(), strategyConfig(), nil)
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))

	badEngine := enginev1.EmptyConfig()
	badEngine.InitialCapital = 0
	_, err = NewRunner(suite.source, badEngine, strategyConfig(), nil)
	suite.True(errors.IsConfigurationError(err))

	badStrategy := strategyConfig()
	badStrategy.EMAPeriod = 0
	_, err = NewRunner(suite.source, enginev1.EmptyConfig(), badStrategy, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))
}
