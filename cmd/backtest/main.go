package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/runner"
	"github.com/rxtech-lab/argo-breakout/internal/logger"
	"github.com/rxtech-lab/argo-breakout/internal/strategy/breakout"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// loadEngineConfig reads the engine config at path, or the defaults when path is empty.
func loadEngineConfig(path string) (enginev1.BacktestEngineV1Config, error) {
	cfg := enginev1.EmptyConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read engine config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse engine config: %w", err)
	}

	return cfg, nil
}

// loadStrategyConfig reads the strategy config at path, or the defaults when path is empty.
func loadStrategyConfig(path string) (breakout.Config, error) {
	if path == "" {
		return breakout.DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return breakout.Config{}, fmt.Errorf("failed to read strategy config: %w", err)
	}

	return breakout.ParseConfig(string(data))
}

func splitSymbols(s string) []string {
	var symbols []string

	for _, sym := range strings.Split(s, ",") {
		if sym = strings.TrimSpace(sym); sym != "" {
			symbols = append(symbols, sym)
		}
	}

	return symbols
}

func progressCallbacks() engine.LifecycleCallbacks {
	var bar *progressbar.ProgressBar

	onStart := engine.OnBacktestStartCallback(func(total int) error {
		bar = progressbar.Default(int64(total))
		bar.Describe("Backtesting")

		return nil
	})

	onRunEnd := engine.OnRunEndCallback(func(runID string, symbol string, result types.RunResult) {
		bar.Describe(fmt.Sprintf("Finished %s", symbol))
		_ = bar.Add(1)
	})

	onEnd := engine.OnBacktestEndCallback(func(err error) {
		if bar != nil {
			_ = bar.Finish()
		}
	})

	return engine.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnRunEnd:        &onRunEnd,
		OnBacktestEnd:   &onEnd,
	}
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	engineConfig, err := loadEngineConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if level := cmd.String("log-level"); level != "" {
		engineConfig.LogLevel = level
	}

	strategyConfig, err := loadStrategyConfig(cmd.String("strategy-config"))
	if err != nil {
		return err
	}

	dataPath := cmd.String("data")
	if dataPath == "" {
		return fmt.Errorf("--data is required")
	}

	zlog, err := logger.NewLoggerWithLevel(engineConfig.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zlog.Sync() //nolint:errcheck

	source, err := datasource.Open(dataPath, zlog)
	if err != nil {
		return err
	}
	defer source.Close()

	r, err := runner.NewRunner(source, engineConfig, strategyConfig, zlog)
	if err != nil {
		return err
	}

	interval := optional.None[datasource.Interval]()
	if v := cmd.String("interval"); v != "" {
		interval = optional.Some(datasource.Interval(v))
	}

	results, err := r.Run(ctx, runner.Config{
		Symbols:       splitSymbols(cmd.String("symbols")),
		Interval:      interval,
		ResultsFolder: cmd.String("results"),
		Concurrency:   int(cmd.Int("concurrency")),
		RiskFreeRate:  cmd.Float("risk-free-rate"),
		DataPath:      dataPath,
	}, progressCallbacks())
	if err != nil {
		return err
	}

	fmt.Println(renderSummary(results))

	return nil
}

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	var (
		schema string
		err    error
	)

	switch target := cmd.String("target"); target {
	case "engine":
		cfg := enginev1.EmptyConfig()
		schema, err = cfg.GenerateSchemaJSON()
	case "strategy":
		schema, err = breakout.DefaultConfig().GenerateSchemaJSON()
	default:
		return fmt.Errorf("unknown schema target %q", target)
	}

	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "backtest",
		Usage:   "Backtest the opening range breakout strategy over intraday bars",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to a `FILE` of bars (.parquet or .csv)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Engine config YAML",
			},
			&cli.StringFlag{
				Name:    "strategy-config",
				Aliases: []string{"s"},
				Usage:   "Strategy config YAML",
			},
			&cli.StringFlag{
				Name:  "symbols",
				Usage: "Comma separated symbols to run. Defaults to every symbol in the data",
			},
			&cli.StringFlag{
				Name:  "interval",
				Usage: fmt.Sprintf("Resample bars into this interval (e.g., %s, %s)", datasource.Interval5m, datasource.Interval15m),
			},
			&cli.StringFlag{
				Name:    "results",
				Aliases: []string{"r"},
				Usage:   "Folder receiving stats.yaml and trades.parquet",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Number of symbols backtested at once",
				Value: runner.DefaultConcurrency,
			},
			&cli.FloatFlag{
				Name:  "risk-free-rate",
				Usage: "Per trade risk free return used by Sharpe and Sortino",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Overrides the log level of the engine config (debug, info, warn, error)",
			},
		},
		Action: backtestAction,
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Print the JSON schema of a config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "target",
						Usage: "engine or strategy",
						Value: "strategy",
					},
				},
				Action: schemaAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(ErrorStyle.Render(err.Error()))
	}
}
