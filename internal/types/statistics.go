package types

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TradingDaysPerYear annualises per-period Sharpe and Sortino ratios.
const TradingDaysPerYear = 252

// RunResult is produced once at the end of a backtest run.
type RunResult struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	// Returns holds the realised return of each trade in trade order.
	Returns []float64 `yaml:"returns" json:"returns"`
	// EquityCurve[k] is the product of (1 + Returns[0..k]). It is [1.0] when there were no trades.
	EquityCurve []float64 `yaml:"equity_curve" json:"equity_curve"`
	// WinRate is the share of trades with a positive return, in [0, 1].
	WinRate    float64       `yaml:"win_rate" json:"win_rate"`
	TradeCount int           `yaml:"trade_count" json:"trade_count"`
	Trades     []TradeRecord `yaml:"trades" json:"trades"`
}

// NetReturn is the compounded return of the whole run, 0.05 meaning +5%.
func (r RunResult) NetReturn() float64 {
	if len(r.EquityCurve) == 0 {
		return 0
	}

	return r.EquityCurve[len(r.EquityCurve)-1] - 1
}

type RiskMetrics struct {
	// Annualised Sharpe ratio of the trade returns.
	Sharpe float64 `yaml:"sharpe"`
	// Annualised Sortino ratio of the trade returns.
	Sortino float64 `yaml:"sortino"`
	// Maximum drawdown of the compounded equity curve, as a non-positive fraction.
	MaxDrawdown float64 `yaml:"max_drawdown"`
}

type RunStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Symbol    string    `yaml:"symbol" json:"symbol"`
	// Strategy is the strategy name.
	Strategy      string      `yaml:"strategy" json:"strategy"`
	EngineVersion string      `yaml:"engine_version" json:"engine_version"`
	NetReturn     float64     `yaml:"net_return" json:"net_return"`
	WinRate       float64     `yaml:"win_rate" json:"win_rate"`
	TradeCount    int         `yaml:"trade_count" json:"trade_count"`
	NetPnL        float64     `yaml:"net_pnl" json:"net_pnl"`
	Risk          RiskMetrics `yaml:"risk" json:"risk"`
	// TradesFilePath is the path to the trades parquet file.
	TradesFilePath string `yaml:"trades_file_path" json:"trades_file_path"`
	// DataPath is the path to the market data file used for this backtest.
	DataPath string `yaml:"data_path" json:"data_path"`
}

// ComputeRiskMetrics derives Sharpe, Sortino and drawdown from per-trade returns.
// riskFreeRate is subtracted from every return before the ratios are taken.
func ComputeRiskMetrics(returns []float64, riskFreeRate float64) RiskMetrics {
	return RiskMetrics{
		Sharpe:      Sharpe(returns, riskFreeRate),
		Sortino:     Sortino(returns, riskFreeRate),
		MaxDrawdown: MaxDrawdown(returns),
	}
}

// Sharpe returns mean(excess)/std(excess)*sqrt(252), or 0 when the deviation is zero.
func Sharpe(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRate
	}

	sd := stddev(excess)
	if sd == 0 {
		return 0
	}

	return mean(excess) / sd * math.Sqrt(TradingDaysPerYear)
}

// Sortino is Sharpe with only the downside excess returns in the denominator.
func Sortino(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	excess := make([]float64, len(returns))
	downside := make([]float64, 0, len(returns))

	for i, r := range returns {
		excess[i] = r - riskFreeRate
		if excess[i] < 0 {
			downside = append(downside, excess[i])
		}
	}

	if len(downside) == 0 {
		return 0
	}

	sd := stddev(downside)
	if sd == 0 {
		return 0
	}

	return mean(excess) / sd * math.Sqrt(TradingDaysPerYear)
}

// MaxDrawdown is the lowest (equity - peak) / peak over the compounded curve.
func MaxDrawdown(returns []float64) float64 {
	equity := 1.0
	peak := 1.0
	worst := 0.0

	for _, r := range returns {
		equity *= 1 + r
		if equity > peak {
			peak = equity
		}

		if dd := (equity - peak) / peak; dd < worst {
			worst = dd
		}
	}

	return worst
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	m := mean(values)
	sum := 0.0

	for _, v := range values {
		sum += (v - m) * (v - m)
	}

	return math.Sqrt(sum / float64(len(values)))
}

func WriteRunStats(path string, stats []RunStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal run stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run stats to file: %w", err)
	}

	return nil
}
