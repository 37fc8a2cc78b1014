package engine

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/types"
)

// buildRunResult derives the run summary from the closed trades, in trade order.
func buildRunResult(symbol string, trades []types.TradeRecord) types.RunResult {
	returns := make([]float64, len(trades))
	wins := 0

	for i, t := range trades {
		returns[i] = t.ReturnPct
		if t.ReturnPct > 0 {
			wins++
		}
	}

	equity := []float64{1.0}
	if len(returns) > 0 {
		equity = make([]float64, len(returns))
		acc := 1.0

		for i, r := range returns {
			acc *= 1 + r
			equity[i] = acc
		}
	}

	winRate := 0.0
	if len(trades) > 0 {
		winRate = float64(wins) / float64(len(trades))
	}

	return types.RunResult{
		Symbol:      symbol,
		Returns:     returns,
		EquityCurve: equity,
		WinRate:     winRate,
		TradeCount:  len(trades),
		Trades:      trades,
	}
}

// clipToWindow keeps the bars whose time lies within [start, end].
func clipToWindow(s types.BarSeries, start optional.Option[time.Time], end optional.Option[time.Time]) types.BarSeries {
	if start.IsNone() && end.IsNone() {
		return s
	}

	from, to := 0, s.Len()

	if start.IsSome() {
		startUnix := start.Unwrap().Unix()
		for from < to && s.Timestamps[from] < startUnix {
			from++
		}
	}

	if end.IsSome() {
		endUnix := end.Unwrap().Unix()
		for to > from && s.Timestamps[to-1] > endUnix {
			to--
		}
	}

	return types.BarSeries{
		Symbol:     s.Symbol,
		Timestamps: s.Timestamps[from:to],
		Opens:      s.Opens[from:to],
		Highs:      s.Highs[from:to],
		Lows:       s.Lows[from:to],
		Closes:     s.Closes[from:to],
		Volumes:    s.Volumes[from:to],
	}
}
