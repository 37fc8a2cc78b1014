package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/runner"
)

var (
	TitleStyle  = lipgloss.NewStyle().Bold(true)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	CellStyle   = lipgloss.NewStyle().Padding(0, 1)
	ErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// renderSummary formats one row per symbol plus a total row.
func renderSummary(results []runner.SymbolResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Symbol", "Days", "Trades", "Win %", "Net P/L", "Final Margin", "Sharpe", "Max DD").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}

			return CellStyle
		})

	var (
		netPL  float64
		trades int
		wins   int
	)

	for _, res := range results {
		s := res.Summary
		t.Row(
			res.Symbol,
			fmt.Sprintf("%d", s.Days),
			fmt.Sprintf("%d", s.Trades),
			fmt.Sprintf("%.2f", s.WinPct),
			fmt.Sprintf("%.2f", s.NetPL),
			fmt.Sprintf("%.2f", s.FinalMargin),
			fmt.Sprintf("%.3f", res.Stats.Risk.Sharpe),
			fmt.Sprintf("%.2f%%", res.Stats.Risk.MaxDrawdown*100),
		)

		netPL += s.NetPL
		trades += s.Trades
		wins += s.Wins
	}

	winPct := 0.0
	if trades > 0 {
		winPct = float64(wins) * 100 / float64(trades)
	}

	t.Row("TOTAL", "", fmt.Sprintf("%d", trades), fmt.Sprintf("%.2f", winPct), fmt.Sprintf("%.2f", netPL), "", "", "")

	return TitleStyle.Render("Opening range breakout results") + "\n" + t.Render()
}
