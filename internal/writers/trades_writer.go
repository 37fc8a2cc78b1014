// Package writers persists backtest output as parquet files through an in-memory DuckDB.
package writers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

// TradesWriter collects closed trades and exports them to a parquet file.
// It is safe for concurrent use by several runs.
type TradesWriter struct {
	db         *sql.DB
	outputPath string
	mu         sync.Mutex
}

// NewTradesWriter creates a new TradesWriter.
// outputPath is the full path to the parquet file.
func NewTradesWriter(outputPath string) *TradesWriter {
	return &TradesWriter{
		db:         nil,
		outputPath: outputPath,
		mu:         sync.Mutex{},
	}
}

// Initialize sets up the trades table. Trades already in outputPath are kept.
func (w *TradesWriter) Initialize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(w.outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create output directory", err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to open DuckDB connection", err)
	}

	w.db = db

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			run_id TEXT,
			symbol TEXT,
			side TEXT,
			entry_time TIMESTAMP,
			exit_time TIMESTAMP,
			entry_index INTEGER,
			exit_index INTEGER,
			entry_price DOUBLE,
			exit_price DOUBLE,
			size DOUBLE,
			return_pct DOUBLE,
			pnl DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create trades table", err)
	}

	if _, err := os.Stat(w.outputPath); err == nil {
		_, err = w.db.Exec(fmt.Sprintf(`
			INSERT INTO trades
			SELECT * FROM read_parquet(%s)
			ON CONFLICT (id) DO NOTHING
		`, quote(w.outputPath)))
		if err != nil {
			w.db.Close()
			w.db = nil

			return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to load existing trades from %s", w.outputPath)
		}
	}

	return nil
}

// Write stores the trades of one run. Call Flush to export them.
func (w *TradesWriter) Write(runID string, rows []types.TradeRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	if len(rows) == 0 {
		return nil
	}

	insert := squirrel.Insert("trades").Columns(
		"id", "run_id", "symbol", "side", "entry_time", "exit_time", "entry_index", "exit_index",
		"entry_price", "exit_price", "size", "return_pct", "pnl",
	)

	for _, r := range rows {
		insert = insert.Values(
			uuid.New().String(), runID, r.Symbol, string(r.Side), r.EntryTime.UTC(), r.ExitTime.UTC(),
			r.EntryIndex, r.ExitIndex, r.EntryPrice, r.ExitPrice, r.Size, r.ReturnPct, r.PnL,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build insert", err)
	}

	if _, err := w.db.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert trades", err)
	}

	return nil
}

// Flush exports every stored trade to the parquet file.
func (w *TradesWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	_, err := w.db.Exec(fmt.Sprintf(`
		COPY (SELECT * FROM trades ORDER BY symbol, entry_time)
		TO %s (FORMAT PARQUET)
	`, quote(w.outputPath)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to export to parquet", err)
	}

	return nil
}

// Count returns the number of stored trades.
func (w *TradesWriter) Count() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return 0, errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	var count int
	if err := w.db.QueryRow("SELECT COUNT(*) FROM trades").Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeWriteFailed, "failed to count trades", err)
	}

	return count, nil
}

// GetOutputPath returns the parquet file path.
func (w *TradesWriter) GetOutputPath() string {
	return w.outputPath
}

// Close releases database resources.
func (w *TradesWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to close database", err)
		}

		w.db = nil
	}

	return nil
}

func quote(path string) string {
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}

// NewTradeRows annotates trades with the bar times of s and their gross P&L.
func NewTradeRows(s types.BarSeries, trades []types.TradeRecord) []types.TradeRow {
	rows := make([]types.TradeRow, 0, len(trades))

	for _, t := range trades {
		pnl := (t.ExitPrice - t.EntryPrice) * t.Size
		if t.Side == types.PositionTypeShort {
			pnl = -pnl
		}

		rows = append(rows, types.TradeRow{
			TradeRecord: t,
			Symbol:      s.Symbol,
			EntryTime:   s.BarAt(t.EntryIndex).Time,
			ExitTime:    s.BarAt(t.ExitIndex).Time,
			PnL:         pnl,
		})
	}

	return rows
}
