package types

import "time"

// PositionType is the side of a position.
type PositionType string

const (
	PositionTypeLong  PositionType = "LONG"
	PositionTypeShort PositionType = "SHORT"
)

// Position is the single open position slot held by the ledger.
type Position struct {
	Side       PositionType `yaml:"side" json:"side"`
	EntryPrice float64      `yaml:"entry_price" json:"entry_price"`
	Size       float64      `yaml:"size" json:"size"`
	EntryIndex int          `yaml:"entry_index" json:"entry_index"`
}

// TradeRecord is a closed position. ExitIndex is always greater than EntryIndex.
type TradeRecord struct {
	Side       PositionType `yaml:"side" json:"side" csv:"side"`
	EntryPrice float64      `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitPrice  float64      `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	EntryIndex int          `yaml:"entry_index" json:"entry_index" csv:"entry_index"`
	ExitIndex  int          `yaml:"exit_index" json:"exit_index" csv:"exit_index"`
	// ReturnPct is the fractional return of the trade, 0.01 meaning 1%.
	ReturnPct float64 `yaml:"return_pct" json:"return_pct" csv:"return_pct"`
	Size      float64 `yaml:"size" json:"size" csv:"size"`
}

// TradeRow is a TradeRecord annotated with bar times for persistence.
type TradeRow struct {
	TradeRecord
	Symbol    string
	EntryTime time.Time
	ExitTime  time.Time
	PnL       float64
}
