// Package ledger tracks the single open position of a run and the trades it has closed.
package ledger

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

// Ledger holds at most one open position and the ordered history of closed trades.
type Ledger interface {
	// Open opens a long position.
	Open(price float64, size float64, index int) error
	// OpenShort opens a short position.
	OpenShort(price float64, size float64, index int) error
	// Close closes the open position and returns its fractional return.
	Close(price float64, index int) (float64, error)
	IsOpen() bool
	Position() optional.Option[types.Position]
	TradeCount() int
	AllReturns() []float64
	Trades() []types.TradeRecord
	Reset()
}

// PositionLedger is the Ledger of a backtest engine.
type PositionLedger struct {
	position optional.Option[types.Position]
	trades   []types.TradeRecord
}

// NewPositionLedger creates an empty, flat ledger.
func NewPositionLedger() Ledger {
	return &PositionLedger{
		position: optional.None[types.Position](),
		trades:   []types.TradeRecord{},
	}
}

// Open implements Ledger.
func (l *PositionLedger) Open(price float64, size float64, index int) error {
	return l.open(types.PositionTypeLong, price, size, index)
}

// OpenShort implements Ledger.
func (l *PositionLedger) OpenShort(price float64, size float64, index int) error {
	return l.open(types.PositionTypeShort, price, size, index)
}

func (l *PositionLedger) open(side types.PositionType, price float64, size float64, index int) error {
	if l.position.IsSome() {
		return errors.Newf(errors.ErrCodePositionState, "cannot open %s at bar %d: a position is already open", side, index)
	}

	if !(size > 0) {
		return errors.Newf(errors.ErrCodePositionState, "position size must be positive, got %v", size)
	}

	if !(price > 0) {
		return errors.Newf(errors.ErrCodePositionState, "entry price must be positive, got %v", price)
	}

	if index < 0 {
		return errors.Newf(errors.ErrCodePositionState, "entry index must not be negative, got %d", index)
	}

	l.position = optional.Some(types.Position{
		Side:       side,
		EntryPrice: price,
		Size:       size,
		EntryIndex: index,
	})

	return nil
}

// Close implements Ledger.
func (l *PositionLedger) Close(price float64, index int) (float64, error) {
	if l.position.IsNone() {
		return 0, errors.Newf(errors.ErrCodePositionState, "cannot close at bar %d: no open position", index)
	}

	pos := l.position.Unwrap()

	if !(price > 0) {
		return 0, errors.Newf(errors.ErrCodePositionState, "exit price must be positive, got %v", price)
	}

	if index < 0 {
		return 0, errors.Newf(errors.ErrCodePositionState, "exit index must not be negative, got %d", index)
	}

	if index <= pos.EntryIndex {
		return 0, errors.Newf(errors.ErrCodePositionState,
			"exit bar %d must come after entry bar %d", index, pos.EntryIndex)
	}

	returnPct := (price - pos.EntryPrice) / pos.EntryPrice
	if pos.Side == types.PositionTypeShort {
		returnPct = (pos.EntryPrice - price) / pos.EntryPrice
	}

	l.trades = append(l.trades, types.TradeRecord{
		Side:       pos.Side,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  price,
		EntryIndex: pos.EntryIndex,
		ExitIndex:  index,
		ReturnPct:  returnPct,
		Size:       pos.Size,
	})
	l.position = optional.None[types.Position]()

	return returnPct, nil
}

// IsOpen implements Ledger.
func (l *PositionLedger) IsOpen() bool {
	return l.position.IsSome()
}

// Position implements Ledger.
func (l *PositionLedger) Position() optional.Option[types.Position] {
	return l.position
}

// TradeCount implements Ledger.
func (l *PositionLedger) TradeCount() int {
	return len(l.trades)
}

// AllReturns implements Ledger.
func (l *PositionLedger) AllReturns() []float64 {
	returns := make([]float64, len(l.trades))
	for i, t := range l.trades {
		returns[i] = t.ReturnPct
	}

	return returns
}

// Trades implements Ledger. The returned slice is a copy.
func (l *PositionLedger) Trades() []types.TradeRecord {
	out := make([]types.TradeRecord, len(l.trades))
	copy(out, l.trades)

	return out
}

// Reset implements Ledger.
func (l *PositionLedger) Reset() {
	l.position = optional.None[types.Position]()
	l.trades = []types.TradeRecord{}
}
