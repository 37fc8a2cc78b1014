package ledger

import (
	"testing"

	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type LedgerTestSuite struct {
	suite.Suite
	ledger Ledger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (suite *LedgerTestSuite) SetupTest() {
	suite.ledger = NewPositionLedger()
}

func (suite *LedgerTestSuite) TestLongRoundTrip() {
	suite.False(suite.ledger.IsOpen())

	suite.Require().NoError(suite.ledger.Open(100, 10, 3))
	suite.True(suite.ledger.IsOpen())

	pos := suite.ledger.Position().Unwrap()
	suite.Equal(types.PositionTypeLong, pos.Side)
	suite.Equal(100.0, pos.EntryPrice)

	ret, err := suite.ledger.Close(110, 5)
	suite.Require().NoError(err)
	suite.InDelta(0.10, ret, 1e-12)

	suite.False(suite.ledger.IsOpen())
	suite.Equal(1, suite.ledger.TradeCount())
	suite.Equal([]float64{ret}, suite.ledger.AllReturns())

	trade := suite.ledger.Trades()[0]
	suite.Equal(3, trade.EntryIndex)
	suite.Equal(5, trade.ExitIndex)
	suite.Equal(110.0, trade.ExitPrice)
	suite.Equal(10.0, trade.Size)
}

func (suite *LedgerTestSuite) TestShortReturn() {
	suite.Require().NoError(suite.ledger.OpenShort(200, 5, 0))

	ret, err := suite.ledger.Close(190, 1)
	suite.Require().NoError(err)
	suite.InDelta(0.05, ret, 1e-12)
	suite.Equal(types.PositionTypeShort, suite.ledger.Trades()[0].Side)
}

func (suite *LedgerTestSuite) TestOpenRejections() {
	tests := []struct {
		name  string
		price float64
		size  float64
		index int
	}{
		{name: "zero size", price: 100, size: 0, index: 0},
		{name: "negative size", price: 100, size: -1, index: 0},
		{name: "zero price", price: 0, size: 1, index: 0},
		{name: "negative index", price: 100, size: 1, index: -1},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := suite.ledger.Open(tc.price, tc.size, tc.index)
			suite.True(errors.IsPositionStateError(err))
			suite.False(suite.ledger.IsOpen())
		})
	}
}

func (suite *LedgerTestSuite) TestDoubleOpen() {
	suite.Require().NoError(suite.ledger.Open(100, 1, 0))

	err := suite.ledger.Open(101, 1, 1)
	suite.True(errors.IsPositionStateError(err))

	err = suite.ledger.OpenShort(101, 1, 1)
	suite.True(errors.IsPositionStateError(err))

	// the original position is untouched
	suite.Equal(100.0, suite.ledger.Position().Unwrap().EntryPrice)
}

func (suite *LedgerTestSuite) TestCloseRejections() {
	_, err := suite.ledger.Close(100, 1)
	suite.True(errors.IsPositionStateError(err))

	suite.Require().NoError(suite.ledger.Open(100, 1, 4))

	_, err = suite.ledger.Close(100, 4)
	suite.True(errors.IsPositionStateError(err))

	_, err = suite.ledger.Close(100, 2)
	suite.True(errors.IsPositionStateError(err))

	_, err = suite.ledger.Close(0, 5)
	suite.True(errors.IsPositionStateError(err))

	suite.True(suite.ledger.IsOpen())
	suite.Equal(0, suite.ledger.TradeCount())
}

func (suite *LedgerTestSuite) TestTradeOrderAndReset() {
	suite.Require().NoError(suite.ledger.Open(100, 1, 0))
	_, err := suite.ledger.Close(90, 1)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.ledger.Open(100, 1, 2))
	_, err = suite.ledger.Close(120, 3)
	suite.Require().NoError(err)

	suite.Equal(2, suite.ledger.TradeCount())
	suite.InDeltaSlice([]float64{-0.1, 0.2}, suite.ledger.AllReturns(), 1e-12)

	suite.ledger.Reset()
	suite.Equal(0, suite.ledger.TradeCount())
	suite.False(suite.ledger.IsOpen())
	suite.Empty(suite.ledger.AllReturns())
}
