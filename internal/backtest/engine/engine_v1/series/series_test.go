package series

import (
	"testing"

	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SeriesTestSuite struct {
	suite.Suite
}

func TestSeriesSuite(t *testing.T) {
	suite.Run(t, new(SeriesTestSuite))
}

func (suite *SeriesTestSuite) TestNewCursor() {
	tests := []struct {
		name      string
		length    int
		expectErr bool
	}{
		{name: "positive length", length: 5},
		{name: "single bar", length: 1},
		{name: "zero length", length: 0, expectErr: true},
		{name: "negative length", length: -3, expectErr: true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			cursor, err := NewCursor(tc.length)
			if tc.expectErr {
				suite.Error(err)
				suite.True(errors.IsConfigurationError(err))
				suite.Nil(cursor)

				return
			}

			suite.Require().NoError(err)
			suite.Equal(0, cursor.Current())
			suite.Equal(tc.length, cursor.Len())
			suite.False(cursor.Sealed())
		})
	}
}

func (suite *SeriesTestSuite) TestAdvance() {
	cursor, err := NewCursor(5)
	suite.Require().NoError(err)

	suite.NoError(cursor.Advance(0))
	suite.NoError(cursor.Advance(2))
	suite.Equal(2, cursor.Current())

	// same index is allowed
	suite.NoError(cursor.Advance(2))

	err = cursor.Advance(1)
	suite.Error(err)
	suite.True(errors.IsOutOfRangeAccess(err))
	suite.Equal(2, cursor.Current())

	err = cursor.Advance(5)
	suite.True(errors.IsOutOfRangeAccess(err))

	err = cursor.Advance(-1)
	suite.True(errors.IsOutOfRangeAccess(err))

	suite.NoError(cursor.Advance(4))
	suite.Equal(4, cursor.Current())
}

func (suite *SeriesTestSuite) TestWindowGet() {
	cursor, err := NewCursor(5)
	suite.Require().NoError(err)

	window := NewWindow([]float64{10, 11, 12, 13, 14}, cursor)
	suite.Require().NoError(cursor.Advance(2))

	tests := []struct {
		name     string
		index    int
		expected float64
		code     errors.ErrorCode
	}{
		{name: "current bar", index: -1, expected: 12},
		{name: "previous bar", index: -2, expected: 11},
		{name: "absolute past", index: 0, expected: 10},
		{name: "absolute current", index: 2, expected: 12},
		{name: "future bar", index: 3, code: errors.ErrCodeLookAheadViolation},
		{name: "last bar", index: 4, code: errors.ErrCodeLookAheadViolation},
		{name: "before first bar", index: -4, code: errors.ErrCodeOutOfRangeAccess},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			value, err := window.Get(tc.index)
			if tc.code != 0 {
				suite.Error(err)
				suite.True(errors.HasCode(err, tc.code))

				return
			}

			suite.NoError(err)
			suite.Equal(tc.expected, value)
		})
	}
}

func (suite *SeriesTestSuite) TestWindowNeverExposesFuture() {
	values := []float64{1, 2, 3, 4, 5, 6}
	cursor, err := NewCursor(len(values))
	suite.Require().NoError(err)

	window := NewWindow(values, cursor)

	for i := range values {
		suite.Require().NoError(cursor.Advance(i))

		suite.Equal(values[:i+1], window.Prefix())
		suite.Equal(i+1, window.Len())
		suite.Equal(len(values), window.Cap())

		for j := i + 1; j < len(values); j++ {
			_, err := window.Get(j)
			suite.True(errors.IsLookAheadViolation(err), "index %d at bar %d", j, i)
		}
	}
}

func (suite *SeriesTestSuite) TestPrefixIsACopy() {
	cursor, err := NewCursor(3)
	suite.Require().NoError(err)

	window := NewWindow([]float64{1, 2, 3}, cursor)
	suite.Require().NoError(cursor.Advance(1))

	prefix := window.Prefix()
	prefix[0] = 100

	value, err := window.Get(0)
	suite.NoError(err)
	suite.Equal(1.0, value)
}

func (suite *SeriesTestSuite) TestFullOnlyDuringSetup() {
	cursor, err := NewCursor(3)
	suite.Require().NoError(err)

	window := NewWindow([]float64{1, 2, 3}, cursor)

	full, err := window.Full()
	suite.NoError(err)
	suite.Equal([]float64{1, 2, 3}, full)

	cursor.Seal()

	_, err = window.Full()
	suite.True(errors.IsLookAheadViolation(err))
}

func (suite *SeriesTestSuite) TestBars() {
	s := types.BarSeries{
		Symbol:     "NIFTY",
		Timestamps: []int64{1700000000, 1700000300, 1700000600},
		Opens:      []float64{10, 11, 12},
		Highs:      []float64{11, 12, 13},
		Lows:       []float64{9, 10, 11},
		Closes:     []float64{10.5, 11.5, 12.5},
		Volumes:    []float64{100, 200, 300},
	}

	cursor, err := NewCursor(s.Len())
	suite.Require().NoError(err)

	bars := NewBars(s, cursor)
	suite.Require().NoError(cursor.Advance(1))

	current := bars.Current()
	suite.Equal("NIFTY", current.Symbol)
	suite.Equal(11.0, current.Open)
	suite.Equal(200.0, current.Volume)
	suite.Equal(int64(1700000300), current.Time.Unix())
	suite.Equal(1, bars.Index())

	prevClose, err := bars.Close.Get(-2)
	suite.NoError(err)
	suite.Equal(10.5, prevClose)

	ts, err := bars.Timestamp(-2)
	suite.NoError(err)
	suite.Equal(int64(1700000000), ts.Unix())

	_, err = bars.Timestamp(2)
	suite.True(errors.IsLookAheadViolation(err))

	// mutating the input does not leak into the windows
	s.Highs[0] = 999
	high, err := bars.High.Get(0)
	suite.NoError(err)
	suite.Equal(11.0, high)
}
