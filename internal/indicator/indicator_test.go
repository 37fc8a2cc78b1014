package indicator

import (
	"math"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) assertSeries(expected, actual []float64) {
	suite.Require().Len(actual, len(expected))

	for i := range expected {
		if math.IsNaN(expected[i]) {
			suite.True(math.IsNaN(actual[i]), "index %d: expected NaN, got %v", i, actual[i])

			continue
		}

		suite.InDelta(expected[i], actual[i], 1e-9, "index %d", i)
	}
}

func (suite *IndicatorTestSuite) TestParams() {
	params := Params{
		"period":   3.0,
		"lookback": optional.Some(5),
		"unset":    optional.None[int](),
		"method":   "linreg",
		"bad":      "x",
		"fraction": 2,
	}

	p, err := params.Int("period", 1)
	suite.NoError(err)
	suite.Equal(3, p)

	p, err = params.Int("lookback", 1)
	suite.NoError(err)
	suite.Equal(5, p)

	p, err = params.Int("unset", 7)
	suite.NoError(err)
	suite.Equal(7, p)

	p, err = params.Int("missing", 9)
	suite.NoError(err)
	suite.Equal(9, p)

	_, err = params.Int("bad", 1)
	suite.True(errors.IsConfigurationError(err))

	f, err := params.Float("fraction", 0)
	suite.NoError(err)
	suite.Equal(2.0, f)

	s, err := params.String("method", SlopeMethodSimple)
	suite.NoError(err)
	suite.Equal("linreg", s)

	_, err = params.String("fraction", "")
	suite.Error(err)
}

func (suite *IndicatorTestSuite) TestCanonical() {
	suite.Equal("a=x;b=1", Params{"b": 1, "a": "x"}.Canonical())
	suite.Equal("period=20", Params{"period": optional.Some(20)}.Canonical())
	suite.Equal(Params{"period": 20}.Canonical(), Params{"period": optional.Some(20)}.Canonical())
	suite.Equal("", Params{}.Canonical())
}

func (suite *IndicatorTestSuite) TestEMA() {
	ema := NewEMA()
	suite.Equal(types.IndicatorTypeEMA, ema.Name())

	out, err := ema.Calculate([][]float64{{1, 2, 3, 4}}, Params{"period": 3})
	suite.NoError(err)
	suite.assertSeries([]float64{1, 1.5, 2.25, 3.125}, out)

	out, err = ema.Calculate([][]float64{{}}, Params{"period": 3})
	suite.NoError(err)
	suite.Empty(out)

	_, err = ema.Calculate([][]float64{{1, 2}}, Params{"period": 0})
	suite.True(errors.IsConfigurationError(err))

	_, err = ema.Calculate([][]float64{{1}, {2}}, Params{})
	suite.Error(err)
}

func (suite *IndicatorTestSuite) TestMA() {
	out, err := NewMA().Calculate([][]float64{{1, 2, 3, 4, 5}}, Params{"period": 3})
	suite.NoError(err)
	suite.assertSeries([]float64{math.NaN(), math.NaN(), 2, 3, 4}, out)

	out, err = NewMA().Calculate([][]float64{{1, 2}}, Params{"period": 3})
	suite.NoError(err)
	suite.assertSeries([]float64{math.NaN(), math.NaN()}, out)
}

func (suite *IndicatorTestSuite) TestATR() {
	high := []float64{10, 11, 12, 15}
	low := []float64{8, 9, 10, 11}
	closes := []float64{9, 10, 11, 12}

	out, err := NewATR().Calculate([][]float64{high, low, closes}, Params{"period": 3})
	suite.NoError(err)
	suite.assertSeries([]float64{math.NaN(), math.NaN(), 2, 8.0 / 3.0}, out)

	out, err = NewATR().Calculate([][]float64{high[:2], low[:2], closes[:2]}, Params{"period": 3})
	suite.NoError(err)
	suite.assertSeries([]float64{math.NaN(), math.NaN()}, out)

	_, err = NewATR().Calculate([][]float64{high, low[:2], closes}, Params{"period": 3})
	suite.True(errors.IsIndicatorShapeError(err))

	_, err = NewATR().Calculate([][]float64{high, low}, Params{})
	suite.Error(err)
}

func (suite *IndicatorTestSuite) TestEMASlope() {
	values := []float64{1, 2, 4, 7}

	out, err := NewEMASlope().Calculate([][]float64{values}, Params{"lookback": 2})
	suite.NoError(err)
	suite.assertSeries([]float64{math.NaN(), math.NaN(), 1.5, 2.5}, out)

	out, err = NewEMASlope().Calculate([][]float64{{1, 2, 3, 10}}, Params{"lookback": 3, "method": SlopeMethodLinReg})
	suite.NoError(err)
	suite.assertSeries([]float64{math.NaN(), math.NaN(), math.NaN(), 1}, out)

	_, err = NewEMASlope().Calculate([][]float64{values}, Params{"method": "quadratic"})
	suite.True(errors.IsConfigurationError(err))
}

func (suite *IndicatorTestSuite) TestRSI() {
	out, err := NewRSI().Calculate([][]float64{{1, 2, 3, 2}}, Params{"period": 2})
	suite.NoError(err)
	suite.Require().Len(out, 4)
	suite.True(math.IsNaN(out[0]))
	suite.True(math.IsNaN(out[1]))
	suite.InDelta(100, out[2], 1e-6)
	suite.InDelta(50, out[3], 1e-6)
}

func (suite *IndicatorTestSuite) TestMACD() {
	out, err := NewMACD().Calculate([][]float64{{5, 5, 5, 5, 5}}, Params{})
	suite.NoError(err)
	suite.assertSeries([]float64{0, 0, 0, 0, 0}, out)

	_, err = NewMACD().Calculate([][]float64{{1, 2}}, Params{"fast": 30, "slow": 10})
	suite.True(errors.IsConfigurationError(err))
}
