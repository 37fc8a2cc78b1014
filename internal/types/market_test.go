package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) validSeries() BarSeries {
	return BarSeries{
		Symbol:     "TEST",
		Timestamps: []int64{1, 2, 2},
		Opens:      []float64{1, 2, 3},
		Highs:      []float64{1, 2, 3},
		Lows:       []float64{1, 2, 3},
		Closes:     []float64{1, 2, 3},
		Volumes:    []float64{10, 20, 30},
	}
}

func (suite *MarketTestSuite) TestValidate() {
	suite.NoError(suite.validSeries().Validate())
	suite.Equal(3, suite.validSeries().Len())
}

func (suite *MarketTestSuite) TestValidateErrors() {
	tests := []struct {
		name   string
		mutate func(s *BarSeries)
		code   errors.ErrorCode
	}{
		{"empty", func(s *BarSeries) { *s = BarSeries{Symbol: "X"} }, errors.ErrCodeEmptySeries},
		{"short column", func(s *BarSeries) { s.Highs = s.Highs[:2] }, errors.ErrCodeSeriesLengthMismatch},
		{"long column", func(s *BarSeries) { s.Volumes = append(s.Volumes, 1) }, errors.ErrCodeSeriesLengthMismatch},
		{"backwards time", func(s *BarSeries) { s.Timestamps[2] = 0 }, errors.ErrCodeUnorderedTimestamps},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			s := suite.validSeries()
			tc.mutate(&s)

			err := s.Validate()
			suite.Error(err)
			suite.True(errors.HasCode(err, tc.code))
			suite.True(errors.IsConfigurationError(err))
		})
	}
}

func (suite *MarketTestSuite) TestNewBarSeriesRoundTrip() {
	t0 := time.Date(2024, 1, 2, 3, 45, 0, 0, time.UTC)
	bars := []Bar{
		{Time: t0, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Time: t0.Add(5 * time.Minute), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 200},
	}

	s := NewBarSeries("SBIN", bars)
	suite.NoError(s.Validate())
	suite.Equal([]float64{2, 2.5}, s.Highs)

	bar := s.BarAt(1)
	suite.Equal("SBIN", bar.Symbol)
	suite.True(bar.Time.Equal(t0.Add(5 * time.Minute)))
	suite.Equal(200.0, bar.Volume)
}
