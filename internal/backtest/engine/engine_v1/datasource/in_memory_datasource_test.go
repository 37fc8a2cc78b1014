package datasource

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type InMemoryDataSourceTestSuite struct {
	suite.Suite
	start time.Time
	ds    *InMemoryDataSource
}

func TestInMemoryDataSourceSuite(t *testing.T) {
	suite.Run(t, new(InMemoryDataSourceTestSuite))
}

func (suite *InMemoryDataSourceTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 2, 3, 45, 0, 0, time.UTC)

	var bars []types.Bar
	// deliberately out of order
	for i := 9; i >= 0; i-- {
		price := 100 + float64(i)
		bars = append(bars, types.Bar{
			Symbol: "NIFTY",
			Time:   suite.start.Add(time.Duration(i) * time.Minute),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price + 0.5,
			Volume: 10,
		})
	}

	bars = append(bars, types.Bar{Symbol: "BANKNIFTY", Time: suite.start, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1})
	suite.ds = NewInMemoryDataSource(bars)
}

func (suite *InMemoryDataSourceTestSuite) TestSymbols() {
	symbols, err := suite.ds.Symbols()
	suite.Require().NoError(err)
	suite.Equal([]string{"BANKNIFTY", "NIFTY"}, symbols)
}

func (suite *InMemoryDataSourceTestSuite) TestLoadOrdersBars() {
	s, err := suite.ds.Load(NewQuery("NIFTY"))
	suite.Require().NoError(err)

	suite.Equal(10, s.Len())
	suite.Equal("NIFTY", s.Symbol)
	suite.Equal(suite.start.Unix(), s.Timestamps[0])
	suite.Equal(100.0, s.Opens[0])
	suite.Equal(109.5, s.Closes[9])
	suite.NoError(s.Validate())
}

func (suite *InMemoryDataSourceTestSuite) TestTimeWindow() {
	q := NewQuery("NIFTY")
	q.Start = optional.Some(suite.start.Add(2 * time.Minute))
	q.End = optional.Some(suite.start.Add(5 * time.Minute))

	count, err := suite.ds.Count(q)
	suite.Require().NoError(err)
	suite.Equal(4, count)

	s, err := suite.ds.Load(q)
	suite.Require().NoError(err)
	suite.Equal(4, s.Len())
	suite.Equal(102.0, s.Opens[0])
}

func (suite *InMemoryDataSourceTestSuite) TestResample() {
	q := NewQuery("NIFTY")
	q.Interval = optional.Some(Interval5m)

	s, err := suite.ds.Load(q)
	suite.Require().NoError(err)

	suite.Require().Equal(2, s.Len())
	suite.Equal(100.0, s.Opens[0])
	suite.Equal(105.0, s.Highs[0])
	suite.Equal(99.0, s.Lows[0])
	suite.Equal(104.5, s.Closes[0])
	suite.Equal(50.0, s.Volumes[0])
	suite.Equal(suite.start.Add(5*time.Minute).Unix(), s.Timestamps[1])
}

func (suite *InMemoryDataSourceTestSuite) TestErrors() {
	_, err := suite.ds.Load(NewQuery("MISSING"))
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))

	_, err = suite.ds.Load(NewQuery(""))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	q := NewQuery("NIFTY")
	q.Interval = optional.Some(Interval("2d"))
	_, err = suite.ds.Load(q)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	suite.NoError(suite.ds.Close())
}
