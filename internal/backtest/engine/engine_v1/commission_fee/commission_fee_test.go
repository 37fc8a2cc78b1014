package commission_fee

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommissionFeeTestSuite struct {
	suite.Suite
}

func TestCommissionFeeSuite(t *testing.T) {
	suite.Run(t, new(CommissionFeeTestSuite))
}

func (suite *CommissionFeeTestSuite) TestZeroCommissionFee() {
	fee := NewZeroCommissionFee()

	suite.Equal(0.0, fee.Calculate(0, 100))
	suite.Equal(0.0, fee.Calculate(10000, 2500))
}

func (suite *CommissionFeeTestSuite) TestInteractiveBrokerCommissionFee() {
	fee := NewInteractiveBrokerCommissionFee()

	tests := []struct {
		name     string
		quantity float64
		expected float64
	}{
		{"zero quantity pays the minimum", 0, 1.0},
		{"below the minimum", 10, 1.0},
		{"at the minimum", 200, 1.0},
		{"above the minimum", 1000, 5.0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			// price does not matter for per-unit pricing
			suite.Equal(tc.expected, fee.Calculate(tc.quantity, 123.4))
		})
	}
}

func (suite *CommissionFeeTestSuite) TestZerodhaIntradayCommissionFee() {
	fee := NewZerodhaIntradayCommissionFee()

	tests := []struct {
		name     string
		quantity float64
		price    float64
		expected float64
	}{
		{"small order pays the rate", 10, 1000, 3.0},
		{"large order is capped", 1000, 1000, 20.0},
		{"no quantity", 0, 1000, 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, fee.Calculate(tc.quantity, tc.price), 1e-9)
		})
	}
}

func (suite *CommissionFeeTestSuite) TestRoundTrip() {
	suite.InDelta(6.0, RoundTrip(NewZerodhaIntradayCommissionFee(), 10, 1000, 1000), 1e-9)
	suite.Equal(2.0, RoundTrip(NewInteractiveBrokerCommissionFee(), 10, 50, 60))
	suite.Equal(0.0, RoundTrip(NewZeroCommissionFee(), 10, 50, 60))
}

func (suite *CommissionFeeTestSuite) TestGetCommissionFeeHandler() {
	suite.IsType(&InteractiveBrokerCommissionFee{}, GetCommissionFeeHandler(BrokerInteractiveBroker))
	suite.IsType(&ZerodhaIntradayCommissionFee{}, GetCommissionFeeHandler(BrokerZerodhaIntraday))
	suite.IsType(&ZeroCommissionFee{}, GetCommissionFeeHandler(BrokerZero))
	suite.IsType(&ZeroCommissionFee{}, GetCommissionFeeHandler(Broker("unknown")))
	suite.Len(AllBrokers, 3)
}
