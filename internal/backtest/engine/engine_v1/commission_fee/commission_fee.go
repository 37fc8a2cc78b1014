package commission_fee

// CommissionFee prices the commission of one executed order leg.
type CommissionFee interface {
	// Calculate returns the fee, in account currency, for quantity units filled at price.
	Calculate(quantity float64, price float64) float64
}

type Broker string

const (
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerZerodhaIntraday   Broker = "zerodha_intraday"
	BrokerZero              Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerInteractiveBroker,
	BrokerZerodhaIntraday,
	BrokerZero,
}

// GetCommissionFeeHandler returns the fee model of broker. Unknown brokers pay nothing.
func GetCommissionFeeHandler(broker Broker) CommissionFee {
	switch broker {
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerZerodhaIntraday:
		return NewZerodhaIntradayCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}

// RoundTrip returns the fee of opening and closing quantity units.
func RoundTrip(fee CommissionFee, quantity float64, entryPrice float64, exitPrice float64) float64 {
	return fee.Calculate(quantity, entryPrice) + fee.Calculate(quantity, exitPrice)
}
