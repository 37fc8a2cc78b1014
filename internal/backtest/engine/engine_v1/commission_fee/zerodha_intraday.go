package commission_fee

// ZerodhaIntradayCommissionFee charges a share of turnover capped at a flat fee per order,
// which is how Indian discount brokers price intraday equity orders.
type ZerodhaIntradayCommissionFee struct {
	rate float64
	cap  float64
}

func NewZerodhaIntradayCommissionFee() CommissionFee {
	return &ZerodhaIntradayCommissionFee{
		rate: 0.0003,
		cap:  20.0,
	}
}

func (c *ZerodhaIntradayCommissionFee) Calculate(quantity float64, price float64) float64 {
	if quantity <= 0 || price <= 0 {
		return 0
	}

	return min(c.rate*quantity*price, c.cap)
}
