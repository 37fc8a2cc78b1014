package commission_fee

// InteractiveBrokerCommissionFee charges per unit with a minimum per order.
type InteractiveBrokerCommissionFee struct {
	perUnit float64
	minimum float64
}

func NewInteractiveBrokerCommissionFee() CommissionFee {
	return &InteractiveBrokerCommissionFee{
		perUnit: 0.005,
		minimum: 1.0,
	}
}

func (c *InteractiveBrokerCommissionFee) Calculate(quantity float64, _ float64) float64 {
	fee := c.perUnit * quantity
	if fee < c.minimum {
		return c.minimum
	}

	return fee
}
