package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-breakout/internal/types"
)

// RSI is the Relative Strength Index with Wilder averaging of gains and losses.
// Parameters: period (int, default 14).
type RSI struct{}

// NewRSI creates a new RSI indicator.
func NewRSI() Indicator {
	return &RSI{}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Calculate computes the RSI of inputs[0]. Values up to and including index period-1 are NaN.
func (r *RSI) Calculate(inputs [][]float64, params Params) ([]float64, error) {
	if err := expectInputs(r.Name(), inputs, 1); err != nil {
		return nil, err
	}

	p, err := period(params, "period", 14)
	if err != nil {
		return nil, err
	}

	prices := inputs[0]
	out := nanSlice(len(prices))

	if len(prices) <= p {
		return out, nil
	}

	gains := make([]float64, len(prices)-1)
	losses := make([]float64, len(prices)-1)

	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		gains[i-1] = math.Max(delta, 0)
		losses[i-1] = math.Max(-delta, 0)
	}

	avgGain, avgLoss := 0.0, 0.0
	for i := 0; i < p; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}

	avgGain /= float64(p)
	avgLoss /= float64(p)
	out[p] = rsiValue(avgGain, avgLoss)

	for i := p + 1; i < len(prices); i++ {
		avgGain = (avgGain*float64(p-1) + gains[i-1]) / float64(p)
		avgLoss = (avgLoss*float64(p-1) + losses[i-1]) / float64(p)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	rs := avgGain / (avgLoss + 1e-10)

	return 100 - 100/(1+rs)
}
