package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-breakout/internal/types"
)

// ATR is the Average True Range with Wilder smoothing.
// Inputs: high, low, close. Parameters: period (int, default 14).
type ATR struct{}

// NewATR creates a new ATR indicator.
func NewATR() Indicator {
	return &ATR{}
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Calculate computes the ATR. Values before index period-1 are NaN; the value at period-1
// is the mean of the first period true ranges.
func (a *ATR) Calculate(inputs [][]float64, params Params) ([]float64, error) {
	if err := expectInputs(a.Name(), inputs, 3); err != nil {
		return nil, err
	}

	p, err := period(params, "period", 14)
	if err != nil {
		return nil, err
	}

	high, low, closes := inputs[0], inputs[1], inputs[2]
	n := len(closes)
	out := nanSlice(n)

	if n < p {
		return out, nil
	}

	tr := trueRange(high, low, closes)

	sum := 0.0
	for i := 0; i < p; i++ {
		sum += tr[i]
	}

	out[p-1] = sum / float64(p)
	alpha := 1.0 / float64(p)

	for i := p; i < n; i++ {
		out[i] = alpha*tr[i] + (1-alpha)*out[i-1]
	}

	return out, nil
}

func trueRange(high, low, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	if len(closes) == 0 {
		return tr
	}

	tr[0] = high[0] - low[0]

	for i := 1; i < len(closes); i++ {
		tr[i] = math.Max(high[i]-low[i], math.Max(
			math.Abs(high[i]-closes[i-1]),
			math.Abs(low[i]-closes[i-1]),
		))
	}

	return tr
}
