package indicator

import (
	"github.com/rxtech-lab/argo-breakout/internal/types"
)

// EMA is the exponential moving average, seeded with the first value.
// Parameters: period (int, default 20).
type EMA struct{}

// NewEMA creates a new EMA indicator.
func NewEMA() Indicator {
	return &EMA{}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Calculate computes the EMA of inputs[0].
func (e *EMA) Calculate(inputs [][]float64, params Params) ([]float64, error) {
	if err := expectInputs(e.Name(), inputs, 1); err != nil {
		return nil, err
	}

	p, err := period(params, "period", 20)
	if err != nil {
		return nil, err
	}

	return calculateEMA(inputs[0], p), nil
}

// calculateEMA uses alpha = 2/(period+1) without bias adjustment.
func calculateEMA(data []float64, period int) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)
	out[0] = data[0]

	for i := 1; i < len(data); i++ {
		out[i] = alpha*data[i] + (1-alpha)*out[i-1]
	}

	return out
}
