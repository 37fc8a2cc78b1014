package indicator

import (
	"github.com/rxtech-lab/argo-breakout/internal/types"
)

// MA is the simple moving average. Parameters: period (int, default 20).
type MA struct{}

// NewMA creates a new MA indicator.
func NewMA() Indicator {
	return &MA{}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Calculate computes the rolling mean of inputs[0]. The first period-1 values are NaN.
func (m *MA) Calculate(inputs [][]float64, params Params) ([]float64, error) {
	if err := expectInputs(m.Name(), inputs, 1); err != nil {
		return nil, err
	}

	p, err := period(params, "period", 20)
	if err != nil {
		return nil, err
	}

	data := inputs[0]
	out := nanSlice(len(data))

	if len(data) < p {
		return out, nil
	}

	sum := 0.0
	for i := 0; i < p; i++ {
		sum += data[i]
	}

	out[p-1] = sum / float64(p)

	for i := p; i < len(data); i++ {
		sum += data[i] - data[i-p]
		out[i] = sum / float64(p)
	}

	return out, nil
}
