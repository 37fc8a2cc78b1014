package indicator

import (
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

const (
	SlopeMethodSimple = "simple"
	SlopeMethodLinReg = "linreg"
)

// EMASlope measures the slope of an already computed EMA array.
// Parameters: lookback (int, default 10), method ("simple" or "linreg", default "simple").
type EMASlope struct{}

// NewEMASlope creates a new EMA slope indicator.
func NewEMASlope() Indicator {
	return &EMASlope{}
}

// Name returns the name of the indicator.
func (s *EMASlope) Name() types.IndicatorType {
	return types.IndicatorTypeEMASlope
}

// Calculate computes the slope of inputs[0]. The first lookback values are NaN.
func (s *EMASlope) Calculate(inputs [][]float64, params Params) ([]float64, error) {
	if err := expectInputs(s.Name(), inputs, 1); err != nil {
		return nil, err
	}

	lookback, err := period(params, "lookback", 10)
	if err != nil {
		return nil, err
	}

	method, err := params.String("method", SlopeMethodSimple)
	if err != nil {
		return nil, err
	}

	switch method {
	case SlopeMethodSimple:
		return simpleSlope(inputs[0], lookback), nil
	case SlopeMethodLinReg:
		return linRegSlope(inputs[0], lookback), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown slope method %q, use simple or linreg", method)
	}
}

// simpleSlope is (v[i] - v[i-lookback]) / lookback.
func simpleSlope(values []float64, lookback int) []float64 {
	out := nanSlice(len(values))

	for i := lookback; i < len(values); i++ {
		out[i] = (values[i] - values[i-lookback]) / float64(lookback)
	}

	return out
}

// linRegSlope fits a least-squares line over the lookback values preceding i.
func linRegSlope(values []float64, lookback int) []float64 {
	out := nanSlice(len(values))

	xMean := float64(lookback-1) / 2
	denom := 0.0

	for x := 0; x < lookback; x++ {
		d := float64(x) - xMean
		denom += d * d
	}

	for i := lookback; i < len(values); i++ {
		window := values[i-lookback : i]

		yMean := 0.0
		for _, y := range window {
			yMean += y
		}

		yMean /= float64(lookback)

		num := 0.0
		for x, y := range window {
			num += (float64(x) - xMean) * (y - yMean)
		}

		if denom == 0 {
			out[i] = 0

			continue
		}

		out[i] = num / denom
	}

	return out
}
