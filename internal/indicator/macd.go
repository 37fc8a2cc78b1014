package indicator

import (
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

// MACD returns the MACD histogram: (EMA fast - EMA slow) minus its signal EMA.
// Parameters: fast (default 12), slow (default 26), signal (default 9).
type MACD struct{}

// NewMACD creates a new MACD indicator.
func NewMACD() Indicator {
	return &MACD{}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Calculate computes the MACD histogram of inputs[0].
func (m *MACD) Calculate(inputs [][]float64, params Params) ([]float64, error) {
	if err := expectInputs(m.Name(), inputs, 1); err != nil {
		return nil, err
	}

	fast, err := period(params, "fast", 12)
	if err != nil {
		return nil, err
	}

	slow, err := period(params, "slow", 26)
	if err != nil {
		return nil, err
	}

	signal, err := period(params, "signal", 9)
	if err != nil {
		return nil, err
	}

	if fast >= slow {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "fast period %d must be below slow period %d", fast, slow)
	}

	emaFast := calculateEMA(inputs[0], fast)
	emaSlow := calculateEMA(inputs[0], slow)

	line := make([]float64, len(inputs[0]))
	for i := range line {
		line[i] = emaFast[i] - emaSlow[i]
	}

	signalLine := calculateEMA(line, signal)

	hist := make([]float64, len(line))
	for i := range hist {
		hist[i] = line[i] - signalLine[i]
	}

	return hist, nil
}
