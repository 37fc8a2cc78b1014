package indicator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

// Indicator is a pure function from full input arrays to an output array of the same length.
// Values that are not yet defined (warm-up) are NaN.
type Indicator interface {
	// Name returns the stable identifier of the indicator
	Name() types.IndicatorType
	// Calculate computes the indicator over the given inputs
	Calculate(inputs [][]float64, params Params) ([]float64, error)
}

// Params are the named parameters of an indicator call.
type Params map[string]any

// Int returns the integer parameter key, or fallback when it is absent.
// Accepted values are int, int64, integral float64 and optional.Option[int].
func (p Params) Int(key string, fallback int) (int, error) {
	v, ok := p[key]
	if !ok {
		return fallback, nil
	}

	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	case optional.Option[int]:
		if n.IsNone() {
			return fallback, nil
		}

		return n.Unwrap(), nil
	}

	return 0, errors.Newf(errors.ErrCodeInvalidParameter, "parameter %s: expected int, got %T", key, v)
}

// Float returns the float parameter key, or fallback when it is absent.
func (p Params) Float(key string, fallback float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return fallback, nil
	}

	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}

	return 0, errors.Newf(errors.ErrCodeInvalidParameter, "parameter %s: expected float, got %T", key, v)
}

// String returns the string parameter key, or fallback when it is absent.
func (p Params) String(key string, fallback string) (string, error) {
	v, ok := p[key]
	if !ok {
		return fallback, nil
	}

	s, ok := v.(string)
	if !ok {
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "parameter %s: expected string, got %T", key, v)
	}

	return s, nil
}

// Canonical renders the parameters sorted by name, so equal parameter sets render equally.
func (p Params) Canonical() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var sb strings.Builder

	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(';')
		}

		v := p[k]
		if o, ok := v.(optional.Option[int]); ok && o.IsSome() {
			v = o.Unwrap()
		}

		fmt.Fprintf(&sb, "%s=%v", k, v)
	}

	return sb.String()
}

func period(params Params, key string, fallback int) (int, error) {
	p, err := params.Int(key, fallback)
	if err != nil {
		return 0, err
	}

	if p <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "%s must be a positive integer, got %d", key, p)
	}

	return p, nil
}

func expectInputs(name types.IndicatorType, inputs [][]float64, count int) error {
	if len(inputs) != count {
		return errors.Newf(errors.ErrCodeIndicatorCalculation, "%s expects %d input arrays, got %d", name, count, len(inputs))
	}

	for i := 1; i < len(inputs); i++ {
		if len(inputs[i]) != len(inputs[0]) {
			return errors.Newf(errors.ErrCodeIndicatorShape, "%s input %d has length %d, expected %d",
				name, i, len(inputs[i]), len(inputs[0]))
		}
	}

	return nil
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}
