// Package trading simulates how orders are filled and sized during a backtest.
package trading

import (
	"math"
	"math/rand/v2"

	"github.com/moznion/go-optional"
)

// DefaultSlippageBound is the largest absolute price adjustment applied by default.
const DefaultSlippageBound = 0.05

// FillModel decides the prices at which simulated orders fill.
type FillModel interface {
	// Slippage returns price adjusted by a random amount.
	Slippage(price float64) float64
	// Uniform returns a price drawn uniformly from (lo, hi), or lo when the bounds are equal.
	Uniform(lo float64, hi float64) float64
}

// RandomFill is a FillModel driven by an explicit random source.
type RandomFill struct {
	rng   *rand.Rand
	bound float64
}

// NewRandomFill creates a fill model. When seed is set, fills are reproducible.
// A zero slippage bound turns Slippage into the identity.
func NewRandomFill(seed optional.Option[uint64], slippageBound float64) *RandomFill {
	var src rand.Source
	if seed.IsSome() {
		s := seed.Unwrap()
		src = rand.NewPCG(s, s^0x9e3779b97f4a7c15)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	return &RandomFill{
		rng:   rand.New(src),
		bound: math.Abs(slippageBound),
	}
}

// Slippage implements FillModel.
func (f *RandomFill) Slippage(price float64) float64 {
	if f.bound == 0 {
		return price
	}

	return price + f.Uniform(-f.bound, f.bound)
}

// Uniform implements FillModel. Reversed bounds are swapped.
// When lo < hi the result lies strictly inside (lo, hi).
func (f *RandomFill) Uniform(lo float64, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	for {
		v := lo + (hi-lo)*f.rng.Float64()
		if lo == hi || math.IsNaN(v) || (v > lo && v < hi) {
			return v
		}
	}
}

// PositionSize returns the whole number of units to trade: the smaller of the units whose
// stop distance risks riskFraction of margin and the units margin can pay for.
// It returns 0 for non-positive inputs.
func PositionSize(margin float64, stopDistance float64, price float64, riskFraction float64) int {
	if !(margin > 0) || !(stopDistance > 0) || !(price > 0) || !(riskFraction > 0) {
		return 0
	}

	byRisk := margin * riskFraction / stopDistance
	byCash := margin / price

	return int(math.Min(byRisk, byCash))
}
