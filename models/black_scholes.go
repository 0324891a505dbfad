package models

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// PriceBlackScholes is the closed-form European price the lattice converges to
// as the step count grows with CRR factors.
func PriceBlackScholes(spot, strike, maturity, rate, sigma float64, kind OptionKind) (float64, error) {
	if err := validatePositive(spot, ErrInvalidSpot); err != nil {
		return 0, err
	}
	if err := validatePositive(strike, ErrInvalidStrike); err != nil {
		return 0, err
	}
	if err := validatePositive(maturity, ErrInvalidMaturity); err != nil {
		return 0, err
	}
	if !isFinite(rate) {
		return 0, ErrInvalidRate
	}
	if err := validatePositive(sigma, ErrInvalidVolatility); err != nil {
		return 0, err
	}
	if err := kind.Validate(); err != nil {
		return 0, err
	}

	sqrtT := math.Sqrt(maturity)
	d1 := (math.Log(spot/strike) + (rate+0.5*sigma*sigma)*maturity) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	discounted := strike * math.Exp(-rate*maturity)

	n := distuv.UnitNormal
	if kind == Call {
		return spot*n.CDF(d1) - discounted*n.CDF(d2), nil
	}
	return discounted*n.CDF(-d2) - spot*n.CDF(-d1), nil
}
