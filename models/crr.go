package models

import (
	"fmt"
	"math"
)

// CRRFactors returns the Cox-Ross-Rubinstein up and down factors for a lattice
// of the given number of steps: u = e^(sigma*sqrt(dt)), d = 1/u.
func CRRFactors(sigma, maturity float64, steps int) (float64, float64, error) {
	if err := validatePositive(sigma, ErrInvalidVolatility); err != nil {
		return 0, 0, err
	}
	if err := validatePositive(maturity, ErrInvalidMaturity); err != nil {
		return 0, 0, err
	}
	if steps < 1 {
		return 0, 0, fmt.Errorf("%w: CRR factors need at least one step, got %d", ErrInvalidSteps, steps)
	}

	dt := maturity / float64(steps)
	up := math.Exp(sigma * math.Sqrt(dt))
	return up, 1 / up, nil
}
