package models

import (
	"fmt"
	"math"
)

// Greeks are sensitivities read off the first two levels of the lattice.
// Theta is per year.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega,omitempty"`
}

// recombineTolerance is how far u*d may sit from 1 for the middle node at step
// two to count as the initial spot.
const recombineTolerance = 1e-9

// BinomialGreeks prices the option like PriceBinomial and also returns delta,
// gamma and theta estimated from the nodes at steps one and two. Theta compares
// the middle step-two node with the root, so it is only reported when u*d = 1;
// otherwise it is left at zero.
func BinomialGreeks(p BinomialParams) (float64, Greeks, error) {
	if err := p.Validate(); err != nil {
		return 0, Greeks{}, err
	}
	if p.Steps < 2 {
		return 0, Greeks{}, fmt.Errorf("%w: greeks need at least two steps, got %d", ErrInvalidSteps, p.Steps)
	}

	dt := p.Maturity / float64(p.Steps)
	disc := math.Exp(-p.Rate * dt)
	q := RiskNeutralProbability(p.Rate, dt, p.Up, p.Down)
	if err := validateProbability(q, p.AllowArbitrage); err != nil {
		return 0, Greeks{}, err
	}
	upWeight, downWeight := disc*q, disc*(1-q)

	cur := Payoffs(TerminalPrices(p.Spot, p.Up, p.Down, p.Steps), p.Strike, p.Kind)
	v2 := rollback(cur, make([]float64, len(cur)), p.Steps, 2, upWeight, downWeight)

	v1d := upWeight*v2[1] + downWeight*v2[0]
	v1u := upWeight*v2[2] + downWeight*v2[1]
	v0 := upWeight*v1u + downWeight*v1d

	s1u, s1d := p.Spot*p.Up, p.Spot*p.Down
	s2uu, s2ud, s2dd := s1u*p.Up, s1u*p.Down, s1d*p.Down

	deltaUp := (v2[2] - v2[1]) / (s2uu - s2ud)
	deltaDown := (v2[1] - v2[0]) / (s2ud - s2dd)

	greeks := Greeks{
		Delta: (v1u - v1d) / (s1u - s1d),
		Gamma: (deltaUp - deltaDown) / (0.5 * (s2uu - s2dd)),
	}
	if math.Abs(p.Up*p.Down-1) <= recombineTolerance {
		greeks.Theta = (v2[1] - v0) / (2 * dt)
	}
	return v0, greeks, nil
}
