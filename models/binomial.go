package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxSteps bounds the lattice size. Memory grows linearly and work
// quadratically with the step count.
const MaxSteps = 100000

// BinomialParams describes a European option priced on a recombining
// N-step binomial lattice.
type BinomialParams struct {
	Spot     float64    `json:"spot"`     // S0
	Strike   float64    `json:"strike"`   // K
	Maturity float64    `json:"maturity"` // T in years
	Rate     float64    `json:"rate"`     // continuously compounded risk-free rate
	Steps    int        `json:"steps"`    // N
	Up       float64    `json:"up"`       // u
	Down     float64    `json:"down"`     // d, usually 1/u
	Kind     OptionKind `json:"kind"`

	// AllowArbitrage skips the 0 < q < 1 check and evaluates the formula as-is.
	AllowArbitrage bool `json:"allow_arbitrage,omitempty"`
}

func (p BinomialParams) Validate() error {
	if err := validatePositive(p.Spot, ErrInvalidSpot); err != nil {
		return err
	}
	if err := validatePositive(p.Strike, ErrInvalidStrike); err != nil {
		return err
	}
	if err := validatePositive(p.Maturity, ErrInvalidMaturity); err != nil {
		return err
	}
	if !isFinite(p.Rate) {
		return fmt.Errorf("%w: got %v", ErrInvalidRate, p.Rate)
	}
	if p.Steps < 0 || p.Steps > MaxSteps {
		return fmt.Errorf("%w: got %d, want 0..%d", ErrInvalidSteps, p.Steps, MaxSteps)
	}
	if err := validateFactors(p.Up, p.Down); err != nil {
		return err
	}
	return p.Kind.Validate()
}

// RiskNeutralProbability returns q = (e^(r*dt) - d) / (u - d).
func RiskNeutralProbability(rate, dt, up, down float64) float64 {
	return (math.Exp(rate*dt) - down) / (up - down)
}

// TerminalPrices returns the N+1 underlying prices at maturity, where index j
// is the node reached after j up-moves and N-j down-moves.
func TerminalPrices(spot, up, down float64, steps int) []float64 {
	prices := make([]float64, steps+1)
	prices[0] = spot * math.Pow(down, float64(steps))
	ratio := up / down
	for j := 1; j <= steps; j++ {
		prices[j] = prices[j-1] * ratio
	}
	return prices
}

// Payoffs maps terminal prices through the option's payoff rule.
func Payoffs(prices []float64, strike float64, kind OptionKind) []float64 {
	payoffs := make([]float64, len(prices))
	for j, s := range prices {
		payoffs[j] = kind.Payoff(s, strike)
	}
	return payoffs
}

// PriceBinomial values a European option by backward induction through the
// lattice. With zero steps the undiscounted immediate payoff is returned.
func PriceBinomial(p BinomialParams) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if p.Steps == 0 {
		return p.Kind.Payoff(p.Spot, p.Strike), nil
	}

	dt := p.Maturity / float64(p.Steps)
	disc := math.Exp(-p.Rate * dt)
	q := RiskNeutralProbability(p.Rate, dt, p.Up, p.Down)
	if err := validateProbability(q, p.AllowArbitrage); err != nil {
		return 0, err
	}

	cur := Payoffs(TerminalPrices(p.Spot, p.Up, p.Down, p.Steps), p.Strike, p.Kind)
	next := make([]float64, len(cur))

	return rollback(cur, next, p.Steps, 0, disc*q, disc*(1-q))[0], nil
}

// rollback steps option values back from level `from` to level `to` and
// returns the to+1 values of that level. The two buffers alternate so every
// step reads only the previous step's values.
func rollback(cur, next []float64, from, to int, upWeight, downWeight float64) []float64 {
	for i := from; i > to; i-- {
		dst := next[:i]
		floats.ScaleTo(dst, downWeight, cur[:i])
		floats.AddScaled(dst, upWeight, cur[1:i+1])
		cur, next = next, cur
	}
	return cur[:to+1]
}
