package models

import "math"

// PriceOnePeriod values a European option over a single period of unit
// length: the underlying moves once to spot*up or spot*down.
func PriceOnePeriod(spot, strike, rate, up, down float64, kind OptionKind, allowArbitrage bool) (float64, error) {
	p := BinomialParams{
		Spot:     spot,
		Strike:   strike,
		Maturity: 1,
		Rate:     rate,
		Steps:    1,
		Up:       up,
		Down:     down,
		Kind:     kind,
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	q := RiskNeutralProbability(rate, 1, up, down)
	if err := validateProbability(q, allowArbitrage); err != nil {
		return 0, err
	}

	cu := kind.Payoff(spot*up, strike)
	cd := kind.Payoff(spot*down, strike)

	return (q*cu + (1-q)*cd) * math.Exp(-rate), nil
}
