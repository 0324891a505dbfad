package positions

import (
	"fmt"

	"github.com/bcdannyboy/lattice/models"
)

// volBump is the absolute volatility shift used for the vega estimate.
const volBump = 0.01

// Sensitivities returns the lattice greeks of the contract. Delta, gamma and
// theta come from the early lattice nodes; vega reprices the contract with
// volatility shifted up and down by volBump.
func Sensitivities(c Contract, m Market, T float64, steps int) (models.Greeks, error) {
	p, err := latticeParams(c, m, T, steps)
	if err != nil {
		return models.Greeks{}, err
	}
	_, greeks, err := models.BinomialGreeks(p)
	if err != nil {
		return models.Greeks{}, fmt.Errorf("greeks for %s: %w", c.Symbol, err)
	}

	bump := volBump
	if m.Volatility <= bump {
		bump = m.Volatility / 2
	}

	shifted := m
	shifted.Volatility = m.Volatility + bump
	upPrice, err := latticePrice(c, shifted, T, steps)
	if err != nil {
		return models.Greeks{}, err
	}
	shifted.Volatility = m.Volatility - bump
	downPrice, err := latticePrice(c, shifted, T, steps)
	if err != nil {
		return models.Greeks{}, err
	}

	greeks.Vega = (upPrice - downPrice) / (2 * bump)
	return greeks, nil
}

func latticeParams(c Contract, m Market, T float64, steps int) (models.BinomialParams, error) {
	up, down, err := models.CRRFactors(m.Volatility, T, steps)
	if err != nil {
		return models.BinomialParams{}, err
	}
	return models.BinomialParams{
		Spot:     m.Spot,
		Strike:   c.Strike,
		Maturity: T,
		Rate:     m.Rate,
		Steps:    steps,
		Up:       up,
		Down:     down,
		Kind:     c.Kind,
	}, nil
}

func latticePrice(c Contract, m Market, T float64, steps int) (float64, error) {
	p, err := latticeParams(c, m, T, steps)
	if err != nil {
		return 0, err
	}
	price, err := models.PriceBinomial(p)
	if err != nil {
		return 0, fmt.Errorf("lattice price for %s: %w", c.Symbol, err)
	}
	return price, nil
}
