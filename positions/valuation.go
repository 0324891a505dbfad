package positions

import (
	"errors"
	"fmt"
	"time"

	"github.com/bcdannyboy/lattice/models"
)

var ErrExpired = errors.New("contract has expired")

// Contract is a European option on a single underlying.
type Contract struct {
	Symbol     string            `json:"symbol"`
	Kind       models.OptionKind `json:"kind"`
	Strike     float64           `json:"strike"`
	Expiration time.Time         `json:"expiration"`
}

// Market holds the inputs observed for the underlying at valuation time.
type Market struct {
	Spot       float64 `json:"spot"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility"`
}

type Valuation struct {
	Contract          Contract `json:"contract"`
	Market            Market   `json:"market"`
	TimeToMaturity    float64  `json:"time_to_maturity"`
	Steps             int      `json:"steps"`
	Up                float64  `json:"up"`
	Down              float64  `json:"down"`
	RiskNeutralProb   float64  `json:"risk_neutral_probability"`
	LatticePrice      float64  `json:"lattice_price"`
	BlackScholesPrice float64  `json:"black_scholes_price"`
	IntrinsicValue    float64  `json:"intrinsic_value"`
	ExtrinsicValue    float64  `json:"extrinsic_value"`

	Greeks *models.Greeks `json:"greeks,omitempty"`
}

// Evaluate prices the contract on a CRR lattice with the given number of steps
// and reports the closed-form price alongside it.
func Evaluate(c Contract, m Market, steps int, now time.Time) (Valuation, error) {
	T := timeToMaturity(c.Expiration, now)
	if T <= 0 {
		return Valuation{}, fmt.Errorf("%w: %s expired %s", ErrExpired, c.Symbol, c.Expiration.Format("2006-01-02"))
	}

	p, err := latticeParams(c, m, T, steps)
	if err != nil {
		return Valuation{}, err
	}
	price, err := models.PriceBinomial(p)
	if err != nil {
		return Valuation{}, fmt.Errorf("lattice price for %s: %w", c.Symbol, err)
	}

	var greeks *models.Greeks
	if steps >= 2 {
		g, err := Sensitivities(c, m, T, steps)
		if err != nil {
			return Valuation{}, err
		}
		greeks = &g
	}

	bsPrice, err := models.PriceBlackScholes(m.Spot, c.Strike, T, m.Rate, m.Volatility, c.Kind)
	if err != nil {
		return Valuation{}, fmt.Errorf("black-scholes price for %s: %w", c.Symbol, err)
	}

	intrinsic := c.Kind.Payoff(m.Spot, c.Strike)

	return Valuation{
		Contract:          c,
		Market:            m,
		TimeToMaturity:    T,
		Steps:             steps,
		Up:                p.Up,
		Down:              p.Down,
		RiskNeutralProb:   models.RiskNeutralProbability(m.Rate, T/float64(steps), p.Up, p.Down),
		LatticePrice:      price,
		BlackScholesPrice: bsPrice,
		IntrinsicValue:    intrinsic,
		ExtrinsicValue:    price - intrinsic,
		Greeks:            greeks,
	}, nil
}

func timeToMaturity(expiration, now time.Time) float64 {
	return expiration.Sub(now).Hours() / 24 / 365 // Convert to years
}
