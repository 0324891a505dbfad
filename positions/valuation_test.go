package positions

import (
	"testing"
	"time"

	"github.com/bcdannyboy/lattice/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	contract := Contract{
		Symbol:     "SPY",
		Kind:       models.Call,
		Strike:     100,
		Expiration: now.AddDate(0, 0, 365),
	}
	market := Market{Spot: 100, Rate: 0.05, Volatility: 0.2}

	v, err := Evaluate(contract, market, 500, now)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, v.TimeToMaturity, 1e-12)
	assert.InDelta(t, 10.450583572185565, v.BlackScholesPrice, 1e-9)
	assert.InDelta(t, v.BlackScholesPrice, v.LatticePrice, 0.01)
	assert.Equal(t, 0.0, v.IntrinsicValue)
	assert.InDelta(t, v.LatticePrice, v.ExtrinsicValue, 1e-12)
	assert.InDelta(t, 1.0, v.Up*v.Down, 1e-12)
	assert.True(t, v.RiskNeutralProb > 0 && v.RiskNeutralProb < 1)

	require.NotNil(t, v.Greeks)
	assert.InDelta(t, 0.6368, v.Greeks.Delta, 0.005)
	assert.InDelta(t, 0.01876, v.Greeks.Gamma, 0.001)
	assert.InDelta(t, 37.52, v.Greeks.Vega, 1.5)
	assert.Less(t, v.Greeks.Theta, 0.0)
}

func TestEvaluateSingleStepHasNoGreeks(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	contract := Contract{Symbol: "SPY", Kind: models.Call, Strike: 100, Expiration: now.AddDate(0, 1, 0)}

	v, err := Evaluate(contract, Market{Spot: 100, Rate: 0.05, Volatility: 0.2}, 1, now)
	require.NoError(t, err)
	assert.Nil(t, v.Greeks)
}

func TestSensitivitiesSmallVolatility(t *testing.T) {
	contract := Contract{Symbol: "SPY", Kind: models.Put, Strike: 100}

	g, err := Sensitivities(contract, Market{Spot: 100, Rate: 0.01, Volatility: 0.005}, 0.5, 100)
	require.NoError(t, err)
	assert.Greater(t, g.Vega, 0.0)
	assert.Less(t, g.Delta, 0.0)
}

func TestEvaluateInTheMoneyPut(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	contract := Contract{Symbol: "QQQ", Kind: models.Put, Strike: 120, Expiration: now.AddDate(0, 6, 0)}

	v, err := Evaluate(contract, Market{Spot: 100, Rate: 0.01, Volatility: 0.3}, 200, now)
	require.NoError(t, err)

	assert.Equal(t, 20.0, v.IntrinsicValue)
	assert.InDelta(t, v.LatticePrice-20, v.ExtrinsicValue, 1e-12)
}

func TestEvaluateErrors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	market := Market{Spot: 100, Rate: 0.05, Volatility: 0.2}

	_, err := Evaluate(Contract{Symbol: "SPY", Kind: models.Call, Strike: 100, Expiration: now.AddDate(0, 0, -1)}, market, 100, now)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = Evaluate(Contract{Symbol: "SPY", Kind: "digital", Strike: 100, Expiration: now.AddDate(0, 1, 0)}, market, 100, now)
	assert.ErrorIs(t, err, models.ErrUnknownOptionKind)

	_, err = Evaluate(Contract{Symbol: "SPY", Kind: models.Call, Strike: 100, Expiration: now.AddDate(0, 1, 0)}, Market{Spot: 100, Volatility: 0}, 100, now)
	assert.ErrorIs(t, err, models.ErrInvalidVolatility)
}
