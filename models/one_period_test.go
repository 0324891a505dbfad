package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceOnePeriod(t *testing.T) {
	t.Run("call", func(t *testing.T) {
		price, err := PriceOnePeriod(120, 120, 0.04, 1.2, 1/1.2, Call, false)
		require.NoError(t, err)
		assert.InDelta(t, 13.047848773509642, price, equalityThreshold)
	})

	t.Run("put", func(t *testing.T) {
		price, err := PriceOnePeriod(100, 100, 0.05, 1.1, 1/1.1, Put, false)
		require.NoError(t, err)
		assert.InDelta(t, 2.2072555690850195, price, equalityThreshold)
	})

	t.Run("matches a single step lattice", func(t *testing.T) {
		for _, kind := range []OptionKind{Call, Put} {
			for _, strike := range []float64{90, 100, 110, 125} {
				onePeriod, err := PriceOnePeriod(100, strike, 0.03, 1.25, 0.8, kind, false)
				require.NoError(t, err)

				lattice, err := PriceBinomial(BinomialParams{
					Spot: 100, Strike: strike, Maturity: 1, Rate: 0.03,
					Steps: 1, Up: 1.25, Down: 0.8, Kind: kind,
				})
				require.NoError(t, err)

				assert.InDelta(t, onePeriod, lattice, equalityThreshold, "%s K=%v", kind, strike)
			}
		}
	})

	t.Run("put-call parity", func(t *testing.T) {
		call, err := PriceOnePeriod(100, 105, 0.02, 1.15, 1/1.15, Call, false)
		require.NoError(t, err)
		put, err := PriceOnePeriod(100, 105, 0.02, 1.15, 1/1.15, Put, false)
		require.NoError(t, err)

		assert.InDelta(t, 100-105*math.Exp(-0.02), call-put, equalityThreshold)
	})
}

func TestPriceOnePeriodValidation(t *testing.T) {
	_, err := PriceOnePeriod(100, 100, 0.05, 1, 1, Call, false)
	assert.ErrorIs(t, err, ErrInvalidFactors)

	_, err = PriceOnePeriod(100, 100, 0.05, 1.2, 0.8, "x", false)
	assert.ErrorIs(t, err, ErrUnknownOptionKind)

	_, err = PriceOnePeriod(-5, 100, 0.05, 1.2, 0.8, Call, false)
	assert.ErrorIs(t, err, ErrInvalidSpot)

	_, err = PriceOnePeriod(100, 100, 0.5, 1.2, 0.8, Call, false)
	assert.ErrorIs(t, err, ErrArbitrage)

	price, err := PriceOnePeriod(100, 100, 0.5, 1.2, 0.8, Call, true)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(price))
}
