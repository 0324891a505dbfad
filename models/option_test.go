package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionKind(t *testing.T) {
	for _, in := range []string{"c", "C", "call", "Call", " CALL "} {
		kind, err := ParseOptionKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, Call, kind)
	}
	for _, in := range []string{"p", "P", "put", "Put"} {
		kind, err := ParseOptionKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, Put, kind)
	}

	_, err := ParseOptionKind("straddle")
	assert.ErrorIs(t, err, ErrUnknownOptionKind)
}

func TestOptionKindPayoff(t *testing.T) {
	assert.Equal(t, 5.0, Call.Payoff(105, 100))
	assert.Equal(t, 0.0, Call.Payoff(95, 100))
	assert.Equal(t, 5.0, Put.Payoff(95, 100))
	assert.Equal(t, 0.0, Put.Payoff(105, 100))
}
