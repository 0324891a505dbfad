package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

var (
	ErrInvalidSpot       = errors.New("spot price must be positive and finite")
	ErrInvalidStrike     = errors.New("strike must be positive and finite")
	ErrInvalidMaturity   = errors.New("maturity must be positive and finite")
	ErrInvalidRate       = errors.New("risk-free rate must be finite")
	ErrInvalidSteps      = errors.New("step count out of range")
	ErrInvalidFactors    = errors.New("factors must satisfy up > down > 0")
	ErrInvalidVolatility = errors.New("volatility must be positive and finite")
	ErrArbitrage         = errors.New("risk-neutral probability outside (0, 1)")
	ErrUnknownOptionKind = errors.New("unrecognized option kind")
)

// ParseOptionKind accepts "call"/"c" and "put"/"p" in any case.
func ParseOptionKind(s string) (OptionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "call":
		return Call, nil
	case "p", "put":
		return Put, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOptionKind, s)
}

func (k OptionKind) Validate() error {
	if k != Call && k != Put {
		return fmt.Errorf("%w: %q", ErrUnknownOptionKind, string(k))
	}
	return nil
}

// Payoff is the settlement value of the option at the given underlying price.
func (k OptionKind) Payoff(price, strike float64) float64 {
	if k == Put {
		return math.Max(0, strike-price)
	}
	return math.Max(0, price-strike)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validatePositive(v float64, err error) error {
	if !isFinite(v) || v <= 0 {
		return fmt.Errorf("%w: got %v", err, v)
	}
	return nil
}

func validateFactors(up, down float64) error {
	if !isFinite(up) || !isFinite(down) || down <= 0 || up <= down {
		return fmt.Errorf("%w: up=%v down=%v", ErrInvalidFactors, up, down)
	}
	return nil
}

func validateProbability(q float64, allowArbitrage bool) error {
	if allowArbitrage {
		return nil
	}
	if !(q > 0 && q < 1) {
		return fmt.Errorf("%w: q=%v", ErrArbitrage, q)
	}
	return nil
}
