package models

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

const tradingDaysPerYear = 252

// Bar is one daily OHLC observation.
type Bar struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

type VolatilityMethod string

const (
	CloseToClose   VolatilityMethod = "close"
	Parkinson      VolatilityMethod = "parkinson"
	GarmanKlass    VolatilityMethod = "garman-klass"
	RogersSatchell VolatilityMethod = "rogers-satchell"
	YangZhang      VolatilityMethod = "yang-zhang"
)

var (
	ErrInsufficientHistory = errors.New("not enough bars to estimate volatility")
	ErrInvalidBar          = errors.New("bar prices must be positive with low <= open, close <= high")
	ErrUnknownMethod       = errors.New("unrecognized volatility method")
)

var volatilityPeriods = []struct {
	name string
	days int
}{
	{"1w", 5},
	{"1m", 21},
	{"3m", 63},
	{"6m", 126},
	{"1y", 252},
}

func ParseVolatilityMethod(s string) (VolatilityMethod, error) {
	m := VolatilityMethod(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case CloseToClose, Parkinson, GarmanKlass, RogersSatchell, YangZhang:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// EstimateVolatility returns the annualized volatility of the bars using the
// given estimator.
func EstimateVolatility(bars []Bar, method VolatilityMethod) (float64, error) {
	if len(bars) < 2 {
		return 0, fmt.Errorf("%w: have %d, need at least 2", ErrInsufficientHistory, len(bars))
	}
	for i, b := range bars {
		if !(b.Open > 0 && b.High > 0 && b.Low > 0 && b.Close > 0) {
			return 0, fmt.Errorf("%w: bar %d", ErrInvalidBar, i)
		}
		if b.Low > math.Min(b.Open, b.Close) || b.High < math.Max(b.Open, b.Close) {
			return 0, fmt.Errorf("%w: bar %d range [%v, %v] excludes open %v or close %v", ErrInvalidBar, i, b.Low, b.High, b.Open, b.Close)
		}
	}

	var variance float64
	switch method {
	case CloseToClose:
		variance = closeToCloseVariance(bars)
	case Parkinson:
		variance = parkinsonVariance(bars)
	case GarmanKlass:
		variance = garmanKlassVariance(bars)
	case RogersSatchell:
		variance = rogersSatchellVariance(bars)
	case YangZhang:
		variance = yangZhangVariance(bars)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, string(method))
	}

	return math.Sqrt(math.Max(variance, 0) * tradingDaysPerYear), nil
}

// VolatilityByPeriod estimates volatility over trailing windows (1w, 1m, 3m,
// 6m, 1y). Windows longer than the history are skipped.
func VolatilityByPeriod(bars []Bar, method VolatilityMethod) (map[string]float64, error) {
	results := make(map[string]float64)
	for _, period := range volatilityPeriods {
		if len(bars) < period.days {
			continue
		}
		vol, err := EstimateVolatility(bars[len(bars)-period.days:], method)
		if err != nil {
			return nil, fmt.Errorf("period %s: %w", period.name, err)
		}
		results[period.name] = vol
	}
	return results, nil
}

func closeToCloseVariance(bars []Bar) float64 {
	returns := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		returns[i-1] = math.Log(bars[i].Close / bars[i-1].Close)
	}
	if len(returns) < 2 {
		return returns[0] * returns[0]
	}
	return stat.Variance(returns, nil)
}
