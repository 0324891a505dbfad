package models

import "math"

// parkinsonVariance is the daily high-low range estimator.
func parkinsonVariance(bars []Bar) float64 {
	sum := 0.0
	for _, b := range bars {
		hl := math.Log(b.High / b.Low)
		sum += hl * hl
	}
	return sum / (4 * float64(len(bars)) * math.Ln2)
}
