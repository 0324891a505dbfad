package models

import "math"

func garmanKlassVariance(bars []Bar) float64 {
	sum := 0.0
	for _, b := range bars {
		hl := math.Log(b.High / b.Low)
		co := math.Log(b.Close / b.Open)
		sum += 0.5*hl*hl - (2*math.Ln2-1)*co*co
	}
	return sum / float64(len(bars))
}
