package models

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// yangZhangVariance combines overnight, open-to-close and Rogers-Satchell
// variances. The first bar only anchors the first overnight return.
func yangZhangVariance(bars []Bar) float64 {
	n := len(bars) - 1
	if n < 2 {
		return rogersSatchellVariance(bars)
	}

	overnight := make([]float64, n)
	openClose := make([]float64, n)
	for i := 1; i <= n; i++ {
		overnight[i-1] = math.Log(bars[i].Open / bars[i-1].Close)
		openClose[i-1] = math.Log(bars[i].Close / bars[i].Open)
	}

	k := 0.34 / (1.34 + float64(n+1)/float64(n-1))
	return stat.Variance(overnight, nil) + k*stat.Variance(openClose, nil) + (1-k)*rogersSatchellVariance(bars[1:])
}
