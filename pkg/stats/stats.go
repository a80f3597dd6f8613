package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Observed returns the non-NaN values of x (allocates a copy).
func Observed(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean computes the average of the observed values of x. It returns NaN when
// nothing is observed.
func Mean(x []float64) float64 {
	obs := Observed(x)
	if len(obs) == 0 {
		return math.NaN()
	}
	return stat.Mean(obs, nil)
}

// MeanStd returns the mean and the population standard deviation of the
// observed values of x, and how many values were observed.
func MeanStd(x []float64) (mean, std float64, n int) {
	obs := Observed(x)
	if len(obs) == 0 {
		return math.NaN(), math.NaN(), 0
	}
	mean, std = stat.PopMeanStdDev(obs, nil)
	return mean, std, len(obs)
}

// CountMissing returns the number of NaN values in x.
func CountMissing(x []float64) int {
	n := 0
	for _, v := range x {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}
