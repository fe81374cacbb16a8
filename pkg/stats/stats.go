// Package stats provides statistical utility functions for analyzers.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile returns the nearest-rank p-th percentile (p in 0..100) of an
// ascending slice: the smallest value with at least p% of the sample at or
// below it. An empty slice yields 0.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	rank = max(1, min(rank, len(sorted)))
	return sorted[rank-1]
}

// Summary holds the usual descriptive statistics of a sample.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Median float64
	P90    float64
	Min    float64
	Max    float64
}

// Describe computes a Summary. The input is not modified. StdDev is the
// population deviation, Median the lower median and P90 the
// nearest-rank 90th percentile.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, variance := stat.PopMeanVariance(sorted, nil)
	return Summary{
		N:      len(sorted),
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    Percentile(sorted, 90),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// Ints converts integer scores for use with Describe.
func Ints(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
