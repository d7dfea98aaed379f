package game

import (
	"math"
	"slices"
)

// Mean ...
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Median returns the median of data without reordering it.
func Median(data []float64) float64 {
	count := len(data)
	if count == 0 {
		return 0
	}
	sorted := slices.Sorted(slices.Values(data))
	if count%2 != 0 {
		return sorted[count/2]
	}
	return (sorted[count/2-1] + sorted[count/2]) * 0.5
}

// StandardDeviation ...
func StandardDeviation(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	mean := Mean(data)
	var variance float64
	for _, v := range data {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(data)))
}
