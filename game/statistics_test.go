package game

import (
	"math"
	"testing"
)

func TestStatistics(t *testing.T) {
	data := []float64{4, 1, 3, 2}
	if got := Mean(data); got != 2.5 {
		t.Fatalf("mean: got %v", got)
	}
	if got := Median(data); got != 2.5 {
		t.Fatalf("median: got %v", got)
	}
	if data[0] != 4 {
		t.Fatalf("median reordered its input: %v", data)
	}
	if got := Median(data[:3]); got != 3 {
		t.Fatalf("odd median: got %v", got)
	}
	if got := StandardDeviation(data); math.Abs(got-math.Sqrt(1.25)) > 1e-12 {
		t.Fatalf("standard deviation: got %v", got)
	}
	if Mean(nil) != 0 || Median(nil) != 0 || StandardDeviation(nil) != 0 {
		t.Fatalf("empty data should yield zero")
	}
}
