package domain

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// DistributionStats summarizes an integer sample.
type DistributionStats struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
	Q1     int     `json:"q1"`
	Q2     int     `json:"q2"`
	Q3     int     `json:"q3"`
}

// CalculateDistribution computes DistributionStats over values. An empty
// input yields the zero value. Quartiles use nearest rank (index floor(n*p))
// on the sorted sample and the standard deviation is the population one.
func CalculateDistribution(values []int) DistributionStats {
	n := len(values)
	if n == 0 {
		return DistributionStats{}
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	mean := Mean(sorted)

	var median float64
	if n%2 == 0 {
		median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	} else {
		median = float64(sorted[n/2])
	}

	return DistributionStats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Avg:    round2(mean),
		Median: round2(median),
		StdDev: round2(StdDev(sorted)),
		Q1:     nearestRank(sorted, 0.25),
		Q2:     nearestRank(sorted, 0.50),
		Q3:     nearestRank(sorted, 0.75),
	}
}

// Mean returns the arithmetic mean, zero for an empty input.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(lo.Sum(values)) / float64(len(values))
}

// StdDev returns the population standard deviation, zero for an empty input.
func StdDev(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		diff := float64(v) - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)))
}

// BalanceScore maps workload dispersion onto 0-100 using the coefficient of
// variation: clamp((1 - stddev/mean) * 100). A single entity or an all-zero
// sample has no inequality to measure and scores 100.
func BalanceScore(counts []int) float64 {
	if len(counts) <= 1 {
		return 100
	}
	mean := Mean(counts)
	if mean == 0 {
		return 100
	}
	score := (1 - StdDev(counts)/mean) * 100
	return round2(clamp(score, 0, 100))
}

func nearestRank(sorted []int, p float64) int {
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Percent returns part/whole*100 rounded to 2 decimals and clamped to
// [0,100]. A zero whole yields 0.
func Percent(part, whole int) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return round2(clamp(float64(part)/float64(whole)*100, 0, 100))
}

// Ratio returns numerator/denominator rounded to 2 decimals, zero when the
// denominator is zero.
func Ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return round2(numerator / denominator)
}

// PercentChange returns the relative change from before to after as a
// percentage. A zero baseline yields 0.
func PercentChange(before, after float64) float64 {
	if before == 0 {
		return 0
	}
	return round2((after - before) / before * 100)
}

func round2(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return math.Round(value*100) / 100
}

func clamp(value, low, high float64) float64 {
	return math.Max(low, math.Min(high, value))
}
