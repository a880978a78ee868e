package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
)

func TestCalculateDistribution(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   domain.DistributionStats
	}{
		{
			name:   "empty input is all zero",
			values: nil,
			want:   domain.DistributionStats{},
		},
		{
			name:   "single value",
			values: []int{7},
			want:   domain.DistributionStats{Min: 7, Max: 7, Avg: 7, Median: 7, Q1: 7, Q2: 7, Q3: 7},
		},
		{
			name:   "even length averages the middle pair",
			values: []int{4, 1, 3, 2},
			want:   domain.DistributionStats{Min: 1, Max: 4, Avg: 2.5, Median: 2.5, StdDev: 1.12, Q1: 2, Q2: 3, Q3: 4},
		},
		{
			name:   "odd length",
			values: []int{5, 1, 9, 3, 7},
			want:   domain.DistributionStats{Min: 1, Max: 9, Avg: 5, Median: 5, StdDev: 2.83, Q1: 3, Q2: 5, Q3: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CalculateDistribution(tt.values))
		})
	}
}

func TestCalculateDistribution_DoesNotReorderInput(t *testing.T) {
	values := []int{3, 1, 2}
	domain.CalculateDistribution(values)
	assert.Equal(t, []int{3, 1, 2}, values)
}

func TestCalculateDistribution_MedianWithinBounds(t *testing.T) {
	samples := [][]int{
		{1},
		{0, 0},
		{10, 0, 5},
		{2, 2, 2, 9},
		{100, 3, 57, 3, 0, 12},
		{1, 1, 1, 1, 1, 1, 50},
	}

	for _, xs := range samples {
		stats := domain.CalculateDistribution(xs)
		assert.LessOrEqual(t, float64(stats.Min), stats.Median, "sample %v", xs)
		assert.LessOrEqual(t, stats.Median, float64(stats.Max), "sample %v", xs)
		assert.LessOrEqual(t, stats.Q1, stats.Q2, "sample %v", xs)
		assert.LessOrEqual(t, stats.Q2, stats.Q3, "sample %v", xs)
	}
}

func TestBalanceScore(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   float64
	}{
		{"empty", nil, 100},
		{"single technician", []int{5}, 100},
		{"all equal", []int{5, 5, 5}, 100},
		{"all zero", []int{0, 0, 0}, 100},
		{"even spread", []int{2, 2, 2, 2}, 100},
		{"one technician carries everything", []int{0, 0, 0, 8}, 0},
		{"maximally skewed pair", []int{0, 10}, 0},
		{"mild skew", []int{4, 6}, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, domain.BalanceScore(tt.counts), 0.001)
		})
	}
}

func TestBalanceScore_MoreSkewScoresLower(t *testing.T) {
	assert.Less(t, domain.BalanceScore([]int{0, 10}), domain.BalanceScore([]int{4, 6}))
	assert.Less(t, domain.BalanceScore([]int{1, 9}), domain.BalanceScore([]int{3, 7}))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, domain.Percent(0, 10))
	assert.Equal(t, 0.0, domain.Percent(3, 0))
	assert.Equal(t, 50.0, domain.Percent(2, 4))
	assert.Equal(t, 33.33, domain.Percent(1, 3))
	assert.Equal(t, 100.0, domain.Percent(5, 4), "clamped")
}

func TestRatioAndPercentChange(t *testing.T) {
	assert.Equal(t, 0.0, domain.Ratio(4, 0))
	assert.Equal(t, 1.33, domain.Ratio(4, 3))

	assert.Equal(t, 0.0, domain.PercentChange(0, 10))
	assert.Equal(t, 50.0, domain.PercentChange(10, 15))
	assert.Equal(t, -100.0, domain.PercentChange(10, 0))
}

func TestStdDev_Population(t *testing.T) {
	assert.InDelta(t, 2.0, domain.StdDev([]int{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	assert.Equal(t, 0.0, domain.StdDev(nil))
	assert.False(t, math.IsNaN(domain.Mean(nil)))
}
