package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
)

func TestBuildTrend_GapFillsDailySeries(t *testing.T) {
	r := mustRange(t, "2026-01-01", "2026-01-07")
	facts := []domain.Fact{
		newFact("tech-a", "T-1", mustDate(t, "2026-01-01")),
		newFact("tech-b", "T-2", mustDate(t, "2026-01-07")),
	}

	trend := domain.BuildTrend(domain.TrendInput{
		Range:            r,
		Interval:         domain.IntervalDaily,
		Assigned:         facts,
		TotalTechnicians: 4,
	})

	require.Len(t, trend.Points, 7)
	assert.Equal(t, "2026-01-01", trend.Points[0].Period)
	assert.Equal(t, 1, trend.Points[0].ActiveTechnicians)
	assert.Equal(t, 25.0, trend.Points[0].UtilizationRate)
	for _, point := range trend.Points[1:6] {
		assert.Equal(t, domain.NewPeriodPoint(point.Period, 0, 4, 0, 0), point)
	}
	assert.Equal(t, "2026-01-07", trend.Points[6].Period)
	assert.Equal(t, 1, trend.Points[6].TicketsAssigned)
}

func TestBuildTrend_Weekly(t *testing.T) {
	r := mustRange(t, "2026-01-05", "2026-01-18")
	assigned := []domain.Fact{
		newFact("tech-a", "T-1", mustDate(t, "2026-01-05")),
		newFact("tech-a", "T-2", mustDate(t, "2026-01-11")), // Sunday, same week
		newFact("tech-b", "T-3", mustDate(t, "2026-01-12")),
		newFact("tech-c", "T-4", mustDate(t, "2026-01-19")), // outside range
	}
	confirmed := []domain.Fact{
		newFact("tech-a", "T-1", mustDate(t, "2026-01-06")),
	}

	trend := domain.BuildTrend(domain.TrendInput{
		Range:            r,
		Interval:         domain.IntervalWeekly,
		Assigned:         assigned,
		Confirmed:        confirmed,
		TotalTechnicians: 2,
	})

	assert.Equal(t, domain.IntervalWeekly, trend.Interval)
	require.Len(t, trend.Points, 2)
	first, second := trend.Points[0], trend.Points[1]
	assert.Equal(t, "2026-01-05", first.Period)
	assert.Equal(t, 2, first.TicketsAssigned)
	assert.Equal(t, 1, first.TicketsConfirmed)
	assert.Equal(t, 50.0, first.ConfirmationRate)
	assert.Equal(t, "2026-01-12", second.Period)
	assert.Equal(t, 1, second.TicketsAssigned)
	assert.Equal(t, 1, second.ActiveTechnicians)
}

func TestBuildTrend_InvalidIntervalDefaultsToDaily(t *testing.T) {
	trend := domain.BuildTrend(domain.TrendInput{
		Range:    mustRange(t, "2026-01-05", "2026-01-06"),
		Interval: domain.Interval("hourly"),
	})
	assert.Equal(t, domain.IntervalDaily, trend.Interval)
	assert.Len(t, trend.Points, 2)
}

func TestNewPeriodPoint_ZeroGuards(t *testing.T) {
	point := domain.NewPeriodPoint("2026-01-01", 0, 10, 0, 0)
	assert.Equal(t, 0.0, point.UtilizationRate)
	assert.Equal(t, 0.0, point.ConfirmationRate)
	assert.Equal(t, 0.0, point.AvgTicketsPerTechnician)

	empty := domain.NewPeriodPoint("2026-01-01", 0, 0, 0, 0)
	for _, v := range []float64{empty.UtilizationRate, empty.ConfirmationRate, empty.AvgTicketsPerTechnician} {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func pointsWithUtilization(rates ...int) []domain.PeriodPoint {
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	points := make([]domain.PeriodPoint, 0, len(rates))
	for i, active := range rates {
		period := domain.FormatDate(base.AddDate(0, 0, i))
		points = append(points, domain.NewPeriodPoint(period, active, 100, active, 0))
	}
	return points
}

func TestSummarizeTrend(t *testing.T) {
	t.Run("empty series", func(t *testing.T) {
		summary := domain.SummarizeTrend(nil)
		assert.Equal(t, domain.NoPeriod, summary.PeakPeriod)
		assert.Equal(t, domain.NoPeriod, summary.LowestPeriod)
		assert.Equal(t, 0, summary.PeakActiveTechnicians)
	})

	t.Run("all zero periods", func(t *testing.T) {
		summary := domain.SummarizeTrend(pointsWithUtilization(0, 0, 0))
		assert.Equal(t, domain.NoPeriod, summary.PeakPeriod)
		assert.Equal(t, domain.NoPeriod, summary.LowestPeriod)
		assert.Equal(t, 0, summary.LowestActiveTechnicians)
	})

	t.Run("lowest ignores zero periods", func(t *testing.T) {
		summary := domain.SummarizeTrend(pointsWithUtilization(4, 0, 2, 6))
		assert.Equal(t, "2026-01-08", summary.PeakPeriod)
		assert.Equal(t, 6, summary.PeakActiveTechnicians)
		assert.Equal(t, "2026-01-07", summary.LowestPeriod)
		assert.Equal(t, 2, summary.LowestActiveTechnicians)
		assert.Equal(t, 3.0, summary.AvgActiveTechnicians)
		assert.Equal(t, 3.0, summary.AvgUtilizationRate)
		assert.Equal(t, 12, summary.TotalTicketsAssigned)
	})
}

func TestCompareTrend_Direction(t *testing.T) {
	tests := []struct {
		name string
		util []int
		want domain.TrendDirection
	}{
		{"rising", []int{10, 10, 20, 20}, domain.TrendIncreasing},
		{"falling", []int{20, 20, 10, 10}, domain.TrendDecreasing},
		{"within threshold", []int{50, 50, 52, 52}, domain.TrendStable},
		{"zero first half", []int{0, 0, 10, 10}, domain.TrendStable},
		{"single point", []int{50}, domain.TrendStable},
		{"odd length puts the middle in the second half", []int{10, 10, 40}, domain.TrendIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CompareTrend(pointsWithUtilization(tt.util...)).Direction)
		})
	}
}

func TestCompareTrend_FirstVersusLastIsIndependent(t *testing.T) {
	// Halves rise while the last point sits below the first.
	comparison := domain.CompareTrend(pointsWithUtilization(20, 10, 60, 15))

	assert.Equal(t, domain.TrendIncreasing, comparison.Direction)
	assert.Equal(t, 150.0, comparison.HalfOverHalfChange)
	assert.Equal(t, -25.0, comparison.UtilizationChange)
	assert.Equal(t, -25.0, comparison.TicketVolumeChange)
	assert.Equal(t, "2026-01-05", comparison.FirstPeriod)
	assert.Equal(t, "2026-01-08", comparison.LastPeriod)
}

func TestCompareTrend_Empty(t *testing.T) {
	comparison := domain.CompareTrend(nil)
	assert.Equal(t, domain.TrendStable, comparison.Direction)
	assert.Equal(t, domain.NoPeriod, comparison.FirstPeriod)
	assert.Equal(t, domain.NoPeriod, comparison.LastPeriod)
}
