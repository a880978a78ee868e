package main

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
)

func TestParseOptions_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)

	opts, err := parseOptionsAt(nil, io.Discard, now)

	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", opts.end)
	assert.Equal(t, "2026-02-14", opts.start)
	assert.Equal(t, "daily", opts.interval)
	assert.Equal(t, formatText, opts.format)
}

func TestParseOptions_Explicit(t *testing.T) {
	opts, err := parseOptionsAt([]string{
		"-start", "2026-01-01", "-end", "2026-01-31", "-interval", "weekly", "-format", "json",
	}, io.Discard, time.Now())

	require.NoError(t, err)
	assert.Equal(t, options{start: "2026-01-01", end: "2026-01-31", interval: "weekly", format: formatJSON}, opts)
}

func TestParseOptions_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"-format", "csv"}},
		{name: "unknown flag", args: []string{"-bogus"}},
		{name: "positional argument", args: []string{"extra"}},
		{name: "malformed end without start", args: []string{"-end", "31/01/2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOptionsAt(tt.args, io.Discard, time.Now())
			assert.Error(t, err)
		})
	}
}

func sampleTrend(t *testing.T) *domain.TrendResult {
	t.Helper()
	start, err := domain.ParseDate("2026-01-05")
	require.NoError(t, err)
	end, err := domain.ParseDate("2026-01-07")
	require.NoError(t, err)

	var points []domain.PeriodPoint
	for i, active := range []int{2, 1, 3} {
		date := start.AddDate(0, 0, i)
		points = append(points, domain.PeriodPoint{
			Period:            date.Format(domain.DateLayout),
			ActiveTechnicians: active,
			TotalTechnicians:  4,
			TicketsAssigned:   active * 2,
			UtilizationRate:   domain.Percent(active, 4),
		})
	}

	return &domain.TrendResult{
		Interval:   domain.IntervalDaily,
		StartDate:  start.Format(domain.DateLayout),
		EndDate:    end.Format(domain.DateLayout),
		Points:     points,
		Summary:    domain.SummarizeTrend(points),
		Comparison: domain.CompareTrend(points),
	}
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, render(&buf, sampleTrend(t), formatText))

	out := buf.String()
	assert.Contains(t, out, "2026-01-05 to 2026-01-07")
	assert.Contains(t, out, "Utilization rate (%)")
	for _, period := range []string{"2026-01-05", "2026-01-06", "2026-01-07"} {
		assert.Contains(t, out, period)
	}
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "Peak period")
}

func TestRender_SinglePointHasNoChart(t *testing.T) {
	trend := sampleTrend(t)
	trend.Points = trend.Points[:1]

	out := renderText(trend)

	assert.NotContains(t, out, "Utilization rate (%)")
	assert.True(t, strings.Contains(out, "2026-01-05"))
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, render(&buf, sampleTrend(t), formatJSON))

	var decoded domain.TrendResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Points, 3)
	assert.Equal(t, domain.IntervalDaily, decoded.Interval)
}
