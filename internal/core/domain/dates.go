package domain

import (
	"strings"
	"time"

	apperrors "github.com/lorrc/field-service-analytics/internal/core/errors"
)

// DateLayout is the wire format of every date and period key.
const DateLayout = "2006-01-02"

// Interval is the width of a trend period.
type Interval string

const (
	IntervalDaily  Interval = "daily"
	IntervalWeekly Interval = "weekly"
)

// IsValid checks if the interval is supported.
func (i Interval) IsValid() bool {
	return i == IntervalDaily || i == IntervalWeekly
}

// ParseInterval converts a request value into an Interval.
func ParseInterval(value string) (Interval, error) {
	interval := Interval(strings.ToLower(strings.TrimSpace(value)))
	if !interval.IsValid() {
		return "", apperrors.ErrInvalidInterval
	}
	return interval, nil
}

// ParseDate parses a YYYY-MM-DD value as a UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperrors.ErrInvalidDate
	}
	return date, nil
}

// FormatDate renders a date in DateLayout.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange validates that start is not after end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return DateRange{}, apperrors.ErrInvalidDateRange
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange parses both bounds and validates their order.
func ParseDateRange(startDate, endDate string) (DateRange, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(start, end)
}

// SingleDay returns the range covering exactly one date.
func SingleDay(date time.Time) DateRange {
	day := truncateDay(date)
	return DateRange{Start: day, End: day}
}

// Days returns the number of calendar dates in the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	day := truncateDay(date)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Dates enumerates every calendar date in the range.
func (r DateRange) Dates() []time.Time {
	dates := make([]time.Time, 0, r.Days())
	for current := r.Start; !current.After(r.End); current = current.AddDate(0, 0, 1) {
		dates = append(dates, current)
	}
	return dates
}

func (r DateRange) String() string {
	return FormatDate(r.Start) + ".." + FormatDate(r.End)
}

// WeekStart returns the Monday of the ISO week containing date.
// Sunday maps back six days.
func WeekStart(date time.Time) time.Time {
	day := truncateDay(date)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// PeriodKey returns the canonical key of the period containing date.
func PeriodKey(date time.Time, interval Interval) string {
	if interval == IntervalWeekly {
		return FormatDate(WeekStart(date))
	}
	return FormatDate(date)
}

// PeriodKeys enumerates every period key spanning the range, in order.
func PeriodKeys(r DateRange, interval Interval) []string {
	if interval != IntervalWeekly {
		keys := make([]string, 0, r.Days())
		for _, date := range r.Dates() {
			keys = append(keys, FormatDate(date))
		}
		return keys
	}

	keys := make([]string, 0, r.Days()/7+2)
	for current := WeekStart(r.Start); !current.After(r.End); current = current.AddDate(0, 0, 7) {
		keys = append(keys, FormatDate(current))
	}
	return keys
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
