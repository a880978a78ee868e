package utils

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// TextPtr converts a nullable text column to a *string.
// NULL and empty values both become nil.
func TextPtr(t pgtype.Text) *string {
	if !t.Valid || t.String == "" {
		return nil
	}
	s := t.String
	return &s
}

// ToNullString converts a *string to a pgtype.Text.
// A nil pointer is considered invalid (NULL).
func ToNullString(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{
		String: *s,
		Valid:  true,
	}
}

// ToDate converts a calendar date to a pgtype.Date.
func ToDate(t time.Time) pgtype.Date {
	return pgtype.Date{
		Time:  time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

// FromDate converts a pgtype.Date to a UTC calendar date.
// A NULL value is converted to the zero time.
func FromDate(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}
