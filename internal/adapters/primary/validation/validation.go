package validation

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
	apperrors "github.com/lorrc/field-service-analytics/internal/core/errors"
)

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Required validates that a string is not empty
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, "This field is required")
	}
	return v
}

// MaxLength validates maximum string length
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if len(value) > max {
		v.errors.Add(field, "Must be at most "+strconv.Itoa(max)+" characters")
	}
	return v
}

// OneOf validates value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v // Empty is handled by Required
	}

	for _, a := range allowed {
		if value == a {
			return v
		}
	}

	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Date validates a YYYY-MM-DD calendar date
func (v *Validator) Date(field, value string) *Validator {
	if value == "" {
		return v // Empty is handled by Required
	}
	if _, err := time.Parse(domain.DateLayout, value); err != nil {
		v.errors.Add(field, "Must be a date in YYYY-MM-DD format")
	}
	return v
}

// DateRange validates that start is not after end and that the inclusive
// span does not exceed maxDays. Malformed bounds are left to Date.
func (v *Validator) DateRange(startField, start, end string, maxDays int) *Validator {
	startDate, err := time.Parse(domain.DateLayout, start)
	if err != nil {
		return v
	}
	endDate, err := time.Parse(domain.DateLayout, end)
	if err != nil {
		return v
	}

	if endDate.Before(startDate) {
		v.errors.Add(startField, "Must not be after end_date")
		return v
	}
	days := int(endDate.Sub(startDate).Hours()/24) + 1
	if maxDays > 0 && days > maxDays {
		v.errors.Add(startField, "Range must not exceed "+strconv.Itoa(maxDays)+" days")
	}
	return v
}

// ParseStringQueryParam returns the trimmed query parameter, or
// defaultValue when it is absent or blank.
func ParseStringQueryParam(r *http.Request, key, defaultValue string) string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	return value
}
