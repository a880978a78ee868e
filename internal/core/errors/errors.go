package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent invalid requests or failed lookups
var (
	// Authentication & Authorization
	ErrForbidden    = errors.New("action forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// Request validation
	ErrValidation           = errors.New("validation failed")
	ErrInvalidDate          = fmt.Errorf("%w: date must use the YYYY-MM-DD format", ErrValidation)
	ErrInvalidDateRange     = fmt.Errorf("%w: start date must not be after end date", ErrValidation)
	ErrInvalidInterval      = fmt.Errorf("%w: interval must be daily or weekly", ErrValidation)
	ErrTechnicianIDRequired = fmt.Errorf("%w: technician ID is required", ErrValidation)

	// Lookups
	ErrNotFound           = errors.New("resource not found")
	ErrTechnicianNotFound = fmt.Errorf("technician %w", ErrNotFound)

	// Store access
	ErrDataAccess = errors.New("data access failed")

	ErrRateLimited = errors.New("rate limit exceeded")
)

// DataAccessError reports a failed read against the underlying store.
// It is never retried by the analytics core.
type DataAccessError struct {
	Op  string // e.g. "read assigned facts"
	Err error
}

// NewDataAccessError wraps err unless it is nil or already a DataAccessError.
func NewDataAccessError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *DataAccessError
	if errors.As(err, &existing) {
		return err
	}
	return &DataAccessError{Op: op, Err: err}
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDataAccess) match any DataAccessError.
func (e *DataAccessError) Is(target error) bool {
	return target == ErrDataAccess
}

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]any
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}

// Is lets errors.Is(err, ErrValidation) match field validation failures.
func (v *ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}
