package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataAccessError(t *testing.T) {
	cause := errors.New("connection reset")

	err := NewDataAccessError("read assigned facts", cause)

	assert.ErrorIs(t, err, ErrDataAccess)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "read assigned facts: connection reset", err.Error())
}

func TestDataAccessError_NilAndNested(t *testing.T) {
	assert.NoError(t, NewDataAccessError("op", nil))

	inner := NewDataAccessError("read technician roster", errors.New("timeout"))
	outer := NewDataAccessError("load report", fmt.Errorf("wrapped: %w", inner))

	var dae *DataAccessError
	assert.True(t, errors.As(outer, &dae))
	assert.Equal(t, "read technician roster", dae.Op)
}

func TestValidationSentinels(t *testing.T) {
	for _, err := range []error{ErrInvalidDate, ErrInvalidDateRange, ErrInvalidInterval, ErrTechnicianIDRequired} {
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.ErrorIs(t, ErrTechnicianNotFound, ErrNotFound)
	assert.NotErrorIs(t, ErrTechnicianNotFound, ErrValidation)
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	assert.False(t, v.HasErrors())

	v.Add("start_date", "This field is required")
	v.Add("start_date", "Must be a date in YYYY-MM-DD format")
	v.Add("end_date", "This field is required")

	assert.True(t, v.HasErrors())
	assert.Len(t, v.Errors["start_date"], 2)
	assert.ErrorIs(t, v, ErrValidation)
	assert.Equal(t, "validation failed: 2 field(s) have errors", v.Error())
}

func TestAppError(t *testing.T) {
	err := &AppError{Err: ErrNotFound, StatusCode: 404, Code: "NOT_FOUND"}
	assert.Equal(t, ErrNotFound.Error(), err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	err.Message = "Technician not on roster"
	assert.Equal(t, "Technician not on roster", err.Error())
}
