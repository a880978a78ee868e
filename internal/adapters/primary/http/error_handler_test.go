package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/field-service-analytics/internal/core/errors"
)

func TestErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid date", err: apperrors.ErrInvalidDate, wantStatus: http.StatusBadRequest, wantCode: "INVALID_DATE"},
		{name: "inverted range", err: apperrors.ErrInvalidDateRange, wantStatus: http.StatusBadRequest, wantCode: "INVALID_DATE_RANGE"},
		{name: "bad interval", err: apperrors.ErrInvalidInterval, wantStatus: http.StatusBadRequest, wantCode: "INVALID_INTERVAL"},
		{name: "blank technician", err: apperrors.ErrTechnicianIDRequired, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "technician not found", err: fmt.Errorf("detail: %w", apperrors.ErrTechnicianNotFound), wantStatus: http.StatusNotFound, wantCode: "TECHNICIAN_NOT_FOUND"},
		{name: "data access", err: apperrors.NewDataAccessError("read technician roster", errors.New("timeout")), wantStatus: http.StatusServiceUnavailable, wantCode: "DATA_UNAVAILABLE"},
		{name: "caller cancelled", err: context.Canceled, wantStatus: StatusClientClosedRequest, wantCode: "REQUEST_CANCELLED"},
		{name: "deadline exceeded", err: fmt.Errorf("read assigned facts: %w", context.DeadlineExceeded), wantStatus: http.StatusGatewayTimeout, wantCode: "REQUEST_TIMEOUT"},
		{name: "forbidden", err: apperrors.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "rate limited", err: apperrors.ErrRateLimited, wantStatus: http.StatusTooManyRequests, wantCode: "RATE_LIMITED"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
		{name: "app error", err: &apperrors.AppError{Err: errors.New("x"), Message: "Teapot", Code: "TEAPOT", StatusCode: http.StatusTeapot}, wantStatus: http.StatusTeapot, wantCode: "TEAPOT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			h := NewErrorHandler(slog.New(slog.NewJSONHandler(&logs, nil)))

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/utilization/daily", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, logs.String())
		})
	}
}

func TestErrorHandler_ServerErrorsLogAtErrorLevel(t *testing.T) {
	var logs bytes.Buffer
	h := NewErrorHandler(slog.New(slog.NewJSONHandler(&logs, nil)))

	h.Handle(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil),
		apperrors.NewDataAccessError("read assigned facts", errors.New("connection refused")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Contains(t, entry["error"], "connection refused")
}

func TestErrorHandler_AbortedRequestsLogAtInfoLevel(t *testing.T) {
	for _, err := range []error{context.Canceled, context.DeadlineExceeded} {
		t.Run(err.Error(), func(t *testing.T) {
			var logs bytes.Buffer
			h := NewErrorHandler(slog.New(slog.NewJSONHandler(&logs, nil)))

			h.Handle(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), err)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
			assert.Equal(t, "INFO", entry["level"])
			assert.Equal(t, "request aborted", entry["msg"])
		})
	}
}
