package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
	apperrors "github.com/lorrc/field-service-analytics/internal/core/errors"
	"github.com/lorrc/field-service-analytics/internal/core/mocks"
	"github.com/lorrc/field-service-analytics/internal/core/ports"
)

type invalidatorSpy struct{ calls int }

func (s *invalidatorSpy) Invalidate() { s.calls++ }

func newTestRouter(svc *mocks.MockUtilizationService, inv ports.ReferenceInvalidator, maxRangeDays int) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewUtilizationHandler(svc, inv, NewErrorHandler(logger), logger, maxRangeDays)

	r := chi.NewRouter()
	r.Route("/api/v1/analytics", func(r chi.Router) {
		h.RegisterRoutes(r)
		h.RegisterAdminRoutes(r)
	})
	return r
}

func serve(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeValidationFields(t *testing.T, rec *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	var body ValidationErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	return body.Fields
}

func TestHandleDailySnapshot(t *testing.T) {
	t.Run("returns snapshot", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()
		svc.On("GetDailySnapshot", mock.Anything, "2026-01-05").Return(&domain.DailySnapshot{
			Date:              "2026-01-05",
			TotalTechnicians:  4,
			ActiveTechnicians: 2,
			UtilizationRate:   50,
		}, nil)

		rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet, "/api/v1/analytics/utilization/daily?date=2026-01-05")

		require.Equal(t, http.StatusOK, rec.Code)
		var body domain.DailySnapshot
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 2, body.ActiveTechnicians)
		assert.Equal(t, 50.0, body.UtilizationRate)
		svc.AssertExpectations(t)
	})

	t.Run("missing date", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()

		rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet, "/api/v1/analytics/utilization/daily")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeValidationFields(t, rec), "date")
		svc.AssertNotCalled(t, "GetDailySnapshot", mock.Anything, mock.Anything)
	})

	t.Run("malformed date", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()

		rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet, "/api/v1/analytics/utilization/daily?date=05/01/2026")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeValidationFields(t, rec), "date")
	})

	t.Run("store unavailable", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()
		svc.On("GetDailySnapshot", mock.Anything, "2026-01-05").
			Return(nil, apperrors.NewDataAccessError("read assigned facts", errors.New("connection refused")))

		rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet, "/api/v1/analytics/utilization/daily?date=2026-01-05")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "DATA_UNAVAILABLE", body.Code)
		assert.NotContains(t, body.Error, "connection refused")
	})
}

func TestHandleRangeSummary(t *testing.T) {
	t.Run("returns summary", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()
		svc.On("GetRangeSummary", mock.Anything, "2026-01-01", "2026-01-31").
			Return(&domain.RangeSummary{StartDate: "2026-01-01", EndDate: "2026-01-31", Days: 31}, nil)

		rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet,
			"/api/v1/analytics/utilization/summary?start_date=2026-01-01&end_date=2026-01-31")

		require.Equal(t, http.StatusOK, rec.Code)
		var body domain.RangeSummary
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 31, body.Days)
	})

	t.Run("inverted range", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()

		rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet,
			"/api/v1/analytics/utilization/summary?start_date=2026-02-01&end_date=2026-01-01")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeValidationFields(t, rec), "start_date")
	})

	t.Run("range longer than the configured maximum", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()

		rec := serve(t, newTestRouter(svc, nil, 7), http.MethodGet,
			"/api/v1/analytics/utilization/summary?start_date=2026-01-01&end_date=2026-01-08")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeValidationFields(t, rec), "start_date")
	})

	t.Run("range of exactly the maximum", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()
		svc.On("GetRangeSummary", mock.Anything, "2026-01-01", "2026-01-07").
			Return(&domain.RangeSummary{Days: 7}, nil)

		rec := serve(t, newTestRouter(svc, nil, 7), http.MethodGet,
			"/api/v1/analytics/utilization/summary?start_date=2026-01-01&end_date=2026-01-07")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("every missing field is reported", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()

		rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet, "/api/v1/analytics/utilization/summary")

		fields := decodeValidationFields(t, rec)
		assert.Contains(t, fields, "start_date")
		assert.Contains(t, fields, "end_date")
	})
}

func TestHandleDistribution(t *testing.T) {
	svc := mocks.NewMockUtilizationService()
	svc.On("GetDistribution", mock.Anything, "2026-01-05", "2026-01-05").
		Return(&domain.DistributionReport{TotalTechnicians: 4, BalanceScore: 12.5}, nil)

	rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet,
		"/api/v1/analytics/workload/distribution?start_date=2026-01-05&end_date=2026-01-05")

	require.Equal(t, http.StatusOK, rec.Code)
	var body domain.DistributionReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 4, body.TotalTechnicians)
	assert.Equal(t, 12.5, body.BalanceScore)
}

func TestHandleTrend(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantInterval string
		wantStatus   int
	}{
		{name: "defaults to daily", query: "start_date=2026-01-01&end_date=2026-01-07", wantInterval: "daily", wantStatus: http.StatusOK},
		{name: "weekly", query: "start_date=2026-01-01&end_date=2026-01-31&interval=weekly", wantInterval: "weekly", wantStatus: http.StatusOK},
		{name: "case insensitive", query: "start_date=2026-01-01&end_date=2026-01-31&interval=Weekly", wantInterval: "weekly", wantStatus: http.StatusOK},
		{name: "unknown interval", query: "start_date=2026-01-01&end_date=2026-01-31&interval=monthly", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockUtilizationService()
			if tt.wantInterval != "" {
				svc.On("GetTrend", mock.Anything, mock.Anything, mock.Anything, tt.wantInterval).
					Return(&domain.TrendResult{Interval: domain.Interval(tt.wantInterval)}, nil)
			}

			rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet, "/api/v1/analytics/utilization/trend?"+tt.query)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleTechnicianDetail(t *testing.T) {
	t.Run("returns detail", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()
		svc.On("GetTechnicianDetail", mock.Anything, "tech-a", "2026-01-01", "2026-01-31").
			Return(&domain.TechnicianDetail{
				Technician: domain.TechnicianProfile{ID: "tech-a", FullName: "Alice"},
				Rank:       1,
			}, nil)

		rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet,
			"/api/v1/analytics/technicians/tech-a?start_date=2026-01-01&end_date=2026-01-31")

		require.Equal(t, http.StatusOK, rec.Code)
		var body domain.TechnicianDetail
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Alice", body.Technician.FullName)
		assert.Equal(t, 1, body.Rank)
	})

	t.Run("unknown technician", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()
		svc.On("GetTechnicianDetail", mock.Anything, "ghost", "2026-01-01", "2026-01-31").
			Return(nil, apperrors.ErrTechnicianNotFound)

		rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet,
			"/api/v1/analytics/technicians/ghost?start_date=2026-01-01&end_date=2026-01-31")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "TECHNICIAN_NOT_FOUND", body.Code)
	})

	t.Run("core validation error", func(t *testing.T) {
		svc := mocks.NewMockUtilizationService()
		svc.On("GetTechnicianDetail", mock.Anything, "tech-a", "2026-01-01", "2026-01-31").
			Return(nil, apperrors.ErrInvalidDateRange)

		rec := serve(t, newTestRouter(svc, nil, 0), http.MethodGet,
			"/api/v1/analytics/technicians/tech-a?start_date=2026-01-01&end_date=2026-01-31")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleInvalidateReferenceCache(t *testing.T) {
	spy := &invalidatorSpy{}
	rec := serve(t, newTestRouter(mocks.NewMockUtilizationService(), spy, 0), http.MethodPost,
		"/api/v1/analytics/reference-cache/invalidate")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, spy.calls)
}
