package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/field-service-analytics/internal/adapters/primary/validation"
	"github.com/lorrc/field-service-analytics/internal/core/domain"
	"github.com/lorrc/field-service-analytics/internal/core/ports"
)

// DefaultMaxRangeDays bounds report ranges when no limit is configured.
const DefaultMaxRangeDays = 366

// UtilizationHandler serves the workload analytics reports.
type UtilizationHandler struct {
	service      ports.UtilizationService
	invalidator  ports.ReferenceInvalidator
	errorHandler *ErrorHandler
	logger       *slog.Logger
	maxRangeDays int
}

// NewUtilizationHandler creates a new UtilizationHandler. invalidator may be
// nil when reference data is not cached.
func NewUtilizationHandler(
	service ports.UtilizationService,
	invalidator ports.ReferenceInvalidator,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
	maxRangeDays int,
) *UtilizationHandler {
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	return &UtilizationHandler{
		service:      service,
		invalidator:  invalidator,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "utilization"),
		maxRangeDays: maxRangeDays,
	}
}

// RegisterRoutes registers the report routes, relative to /api/v1/analytics.
func (h *UtilizationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/utilization/daily", h.HandleDailySnapshot)
	r.Get("/utilization/summary", h.HandleRangeSummary)
	r.Get("/utilization/trend", h.HandleTrend)
	r.Get("/workload/distribution", h.HandleDistribution)
	r.Get("/technicians/{technicianID}", h.HandleTechnicianDetail)
}

// RegisterAdminRoutes registers maintenance routes that need a stricter role.
func (h *UtilizationHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/reference-cache/invalidate", h.HandleInvalidateReferenceCache)
}

// HandleDailySnapshot handles GET /utilization/daily?date=
func (h *UtilizationHandler) HandleDailySnapshot(w http.ResponseWriter, r *http.Request) {
	date := validation.ParseStringQueryParam(r, "date", "")

	v := validation.NewValidator()
	v.Required("date", date).Date("date", date)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	snapshot, err := h.service.GetDailySnapshot(r.Context(), date)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

// HandleRangeSummary handles GET /utilization/summary?start_date=&end_date=
func (h *UtilizationHandler) HandleRangeSummary(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetRangeSummary(r.Context(), start, end)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// HandleDistribution handles GET /workload/distribution?start_date=&end_date=
func (h *UtilizationHandler) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetDistribution(r.Context(), start, end)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// HandleTrend handles GET /utilization/trend?start_date=&end_date=&interval=
func (h *UtilizationHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	interval := strings.ToLower(validation.ParseStringQueryParam(r, "interval", string(domain.IntervalDaily)))
	start, end, ok := h.parseRange(w, r, func(v *validation.Validator) {
		v.OneOf("interval", interval, []string{string(domain.IntervalDaily), string(domain.IntervalWeekly)})
	})
	if !ok {
		return
	}

	trend, err := h.service.GetTrend(r.Context(), start, end, interval)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, trend)
}

// HandleTechnicianDetail handles GET /technicians/{technicianID}?start_date=&end_date=
func (h *UtilizationHandler) HandleTechnicianDetail(w http.ResponseWriter, r *http.Request) {
	technicianID := chi.URLParam(r, "technicianID")
	start, end, ok := h.parseRange(w, r, func(v *validation.Validator) {
		v.Required("technician_id", technicianID).MaxLength("technician_id", technicianID, 64)
	})
	if !ok {
		return
	}

	detail, err := h.service.GetTechnicianDetail(r.Context(), technicianID, start, end)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, detail)
}

// HandleInvalidateReferenceCache handles POST /reference-cache/invalidate
func (h *UtilizationHandler) HandleInvalidateReferenceCache(w http.ResponseWriter, r *http.Request) {
	if h.invalidator != nil {
		h.invalidator.Invalidate()
		h.logger.InfoContext(r.Context(), "reference cache invalidated")
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseRange reads and validates start_date and end_date. extra adds
// endpoint-specific checks to the same validator so every problem is
// reported at once. It writes the error response itself when ok is false.
func (h *UtilizationHandler) parseRange(w http.ResponseWriter, r *http.Request, extra ...func(*validation.Validator)) (start, end string, ok bool) {
	start = validation.ParseStringQueryParam(r, "start_date", "")
	end = validation.ParseStringQueryParam(r, "end_date", "")

	v := validation.NewValidator()
	v.Required("start_date", start).Date("start_date", start)
	v.Required("end_date", end).Date("end_date", end)
	v.DateRange("start_date", start, end, h.maxRangeDays)
	for _, check := range extra {
		check(v)
	}

	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return "", "", false
	}
	return start, end, true
}
