package http

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
)

// HealthChecker is implemented by every fact store driver.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes for the fact store.
type HealthHandler struct {
	store     HealthChecker
	storeName string
	startTime time.Time
	version   string
	timeout   time.Duration
}

// NewHealthHandler creates a new health handler. storeName labels the store
// check, e.g. "postgres" or "sqlite".
func NewHealthHandler(store HealthChecker, storeName, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		storeName: storeName,
		startTime: time.Now(),
		version:   version,
		timeout:   5 * time.Second,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Version   string           `json:"version,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
}

// Check represents an individual health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// RuntimeStats is the process detail reported by /health.
type RuntimeStats struct {
	AllocBytes uint64 `json:"alloc_bytes"`
	SysBytes   uint64 `json:"sys_bytes"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

// HandleLiveness reports that the process is serving requests.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness reports whether the fact store can be reached.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	response, healthy := h.probe(r.Context())
	WriteJSON(w, statusFor(healthy), response)
}

// HandleHealth is the readiness report plus runtime statistics.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response, healthy := h.probe(r.Context())
	if !healthy {
		response.Status = "degraded"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	WriteJSON(w, statusFor(healthy), struct {
		HealthResponse
		Runtime RuntimeStats `json:"runtime"`
	}{
		HealthResponse: response,
		Runtime: RuntimeStats{
			AllocBytes: mem.Alloc,
			SysBytes:   mem.Sys,
			NumGC:      mem.NumGC,
			Goroutines: runtime.NumGoroutine(),
		},
	})
}

func (h *HealthHandler) probe(ctx context.Context) (HealthResponse, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	check := h.checkStore(ctx)
	healthy := check.Status == "healthy"
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    map[string]Check{h.storeName: check},
	}, healthy
}

func (h *HealthHandler) checkStore(ctx context.Context) Check {
	if h.store == nil {
		return Check{Status: "unhealthy", Message: "Store not configured"}
	}

	start := time.Now()
	err := h.store.Ping(ctx)
	latency := time.Since(start).String()
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency}
	}
	return Check{Status: "healthy", Latency: latency}
}

func statusFor(healthy bool) int {
	if healthy {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
