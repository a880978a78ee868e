package ports

import (
	"context"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
)

// UtilizationService defines the read-only analytics operations. Dates are
// YYYY-MM-DD strings; malformed input yields a validation error.
type UtilizationService interface {
	GetDailySnapshot(ctx context.Context, date string) (*domain.DailySnapshot, error)
	GetRangeSummary(ctx context.Context, startDate, endDate string) (*domain.RangeSummary, error)
	GetDistribution(ctx context.Context, startDate, endDate string) (*domain.DistributionReport, error)
	GetTrend(ctx context.Context, startDate, endDate, interval string) (*domain.TrendResult, error)
	GetTechnicianDetail(ctx context.Context, technicianID, startDate, endDate string) (*domain.TechnicianDetail, error)
}

// ReferenceInvalidator drops cached reference data.
type ReferenceInvalidator interface {
	Invalidate()
}
