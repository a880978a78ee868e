package ports

import (
	"context"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
)

// FactReader is the read-only view of the operational store the analytics
// engine depends on. Implementations return typed rows; any failure is
// reported as a data access error and is not retried.
type FactReader interface {
	// ReadAssignedFacts returns one fact per (technician, ticket, date)
	// assignment in the range.
	ReadAssignedFacts(ctx context.Context, r domain.DateRange) ([]domain.Fact, error)
	// ReadConfirmedFacts returns the assignments whose appointment was
	// confirmed.
	ReadConfirmedFacts(ctx context.Context, r domain.DateRange) ([]domain.Fact, error)
	// ReadTechnicianRoster returns every active technician.
	ReadTechnicianRoster(ctx context.Context) ([]domain.Technician, error)
	// ResolveGeographyNames maps province codes to display names in one
	// batched lookup. Unknown codes are absent from the result.
	ResolveGeographyNames(ctx context.Context, codes []string) (map[string]string, error)
}
