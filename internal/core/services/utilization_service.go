package services

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
	apperrors "github.com/lorrc/field-service-analytics/internal/core/errors"
	"github.com/lorrc/field-service-analytics/internal/core/ports"
)

// UtilizationService composes the analytics reports from the fact store.
// It holds no per-request state.
type UtilizationService struct {
	reader      ports.FactReader
	logger      *slog.Logger
	rankingSize int
}

var _ ports.UtilizationService = (*UtilizationService)(nil)

// NewUtilizationService creates a new utilization service. A non-positive
// rankingSize falls back to domain.DefaultRankingSize.
func NewUtilizationService(reader ports.FactReader, logger *slog.Logger, rankingSize int) ports.UtilizationService {
	if rankingSize <= 0 {
		rankingSize = domain.DefaultRankingSize
	}
	return &UtilizationService{
		reader:      reader,
		logger:      logger.With("service", "utilization"),
		rankingSize: rankingSize,
	}
}

// GetDailySnapshot builds the utilization picture of one date.
func (s *UtilizationService) GetDailySnapshot(ctx context.Context, date string) (*domain.DailySnapshot, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	in, err := s.load(ctx, domain.SingleDay(day))
	if err != nil {
		return nil, err
	}

	snapshot := domain.BuildDailySnapshot(in)
	if err := s.nameBreakdown(ctx, in, &snapshot.Breakdown); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "daily snapshot built",
		"date", snapshot.Date,
		"active_technicians", snapshot.ActiveTechnicians,
		"tickets_assigned", snapshot.TicketsAssigned,
	)
	return &snapshot, nil
}

// GetRangeSummary builds the utilization picture of a date range.
func (s *UtilizationService) GetRangeSummary(ctx context.Context, startDate, endDate string) (*domain.RangeSummary, error) {
	r, err := domain.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	in, err := s.load(ctx, r)
	if err != nil {
		return nil, err
	}

	summary := domain.BuildRangeSummary(in, s.rankingSize)
	if err := s.nameBreakdown(ctx, in, &summary.Breakdown); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "range summary built",
		"range", r.String(),
		"active_technicians", summary.ActiveTechnicians,
		"tickets_assigned", summary.TicketsAssigned,
	)
	return &summary, nil
}

// GetDistribution builds the workload distribution of a date range.
func (s *UtilizationService) GetDistribution(ctx context.Context, startDate, endDate string) (*domain.DistributionReport, error) {
	r, err := domain.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	in, err := s.load(ctx, r)
	if err != nil {
		return nil, err
	}

	report := domain.BuildDistributionReport(in)
	if err := s.nameBreakdown(ctx, in, &report.Breakdown); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "distribution report built",
		"range", r.String(),
		"technicians", len(report.Technicians),
		"balance_score", report.BalanceScore,
	)
	return &report, nil
}

// GetTrend builds the gap-filled series for the range.
func (s *UtilizationService) GetTrend(ctx context.Context, startDate, endDate, interval string) (*domain.TrendResult, error) {
	r, err := domain.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	iv, err := domain.ParseInterval(interval)
	if err != nil {
		return nil, err
	}

	in, err := s.load(ctx, r)
	if err != nil {
		return nil, err
	}

	trend := domain.BuildTrend(domain.TrendInput{
		Range:            r,
		Interval:         iv,
		Assigned:         in.Assigned,
		Confirmed:        in.Confirmed,
		TotalTechnicians: len(in.Roster),
	})

	s.logger.DebugContext(ctx, "trend built",
		"range", r.String(),
		"interval", string(iv),
		"points", len(trend.Points),
		"direction", string(trend.Comparison.Direction),
	)
	return &trend, nil
}

// GetTechnicianDetail builds one technician's report. The technician must be
// on the roster.
func (s *UtilizationService) GetTechnicianDetail(ctx context.Context, technicianID, startDate, endDate string) (*domain.TechnicianDetail, error) {
	technicianID = strings.TrimSpace(technicianID)
	if technicianID == "" {
		return nil, apperrors.ErrTechnicianIDRequired
	}
	r, err := domain.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	in, err := s.load(ctx, r)
	if err != nil {
		return nil, err
	}

	detail, err := domain.BuildTechnicianDetail(in, technicianID)
	if err != nil {
		return nil, err
	}

	names, err := s.resolveNames(ctx, in)
	if err != nil {
		return nil, err
	}
	detail.Breakdown.ApplyNames(names)
	detail.Technician.ProvinceName = names[detail.Technician.ProvinceCode]

	s.logger.DebugContext(ctx, "technician detail built",
		"technician_id", technicianID,
		"range", r.String(),
		"tickets_assigned", detail.TicketsAssigned,
	)
	return &detail, nil
}

// load issues the three independent reads concurrently. The first failure
// cancels the others and aborts the report.
func (s *UtilizationService) load(ctx context.Context, r domain.DateRange) (domain.ReportInput, error) {
	in := domain.ReportInput{Range: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		facts, err := s.reader.ReadAssignedFacts(gctx, r)
		if err != nil {
			return readError(ctx, "read assigned facts", err)
		}
		in.Assigned = facts
		return nil
	})
	g.Go(func() error {
		facts, err := s.reader.ReadConfirmedFacts(gctx, r)
		if err != nil {
			return readError(ctx, "read confirmed facts", err)
		}
		in.Confirmed = facts
		return nil
	})
	g.Go(func() error {
		roster, err := s.reader.ReadTechnicianRoster(gctx)
		if err != nil {
			return readError(ctx, "read technician roster", err)
		}
		in.Roster = roster
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.ReportInput{}, err
	}
	return in, nil
}

// resolveNames looks up every province the input references in one call.
func (s *UtilizationService) resolveNames(ctx context.Context, in domain.ReportInput) (map[string]string, error) {
	codes := in.ProvinceCodes()
	if len(codes) == 0 {
		return map[string]string{}, nil
	}
	names, err := s.reader.ResolveGeographyNames(ctx, codes)
	if err != nil {
		return nil, readError(ctx, "resolve geography names", err)
	}
	if names == nil {
		names = map[string]string{}
	}
	return names, nil
}

// readError reports a failed read. Once the caller's context is done the
// context error is returned as is, so an aborted request is not mistaken
// for a store failure.
func readError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return apperrors.NewDataAccessError(op, err)
}

func (s *UtilizationService) nameBreakdown(ctx context.Context, in domain.ReportInput, b *domain.Breakdown) error {
	names, err := s.resolveNames(ctx, in)
	if err != nil {
		return err
	}
	b.ApplyNames(names)
	return nil
}
