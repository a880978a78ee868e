package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
	"github.com/lorrc/field-service-analytics/internal/core/ports"
)

// MockFactReader is a mock implementation of ports.FactReader
type MockFactReader struct {
	mock.Mock
}

var _ ports.FactReader = (*MockFactReader)(nil)

func NewMockFactReader() *MockFactReader {
	return &MockFactReader{}
}

func (m *MockFactReader) ReadAssignedFacts(ctx context.Context, r domain.DateRange) ([]domain.Fact, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fact), args.Error(1)
}

func (m *MockFactReader) ReadConfirmedFacts(ctx context.Context, r domain.DateRange) ([]domain.Fact, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fact), args.Error(1)
}

func (m *MockFactReader) ReadTechnicianRoster(ctx context.Context) ([]domain.Technician, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Technician), args.Error(1)
}

func (m *MockFactReader) ResolveGeographyNames(ctx context.Context, codes []string) (map[string]string, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockUtilizationService is a mock implementation of ports.UtilizationService
type MockUtilizationService struct {
	mock.Mock
}

var _ ports.UtilizationService = (*MockUtilizationService)(nil)

func NewMockUtilizationService() *MockUtilizationService {
	return &MockUtilizationService{}
}

func (m *MockUtilizationService) GetDailySnapshot(ctx context.Context, date string) (*domain.DailySnapshot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySnapshot), args.Error(1)
}

func (m *MockUtilizationService) GetRangeSummary(ctx context.Context, startDate, endDate string) (*domain.RangeSummary, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RangeSummary), args.Error(1)
}

func (m *MockUtilizationService) GetDistribution(ctx context.Context, startDate, endDate string) (*domain.DistributionReport, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DistributionReport), args.Error(1)
}

func (m *MockUtilizationService) GetTrend(ctx context.Context, startDate, endDate, interval string) (*domain.TrendResult, error) {
	args := m.Called(ctx, startDate, endDate, interval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrendResult), args.Error(1)
}

func (m *MockUtilizationService) GetTechnicianDetail(ctx context.Context, technicianID, startDate, endDate string) (*domain.TechnicianDetail, error) {
	args := m.Called(ctx, technicianID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TechnicianDetail), args.Error(1)
}
