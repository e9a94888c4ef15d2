package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
)

// MockAreaRepository is a mock of AreaRepository
type MockAreaRepository struct {
	mock.Mock
}

func (m *MockAreaRepository) ResolveZone(ctx context.Context, point domain.Point, domainID uuid.UUID) (*domain.PaymentZone, error) {
	args := m.Called(ctx, point, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentZone), args.Error(1)
}

func (m *MockAreaRepository) ResolvePermitArea(ctx context.Context, point domain.Point, domainID uuid.UUID) (*domain.PermitArea, error) {
	args := m.Called(ctx, point, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PermitArea), args.Error(1)
}

func (m *MockAreaRepository) ResolveEventArea(ctx context.Context, point domain.Point, domainID uuid.UUID, at time.Time) (*domain.EventArea, error) {
	args := m.Called(ctx, point, domainID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventArea), args.Error(1)
}

func (m *MockAreaRepository) ClosestEventArea(ctx context.Context, point domain.Point, domainID uuid.UUID, maxDistance float64) (*uuid.UUID, error) {
	args := m.Called(ctx, point, domainID, maxDistance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uuid.UUID), args.Error(1)
}

func (m *MockAreaRepository) OverlappingParkingAreas(ctx context.Context, eventAreaID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, eventAreaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockAreaRepository) ReplaceOverlapLinks(ctx context.Context, eventAreaID uuid.UUID, parkingAreaIDs []uuid.UUID) error {
	args := m.Called(ctx, eventAreaID, parkingAreaIDs)
	return args.Error(0)
}

// MockParkingRepository is a mock of ParkingRepository
type MockParkingRepository struct {
	mock.Mock
}

func (m *MockParkingRepository) ActiveParkings(ctx context.Context, domainID uuid.UUID, normalizedRegNum string, at time.Time) ([]*domain.Parking, error) {
	args := m.Called(ctx, domainID, normalizedRegNum, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Parking), args.Error(1)
}

// MockPermitRepository is a mock of PermitRepository
type MockPermitRepository struct {
	mock.Mock
}

func (m *MockPermitRepository) ActiveLookupItems(ctx context.Context, domainID uuid.UUID, normalizedRegNum string, at time.Time) ([]*domain.PermitLookupItem, error) {
	args := m.Called(ctx, domainID, normalizedRegNum, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PermitLookupItem), args.Error(1)
}

// MockEventParkingRepository is a mock of EventParkingRepository
type MockEventParkingRepository struct {
	mock.Mock
}

func (m *MockEventParkingRepository) ActiveEventParkings(ctx context.Context, domainID uuid.UUID, normalizedRegNum string, at time.Time) ([]*domain.EventParking, error) {
	args := m.Called(ctx, domainID, normalizedRegNum, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EventParking), args.Error(1)
}

func (m *MockEventParkingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EventParking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventParking), args.Error(1)
}

func (m *MockEventParkingRepository) Create(ctx context.Context, parking *domain.EventParking) error {
	args := m.Called(ctx, parking)
	return args.Error(0)
}

func (m *MockEventParkingRepository) Update(ctx context.Context, parking *domain.EventParking) error {
	args := m.Called(ctx, parking)
	return args.Error(0)
}

func (m *MockEventParkingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventParkingRepository) AreasWithOpenEventParkings(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockEventAreaRepository is a mock of EventAreaRepository
type MockEventAreaRepository struct {
	mock.Mock
}

func (m *MockEventAreaRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EventArea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventArea), args.Error(1)
}

func (m *MockEventAreaRepository) Save(ctx context.Context, area *domain.EventArea, geomGeoJSON string) error {
	args := m.Called(ctx, area, geomGeoJSON)
	return args.Error(0)
}

func (m *MockEventAreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCheckRepository is a mock of CheckRepository
type MockCheckRepository struct {
	mock.Mock
}

func (m *MockCheckRepository) Create(ctx context.Context, check *domain.ParkingCheck) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

// MockStatisticsRepository is a mock of StatisticsRepository
type MockStatisticsRepository struct {
	mock.Mock

	// When set, RecomputeForEventArea feeds these to the recompute
	// callback and records the returned row in RecomputedStats.
	Area            *domain.EventArea
	Parkings        []*domain.EventParking
	ExistingStats   *domain.EventAreaStatistics
	RecomputedStats *domain.EventAreaStatistics
}

func (m *MockStatisticsRepository) GetByEventArea(ctx context.Context, eventAreaID uuid.UUID) (*domain.EventAreaStatistics, error) {
	args := m.Called(ctx, eventAreaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventAreaStatistics), args.Error(1)
}

func (m *MockStatisticsRepository) EnsureForEventArea(ctx context.Context, eventAreaID uuid.UUID) error {
	args := m.Called(ctx, eventAreaID)
	return args.Error(0)
}

func (m *MockStatisticsRepository) DeleteForEventArea(ctx context.Context, eventAreaID uuid.UUID) error {
	args := m.Called(ctx, eventAreaID)
	return args.Error(0)
}

func (m *MockStatisticsRepository) RecomputeForEventArea(ctx context.Context, eventAreaID uuid.UUID, recompute repository.RecomputeFunc) error {
	args := m.Called(ctx, eventAreaID)
	if err := args.Error(0); err != nil {
		return err
	}
	stats := m.ExistingStats
	if stats == nil {
		stats = &domain.EventAreaStatistics{EventAreaID: &eventAreaID}
	}
	m.RecomputedStats = recompute(m.Area, m.Parkings, stats)
	return nil
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) GetStatistics(ctx context.Context, eventAreaID uuid.UUID) (*domain.EventAreaStatistics, error) {
	args := m.Called(ctx, eventAreaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventAreaStatistics), args.Error(1)
}

func (m *MockCacheRepository) SetStatistics(ctx context.Context, eventAreaID uuid.UUID, stats *domain.EventAreaStatistics, ttl time.Duration) error {
	args := m.Called(ctx, eventAreaID, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) InvalidateStatistics(ctx context.Context, eventAreaID uuid.UUID) error {
	args := m.Called(ctx, eventAreaID)
	return args.Error(0)
}
