package usecase

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
	"github.com/markushhgo/parkkihubi/internal/pkg/clock"
)

// StatisticsUseCase maintains the per-event-area parking statistics:
// total count, billed charge units and accumulated income.
type StatisticsUseCase struct {
	statsRepo repository.StatisticsRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	cacheTTL  time.Duration
	now       clock.Clock
}

func NewStatisticsUseCase(
	statsRepo repository.StatisticsRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
	now clock.Clock,
) *StatisticsUseCase {
	return &StatisticsUseCase{
		statsRepo: statsRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
		now:       now,
	}
}

// GetStatistics returns the statistics row for an event area, serving
// from cache when possible.
func (uc *StatisticsUseCase) GetStatistics(ctx context.Context, eventAreaID uuid.UUID) (*domain.EventAreaStatistics, error) {
	if cached, err := uc.cacheRepo.GetStatistics(ctx, eventAreaID); err != nil {
		uc.logger.Warn("Statistics cache read failed", zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	stats, err := uc.statsRepo.GetByEventArea(ctx, eventAreaID)
	if err != nil {
		return nil, err
	}

	if err := uc.cacheRepo.SetStatistics(ctx, eventAreaID, stats, uc.cacheTTL); err != nil {
		uc.logger.Warn("Statistics cache write failed", zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
	}

	return stats, nil
}

// RecomputeForEventArea rebuilds the statistics row of one event area
// from its parkings. The count always reflects every parking that has
// ever referenced the area. Charges and income are only recomputed when
// the area carries pricing; without pricing the stale billing fields
// are left as they are.
func (uc *StatisticsUseCase) RecomputeForEventArea(ctx context.Context, eventAreaID uuid.UUID) error {
	now := uc.now()

	err := uc.statsRepo.RecomputeForEventArea(ctx, eventAreaID,
		func(area *domain.EventArea, parkings []*domain.EventParking, stats *domain.EventAreaStatistics) *domain.EventAreaStatistics {
			stats.TotalParkingCount = len(parkings)

			if area != nil && area.Price != nil && area.PriceUnitLength != nil {
				charges := 0
				for _, parking := range parkings {
					charges += chargeUnits(parking.TimeStart, parking.TimeEnd, *area.PriceUnitLength, now)
				}
				stats.TotalParkingCharges = charges
				stats.TotalParkingIncome = decimal.NewFromInt(int64(charges)).Mul(*area.Price)
			}

			return stats
		})
	if err != nil {
		return err
	}

	if err := uc.cacheRepo.InvalidateStatistics(ctx, eventAreaID); err != nil {
		uc.logger.Warn("Statistics cache invalidation failed",
			zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
	}

	return nil
}

// chargeUnits bills a parking in whole price units. The duration is
// first rounded up to whole hours, then the hours are rounded up to
// whole units. An open-ended parking is billed up to now.
func chargeUnits(start time.Time, end *time.Time, unitLengthHours int, now time.Time) int {
	effectiveEnd := now
	if end != nil {
		effectiveEnd = *end
	}

	duration := effectiveEnd.Sub(start)
	if duration <= 0 {
		return 0
	}

	hours := int(math.Ceil(duration.Hours()))

	units := hours / unitLengthHours
	if hours%unitLengthHours != 0 {
		units++
	}
	return units
}
