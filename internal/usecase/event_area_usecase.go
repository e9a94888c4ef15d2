package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
	"github.com/markushhgo/parkkihubi/internal/usecase/dto"
)

// EventAreaUseCase manages event area definitions and the bookkeeping
// every save carries with it: the statistics row and the overlap links
// to permanent parking areas.
type EventAreaUseCase struct {
	eventAreaRepo repository.EventAreaRepository
	areaRepo      repository.AreaRepository
	statsRepo     repository.StatisticsRepository
	logger        *zap.Logger
}

func NewEventAreaUseCase(
	eventAreaRepo repository.EventAreaRepository,
	areaRepo repository.AreaRepository,
	statsRepo repository.StatisticsRepository,
	logger *zap.Logger,
) *EventAreaUseCase {
	return &EventAreaUseCase{
		eventAreaRepo: eventAreaRepo,
		areaRepo:      areaRepo,
		statsRepo:     statsRepo,
		logger:        logger,
	}
}

// GetByID returns one event area.
func (uc *EventAreaUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.EventArea, error) {
	return uc.eventAreaRepo.GetByID(ctx, id)
}

// Save validates and upserts an event area, guarantees it has a
// statistics row and rebuilds its overlap links against the permanent
// parking areas.
func (uc *EventAreaUseCase) Save(ctx context.Context, req dto.EventAreaRequest) (*domain.EventArea, error) {
	area := &domain.EventArea{
		DomainID:             req.DomainID,
		TimeStart:            req.TimeStart,
		TimeEnd:              req.TimeEnd,
		Price:                req.Price,
		PriceUnitLength:      req.PriceUnitLength,
		TimePeriodTimeStart:  req.TimePeriodTimeStart,
		TimePeriodTimeEnd:    req.TimePeriodTimeEnd,
		TimePeriodDaysOfWeek: req.TimePeriodDaysOfWeek,
		BusStopNumbers:       req.BusStopNumbers,
		Description:          req.Description,
		IsTestEventArea:      req.IsTestEventArea,
	}
	if req.ID != nil {
		area.ID = *req.ID
	} else {
		area.ID = uuid.New()
	}

	if err := area.Validate(); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"event_area": err.Error(),
		})
	}

	if err := uc.eventAreaRepo.Save(ctx, area, string(req.Geometry)); err != nil {
		return nil, err
	}

	if err := uc.statsRepo.EnsureForEventArea(ctx, area.ID); err != nil {
		return nil, err
	}

	overlapping, err := uc.areaRepo.OverlappingParkingAreas(ctx, area.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.areaRepo.ReplaceOverlapLinks(ctx, area.ID, overlapping); err != nil {
		return nil, err
	}

	uc.logger.Info("Event area saved",
		zap.String("event_area_id", area.ID.String()),
		zap.Int("overlapping_parking_areas", len(overlapping)),
	)

	return area, nil
}

// Delete removes an event area. Statistics rows of test areas go with
// the area; rows of real areas stay behind with a cleared area
// reference so historical figures survive.
func (uc *EventAreaUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	area, err := uc.eventAreaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if area.IsTestEventArea {
		if err := uc.statsRepo.DeleteForEventArea(ctx, id); err != nil {
			return err
		}
	}

	return uc.eventAreaRepo.Delete(ctx, id)
}
