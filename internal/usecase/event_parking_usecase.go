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

// EventParkingUseCase handles the operator-facing lifecycle of event
// parkings. Every mutation triggers a statistics recompute for the
// affected event areas.
type EventParkingUseCase struct {
	eventParkingRepo       repository.EventParkingRepository
	eventAreaRepo          repository.EventAreaRepository
	areaRepo               repository.AreaRepository
	statsUseCase           *StatisticsUseCase
	logger                 *zap.Logger
	closestAreaMaxDistance float64
}

func NewEventParkingUseCase(
	eventParkingRepo repository.EventParkingRepository,
	eventAreaRepo repository.EventAreaRepository,
	areaRepo repository.AreaRepository,
	statsUseCase *StatisticsUseCase,
	logger *zap.Logger,
	closestAreaMaxDistance float64,
) *EventParkingUseCase {
	return &EventParkingUseCase{
		eventParkingRepo:       eventParkingRepo,
		eventAreaRepo:          eventAreaRepo,
		areaRepo:               areaRepo,
		statsUseCase:           statsUseCase,
		logger:                 logger,
		closestAreaMaxDistance: closestAreaMaxDistance,
	}
}

// Create stores a new event parking. When the request does not name an
// event area, the closest area within the configured distance of the
// parking location is assigned.
func (uc *EventParkingUseCase) Create(ctx context.Context, req dto.EventParkingRequest) (*domain.EventParking, error) {
	if req.TimeEnd != nil && req.TimeEnd.Before(req.TimeStart) {
		return nil, errors.ErrInvalidTimeRange
	}

	eventAreaID := req.EventAreaID
	if eventAreaID == nil {
		closest, err := uc.areaRepo.ClosestEventArea(ctx,
			domain.Point{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude},
			req.DomainID, uc.closestAreaMaxDistance)
		if err != nil {
			return nil, err
		}
		if closest == nil {
			return nil, errors.ErrEventAreaNotFound
		}
		eventAreaID = closest
	} else {
		if _, err := uc.eventAreaRepo.GetByID(ctx, *eventAreaID); err != nil {
			return nil, err
		}
	}

	eventParking := &domain.EventParking{
		ID:               uuid.New(),
		DomainID:         req.DomainID,
		OperatorID:       req.OperatorID,
		EventAreaID:      eventAreaID,
		RegistrationNum:  req.RegistrationNumber,
		NormalizedRegNum: domain.NormalizeRegistrationNumber(req.RegistrationNumber),
		Location: domain.Point{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		},
		TimeStart: req.TimeStart,
		TimeEnd:   req.TimeEnd,
	}

	if err := uc.eventParkingRepo.Create(ctx, eventParking); err != nil {
		return nil, err
	}

	if err := uc.recompute(ctx, eventAreaID); err != nil {
		return nil, err
	}

	return eventParking, nil
}

// Update rewrites an existing event parking. When the area reference
// changes, both the old and the new area get their statistics rebuilt.
func (uc *EventParkingUseCase) Update(ctx context.Context, id uuid.UUID, req dto.EventParkingRequest) (*domain.EventParking, error) {
	if req.TimeEnd != nil && req.TimeEnd.Before(req.TimeStart) {
		return nil, errors.ErrInvalidTimeRange
	}

	existing, err := uc.eventParkingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OperatorID != req.OperatorID {
		return nil, errors.ErrEventParkingNotFound
	}

	previousAreaID := existing.EventAreaID

	existing.RegistrationNum = req.RegistrationNumber
	existing.NormalizedRegNum = domain.NormalizeRegistrationNumber(req.RegistrationNumber)
	existing.Location = domain.Point{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude}
	existing.TimeStart = req.TimeStart
	existing.TimeEnd = req.TimeEnd
	if req.EventAreaID != nil {
		existing.EventAreaID = req.EventAreaID
	}

	if err := uc.eventParkingRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	if err := uc.recompute(ctx, existing.EventAreaID); err != nil {
		return nil, err
	}
	if previousAreaID != nil && (existing.EventAreaID == nil || *previousAreaID != *existing.EventAreaID) {
		if err := uc.recompute(ctx, previousAreaID); err != nil {
			return nil, err
		}
	}

	return existing, nil
}

// Delete removes an event parking and rebuilds its area's statistics.
func (uc *EventParkingUseCase) Delete(ctx context.Context, id uuid.UUID, operatorID uuid.UUID) error {
	existing, err := uc.eventParkingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OperatorID != operatorID {
		return errors.ErrEventParkingNotFound
	}

	if err := uc.eventParkingRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := uc.recompute(ctx, existing.EventAreaID); err != nil {
		return err
	}

	return nil
}

// GetByID returns an operator's own event parking.
func (uc *EventParkingUseCase) GetByID(ctx context.Context, id uuid.UUID, operatorID uuid.UUID) (*domain.EventParking, error) {
	eventParking, err := uc.eventParkingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eventParking.OperatorID != operatorID {
		return nil, errors.ErrEventParkingNotFound
	}
	return eventParking, nil
}

// recompute rebuilds the statistics of the given area. A recompute
// failure fails the mutation that triggered it, so the stored rows and
// the statistics row never diverge silently.
func (uc *EventParkingUseCase) recompute(ctx context.Context, eventAreaID *uuid.UUID) error {
	if eventAreaID == nil {
		return nil
	}
	if err := uc.statsUseCase.RecomputeForEventArea(ctx, *eventAreaID); err != nil {
		uc.logger.Error("Statistics recompute failed",
			zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
		return err
	}
	return nil
}
