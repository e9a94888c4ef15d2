package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
	"github.com/markushhgo/parkkihubi/internal/pkg/clock"
	"github.com/markushhgo/parkkihubi/internal/usecase/dto"
)

type verdictKind string

const (
	verdictNone         verdictKind = ""
	verdictParking      verdictKind = "parking"
	verdictPermit       verdictKind = "permit"
	verdictEventParking verdictKind = "event_parking"
)

// evaluation is the outcome of one pass over the three authorization
// sources at a single instant, plus the querysets themselves for the
// permission summary.
type evaluation struct {
	kind         verdictKind
	parking      *domain.Parking
	eventParking *domain.EventParking
	endTime      *time.Time

	parkings      []*domain.Parking
	permitItems   []*domain.PermitLookupItem
	eventParkings []*domain.EventParking
}

// CheckUseCase resolves whether a vehicle's presence at a point is
// authorized: by a paid parking, a permit or an event parking.
type CheckUseCase struct {
	areaRepo         repository.AreaRepository
	parkingRepo      repository.ParkingRepository
	permitRepo       repository.PermitRepository
	eventParkingRepo repository.EventParkingRepository
	checkRepo        repository.CheckRepository
	logger           *zap.Logger
	graceDuration    time.Duration
	now              clock.Clock
}

func NewCheckUseCase(
	areaRepo repository.AreaRepository,
	parkingRepo repository.ParkingRepository,
	permitRepo repository.PermitRepository,
	eventParkingRepo repository.EventParkingRepository,
	checkRepo repository.CheckRepository,
	logger *zap.Logger,
	graceDuration time.Duration,
	now clock.Clock,
) *CheckUseCase {
	return &CheckUseCase{
		areaRepo:         areaRepo,
		parkingRepo:      parkingRepo,
		permitRepo:       permitRepo,
		eventParkingRepo: eventParkingRepo,
		checkRepo:        checkRepo,
		logger:           logger,
		graceDuration:    graceDuration,
		now:              now,
	}
}

// Check runs the full compliance verdict for one request and records it
// in the audit trail. Failure to persist the audit row fails the whole
// check: no verdict leaves this method without its record.
func (uc *CheckUseCase) Check(ctx context.Context, req dto.CheckRequest) (*domain.CheckResult, error) {
	t := uc.now()
	if req.Time != nil {
		t = *req.Time
	}

	normalizedRegNum := domain.NormalizeRegistrationNumber(req.RegistrationNumber)
	point := domain.Point{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude}

	zone, err := uc.areaRepo.ResolveZone(ctx, point, req.DomainID)
	if err != nil {
		return nil, err
	}
	permitArea, err := uc.areaRepo.ResolvePermitArea(ctx, point, req.DomainID)
	if err != nil {
		return nil, err
	}
	eventArea, err := uc.areaRepo.ResolveEventArea(ctx, point, req.DomainID, t)
	if err != nil {
		return nil, err
	}

	primary, err := uc.evaluate(ctx, req.DomainID, normalizedRegNum, zone, permitArea, eventArea, t)
	if err != nil {
		return nil, err
	}
	allowed := primary.kind != verdictNone

	final := primary
	if !allowed {
		// No match at the exact requested time. Re-run the whole
		// evaluation a grace duration earlier to surface a just-expired
		// parking or permit. The verdict stands; only the displayed
		// context (matched record, end time, permission summary) comes
		// from the retry.
		final, err = uc.evaluate(ctx, req.DomainID, normalizedRegNum, zone, permitArea, eventArea, t.Add(-uc.graceDuration))
		if err != nil {
			return nil, err
		}
	}

	result := &domain.CheckResult{
		Allowed: allowed,
		EndTime: final.endTime,
		Time:    t,
	}
	if zone != nil {
		result.Location.PaymentZone = &zone.Number
	}
	if permitArea != nil {
		result.Location.PermitArea = &permitArea.Identifier
	}
	if eventArea != nil {
		result.Location.EventArea = &eventArea.ID
	}

	wantOperator, wantTimeStart, wantPermissions := req.RequestedDetails()

	if wantOperator {
		result.HasOperator = true
		if allowed {
			if name := final.matchedOperatorName(); name != "" {
				result.Operator = &name
			}
		}
	}

	if wantTimeStart {
		result.HasTimeStart = true
		if allowed {
			if start := final.matchedTimeStart(); start != nil {
				result.TimeStart = start
			}
		}
	}

	if wantPermissions {
		result.HasPermissions = true
		result.Permissions = buildPermissionSummary(final.parkings, final.permitItems, final.eventParkings)
	}

	check := &domain.ParkingCheck{
		ID:                 uuid.New(),
		Time:               t,
		TimeOverridden:     req.Time != nil,
		RegistrationNumber: req.RegistrationNumber,
		Location:           point,
		Performer:          req.Performer,
		Result:             *result,
		Allowed:            allowed,
	}
	if final.parking != nil {
		check.FoundParkingID = &final.parking.ID
	}
	if final.eventParking != nil {
		check.FoundEventParking = &final.eventParking.ID
	}

	if err := uc.checkRepo.Create(ctx, check); err != nil {
		uc.logger.Error("Failed to record parking check",
			zap.String("registration_number", normalizedRegNum), zap.Error(err))
		return nil, err
	}

	uc.logger.Debug("Parking check completed",
		zap.String("registration_number", normalizedRegNum),
		zap.Bool("allowed", allowed),
		zap.String("verdict", string(final.kind)),
	)

	return result, nil
}

// evaluate runs the three source queries at one instant and applies the
// tie-break rules: zone-compatible parking wins over permit, which wins
// over event parking. Within a source the first row in the query's
// deterministic order wins.
func (uc *CheckUseCase) evaluate(
	ctx context.Context,
	domainID uuid.UUID,
	normalizedRegNum string,
	zone *domain.PaymentZone,
	permitArea *domain.PermitArea,
	eventArea *domain.EventArea,
	at time.Time,
) (*evaluation, error) {
	parkings, err := uc.parkingRepo.ActiveParkings(ctx, domainID, normalizedRegNum, at)
	if err != nil {
		return nil, err
	}
	permitItems, err := uc.permitRepo.ActiveLookupItems(ctx, domainID, normalizedRegNum, at)
	if err != nil {
		return nil, err
	}
	eventParkings, err := uc.eventParkingRepo.ActiveEventParkings(ctx, domainID, normalizedRegNum, at)
	if err != nil {
		return nil, err
	}

	ev := &evaluation{
		kind:          verdictNone,
		parkings:      parkings,
		permitItems:   permitItems,
		eventParkings: eventParkings,
	}

	// A parking matches when its zone is nested within (or equal to)
	// the resolved zone; an unresolved zone matches every parking.
	for _, parking := range parkings {
		if zone == nil || parking.ZoneNumber <= zone.Number {
			ev.kind = verdictParking
			ev.parking = parking
			ev.endTime = parking.TimeEnd
			return ev, nil
		}
	}

	if permitArea != nil {
		// Items are ordered by end time, so the first one in the area
		// is the earliest-ending grant.
		for _, item := range permitItems {
			if item.AreaIdentifier == permitArea.Identifier {
				endTime := item.EndTime
				ev.kind = verdictPermit
				ev.endTime = &endTime
				return ev, nil
			}
		}
	}

	if eventArea != nil {
		for _, eventParking := range eventParkings {
			if eventParking.EventAreaID != nil && *eventParking.EventAreaID == eventArea.ID {
				ev.kind = verdictEventParking
				ev.eventParking = eventParking
				ev.endTime = eventParking.TimeEnd
				return ev, nil
			}
		}
	}

	return ev, nil
}

func (ev *evaluation) matchedOperatorName() string {
	switch {
	case ev.parking != nil:
		return ev.parking.OperatorName
	case ev.eventParking != nil:
		return ev.eventParking.OperatorName
	}
	return ""
}

func (ev *evaluation) matchedTimeStart() *time.Time {
	switch {
	case ev.parking != nil:
		return &ev.parking.TimeStart
	case ev.eventParking != nil:
		return &ev.eventParking.TimeStart
	}
	return nil
}

// buildPermissionSummary lists every authorization the plate currently
// holds in the domain: distinct zone numbers from active parkings, one
// permit summary per lookup item in query order (items of the same
// permit repeat on purpose), and distinct event areas from active event
// parkings.
func buildPermissionSummary(
	parkings []*domain.Parking,
	permitItems []*domain.PermitLookupItem,
	eventParkings []*domain.EventParking,
) *domain.PermissionSummary {
	summary := &domain.PermissionSummary{
		Zones:      []int{},
		Permits:    []domain.PermitSummary{},
		EventAreas: []uuid.UUID{},
	}

	seenZones := make(map[int]bool)
	for _, parking := range parkings {
		if !seenZones[parking.ZoneNumber] {
			seenZones[parking.ZoneNumber] = true
			summary.Zones = append(summary.Zones, parking.ZoneNumber)
		}
	}

	for _, item := range permitItems {
		summary.Permits = append(summary.Permits, domain.PermitSummary{
			ExternalID: item.ExternalID,
			Subjects:   item.Subjects,
			Areas:      item.Areas,
		})
	}

	seenAreas := make(map[uuid.UUID]bool)
	for _, eventParking := range eventParkings {
		if eventParking.EventAreaID == nil {
			continue
		}
		if !seenAreas[*eventParking.EventAreaID] {
			seenAreas[*eventParking.EventAreaID] = true
			summary.EventAreas = append(summary.EventAreas, *eventParking.EventAreaID)
		}
	}

	return summary
}
