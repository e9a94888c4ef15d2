package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/markushhgo/parkkihubi/internal/domain"
)

// AreaRepository resolves WGS84 points against the area geometries of
// one enforcement domain. A point outside the domain's planar
// projection coverage resolves to (nil, nil), never to an error.
type AreaRepository interface {
	// ResolveZone returns the containing payment zone with the highest
	// number, or nil when the point is in no zone. Zone numbering
	// encodes nesting: the highest-numbered containing zone is the
	// operative one.
	ResolveZone(ctx context.Context, point domain.Point, domainID uuid.UUID) (*domain.PaymentZone, error)

	// ResolvePermitArea returns the first containing permit area in
	// identifier order, or nil.
	ResolvePermitArea(ctx context.Context, point domain.Point, domainID uuid.UUID) (*domain.PermitArea, error)

	// ResolveEventArea returns the first containing event area whose
	// time_end has not passed at the given instant, or nil. This is a
	// coarse existence bound; exact activity is checked by the engine.
	ResolveEventArea(ctx context.Context, point domain.Point, domainID uuid.UUID, at time.Time) (*domain.EventArea, error)

	// ClosestEventArea returns the nearest event area within
	// maxDistance planar units of the point, or nil when none is close
	// enough. Used when an event parking arrives without an area.
	ClosestEventArea(ctx context.Context, point domain.Point, domainID uuid.UUID, maxDistance float64) (*uuid.UUID, error)

	// OverlappingParkingAreas returns the parking areas whose polygon
	// intersects the event area's polygon.
	OverlappingParkingAreas(ctx context.Context, eventAreaID uuid.UUID) ([]uuid.UUID, error)

	// ReplaceOverlapLinks reconciles the stored event-area to
	// parking-area links with the given set.
	ReplaceOverlapLinks(ctx context.Context, eventAreaID uuid.UUID, parkingAreaIDs []uuid.UUID) error
}
