package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/markushhgo/parkkihubi/internal/domain"
)

// ParkingRepository reads paid parking records for enforcement.
type ParkingRepository interface {
	// ActiveParkings returns the parkings of the domain valid at the
	// given instant for the normalized plate, ordered by
	// (time_start, id) so the engine's first-match rule is
	// deterministic.
	ActiveParkings(ctx context.Context, domainID uuid.UUID, normalizedRegNum string, at time.Time) ([]*domain.Parking, error)
}

// PermitRepository reads the denormalized permit lookup rows.
type PermitRepository interface {
	// ActiveLookupItems returns the lookup items of the domain's active
	// permit series matching the normalized plate and containing the
	// given instant, ordered by (end_time, id) so the earliest-ending
	// item comes first.
	ActiveLookupItems(ctx context.Context, domainID uuid.UUID, normalizedRegNum string, at time.Time) ([]*domain.PermitLookupItem, error)
}
