package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/markushhgo/parkkihubi/internal/domain"
)

// EventParkingRepository reads and mutates event parking records.
type EventParkingRepository interface {
	// ActiveEventParkings returns the event parkings of the domain
	// valid at the given instant for the normalized plate, ordered by
	// (time_start, id).
	ActiveEventParkings(ctx context.Context, domainID uuid.UUID, normalizedRegNum string, at time.Time) ([]*domain.EventParking, error)

	GetByID(ctx context.Context, id uuid.UUID) (*domain.EventParking, error)
	Create(ctx context.Context, parking *domain.EventParking) error
	Update(ctx context.Context, parking *domain.EventParking) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AreasWithOpenEventParkings returns event areas referenced by at
	// least one open-ended (null time_end) event parking. The refresh
	// worker recomputes these periodically, since their computed income
	// advances with the clock.
	AreasWithOpenEventParkings(ctx context.Context) ([]uuid.UUID, error)
}

// EventAreaRepository persists event areas.
type EventAreaRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EventArea, error)
	// Save upserts the area; geometry is carried as GeoJSON in the
	// domain planar CRS.
	Save(ctx context.Context, area *domain.EventArea, geomGeoJSON string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
