package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
)

type eventAreaRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
	srid   int
}

func NewEventAreaRepository(db *DB) repository.EventAreaRepository {
	return &eventAreaRepository{
		db:     db.DB,
		logger: db.logger,
		srid:   db.srid,
	}
}

const eventAreaColumns = `
	id, domain_id, time_start, time_end,
	price, price_unit_length,
	time_period_time_start, time_period_time_end, time_period_days_of_week,
	bus_stop_numbers, description, is_test_event_area
`

func (r *eventAreaRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EventArea, error) {
	query := `SELECT ` + eventAreaColumns + ` FROM event_areas WHERE id = $1`

	var area domain.EventArea
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&area.ID, &area.DomainID, &area.TimeStart, &area.TimeEnd,
		&area.Price, &area.PriceUnitLength,
		&area.TimePeriodTimeStart, &area.TimePeriodTimeEnd, pq.Array(&area.TimePeriodDaysOfWeek),
		pq.Array(&area.BusStopNumbers), &area.Description, &area.IsTestEventArea,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrEventAreaNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get event area by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &area, nil
}

// Save upserts the area. The geometry arrives as GeoJSON already expressed in
// the domain planar CRS.
func (r *eventAreaRepository) Save(ctx context.Context, area *domain.EventArea, geomGeoJSON string) error {
	query := `
		INSERT INTO event_areas (
			id, domain_id, time_start, time_end,
			price, price_unit_length,
			time_period_time_start, time_period_time_end, time_period_days_of_week,
			bus_stop_numbers, description, is_test_event_area,
			geom
		) VALUES (
			$1, $2, $3, $4,
			$5, $6,
			$7, $8, $9,
			$10, $11, $12,
			ST_SetSRID(ST_GeomFromGeoJSON($13), $14)
		)
		ON CONFLICT (id) DO UPDATE SET
			time_start = EXCLUDED.time_start,
			time_end = EXCLUDED.time_end,
			price = EXCLUDED.price,
			price_unit_length = EXCLUDED.price_unit_length,
			time_period_time_start = EXCLUDED.time_period_time_start,
			time_period_time_end = EXCLUDED.time_period_time_end,
			time_period_days_of_week = EXCLUDED.time_period_days_of_week,
			bus_stop_numbers = EXCLUDED.bus_stop_numbers,
			description = EXCLUDED.description,
			is_test_event_area = EXCLUDED.is_test_event_area,
			geom = EXCLUDED.geom
	`

	_, err := r.db.ExecContext(ctx, query,
		area.ID, area.DomainID, area.TimeStart, area.TimeEnd,
		area.Price, area.PriceUnitLength,
		area.TimePeriodTimeStart, area.TimePeriodTimeEnd, pq.Array(area.TimePeriodDaysOfWeek),
		pq.Array(area.BusStopNumbers), area.Description, area.IsTestEventArea,
		geomGeoJSON, r.srid,
	)
	if err != nil {
		r.logger.Error("Failed to save event area", zap.String("id", area.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *eventAreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM event_areas WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete event area", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.ErrEventAreaNotFound
	}

	return nil
}
