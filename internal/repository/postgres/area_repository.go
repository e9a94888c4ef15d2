package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
)

type areaRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
	srid   int
}

func NewAreaRepository(db *DB) repository.AreaRepository {
	return &areaRepository{
		db:     db.DB,
		logger: db.logger,
		srid:   db.srid,
	}
}

// The domain's planar projection does not cover the whole globe;
// transforming a point outside its coverage makes proj fail inside
// ST_Transform. That is a valid "nowhere" location for a check, so it
// maps to not-found instead of an error.
func isProjectionError(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return strings.Contains(pgErr.Message, "transform")
	}
	return false
}

// ResolveZone returns the highest-numbered payment zone containing the point.
func (r *areaRepository) ResolveZone(
	ctx context.Context,
	point domain.Point,
	domainID uuid.UUID,
) (*domain.PaymentZone, error) {
	query := `
		SELECT id, domain_id, code, number, name
		FROM payment_zones
		WHERE domain_id = $1
		  AND ST_Contains(geom, ST_Transform(ST_SetSRID(ST_MakePoint($2, $3), 4326), $4))
		ORDER BY number DESC
		LIMIT 1
	`

	var zone domain.PaymentZone
	err := r.db.QueryRowContext(ctx, query, domainID, point.Longitude, point.Latitude, r.srid).Scan(
		&zone.ID, &zone.DomainID, &zone.Code, &zone.Number, &zone.Name,
	)

	if err == sql.ErrNoRows || isProjectionError(err) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to resolve payment zone", zap.String("domain_id", domainID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &zone, nil
}

// ResolvePermitArea returns the first containing permit area in identifier order.
func (r *areaRepository) ResolvePermitArea(
	ctx context.Context,
	point domain.Point,
	domainID uuid.UUID,
) (*domain.PermitArea, error) {
	query := `
		SELECT id, domain_id, identifier, name
		FROM permit_areas
		WHERE domain_id = $1
		  AND ST_Contains(geom, ST_Transform(ST_SetSRID(ST_MakePoint($2, $3), 4326), $4))
		ORDER BY identifier
		LIMIT 1
	`

	var area domain.PermitArea
	err := r.db.QueryRowContext(ctx, query, domainID, point.Longitude, point.Latitude, r.srid).Scan(
		&area.ID, &area.DomainID, &area.Identifier, &area.Name,
	)

	if err == sql.ErrNoRows || isProjectionError(err) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to resolve permit area", zap.String("domain_id", domainID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &area, nil
}

// ResolveEventArea returns the first containing event area still open at the
// given instant. Only the end bound is tested here; exact activity (start
// bound and recurrence window) is the engine's concern.
func (r *areaRepository) ResolveEventArea(
	ctx context.Context,
	point domain.Point,
	domainID uuid.UUID,
	at time.Time,
) (*domain.EventArea, error) {
	query := `
		SELECT id, domain_id, time_start, time_end, is_test_event_area
		FROM event_areas
		WHERE domain_id = $1
		  AND time_end >= $2
		  AND ST_Contains(geom, ST_Transform(ST_SetSRID(ST_MakePoint($3, $4), 4326), $5))
		ORDER BY time_start, id
		LIMIT 1
	`

	var area domain.EventArea
	err := r.db.QueryRowContext(ctx, query, domainID, at, point.Longitude, point.Latitude, r.srid).Scan(
		&area.ID, &area.DomainID, &area.TimeStart, &area.TimeEnd, &area.IsTestEventArea,
	)

	if err == sql.ErrNoRows || isProjectionError(err) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to resolve event area", zap.String("domain_id", domainID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &area, nil
}

// ClosestEventArea returns the nearest event area within maxDistance planar units.
func (r *areaRepository) ClosestEventArea(
	ctx context.Context,
	point domain.Point,
	domainID uuid.UUID,
	maxDistance float64,
) (*uuid.UUID, error) {
	query := `
		WITH pt AS (
			SELECT ST_Transform(ST_SetSRID(ST_MakePoint($2, $3), 4326), $4) AS geom
		)
		SELECT id
		FROM event_areas, pt
		WHERE domain_id = $1
		  AND ST_DWithin(geom, pt.geom, $5)
		ORDER BY ST_Distance(geom, pt.geom)
		LIMIT 1
	`

	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, query, domainID, point.Longitude, point.Latitude, r.srid, maxDistance).Scan(&id)

	if err == sql.ErrNoRows || isProjectionError(err) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to find closest event area", zap.String("domain_id", domainID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &id, nil
}

// OverlappingParkingAreas returns the parking areas intersecting the event area's polygon.
func (r *areaRepository) OverlappingParkingAreas(ctx context.Context, eventAreaID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT pa.id
		FROM parking_areas pa
		JOIN event_areas ea ON ea.id = $1 AND ea.domain_id = pa.domain_id
		WHERE ST_Intersects(pa.geom, ea.geom)
		ORDER BY pa.id
	`

	rows, err := r.db.QueryContext(ctx, query, eventAreaID)
	if err != nil {
		r.logger.Error("Failed to query overlapping parking areas",
			zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.logger.Error("Failed to scan parking area id", zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating parking area rows", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return ids, nil
}

// ReplaceOverlapLinks reconciles the stored overlap links with the given set.
func (r *areaRepository) ReplaceOverlapLinks(ctx context.Context, eventAreaID uuid.UUID, parkingAreaIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin overlap link transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM event_area_parking_areas WHERE event_area_id = $1`, eventAreaID); err != nil {
		r.logger.Error("Failed to clear overlap links", zap.Error(err))
		return errors.ErrDatabaseError
	}

	for _, parkingAreaID := range parkingAreaIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_area_parking_areas (event_area_id, parking_area_id) VALUES ($1, $2)`,
			eventAreaID, parkingAreaID); err != nil {
			r.logger.Error("Failed to insert overlap link",
				zap.String("parking_area_id", parkingAreaID.String()), zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit overlap links", zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}
