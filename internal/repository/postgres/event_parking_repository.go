package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
)

type eventParkingRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewEventParkingRepository(db *DB) repository.EventParkingRepository {
	return &eventParkingRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// ActiveEventParkings returns the domain's event parkings valid at the given
// time for the normalized plate, ordered by (time_start, id).
func (r *eventParkingRepository) ActiveEventParkings(
	ctx context.Context,
	domainID uuid.UUID,
	normalizedRegNum string,
	at time.Time,
) ([]*domain.EventParking, error) {
	query := `
		SELECT
			p.id, p.domain_id,
			p.operator_id, o.name AS operator_name,
			p.event_area_id,
			p.registration_number, p.normalized_reg_num,
			p.time_start, p.time_end
		FROM event_parkings p
		JOIN operators o ON o.id = p.operator_id
		WHERE p.domain_id = $1
		  AND p.normalized_reg_num = $2
		  AND p.time_start <= $3
		  AND (p.time_end IS NULL OR p.time_end >= $3)
		ORDER BY p.time_start, p.id
	`

	rows, err := r.db.QueryContext(ctx, query, domainID, normalizedRegNum, at)
	if err != nil {
		r.logger.Error("Failed to query active event parkings",
			zap.String("domain_id", domainID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var parkings []*domain.EventParking
	for rows.Next() {
		p, err := scanEventParking(rows)
		if err != nil {
			r.logger.Error("Failed to scan event parking", zap.Error(err))
			continue
		}
		parkings = append(parkings, p)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating event parking rows", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return parkings, nil
}

func scanEventParking(rows *sql.Rows) (*domain.EventParking, error) {
	var p domain.EventParking
	err := rows.Scan(
		&p.ID, &p.DomainID,
		&p.OperatorID, &p.OperatorName,
		&p.EventAreaID,
		&p.RegistrationNum, &p.NormalizedRegNum,
		&p.TimeStart, &p.TimeEnd,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *eventParkingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EventParking, error) {
	query := `
		SELECT
			p.id, p.domain_id,
			p.operator_id, o.name AS operator_name,
			p.event_area_id,
			p.registration_number, p.normalized_reg_num,
			ST_Y(p.location) AS latitude, ST_X(p.location) AS longitude,
			p.time_start, p.time_end
		FROM event_parkings p
		JOIN operators o ON o.id = p.operator_id
		WHERE p.id = $1
	`

	var p domain.EventParking
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.DomainID,
		&p.OperatorID, &p.OperatorName,
		&p.EventAreaID,
		&p.RegistrationNum, &p.NormalizedRegNum,
		&p.Location.Latitude, &p.Location.Longitude,
		&p.TimeStart, &p.TimeEnd,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrEventParkingNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get event parking by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &p, nil
}

func (r *eventParkingRepository) Create(ctx context.Context, parking *domain.EventParking) error {
	query := `
		INSERT INTO event_parkings (
			id, domain_id, operator_id, event_area_id,
			registration_number, normalized_reg_num,
			location, time_start, time_end
		) VALUES (
			$1, $2, $3, $4,
			$5, $6,
			ST_SetSRID(ST_MakePoint($7, $8), 4326), $9, $10
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		parking.ID, parking.DomainID, parking.OperatorID, parking.EventAreaID,
		parking.RegistrationNum, parking.NormalizedRegNum,
		parking.Location.Longitude, parking.Location.Latitude,
		parking.TimeStart, parking.TimeEnd,
	)
	if err != nil {
		r.logger.Error("Failed to create event parking", zap.String("id", parking.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *eventParkingRepository) Update(ctx context.Context, parking *domain.EventParking) error {
	query := `
		UPDATE event_parkings SET
			event_area_id = $2,
			registration_number = $3,
			normalized_reg_num = $4,
			location = ST_SetSRID(ST_MakePoint($5, $6), 4326),
			time_start = $7,
			time_end = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		parking.ID, parking.EventAreaID,
		parking.RegistrationNum, parking.NormalizedRegNum,
		parking.Location.Longitude, parking.Location.Latitude,
		parking.TimeStart, parking.TimeEnd,
	)
	if err != nil {
		r.logger.Error("Failed to update event parking", zap.String("id", parking.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.ErrEventParkingNotFound
	}

	return nil
}

func (r *eventParkingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM event_parkings WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete event parking", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.ErrEventParkingNotFound
	}

	return nil
}

// AreasWithOpenEventParkings lists event areas holding at least one
// open-ended event parking.
func (r *eventParkingRepository) AreasWithOpenEventParkings(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT event_area_id
		FROM event_parkings
		WHERE event_area_id IS NOT NULL
		  AND time_end IS NULL
		ORDER BY event_area_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query areas with open event parkings", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.logger.Error("Failed to scan event area id", zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating event area id rows", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return ids, nil
}
