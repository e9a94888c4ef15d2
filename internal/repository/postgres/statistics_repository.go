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

type statisticsRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewStatisticsRepository(db *DB) repository.StatisticsRepository {
	return &statisticsRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const statisticsColumns = `
	id, event_area_id,
	total_parking_count, total_parking_charges, total_parking_income,
	created_at, modified_at
`

func (r *statisticsRepository) GetByEventArea(
	ctx context.Context,
	eventAreaID uuid.UUID,
) (*domain.EventAreaStatistics, error) {
	query := `SELECT ` + statisticsColumns + ` FROM event_area_statistics WHERE event_area_id = $1`

	var stats domain.EventAreaStatistics
	err := r.db.QueryRowContext(ctx, query, eventAreaID).Scan(
		&stats.ID, &stats.EventAreaID,
		&stats.TotalParkingCount, &stats.TotalParkingCharges, &stats.TotalParkingIncome,
		&stats.CreatedAt, &stats.ModifiedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrStatisticsNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get event area statistics",
			zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &stats, nil
}

// EnsureForEventArea lazily creates the all-zero row on first save of an area.
func (r *statisticsRepository) EnsureForEventArea(ctx context.Context, eventAreaID uuid.UUID) error {
	query := `
		INSERT INTO event_area_statistics (
			id, event_area_id,
			total_parking_count, total_parking_charges, total_parking_income,
			created_at, modified_at
		) VALUES ($1, $2, 0, 0, 0.00, now(), now())
		ON CONFLICT (event_area_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, uuid.New(), eventAreaID); err != nil {
		r.logger.Error("Failed to ensure event area statistics",
			zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *statisticsRepository) DeleteForEventArea(ctx context.Context, eventAreaID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM event_area_statistics WHERE event_area_id = $1`, eventAreaID); err != nil {
		r.logger.Error("Failed to delete event area statistics",
			zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

// RecomputeForEventArea re-derives the totals inside one transaction. The
// statistics row is locked first, so two mutations racing on the same area
// serialize; different areas never wait on each other. Either the whole unit
// commits or nothing does.
func (r *statisticsRepository) RecomputeForEventArea(
	ctx context.Context,
	eventAreaID uuid.UUID,
	recompute repository.RecomputeFunc,
) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin statistics transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback()

	stats, err := r.lockStatistics(ctx, tx, eventAreaID)
	if err != nil {
		return err
	}
	if stats == nil {
		// No statistics row for the area: nothing to update. Should not
		// happen in normal operation since rows are created on area save.
		r.logger.Warn("Recompute requested for event area without statistics",
			zap.String("event_area_id", eventAreaID.String()))
		return nil
	}

	area, err := r.loadArea(ctx, tx, eventAreaID)
	if err != nil {
		return err
	}

	parkings, err := r.loadParkings(ctx, tx, eventAreaID)
	if err != nil {
		return err
	}

	updated := recompute(area, parkings, stats)
	if updated == nil {
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE event_area_statistics SET
			total_parking_count = $2,
			total_parking_charges = $3,
			total_parking_income = $4,
			modified_at = now()
		WHERE id = $1
	`, updated.ID, updated.TotalParkingCount, updated.TotalParkingCharges, updated.TotalParkingIncome)
	if err != nil {
		r.logger.Error("Failed to update event area statistics",
			zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit statistics update", zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *statisticsRepository) lockStatistics(
	ctx context.Context,
	tx *sqlx.Tx,
	eventAreaID uuid.UUID,
) (*domain.EventAreaStatistics, error) {
	query := `SELECT ` + statisticsColumns + `
		FROM event_area_statistics
		WHERE event_area_id = $1
		FOR UPDATE`

	var stats domain.EventAreaStatistics
	err := tx.QueryRowContext(ctx, query, eventAreaID).Scan(
		&stats.ID, &stats.EventAreaID,
		&stats.TotalParkingCount, &stats.TotalParkingCharges, &stats.TotalParkingIncome,
		&stats.CreatedAt, &stats.ModifiedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to lock event area statistics",
			zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &stats, nil
}

func (r *statisticsRepository) loadArea(
	ctx context.Context,
	tx *sqlx.Tx,
	eventAreaID uuid.UUID,
) (*domain.EventArea, error) {
	query := `SELECT ` + eventAreaColumns + ` FROM event_areas WHERE id = $1`

	var area domain.EventArea
	err := tx.QueryRowContext(ctx, query, eventAreaID).Scan(
		&area.ID, &area.DomainID, &area.TimeStart, &area.TimeEnd,
		&area.Price, &area.PriceUnitLength,
		&area.TimePeriodTimeStart, &area.TimePeriodTimeEnd, pq.Array(&area.TimePeriodDaysOfWeek),
		pq.Array(&area.BusStopNumbers), &area.Description, &area.IsTestEventArea,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrEventAreaNotFound
	}
	if err != nil {
		r.logger.Error("Failed to load event area for recompute",
			zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &area, nil
}

// loadParkings returns every event parking referencing the area regardless of
// its validity window; the count is historical, not a live occupancy.
func (r *statisticsRepository) loadParkings(
	ctx context.Context,
	tx *sqlx.Tx,
	eventAreaID uuid.UUID,
) ([]*domain.EventParking, error) {
	query := `
		SELECT id, domain_id, event_area_id, registration_number, normalized_reg_num, time_start, time_end
		FROM event_parkings
		WHERE event_area_id = $1
		ORDER BY time_start, id
	`

	rows, err := tx.QueryContext(ctx, query, eventAreaID)
	if err != nil {
		r.logger.Error("Failed to query event parkings for recompute",
			zap.String("event_area_id", eventAreaID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var parkings []*domain.EventParking
	for rows.Next() {
		var p domain.EventParking
		err := rows.Scan(
			&p.ID, &p.DomainID, &p.EventAreaID,
			&p.RegistrationNum, &p.NormalizedRegNum,
			&p.TimeStart, &p.TimeEnd,
		)
		if err != nil {
			r.logger.Error("Failed to scan event parking for recompute", zap.Error(err))
			continue
		}
		parkings = append(parkings, &p)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating event parkings for recompute", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return parkings, nil
}
