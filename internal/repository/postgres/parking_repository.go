package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
)

type parkingRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewParkingRepository(db *DB) repository.ParkingRepository {
	return &parkingRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// ActiveParkings returns the domain's parkings valid at the given time for
// the normalized plate. Ordered by (time_start, id): the first-match rule of
// the compliance engine must not depend on storage-incidental row order.
func (r *parkingRepository) ActiveParkings(
	ctx context.Context,
	domainID uuid.UUID,
	normalizedRegNum string,
	at time.Time,
) ([]*domain.Parking, error) {
	query := `
		SELECT
			p.id, p.domain_id,
			p.operator_id, o.name AS operator_name,
			p.zone_id, z.number AS zone_number,
			p.registration_number, p.normalized_reg_num,
			p.time_start, p.time_end
		FROM parkings p
		JOIN payment_zones z ON z.id = p.zone_id
		JOIN operators o ON o.id = p.operator_id
		WHERE p.domain_id = $1
		  AND p.normalized_reg_num = $2
		  AND p.time_start <= $3
		  AND (p.time_end IS NULL OR p.time_end >= $3)
		ORDER BY p.time_start, p.id
	`

	rows, err := r.db.QueryContext(ctx, query, domainID, normalizedRegNum, at)
	if err != nil {
		r.logger.Error("Failed to query active parkings",
			zap.String("domain_id", domainID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var parkings []*domain.Parking
	for rows.Next() {
		var p domain.Parking
		err := rows.Scan(
			&p.ID, &p.DomainID,
			&p.OperatorID, &p.OperatorName,
			&p.ZoneID, &p.ZoneNumber,
			&p.RegistrationNum, &p.NormalizedRegNum,
			&p.TimeStart, &p.TimeEnd,
		)
		if err != nil {
			r.logger.Error("Failed to scan parking", zap.Error(err))
			continue
		}
		parkings = append(parkings, &p)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating parking rows", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return parkings, nil
}
