package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
)

type checkRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCheckRepository(db *DB) repository.CheckRepository {
	return &checkRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Create appends one audit row. The table is insert-only; a check result
// without its audit record is meaningless, so any failure here surfaces to
// the caller as a hard error.
func (r *checkRepository) Create(ctx context.Context, check *domain.ParkingCheck) error {
	result, err := json.Marshal(check.Result)
	if err != nil {
		r.logger.Error("Failed to encode check result", zap.Error(err))
		return errors.ErrInternalServer
	}

	query := `
		INSERT INTO parking_checks (
			id, time, time_overridden,
			registration_number, location, performer,
			result, allowed,
			found_parking_id, found_event_parking_id
		) VALUES (
			$1, $2, $3,
			$4, ST_SetSRID(ST_MakePoint($5, $6), 4326), $7,
			$8, $9,
			$10, $11
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		check.ID, check.Time, check.TimeOverridden,
		check.RegistrationNumber, check.Location.Longitude, check.Location.Latitude, check.Performer,
		result, check.Allowed,
		check.FoundParkingID, check.FoundEventParking,
	)
	if err != nil {
		r.logger.Error("Failed to create parking check", zap.String("id", check.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}
