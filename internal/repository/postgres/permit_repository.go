package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
)

type permitRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPermitRepository(db *DB) repository.PermitRepository {
	return &permitRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// ActiveLookupItems returns the lookup items of the domain's active permit
// series for the plate, windows containing the given time. Ordered by
// (end_time, id): the earliest-ending item is the permit verdict's end time,
// so it must come first deterministically.
func (r *permitRepository) ActiveLookupItems(
	ctx context.Context,
	domainID uuid.UUID,
	normalizedRegNum string,
	at time.Time,
) ([]*domain.PermitLookupItem, error) {
	query := `
		SELECT
			i.id, i.permit_id, p.series_id, p.external_id,
			i.normalized_reg_num, i.area_identifier,
			i.start_time, i.end_time,
			p.subjects, p.areas
		FROM permit_lookup_items i
		JOIN permits p ON p.id = i.permit_id
		JOIN permit_series s ON s.id = p.series_id
		WHERE p.domain_id = $1
		  AND s.active
		  AND i.normalized_reg_num = $2
		  AND i.start_time <= $3
		  AND i.end_time >= $3
		ORDER BY i.end_time, i.id
	`

	rows, err := r.db.QueryContext(ctx, query, domainID, normalizedRegNum, at)
	if err != nil {
		r.logger.Error("Failed to query permit lookup items",
			zap.String("domain_id", domainID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var items []*domain.PermitLookupItem
	for rows.Next() {
		var item domain.PermitLookupItem
		var subjects, areas []byte
		err := rows.Scan(
			&item.ID, &item.PermitID, &item.SeriesID, &item.ExternalID,
			&item.NormalizedRegNum, &item.AreaIdentifier,
			&item.StartTime, &item.EndTime,
			&subjects, &areas,
		)
		if err != nil {
			r.logger.Error("Failed to scan permit lookup item", zap.Error(err))
			continue
		}
		if err := json.Unmarshal(subjects, &item.Subjects); err != nil {
			r.logger.Error("Failed to decode permit subjects",
				zap.String("permit_id", item.PermitID.String()), zap.Error(err))
			continue
		}
		if err := json.Unmarshal(areas, &item.Areas); err != nil {
			r.logger.Error("Failed to decode permit areas",
				zap.String("permit_id", item.PermitID.String()), zap.Error(err))
			continue
		}
		items = append(items, &item)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating permit lookup item rows", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return items, nil
}
