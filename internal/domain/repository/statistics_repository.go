package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/markushhgo/parkkihubi/internal/domain"
)

// RecomputeFunc derives fresh totals from the area, its current event
// parkings and the existing row. Returning nil means leave the row as
// it is.
type RecomputeFunc func(
	area *domain.EventArea,
	parkings []*domain.EventParking,
	stats *domain.EventAreaStatistics,
) *domain.EventAreaStatistics

// StatisticsRepository owns the per-event-area statistics rows.
type StatisticsRepository interface {
	GetByEventArea(ctx context.Context, eventAreaID uuid.UUID) (*domain.EventAreaStatistics, error)

	// EnsureForEventArea lazily creates an all-zero row for the area if
	// none exists yet.
	EnsureForEventArea(ctx context.Context, eventAreaID uuid.UUID) error

	// DeleteForEventArea removes the row; used only for test areas,
	// real areas orphan their statistics on deletion instead.
	DeleteForEventArea(ctx context.Context, eventAreaID uuid.UUID) error

	// RecomputeForEventArea runs recompute inside one transaction with
	// the statistics row locked, so concurrent mutations of the same
	// area serialize while different areas proceed independently. When
	// the area has no statistics row the call is a no-op.
	RecomputeForEventArea(ctx context.Context, eventAreaID uuid.UUID, recompute RecomputeFunc) error
}
