package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/markushhgo/parkkihubi/internal/domain"
)

// CacheRepository is the read-side cache for statistics payloads.
type CacheRepository interface {
	GetStatistics(ctx context.Context, eventAreaID uuid.UUID) (*domain.EventAreaStatistics, error)
	SetStatistics(ctx context.Context, eventAreaID uuid.UUID, stats *domain.EventAreaStatistics, ttl time.Duration) error
	InvalidateStatistics(ctx context.Context, eventAreaID uuid.UUID) error
}
