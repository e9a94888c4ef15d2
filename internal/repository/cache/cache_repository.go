package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/domain/repository"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(r *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: r.Client(),
		logger: r.logger,
	}
}

func statisticsKey(eventAreaID uuid.UUID) string {
	return fmt.Sprintf("stats:event_area:%s", eventAreaID)
}

func (r *cacheRepository) GetStatistics(
	ctx context.Context,
	eventAreaID uuid.UUID,
) (*domain.EventAreaStatistics, error) {
	key := statisticsKey(eventAreaID)

	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get statistics from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var stats domain.EventAreaStatistics
	if err := json.Unmarshal(val, &stats); err != nil {
		r.logger.Error("Failed to decode cached statistics", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache decode error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return &stats, nil
}

func (r *cacheRepository) SetStatistics(
	ctx context.Context,
	eventAreaID uuid.UUID,
	stats *domain.EventAreaStatistics,
	ttl time.Duration,
) error {
	key := statisticsKey(eventAreaID)

	val, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("cache encode error: %w", err)
	}

	if err := r.client.Set(ctx, key, val, ttl).Err(); err != nil {
		r.logger.Error("Failed to set statistics cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) InvalidateStatistics(ctx context.Context, eventAreaID uuid.UUID) error {
	key := statisticsKey(eventAreaID)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to invalidate statistics cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache invalidated", zap.String("key", key))
	return nil
}
