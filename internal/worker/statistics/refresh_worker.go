package statistics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain/repository"
	"github.com/markushhgo/parkkihubi/internal/usecase"
	"github.com/markushhgo/parkkihubi/internal/worker"
)

// RefreshWorker periodically recomputes statistics for event areas
// that have open-ended event parkings. Their computed income advances
// with the clock, so a one-shot recompute on mutation is not enough.
type RefreshWorker struct {
	*worker.BaseWorker

	eventParkingRepo repository.EventParkingRepository
	statsUC          *usecase.StatisticsUseCase
	interval         time.Duration
}

func NewRefreshWorker(
	eventParkingRepo repository.EventParkingRepository,
	statsUC *usecase.StatisticsUseCase,
	interval time.Duration,
	logger *zap.Logger,
) *RefreshWorker {
	return &RefreshWorker{
		BaseWorker:       worker.NewBaseWorker("statistics-refresh", logger),
		eventParkingRepo: eventParkingRepo,
		statsUC:          statsUC,
		interval:         interval,
	}
}

// Start runs one refresh immediately and then on every tick until the
// context is cancelled or the worker is stopped.
func (w *RefreshWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.StopChan():
			return nil
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	areaIDs, err := w.eventParkingRepo.AreasWithOpenEventParkings(ctx)
	if err != nil {
		w.Logger().Error("Failed to list areas with open event parkings", zap.Error(err))
		return
	}
	if len(areaIDs) == 0 {
		return
	}

	refreshed := 0
	for _, areaID := range areaIDs {
		if err := w.statsUC.RecomputeForEventArea(ctx, areaID); err != nil {
			w.Logger().Error("Failed to refresh event area statistics",
				zap.String("event_area_id", areaID.String()), zap.Error(err))
			continue
		}
		refreshed++
	}

	w.Logger().Info("Refreshed event area statistics",
		zap.Int("areas", len(areaIDs)),
		zap.Int("refreshed", refreshed),
	)
}
