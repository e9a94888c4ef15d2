package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/usecase"
	"github.com/markushhgo/parkkihubi/internal/usecase/dto"
)

type eventAreaFixture struct {
	eventAreaRepo *MockEventAreaRepository
	areaRepo      *MockAreaRepository
	statsRepo     *MockStatisticsRepository
	uc            *usecase.EventAreaUseCase
}

func newEventAreaFixture() *eventAreaFixture {
	f := &eventAreaFixture{
		eventAreaRepo: &MockEventAreaRepository{},
		areaRepo:      &MockAreaRepository{},
		statsRepo:     &MockStatisticsRepository{},
	}
	f.uc = usecase.NewEventAreaUseCase(f.eventAreaRepo, f.areaRepo, f.statsRepo, zap.NewNop())
	return f
}

func eventAreaRequest() dto.EventAreaRequest {
	return dto.EventAreaRequest{
		TimeStart: testNow,
		TimeEnd:   testNow.Add(48 * time.Hour),
		Geometry:  json.RawMessage(`{"type":"MultiPolygon","coordinates":[[[[0,0],[0,1],[1,1],[0,0]]]]}`),
		DomainID:  testDomainID,
	}
}

func TestEventAreaUseCase_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("save ensures statistics and rebuilds overlap links", func(t *testing.T) {
		f := newEventAreaFixture()
		overlapping := []uuid.UUID{uuid.New(), uuid.New()}

		f.eventAreaRepo.On("Save", ctx, mock.Anything, mock.Anything).Return(nil)
		f.statsRepo.On("EnsureForEventArea", ctx, mock.Anything).Return(nil)
		f.areaRepo.On("OverlappingParkingAreas", ctx, mock.Anything).Return(overlapping, nil)
		f.areaRepo.On("ReplaceOverlapLinks", ctx, mock.Anything, overlapping).Return(nil)

		area, err := f.uc.Save(ctx, eventAreaRequest())

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, area.ID)
		f.statsRepo.AssertCalled(t, "EnsureForEventArea", ctx, area.ID)
		f.areaRepo.AssertCalled(t, "ReplaceOverlapLinks", ctx, area.ID, overlapping)
	})

	t.Run("invalid period definition never reaches storage", func(t *testing.T) {
		f := newEventAreaFixture()

		req := eventAreaRequest()
		start := "10:00:00"
		req.TimePeriodTimeStart = &start
		// End and weekdays missing, the period triple is incomplete.
		_, err := f.uc.Save(ctx, req)

		assert.Error(t, err)
		f.eventAreaRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("existing id is kept on update", func(t *testing.T) {
		f := newEventAreaFixture()
		id := uuid.New()

		f.eventAreaRepo.On("Save", ctx, mock.Anything, mock.Anything).Return(nil)
		f.statsRepo.On("EnsureForEventArea", ctx, id).Return(nil)
		f.areaRepo.On("OverlappingParkingAreas", ctx, id).Return([]uuid.UUID{}, nil)
		f.areaRepo.On("ReplaceOverlapLinks", ctx, id, []uuid.UUID{}).Return(nil)

		req := eventAreaRequest()
		req.ID = &id
		area, err := f.uc.Save(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, id, area.ID)
	})
}

func TestEventAreaUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("test area takes its statistics with it", func(t *testing.T) {
		f := newEventAreaFixture()
		f.eventAreaRepo.On("GetByID", ctx, id).Return(&domain.EventArea{ID: id, IsTestEventArea: true}, nil)
		f.statsRepo.On("DeleteForEventArea", ctx, id).Return(nil)
		f.eventAreaRepo.On("Delete", ctx, id).Return(nil)

		require.NoError(t, f.uc.Delete(ctx, id))
		f.statsRepo.AssertCalled(t, "DeleteForEventArea", ctx, id)
	})

	t.Run("real area orphans its statistics", func(t *testing.T) {
		f := newEventAreaFixture()
		f.eventAreaRepo.On("GetByID", ctx, id).Return(&domain.EventArea{ID: id}, nil)
		f.eventAreaRepo.On("Delete", ctx, id).Return(nil)

		require.NoError(t, f.uc.Delete(ctx, id))
		f.statsRepo.AssertNotCalled(t, "DeleteForEventArea", mock.Anything, mock.Anything)
	})
}
