package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
	"github.com/markushhgo/parkkihubi/internal/pkg/utils"
	"github.com/markushhgo/parkkihubi/internal/usecase"
)

// StatisticsHandler serves the public event-area statistics endpoint.
type StatisticsHandler struct {
	statsUC *usecase.StatisticsUseCase
	logger  *zap.Logger
}

func NewStatisticsHandler(statsUC *usecase.StatisticsUseCase, logger *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		statsUC: statsUC,
		logger:  logger,
	}
}

type statisticsResponse struct {
	ID                  uuid.UUID       `json:"id"`
	TotalParkingCount   int             `json:"total_parking_count"`
	TotalParkingCharges int             `json:"total_parking_charges"`
	TotalParkingIncome  decimal.Decimal `json:"total_parking_income"`
}

// blurCount hides small counts so individual vehicles cannot be
// inferred from the public figures.
func blurCount(count int) int {
	if count <= 3 {
		return 0
	}
	return count
}

// GetEventAreaStatistics returns the public statistics of one event area.
func (h *StatisticsHandler) GetEventAreaStatistics(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrStatisticsNotFound)
	}

	stats, err := h.statsUC.GetStatistics(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, statisticsResponse{
		ID:                  id,
		TotalParkingCount:   blurCount(stats.TotalParkingCount),
		TotalParkingCharges: stats.TotalParkingCharges,
		TotalParkingIncome:  stats.TotalParkingIncome,
	}, nil)
}
