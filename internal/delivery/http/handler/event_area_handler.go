package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/delivery/http/middleware"
	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/pkg/clock"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
	"github.com/markushhgo/parkkihubi/internal/pkg/utils"
	"github.com/markushhgo/parkkihubi/internal/pkg/validator"
	"github.com/markushhgo/parkkihubi/internal/usecase"
	"github.com/markushhgo/parkkihubi/internal/usecase/dto"
)

// EventAreaHandler serves the administrative event-area endpoints.
type EventAreaHandler struct {
	eventAreaUC *usecase.EventAreaUseCase
	logger      *zap.Logger
	now         clock.Clock
}

func NewEventAreaHandler(eventAreaUC *usecase.EventAreaUseCase, logger *zap.Logger, now clock.Clock) *EventAreaHandler {
	return &EventAreaHandler{
		eventAreaUC: eventAreaUC,
		logger:      logger,
		now:         now,
	}
}

// eventAreaResponse is the wire shape of an event area. Activity is a
// derived property of the serving instant, not a stored column.
type eventAreaResponse struct {
	*domain.EventArea
	IsActive bool `json:"is_active"`
}

func newEventAreaResponse(area *domain.EventArea, now clock.Clock) eventAreaResponse {
	return eventAreaResponse{
		EventArea: area,
		IsActive:  area.IsActive(now()),
	}
}

// Get returns one event area definition.
func (h *EventAreaHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrEventAreaNotFound)
	}

	area, err := h.eventAreaUC.GetByID(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(newEventAreaResponse(area, h.now))
}

// Save upserts an event area definition.
func (h *EventAreaHandler) Save(c *fiber.Ctx) error {
	var req dto.EventAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": "invalid request body",
		}))
	}
	req.DomainID = c.Locals(middleware.LocalsDomainID).(uuid.UUID)

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	area, err := h.eventAreaUC.Save(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(newEventAreaResponse(area, h.now))
}

// Delete removes an event area definition.
func (h *EventAreaHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrEventAreaNotFound)
	}

	if err := h.eventAreaUC.Delete(c.Context(), id); err != nil {
		return utils.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
