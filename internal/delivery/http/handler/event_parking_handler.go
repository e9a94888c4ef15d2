package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markushhgo/parkkihubi/internal/delivery/http/middleware"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
	"github.com/markushhgo/parkkihubi/internal/pkg/utils"
	"github.com/markushhgo/parkkihubi/internal/pkg/validator"
	"github.com/markushhgo/parkkihubi/internal/usecase"
	"github.com/markushhgo/parkkihubi/internal/usecase/dto"
)

// EventParkingHandler serves the operator event-parking CRUD endpoints.
type EventParkingHandler struct {
	eventParkingUC *usecase.EventParkingUseCase
	logger         *zap.Logger
}

func NewEventParkingHandler(eventParkingUC *usecase.EventParkingUseCase, logger *zap.Logger) *EventParkingHandler {
	return &EventParkingHandler{
		eventParkingUC: eventParkingUC,
		logger:         logger,
	}
}

func (h *EventParkingHandler) parseRequest(c *fiber.Ctx) (dto.EventParkingRequest, error) {
	var req dto.EventParkingRequest
	if err := c.BodyParser(&req); err != nil {
		return req, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": "invalid request body",
		})
	}

	req.DomainID = c.Locals(middleware.LocalsDomainID).(uuid.UUID)
	req.OperatorID = c.Locals(middleware.LocalsOperatorID).(uuid.UUID)

	if err := validator.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

// Create registers a new event parking for the operator.
func (h *EventParkingHandler) Create(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	created, err := h.eventParkingUC.Create(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Get returns one of the operator's event parkings.
func (h *EventParkingHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrEventParkingNotFound)
	}

	operatorID := c.Locals(middleware.LocalsOperatorID).(uuid.UUID)
	eventParking, err := h.eventParkingUC.GetByID(c.Context(), id, operatorID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(eventParking)
}

// Update rewrites one of the operator's event parkings.
func (h *EventParkingHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrEventParkingNotFound)
	}

	req, err := h.parseRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	updated, err := h.eventParkingUC.Update(c.Context(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(updated)
}

// Delete removes one of the operator's event parkings.
func (h *EventParkingHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrEventParkingNotFound)
	}

	operatorID := c.Locals(middleware.LocalsOperatorID).(uuid.UUID)
	if err := h.eventParkingUC.Delete(c.Context(), id, operatorID); err != nil {
		return utils.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
