package handler

import (
	"time"

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

// CheckHandler serves the enforcement compliance check endpoint.
type CheckHandler struct {
	checkUC *usecase.CheckUseCase
	logger  *zap.Logger
}

func NewCheckHandler(checkUC *usecase.CheckUseCase, logger *zap.Logger) *CheckHandler {
	return &CheckHandler{
		checkUC: checkUC,
		logger:  logger,
	}
}

type checkBody struct {
	RegistrationNumber string            `json:"registration_number"`
	Location           dto.CheckLocation `json:"location"`
	Time               string            `json:"time"`
	Details            []string          `json:"details"`
}

// naiveLayouts are timestamp shapes that parse but carry no UTC offset.
// A time override without an explicit offset is ambiguous and rejected.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCheckTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t, nil
	}
	for _, layout := range naiveLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return nil, errors.ErrNaiveTimestamp
		}
	}
	return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
		"time": "unparseable time value",
	})
}

// CheckParking runs one compliance check for the authenticated enforcer.
func (h *CheckHandler) CheckParking(c *fiber.Ctx) error {
	var body checkBody
	if err := c.BodyParser(&body); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": "invalid request body",
		}))
	}

	overrideTime, err := parseCheckTime(body.Time)
	if err != nil {
		return utils.SendError(c, err)
	}

	req := dto.CheckRequest{
		RegistrationNumber: body.RegistrationNumber,
		Location:           body.Location,
		Time:               overrideTime,
		DomainID:           c.Locals(middleware.LocalsDomainID).(uuid.UUID),
		Performer:          c.Locals(middleware.LocalsPerformer).(string),
		Details:            body.Details,
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.checkUC.Check(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
