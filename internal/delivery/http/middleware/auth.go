package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/markushhgo/parkkihubi/internal/config"
)

const (
	// LocalsPerformer holds the authenticated enforcer identity.
	LocalsPerformer = "performer"
	// LocalsDomainID holds the enforcement domain of the request.
	LocalsDomainID = "domain_id"
	// LocalsOperatorID holds the authenticated operator identity.
	LocalsOperatorID = "operator_id"
)

// EnforcerAuth gates the enforcement API on a shared API key and
// stamps the request with the enforcer's identity and domain.
func EnforcerAuth(cfg *config.EnforcementConfig) fiber.Handler {
	domainID, _ := uuid.Parse(cfg.DomainID)

	return func(c *fiber.Ctx) error {
		key := c.Get("X-Api-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": fiber.Map{"code": "UNAUTHORIZED", "message": "Invalid API key"},
			})
		}

		c.Locals(LocalsPerformer, cfg.Performer)
		c.Locals(LocalsDomainID, domainID)
		return c.Next()
	}
}

// OperatorAuth gates the operator API. The operator identity comes
// from a header; real credential checks live outside this service.
func OperatorAuth(cfg *config.EnforcementConfig) fiber.Handler {
	domainID, _ := uuid.Parse(cfg.DomainID)

	return func(c *fiber.Ctx) error {
		operatorID, err := uuid.Parse(c.Get("X-Operator-Id"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": fiber.Map{"code": "UNAUTHORIZED", "message": "Missing or invalid operator identity"},
			})
		}

		c.Locals(LocalsOperatorID, operatorID)
		c.Locals(LocalsDomainID, domainID)
		return c.Next()
	}
}
