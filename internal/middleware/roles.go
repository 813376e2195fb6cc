package middleware

import (
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Require rejects actors whose role may not perform op. Must run after ResolveActor.
func Require(op access.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := GetActor(c)
		if err != nil {
			return unauthorized(c, "Unauthorized")
		}
		if !actor.Can(op) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Your role is not allowed to perform this action",
			})
		}
		return c.Next()
	}
}
