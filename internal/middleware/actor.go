package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const actorKey = "actor"

var ErrNoActor = errors.New("no authenticated actor")

// ResolveActor turns the verified JWT into an access.Actor. The role is read
// from the users table on every request, so a role change applies at once.
// Must run after JWTProtected.
func ResolveActor(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return unauthorized(c, "Unauthorized")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "Invalid claims")
		}
		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return unauthorized(c, "Invalid token subject")
		}

		var user models.User
		if err := db.WithContext(c.UserContext()).Select("id", "role").First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return unauthorized(c, "Account no longer exists")
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}

		c.Locals(actorKey, access.Actor{ID: user.ID, Role: user.Role})
		return c.Next()
	}
}

// GetActor returns the actor stored by ResolveActor.
func GetActor(c *fiber.Ctx) (access.Actor, error) {
	actor, ok := c.Locals(actorKey).(access.Actor)
	if !ok {
		return access.Actor{}, ErrNoActor
	}
	return actor, nil
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: msg})
}
