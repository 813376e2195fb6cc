package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Complaint *handlers.ComplaintHandler
	Comment   *handlers.CommentHandler
	Rating    *handlers.RatingHandler
	User      *handlers.UserHandler
	Category  *handlers.CategoryHandler
}

// Setup registers every route. storage backs the rate limiters and may be nil,
// in which case counters are kept in process memory.
func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, storage fiber.Storage, h Handlers) {
	api := app.Group("/api")

	perMinute := cfg.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 120
	}
	api.Use(limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return "api:" + c.IP() },
		Storage:           storage,
	}))

	api.Get("/health", h.Health.Check)

	// Auth: public, stricter limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return "auth:" + c.IP() },
		Storage:           storage,
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// Protected routes get JWT + actor per group so public routes stay untouched.
	protected := []fiber.Handler{middleware.JWTProtected(cfg), middleware.ResolveActor(db)}

	api.Post("/auth/logout", append(protected, h.Auth.Logout)...)
	api.Get("/auth/me", append(protected, h.Auth.Me)...)

	api.Get("/categories", append(protected, h.Category.List)...)

	complaints := api.Group("/complaints", protected...)
	complaints.Post("/", middleware.Require(access.OpFileComplaint), h.Complaint.Create)
	complaints.Get("/", h.Complaint.List)
	complaints.Get("/stats", h.Complaint.Stats)
	complaints.Get("/:id", h.Complaint.Get)
	complaints.Patch("/:id", middleware.Require(access.OpUpdateComplaint), h.Complaint.Update)
	complaints.Get("/:id/transitions", middleware.Require(access.OpUpdateComplaint), h.Complaint.Transitions)
	complaints.Get("/:id/history", h.Complaint.History)
	complaints.Post("/:id/comments", middleware.Require(access.OpComment), h.Comment.Create)
	complaints.Get("/:id/comments", h.Comment.List)
	complaints.Post("/:id/rating", middleware.Require(access.OpRateComplaint), h.Rating.Submit)
	complaints.Get("/:id/rating", h.Rating.Get)

	users := api.Group("/users", protected...)
	users.Get("/", middleware.Require(access.OpListUsers), h.User.List)
	users.Patch("/:id/role", middleware.Require(access.OpSetUserRole), h.User.SetRole)

	admin := api.Group("/admin", protected...)
	admin.Get("/overview", middleware.Require(access.OpViewOverview), h.User.Overview)
}
