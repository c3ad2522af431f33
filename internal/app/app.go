// Package app assembles the fiber application from its stores and services.
package app

import (
	"context"
	"time"

	"socialhub/internal/handlers"
	"socialhub/internal/middleware"
	"socialhub/internal/repositories"
	"socialhub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Options tune the HTTP layer.
type Options struct {
	CORSOrigins  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RequestLog enables fiber's request logger. Tests leave it off.
	RequestLog bool
}

// Dependencies are the stores and collaborators the routes are built on.
type Dependencies struct {
	Users      repositories.UserRepository
	Posts      repositories.PostRepository
	Tokens     *services.TokenService
	Events     services.EventPublisher
	BcryptCost int

	StoreName string
	// StorePing backs GET /health. Nil means the store is always reported up.
	StorePing func(context.Context) error
}

// NewApp wires services and handlers and returns the fiber application.
func NewApp(opts Options, deps Dependencies) *fiber.App {
	if deps.Events == nil {
		deps.Events = services.NoopPublisher{}
	}
	if opts.CORSOrigins == "" {
		opts.CORSOrigins = "*"
	}

	authService := services.NewAuthService(deps.Users, deps.Tokens, deps.Events, deps.BcryptCost)
	userService := services.NewUserService(deps.Users, deps.Events)
	postService := services.NewPostService(deps.Posts, deps.Users, deps.Events)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)

	app := fiber.New(fiber.Config{
		AppName:      "socialhub",
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})

	// --- Middleware ---
	app.Use(recover.New())
	if opts.RequestLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// --- Health Check Endpoint ---
	app.Get("/health", healthHandler(deps.StoreName, deps.StorePing))

	// --- API Routes ---
	api := app.Group("/api")

	// Authentication routes (public)
	authHandler.RegisterRoutes(api)

	// Protected routes (require JWT authentication)
	protected := api.Group("", middleware.AuthRequired(authService))
	userHandler.RegisterRoutes(protected)
	postHandler.RegisterRoutes(protected)

	return app
}

func healthHandler(storeName string, ping func(context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := "connected"
		status := fiber.StatusOK
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				store = err.Error()
				status = fiber.StatusServiceUnavailable
			}
		}

		health := "healthy"
		if status != fiber.StatusOK {
			health = "unhealthy"
		}
		return c.Status(status).JSON(fiber.Map{
			"status": health,
			"time":   time.Now().Format(time.RFC3339),
			"store":  fiber.Map{"driver": storeName, "state": store},
		})
	}
}
