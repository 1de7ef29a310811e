package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/config"
	"github.com/noah-isme/ictak-go-api/internal/handler"
	"github.com/noah-isme/ictak-go-api/internal/middleware"
	"github.com/noah-isme/ictak-go-api/internal/observability"
)

// formOverhead leaves room for the text fields sent next to an upload.
const formOverhead = 1 << 20

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	StudentHandler    *handler.StudentHandler
	ProjectHandler    *handler.ProjectHandler
	SubmissionHandler *handler.SubmissionHandler
	DiscussionHandler *handler.DiscussionHandler
	SeedHandler       *handler.SeedHandler
	HealthHandler     *handler.HealthHandler
	JWTMiddleware     fiber.Handler
}

// NewApp builds the fiber application with the shared error handler and middleware.
func NewApp(cfg config.Config, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    int(cfg.UploadMaxBytes()) + formOverhead,
		UnescapePath: true,
		ErrorHandler: handler.ErrorHandler(logger, cfg.Debug),
	})

	middleware.Register(app, middleware.Config{
		Logger:         &logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Debug:          cfg.Debug,
	})
	return app
}

// Register wires the HTTP routes into the fiber application. Unknown routes are
// answered last with the not-found envelope.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/", handler.Root)
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/", handler.APIIndex)
	if deps.HealthHandler != nil {
		api.Get("/health", deps.HealthHandler.Check)
	}

	guard := deps.JWTMiddleware
	if guard == nil {
		guard = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		limit := middleware.RateLimit("auth", cfg.AuthRateLimit, time.Minute)
		deps.AuthHandler.Register(api.Group("/auth"), guard, limit)
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", guard))
	}
	if deps.ProjectHandler != nil {
		deps.ProjectHandler.Register(api.Group("/projects", guard))
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(api.Group("/submissions", guard))
	}
	if deps.DiscussionHandler != nil {
		deps.DiscussionHandler.Register(api.Group("/discussions", guard))
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/admin/seed"))
	}

	app.Use(handler.RouteNotFound)
}
