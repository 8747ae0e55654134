package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spc-registrar/records-api/internal/config"
	"github.com/spc-registrar/records-api/internal/handler"
	"github.com/spc-registrar/records-api/internal/middleware"
	"github.com/spc-registrar/records-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler   *handler.AuthHandler
	RecordHandler *handler.RecordHandler
	ReportHandler *handler.ReportHandler
	BackupHandler *handler.BackupHandler
	JWTMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 10, time.Minute))
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	if deps.RecordHandler != nil {
		deps.RecordHandler.Register(api.Group("/records", jwtMiddleware))
	}

	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(api.Group("/reports", jwtMiddleware))
	}

	if deps.BackupHandler != nil {
		deps.BackupHandler.Register(api.Group("/backup", jwtMiddleware))
	}
}
