// Package server assembles the HTTP application: middleware, operational
// endpoints, and the feature handlers.
package server

import (
	"database/sql"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cold-storage-backend/internal/security"
	"cold-storage-backend/internal/server/middleware"
)

// Registrar mounts a feature's routes on the application router.
type Registrar interface {
	Register(r fiber.Router)
}

// NewApp builds the fiber application. The auth middleware runs on every
// route but never rejects; handlers enforce their own access rules.
func NewApp(conn *sql.DB, tokens *security.TokenProvider, handlers ...Registrar) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cold-storage-backend",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.Metrics())
	app.Use(middleware.Auth(tokens))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := conn.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	for _, h := range handlers {
		h.Register(app)
	}
	return app
}
