// Package httpx holds small response helpers shared by the HTTP handlers.
package httpx

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"cold-storage-backend/internal/platform/rbac"
	"cold-storage-backend/internal/platform/validate"
	"cold-storage-backend/internal/server/middleware"
)

// Actor returns the authenticated caller's username for audit entries, or ""
// when the request is unauthenticated.
func Actor(c *fiber.Ctx) string {
	caller, _ := middleware.GetCaller(c.UserContext())
	return caller.Username
}

// Error writes the standard error envelope with the given status.
func Error(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// Common maps the failure kinds every handler shares: authentication (401),
// authorization (403), and input validation (400). Returns (response, true)
// when err was one of those; (nil, false) otherwise.
func Common(c *fiber.Ctx, err error) (error, bool) {
	var verr *validate.Error
	switch {
	case errors.Is(err, rbac.ErrUnauthenticated):
		return Error(c, fiber.StatusUnauthorized, "Unauthorized"), true
	case errors.Is(err, rbac.ErrForbidden):
		return Error(c, fiber.StatusForbidden, "Forbidden"), true
	case errors.As(err, &verr):
		return Error(c, fiber.StatusBadRequest, verr.Error()), true
	}
	return nil, false
}

// Internal logs err and writes a 500 without leaking details to the client.
func Internal(c *fiber.Ctx, err error) error {
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return Error(c, fiber.StatusInternalServerError, "Internal server error")
}
