package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"cold-storage-backend/internal/security"
)

const bearerPrefix = "bearer "

// Auth returns a middleware that validates the Bearer token from the
// Authorization header and stores the caller in the request context. It never
// rejects a request itself; routes decide whether a caller is required.
func Auth(tokens *security.TokenProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return c.Next()
		}
		username, role, err := tokens.ValidateAccess(token)
		if err != nil {
			return c.Next()
		}
		c.SetUserContext(WithCaller(c.UserContext(), Caller{Username: username, Role: role}))
		return c.Next()
	}
}

// extractBearer returns the Bearer token from an Authorization header value,
// or "" if missing or malformed.
func extractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
