// Package handler exposes the audit trail over HTTP.
package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"cold-storage-backend/internal/audit/domain"
	"cold-storage-backend/internal/platform/rbac"
	"cold-storage-backend/internal/server/httpx"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// AuditReader is the slice of the audit repository the handler needs.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error)
}

// Handler serves the /audit route.
type Handler struct {
	reader AuditReader
	authz  *rbac.Authorizer
}

// NewHandler returns an audit HTTP handler.
func NewHandler(reader AuditReader, authz *rbac.Authorizer) *Handler {
	return &Handler{reader: reader, authz: authz}
}

// Register mounts the audit routes on the given router.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/audit", h.List)
}

// List returns the most recent audit entries, newest first. Admin only.
func (h *Handler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionReadAudit); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	entries, err := h.reader.ListRecent(ctx, limit)
	if err != nil {
		return httpx.Internal(c, err)
	}
	if entries == nil {
		entries = []*domain.AuditLog{}
	}
	return c.JSON(fiber.Map{"audit_logs": entries})
}
