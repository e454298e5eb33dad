// Package handler exposes the stock ledger over HTTP.
package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"cold-storage-backend/internal/audit"
	"cold-storage-backend/internal/platform/rbac"
	"cold-storage-backend/internal/server/httpx"
	"cold-storage-backend/internal/stock/domain"
	"cold-storage-backend/internal/stock/service"
)

// StockService is the slice of the stock service the handler needs.
type StockService interface {
	Accept(ctx context.Context, actor string, in service.RecordInput) (*domain.Entry, error)
	Deliver(ctx context.Context, actor string, in service.RecordInput) (*domain.Entry, error)
	ListAcceptances(ctx context.Context) ([]*domain.Entry, error)
	ListDeliveries(ctx context.Context) ([]*domain.Entry, error)
}

// Handler serves the /stocks routes.
type Handler struct {
	svc   StockService
	authz *rbac.Authorizer
	audit audit.AuditLogger
}

// NewHandler returns a stock HTTP handler.
func NewHandler(svc StockService, authz *rbac.Authorizer, auditLog audit.AuditLogger) *Handler {
	return &Handler{svc: svc, authz: authz, audit: auditLog}
}

// Register mounts the stock routes on the given router.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/stocks/accept", h.Accept)
	r.Post("/stocks/deliver", h.Deliver)
	r.Get("/stocks/acceptances", h.ListAcceptances)
	r.Get("/stocks/deliveries", h.ListDeliveries)
}

type recordRequest struct {
	ClientID      *int64   `json:"client_id"`
	CommodityCode string   `json:"commodity_code"`
	Variety       string   `json:"variety"`
	Quantity      *float64 `json:"quantity"`
}

func (r recordRequest) input() service.RecordInput {
	return service.RecordInput{
		ClientID:      r.ClientID,
		CommodityCode: r.CommodityCode,
		Variety:       r.Variety,
		Quantity:      r.Quantity,
	}
}

// Accept records an incoming stock entry. Staff and above.
func (h *Handler) Accept(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionAcceptStock); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	e, err := h.svc.Accept(ctx, httpx.Actor(c), req.input())
	if err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	h.audit.LogEvent(ctx, e.HandledBy, "stock.accept", fmt.Sprintf("stocks/%d", e.ID), fmt.Sprintf("quantity=%g", e.Quantity))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Acceptance recorded",
		"entry":   e,
	})
}

// Deliver records an outgoing stock entry. Manager or admin.
func (h *Handler) Deliver(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionDeliverStock); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	e, err := h.svc.Deliver(ctx, httpx.Actor(c), req.input())
	if err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	h.audit.LogEvent(ctx, e.HandledBy, "stock.deliver", fmt.Sprintf("stocks/%d", e.ID), fmt.Sprintf("quantity=%g", e.Quantity))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Delivery recorded",
		"entry":   e,
	})
}

// ListAcceptances returns every acceptance. Any authenticated caller.
func (h *Handler) ListAcceptances(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := rbac.RequireCaller(ctx); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	entries, err := h.svc.ListAcceptances(ctx)
	if err != nil {
		return httpx.Internal(c, err)
	}
	return c.JSON(fiber.Map{"acceptances": entries})
}

// ListDeliveries returns every delivery. Manager or admin.
func (h *Handler) ListDeliveries(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionListDeliveries); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	entries, err := h.svc.ListDeliveries(ctx)
	if err != nil {
		return httpx.Internal(c, err)
	}
	return c.JSON(fiber.Map{"deliveries": entries})
}
