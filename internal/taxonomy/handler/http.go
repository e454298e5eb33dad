// Package handler exposes the commodity taxonomy over HTTP.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"cold-storage-backend/internal/audit"
	"cold-storage-backend/internal/platform/rbac"
	"cold-storage-backend/internal/server/httpx"
	"cold-storage-backend/internal/taxonomy/domain"
	"cold-storage-backend/internal/taxonomy/service"
)

// TaxonomyService is the slice of the taxonomy service the handler needs.
type TaxonomyService interface {
	UpsertPath(ctx context.Context, commodity, hsnCode, variety, grade string) error
	BulkImport(ctx context.Context, rows []domain.ImportRow) (int, error)
	ListCommodities(ctx context.Context) ([]*domain.Commodity, error)
	ListVarieties(ctx context.Context, commodityID int64) ([]*domain.Variety, error)
	ListGrades(ctx context.Context, varietyID int64) ([]*domain.Grade, error)
	DeleteCommodity(ctx context.Context, id int64) error
}

// Handler serves the taxonomy routes.
type Handler struct {
	svc   TaxonomyService
	authz *rbac.Authorizer
	audit audit.AuditLogger
}

// NewHandler returns a taxonomy HTTP handler.
func NewHandler(svc TaxonomyService, authz *rbac.Authorizer, auditLog audit.AuditLogger) *Handler {
	return &Handler{svc: svc, authz: authz, audit: auditLog}
}

// Register mounts the taxonomy routes on the given router.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/commodities", h.Upsert)
	r.Post("/commodities/bulk", h.BulkImport)
	r.Get("/commodities/fields", h.ListCommodities)
	r.Get("/commodities/:id/varieties", h.ListVarieties)
	r.Get("/varieties/:id/grades", h.ListGrades)
	r.Delete("/commodities/:id", h.DeleteCommodity)
}

type upsertRequest struct {
	Name    string `json:"name"`
	HSNCode string `json:"hsn_code"`
	Variety string `json:"variety"`
	Grade   string `json:"grade"`
}

// Upsert resolves or creates one commodity/variety/grade path. Admin only.
func (h *Handler) Upsert(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionUpsertTaxonomy); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	var req upsertRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.svc.UpsertPath(ctx, req.Name, req.HSNCode, req.Variety, req.Grade); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	h.audit.LogEvent(ctx, httpx.Actor(c), "taxonomy.upsert", "commodities/"+req.Name, "")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Commodity saved"})
}

type bulkImportRequest struct {
	Rows []bulkImportRow `json:"rows"`
}

type bulkImportRow struct {
	Commodity string `json:"commodity"`
	Variety   string `json:"variety"`
	Grade     string `json:"grade"`
	HSNCode   string `json:"hsn_code"`
}

// BulkImport applies a batch of taxonomy rows atomically. Admin only.
func (h *Handler) BulkImport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionBulkImport); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	var req bulkImportRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	rows := make([]domain.ImportRow, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, domain.ImportRow{
			Commodity: r.Commodity,
			Variety:   r.Variety,
			Grade:     r.Grade,
			HSNCode:   r.HSNCode,
		})
	}

	applied, err := h.svc.BulkImport(ctx, rows)
	if err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	h.audit.LogEvent(ctx, httpx.Actor(c), "taxonomy.bulk_import", "commodities", fmt.Sprintf("applied=%d", applied))
	return c.JSON(fiber.Map{
		"message": "Import complete",
		"applied": applied,
	})
}

// ListCommodities returns every commodity. Any authenticated caller.
func (h *Handler) ListCommodities(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := rbac.RequireCaller(ctx); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	commodities, err := h.svc.ListCommodities(ctx)
	if err != nil {
		return httpx.Internal(c, err)
	}
	return c.JSON(fiber.Map{"commodities": commodities})
}

// ListVarieties returns the varieties under a commodity. Any authenticated
// caller; unknown ids yield an empty list.
func (h *Handler) ListVarieties(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := rbac.RequireCaller(ctx); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid commodity id")
	}

	varieties, err := h.svc.ListVarieties(ctx, int64(id))
	if err != nil {
		return httpx.Internal(c, err)
	}
	return c.JSON(fiber.Map{"varieties": varieties})
}

// ListGrades returns the grades under a variety. Any authenticated caller;
// unknown ids yield an empty list.
func (h *Handler) ListGrades(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := rbac.RequireCaller(ctx); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid variety id")
	}

	grades, err := h.svc.ListGrades(ctx, int64(id))
	if err != nil {
		return httpx.Internal(c, err)
	}
	return c.JSON(fiber.Map{"grades": grades})
}

// DeleteCommodity removes a commodity and its subtree. Admin only.
func (h *Handler) DeleteCommodity(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionDeleteCommodity); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid commodity id")
	}

	if err := h.svc.DeleteCommodity(ctx, int64(id)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return httpx.Error(c, fiber.StatusNotFound, "Commodity not found")
		}
		return httpx.Internal(c, err)
	}

	h.audit.LogEvent(ctx, httpx.Actor(c), "taxonomy.delete", "commodities/"+strconv.Itoa(id), "")
	return c.JSON(fiber.Map{"message": "Commodity deleted"})
}
