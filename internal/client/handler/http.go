// Package handler exposes the client registry over HTTP.
package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"cold-storage-backend/internal/audit"
	"cold-storage-backend/internal/client/domain"
	"cold-storage-backend/internal/client/service"
	"cold-storage-backend/internal/platform/rbac"
	"cold-storage-backend/internal/server/httpx"
)

// ClientService is the slice of the client service the handler needs.
type ClientService interface {
	Add(ctx context.Context, in service.AddInput) (*domain.Client, error)
	Update(ctx context.Context, id int64, in service.UpdateInput) (*domain.Client, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Client, error)
	Search(ctx context.Context, q string) ([]*domain.Client, error)
}

// Handler serves the /clients routes.
type Handler struct {
	svc   ClientService
	authz *rbac.Authorizer
	audit audit.AuditLogger
}

// NewHandler returns a client HTTP handler.
func NewHandler(svc ClientService, authz *rbac.Authorizer, auditLog audit.AuditLogger) *Handler {
	return &Handler{svc: svc, authz: authz, audit: auditLog}
}

// Register mounts the client routes on the given router.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/clients", h.Add)
	r.Get("/clients", h.List)
	r.Get("/clients/search", h.Search)
	r.Put("/clients/:id", h.Update)
	r.Delete("/clients/:id", h.Delete)
}

type addClientRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ClientType string `json:"client_type"`
	OrgName    string `json:"org_name"`
	SO         string `json:"s_o"`
	Address    string `json:"address"`
	Village    string `json:"village"`
	Mandal     string `json:"mandal"`
	District   string `json:"district"`
	State      string `json:"state"`
	City       string `json:"city"`
	Pincode    string `json:"pincode"`
	Phone      string `json:"phone"`
	AltPhone   string `json:"alt_phone"`
	Email      string `json:"email"`
}

// Add registers a new client. Admin or manager.
func (h *Handler) Add(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionAddClient); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	var req addClientRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	created, err := h.svc.Add(ctx, service.AddInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		ClientType: req.ClientType,
		OrgName:    req.OrgName,
		SO:         req.SO,
		Address:    req.Address,
		Village:    req.Village,
		Mandal:     req.Mandal,
		District:   req.District,
		State:      req.State,
		City:       req.City,
		Pincode:    req.Pincode,
		Phone:      req.Phone,
		AltPhone:   req.AltPhone,
		Email:      req.Email,
	})
	if err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		if msg, ok := conflictMessage(err); ok {
			return httpx.Error(c, fiber.StatusConflict, msg)
		}
		return httpx.Internal(c, err)
	}

	h.audit.LogEvent(ctx, httpx.Actor(c), "client.add", fmt.Sprintf("clients/%d", created.ID), "phone="+created.Phone)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Client added",
		"client":  created,
	})
}

// List returns all clients. Any authenticated caller.
func (h *Handler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := rbac.RequireCaller(ctx); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	clients, err := h.svc.List(ctx)
	if err != nil {
		return httpx.Internal(c, err)
	}
	return c.JSON(fiber.Map{"clients": clients})
}

// Search returns clients matching the q parameter. Any authenticated caller.
func (h *Handler) Search(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := rbac.RequireCaller(ctx); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	clients, err := h.svc.Search(ctx, c.Query("q"))
	if err != nil {
		return httpx.Internal(c, err)
	}
	return c.JSON(fiber.Map{"clients": clients})
}

type updateClientRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	ClientType *string `json:"client_type"`
	OrgName    *string `json:"org_name"`
	SO         *string `json:"s_o"`
	Address    *string `json:"address"`
	Village    *string `json:"village"`
	Mandal     *string `json:"mandal"`
	District   *string `json:"district"`
	State      *string `json:"state"`
	City       *string `json:"city"`
	Pincode    *string `json:"pincode"`
	Phone      *string `json:"phone"`
	AltPhone   *string `json:"alt_phone"`
	Email      *string `json:"email"`
}

// Update applies a partial update to an existing client. Admin or manager.
func (h *Handler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionUpdateClient); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid client id")
	}

	var req updateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	updated, err := h.svc.Update(ctx, int64(id), service.UpdateInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		ClientType: req.ClientType,
		OrgName:    req.OrgName,
		SO:         req.SO,
		Address:    req.Address,
		Village:    req.Village,
		Mandal:     req.Mandal,
		District:   req.District,
		State:      req.State,
		City:       req.City,
		Pincode:    req.Pincode,
		Phone:      req.Phone,
		AltPhone:   req.AltPhone,
		Email:      req.Email,
	})
	if err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		if errors.Is(err, service.ErrNotFound) {
			return httpx.Error(c, fiber.StatusNotFound, "Client not found")
		}
		if msg, ok := conflictMessage(err); ok {
			return httpx.Error(c, fiber.StatusConflict, msg)
		}
		return httpx.Internal(c, err)
	}

	h.audit.LogEvent(ctx, httpx.Actor(c), "client.update", fmt.Sprintf("clients/%d", updated.ID), "")
	return c.JSON(fiber.Map{
		"message": "Client updated",
		"client":  updated,
	})
}

// Delete removes a client. Admin or manager.
func (h *Handler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionDeleteClient); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid client id")
	}

	if err := h.svc.Delete(ctx, int64(id)); err != nil {
		return httpx.Internal(c, err)
	}

	h.audit.LogEvent(ctx, httpx.Actor(c), "client.delete", fmt.Sprintf("clients/%d", id), "")
	return c.JSON(fiber.Map{"message": "Client deleted"})
}

func conflictMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrPhoneExists):
		return "Phone number already exists", true
	case errors.Is(err, service.ErrEmailExists):
		return "Email address already exists", true
	case errors.Is(err, service.ErrNameExists):
		return "Client with this name already exists", true
	case errors.Is(err, service.ErrOrgExists):
		return "Organization name already exists", true
	}
	return "", false
}
