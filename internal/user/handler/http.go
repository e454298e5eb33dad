// Package handler exposes login and user administration over HTTP.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"cold-storage-backend/internal/audit"
	"cold-storage-backend/internal/platform/rbac"
	"cold-storage-backend/internal/server/httpx"
	"cold-storage-backend/internal/user/domain"
	"cold-storage-backend/internal/user/service"
)

// UserService is the slice of the user service the handler needs.
type UserService interface {
	CreateUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*service.LoginResult, error)
}

// Handler serves /login and /users.
type Handler struct {
	svc   UserService
	authz *rbac.Authorizer
	audit audit.AuditLogger
}

// NewHandler returns a user HTTP handler.
func NewHandler(svc UserService, authz *rbac.Authorizer, auditLog audit.AuditLogger) *Handler {
	return &Handler{svc: svc, authz: authz, audit: auditLog}
}

// Register mounts the user routes on the given router.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/login", h.Login)
	r.Post("/users", h.CreateUser)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login authenticates a user and returns the role plus a bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := h.svc.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.audit.LogEvent(c.UserContext(), req.Username, "login.failure", "sessions", "")
			return httpx.Error(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		return httpx.Internal(c, err)
	}

	return c.JSON(loginResponse{
		Message:   "Login successful",
		Username:  res.Username,
		Role:      string(res.Role),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser creates an operator account. Admin only.
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.authz.Require(ctx, rbac.ActionCreateUser); err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		return httpx.Internal(c, err)
	}

	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	u, err := h.svc.CreateUser(ctx, req.Username, req.Password, domain.Role(req.Role))
	if err != nil {
		if resp, ok := httpx.Common(c, err); ok {
			return resp
		}
		if errors.Is(err, service.ErrUsernameTaken) {
			return httpx.Error(c, fiber.StatusConflict, "Username already exists")
		}
		return httpx.Internal(c, err)
	}

	h.audit.LogEvent(ctx, httpx.Actor(c), "user.create", "users/"+u.Username, "role="+string(u.Role))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created",
		"user": fiber.Map{
			"id":       u.ID,
			"username": u.Username,
			"role":     u.Role,
		},
	})
}
