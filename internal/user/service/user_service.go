package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"cold-storage-backend/internal/db"
	"cold-storage-backend/internal/platform/validate"
	"cold-storage-backend/internal/security"
	"cold-storage-backend/internal/user/domain"
	"cold-storage-backend/internal/user/repository"
)

// Sentinel errors for the user service; the gateway maps them to HTTP statuses.
var (
	// ErrUsernameTaken means a user with that username already exists (409).
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials covers both unknown-username and wrong-password so
	// the response never reveals which usernames exist (401).
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// LoginResult is the outcome of a successful Authenticate call.
type LoginResult struct {
	Username  string
	Role      domain.Role
	Token     string
	ExpiresAt time.Time
}

// Service implements user creation and password authentication.
type Service struct {
	repo   repository.Repository
	hasher *security.Hasher
	tokens *security.TokenProvider
}

// NewService returns a user Service with the given dependencies.
func NewService(repo repository.Repository, hasher *security.Hasher, tokens *security.TokenProvider) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// CreateUser stores a new user with a bcrypt-hashed password. Fails with a
// validation error when a field is missing or the role is unknown, and with
// ErrUsernameTaken when the username exists.
func (s *Service) CreateUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)

	var violations []string
	if username == "" {
		violations = append(violations, "username is required")
	}
	if password == "" {
		violations = append(violations, "password is required")
	}
	if role == "" {
		violations = append(violations, "role is required")
	} else if !role.Valid() {
		violations = append(violations, "role must be admin, manager or staff")
	}
	if len(violations) > 0 {
		return nil, validate.NewError(violations...)
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := s.repo.Create(ctx, u)
	if err != nil {
		// The UNIQUE(username) constraint catches a concurrent create that the
		// scan above raced with.
		if db.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	u.ID = id
	return u, nil
}

// Authenticate verifies username+password and returns the user's role with a
// signed access token. Unknown user and wrong password are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueAccess(u.Username, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Username:  u.Username,
		Role:      u.Role,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
