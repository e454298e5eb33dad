package repository

import (
	"context"

	"cold-storage-backend/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create persists the user and returns the assigned id.
	Create(ctx context.Context, u *domain.User) (int64, error)
}
