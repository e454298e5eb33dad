package repository

import (
	"context"

	"cold-storage-backend/internal/client/domain"
)

// Repository defines persistence for clients. The Exists* probes back the
// duplicate checks in the service; all name comparisons are case-insensitive.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	// Search returns clients where q is a case-insensitive substring of any
	// searched field. Callers guard against empty q.
	Search(ctx context.Context, q string) ([]*domain.Client, error)
	// Create persists the client and returns the assigned id.
	Create(ctx context.Context, c *domain.Client) (int64, error)
	// Update overwrites the stored record with the same id.
	Update(ctx context.Context, c *domain.Client) error
	// Delete removes the client if present; absent ids are not an error.
	Delete(ctx context.Context, id int64) error

	ExistsPhone(ctx context.Context, phone string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	ExistsName(ctx context.Context, firstName, lastName string) (bool, error)
	ExistsOrg(ctx context.Context, orgName string) (bool, error)
}
