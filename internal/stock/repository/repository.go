// Package repository persists the append-only stock ledger.
package repository

import (
	"context"

	"cold-storage-backend/internal/stock/domain"
)

// Repository appends and reads ledger entries. There are no update or delete
// operations.
type Repository interface {
	Append(ctx context.Context, e *domain.Entry) (int64, error)
	List(ctx context.Context, direction domain.Direction) ([]*domain.Entry, error)
}
