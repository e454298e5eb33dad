// Package repository persists the commodity taxonomy.
package repository

import (
	"context"

	"cold-storage-backend/internal/taxonomy/domain"
)

// Repository is the storage contract for the taxonomy tree. UpsertPath and
// BulkUpsert each run in a single transaction; a failed bulk leaves the store
// untouched.
type Repository interface {
	UpsertPath(ctx context.Context, row domain.ImportRow) error
	BulkUpsert(ctx context.Context, rows []domain.ImportRow) error
	ListCommodities(ctx context.Context) ([]*domain.Commodity, error)
	ListVarieties(ctx context.Context, commodityID int64) ([]*domain.Variety, error)
	ListGrades(ctx context.Context, varietyID int64) ([]*domain.Grade, error)
	DeleteCommodity(ctx context.Context, id int64) (bool, error)
}
