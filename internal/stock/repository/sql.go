package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cold-storage-backend/internal/stock/domain"
)

// SQLRepository stores the ledger in the stock_entries table.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository returns a stock repository backed by db.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Append writes one entry and returns its id.
func (r *SQLRepository) Append(ctx context.Context, e *domain.Entry) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO stock_entries (direction, client_id, commodity_code, variety, quantity, handled_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		string(e.Direction), e.ClientID, e.CommodityCode, e.Variety, e.Quantity, e.HandledBy, e.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("append stock entry: %w", err)
	}
	return id, nil
}

// List returns every entry in one direction, newest first.
func (r *SQLRepository) List(ctx context.Context, direction domain.Direction) ([]*domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, direction, client_id, commodity_code, variety, quantity, handled_by, created_at
FROM stock_entries
WHERE direction = $1
ORDER BY created_at DESC, id DESC`,
		string(direction))
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()

	out := []*domain.Entry{}
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Direction, &e.ClientID, &e.CommodityCode, &e.Variety, &e.Quantity, &e.HandledBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
