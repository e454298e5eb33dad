package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cold-storage-backend/internal/taxonomy/domain"
)

const (
	upsertCommoditySQL = `INSERT INTO commodities (name, hsn_code)
VALUES ($1, NULLIF($2, ''))
ON CONFLICT (name) DO UPDATE SET hsn_code = COALESCE(commodities.hsn_code, excluded.hsn_code)
RETURNING id`

	upsertVarietySQL = `INSERT INTO varieties (name, commodity_id)
VALUES ($1, $2)
ON CONFLICT (commodity_id, name) DO UPDATE SET name = excluded.name
RETURNING id`

	upsertGradeSQL = `INSERT INTO grades (name, variety_id)
VALUES ($1, $2)
ON CONFLICT (variety_id, name) DO UPDATE SET name = excluded.name
RETURNING id`
)

// SQLRepository stores the taxonomy in the commodities, varieties, and grades
// tables.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository returns a taxonomy repository backed by db.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// UpsertPath resolves or creates the commodity, then the variety under it,
// then the grade under the variety, all in one transaction. Blank variety
// stops the descent; a grade is only attached when a variety resolved.
func (r *SQLRepository) UpsertPath(ctx context.Context, row domain.ImportRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert path: %w", err)
	}
	defer tx.Rollback()

	if err := upsertPathTx(ctx, tx, row); err != nil {
		return err
	}
	return tx.Commit()
}

// BulkUpsert applies every row inside a single transaction. Any failure rolls
// the whole batch back.
func (r *SQLRepository) BulkUpsert(ctx context.Context, rows []domain.ImportRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk upsert: %w", err)
	}
	defer tx.Rollback()

	for _, row := range rows {
		if err := upsertPathTx(ctx, tx, row); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func upsertPathTx(ctx context.Context, tx *sql.Tx, row domain.ImportRow) error {
	var commodityID int64
	if err := tx.QueryRowContext(ctx, upsertCommoditySQL, row.Commodity, row.HSNCode).Scan(&commodityID); err != nil {
		return fmt.Errorf("upsert commodity %q: %w", row.Commodity, err)
	}
	if row.Variety == "" {
		return nil
	}
	var varietyID int64
	if err := tx.QueryRowContext(ctx, upsertVarietySQL, row.Variety, commodityID).Scan(&varietyID); err != nil {
		return fmt.Errorf("upsert variety %q: %w", row.Variety, err)
	}
	if row.Grade == "" {
		return nil
	}
	var gradeID int64
	if err := tx.QueryRowContext(ctx, upsertGradeSQL, row.Grade, varietyID).Scan(&gradeID); err != nil {
		return fmt.Errorf("upsert grade %q: %w", row.Grade, err)
	}
	return nil
}

// ListCommodities returns every commodity ordered by name.
func (r *SQLRepository) ListCommodities(ctx context.Context) ([]*domain.Commodity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, COALESCE(hsn_code, '') FROM commodities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list commodities: %w", err)
	}
	defer rows.Close()

	out := []*domain.Commodity{}
	for rows.Next() {
		var c domain.Commodity
		if err := rows.Scan(&c.ID, &c.Name, &c.HSNCode); err != nil {
			return nil, fmt.Errorf("scan commodity: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// ListVarieties returns the varieties under a commodity ordered by name.
// Unknown commodities yield an empty slice.
func (r *SQLRepository) ListVarieties(ctx context.Context, commodityID int64) ([]*domain.Variety, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, commodity_id FROM varieties WHERE commodity_id = $1 ORDER BY name`, commodityID)
	if err != nil {
		return nil, fmt.Errorf("list varieties: %w", err)
	}
	defer rows.Close()

	out := []*domain.Variety{}
	for rows.Next() {
		var v domain.Variety
		if err := rows.Scan(&v.ID, &v.Name, &v.CommodityID); err != nil {
			return nil, fmt.Errorf("scan variety: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

// ListGrades returns the grades under a variety ordered by name. Unknown
// varieties yield an empty slice.
func (r *SQLRepository) ListGrades(ctx context.Context, varietyID int64) ([]*domain.Grade, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, variety_id FROM grades WHERE variety_id = $1 ORDER BY name`, varietyID)
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	defer rows.Close()

	out := []*domain.Grade{}
	for rows.Next() {
		var g domain.Grade
		if err := rows.Scan(&g.ID, &g.Name, &g.VarietyID); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

// DeleteCommodity removes a commodity; varieties and grades follow via the
// ON DELETE CASCADE foreign keys. Reports whether a row was deleted.
func (r *SQLRepository) DeleteCommodity(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM commodities WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete commodity %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete commodity %d: %w", id, err)
	}
	return n > 0, nil
}
