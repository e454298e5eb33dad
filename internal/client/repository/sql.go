package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"cold-storage-backend/internal/client/domain"
)

const clientColumns = `id, first_name, last_name, client_type, org_name, s_o, address,
	village, mandal, district, state, city, pincode, phone, alt_phone, email`

// SQLRepository persists clients through database/sql; the SQL is shared by
// the Postgres and SQLite engines.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository returns a client repository that uses the given db for persistence.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// GetByID returns the client for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// List returns all clients ordered by id.
func (r *SQLRepository) List(ctx context.Context) ([]*domain.Client, error) {
	return r.queryClients(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
}

// likeEscaper makes LIKE treat the query as a literal substring; without it
// % and _ in user input act as wildcards.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns clients where q is a case-insensitive substring of first
// name, last name, s/o, org name, village, mandal, or phone.
func (r *SQLRepository) Search(ctx context.Context, q string) ([]*domain.Client, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	return r.queryClients(ctx, `SELECT `+clientColumns+` FROM clients
		WHERE lower(first_name) LIKE $1 ESCAPE '\'
		   OR lower(last_name) LIKE $1 ESCAPE '\'
		   OR lower(s_o) LIKE $1 ESCAPE '\'
		   OR lower(org_name) LIKE $1 ESCAPE '\'
		   OR lower(village) LIKE $1 ESCAPE '\'
		   OR lower(mandal) LIKE $1 ESCAPE '\'
		   OR phone LIKE $1 ESCAPE '\'
		ORDER BY id`, pattern)
}

// Create persists the client and returns the database-assigned id.
func (r *SQLRepository) Create(ctx context.Context, c *domain.Client) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO clients (first_name, last_name, client_type, org_name, s_o, address,
			village, mandal, district, state, city, pincode, phone, alt_phone, email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		c.FirstName, c.LastName, string(c.ClientType), c.OrgName, c.SO, c.Address,
		c.Village, c.Mandal, c.District, c.State, c.City, c.Pincode,
		c.Phone, c.AltPhone, nullIfEmpty(c.Email),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites the stored record with the same id.
func (r *SQLRepository) Update(ctx context.Context, c *domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE clients SET first_name = $1, last_name = $2, client_type = $3, org_name = $4,
			s_o = $5, address = $6, village = $7, mandal = $8, district = $9, state = $10,
			city = $11, pincode = $12, phone = $13, alt_phone = $14, email = $15
		 WHERE id = $16`,
		c.FirstName, c.LastName, string(c.ClientType), c.OrgName, c.SO, c.Address,
		c.Village, c.Mandal, c.District, c.State, c.City, c.Pincode,
		c.Phone, c.AltPhone, nullIfEmpty(c.Email), c.ID,
	)
	return err
}

// Delete removes the client if present. Deleting an absent id is not an error.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}

// ExistsPhone reports whether any client has the given phone.
func (r *SQLRepository) ExistsPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM clients WHERE phone = $1`, phone)
}

// ExistsEmail reports whether any client has the given email.
func (r *SQLRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM clients WHERE email = $1`, email)
}

// ExistsName reports whether any client has the given first and last name,
// case-insensitively.
func (r *SQLRepository) ExistsName(ctx context.Context, firstName, lastName string) (bool, error) {
	return r.exists(ctx,
		`SELECT COUNT(1) FROM clients WHERE lower(first_name) = $1 AND lower(last_name) = $2`,
		strings.ToLower(firstName), strings.ToLower(lastName))
}

// ExistsOrg reports whether any client has the given org name, case-insensitively.
func (r *SQLRepository) ExistsOrg(ctx context.Context, orgName string) (bool, error) {
	return r.exists(ctx,
		`SELECT COUNT(1) FROM clients WHERE org_name <> '' AND lower(org_name) = $1`,
		strings.ToLower(orgName))
}

func (r *SQLRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLRepository) queryClients(ctx context.Context, query string, args ...interface{}) ([]*domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanClient(scan func(...interface{}) error) (*domain.Client, error) {
	var c domain.Client
	var email sql.NullString
	err := scan(&c.ID, &c.FirstName, &c.LastName, &c.ClientType, &c.OrgName, &c.SO,
		&c.Address, &c.Village, &c.Mandal, &c.District, &c.State, &c.City,
		&c.Pincode, &c.Phone, &c.AltPhone, &email)
	if err != nil {
		return nil, err
	}
	c.Email = email.String
	return &c, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
