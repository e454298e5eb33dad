// Package db opens SQL connections and carries the embedded schema migrations.
// Two engines are supported: Postgres (postgres:// DSNs, via pgx) and SQLite
// (sqlite:// DSNs, via modernc.org/sqlite) for single-node deployments.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Storage engines selected by DSN scheme.
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Engine returns the storage engine for the given DSN based on its scheme.
func Engine(dsn string) (string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return EnginePostgres, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return EngineSQLite, nil
	case dsn == "":
		return "", errors.New("DSN is empty")
	default:
		return "", fmt.Errorf("unsupported DSN scheme in %q (want postgres:// or sqlite://)", dsn)
	}
}

// Open opens a database connection using the given DSN. Caller must call Close when done.
func Open(dsn string) (*sql.DB, error) {
	engine, err := Engine(dsn)
	if err != nil {
		return nil, err
	}

	var conn *sql.DB
	switch engine {
	case EnginePostgres:
		conn, err = sql.Open("pgx", dsn)
	case EngineSQLite:
		conn, err = sql.Open("sqlite", sqlitePath(dsn))
	}
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// sqlitePath strips the sqlite:// scheme and enables foreign keys, which
// SQLite leaves off by default (the taxonomy cascade deletes rely on them).
func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.Contains(path, "?") {
		return path + "&_pragma=foreign_keys(1)"
	}
	return path + "?_pragma=foreign_keys(1)"
}
