package db

import "embed"

// MigrationFS embeds SQL migration files, one directory per engine.
// Used by the migrate runner (cmd/migrate) and by repository tests.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var MigrationFS embed.FS
