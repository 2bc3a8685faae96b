// Package db embeds the SQL migrations so binaries can apply them without
// a checkout of the repository.
package db

import "embed"

// Migration directories inside Migrations, one per driver.
const (
	PostgresDir = "migrations/postgres"
	SQLiteDir   = "migrations/sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var Migrations embed.FS
