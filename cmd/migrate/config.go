package main

import (
	"io/fs"
	"os"

	"dsfrexample/db"
	"dsfrexample/internal/config"
)

// migrationSource returns where migrations for driver are read from. An
// explicit MIGRATIONS_DIR is read from disk; otherwise the embedded set is
// used.
func migrationSource(driver string) (fs.FS, string) {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return nil, v
	}
	if driver == config.DriverSQLite {
		return db.Migrations, db.SQLiteDir
	}
	return db.Migrations, db.PostgresDir
}

// sourceDir is the directory new migrations are created in.
func sourceDir(driver string) string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	if driver == config.DriverSQLite {
		return "db/" + db.SQLiteDir
	}
	return "db/" + db.PostgresDir
}
