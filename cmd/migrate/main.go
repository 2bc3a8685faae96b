package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"dsfrexample/internal/config"
	"dsfrexample/internal/platform/database"
	"dsfrexample/internal/platform/logging"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		fatal("invalid configuration", err)
	}
	logging.Setup(os.Stderr, cfg.LogLevel)

	if *command == "create" {
		if *name == "" {
			fatal("name is required for 'create' command", nil)
		}
		if err := goose.Create(nil, sourceDir(cfg.DBDriver), *name, "sql"); err != nil {
			fatal("create migration", err)
		}
		fmt.Printf("Migration created: %s\n", *name)
		return
	}

	ctx := context.Background()
	sqlDB, dialect, closeDB := open(ctx, cfg)
	defer closeDB()

	fsys, dir := migrationSource(cfg.DBDriver)
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(dialect); err != nil {
		fatal("set dialect", err)
	}

	switch *command {
	case "up":
		if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
			fatal("run migrations", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.DownContext(ctx, sqlDB, dir); err != nil {
			fatal("roll back migration", err)
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.StatusContext(ctx, sqlDB, dir); err != nil {
			fatal("check migration status", err)
		}
	default:
		fatal(fmt.Sprintf("unknown command %q, use: up, down, status, create", *command), nil)
	}
}

func open(ctx context.Context, cfg config.Config) (*sql.DB, string, func()) {
	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := sql.Open("sqlite", database.SQLiteDSN(cfg.DBDSN))
		if err != nil {
			fatal("open database", err)
		}
		return sqlDB, database.DialectSQLite, func() { sqlDB.Close() }
	}

	pool, err := database.OpenPostgres(ctx, cfg.DBDSN)
	if err != nil {
		fatal("connect to database", err)
	}
	sqlDB := database.PostgresDB(pool)
	return sqlDB, database.DialectPostgres, func() {
		sqlDB.Close()
		pool.Close()
	}
}

func fatal(msg string, err error) {
	if err != nil {
		slog.Error(msg, "error", err)
	} else {
		slog.Error(msg)
	}
	os.Exit(1)
}
