package main

import (
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"dsfrexample/db"
)

func TestCollectMigrations_ParsesEmbeddedDirs(t *testing.T) {
	goose.SetBaseFS(db.Migrations)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	for _, dir := range []string{db.PostgresDir, db.SQLiteDir} {
		migrations, err := goose.CollectMigrations(dir, 0, goose.MaxVersion)
		require.NoError(t, err, dir)
		require.Len(t, migrations, 2, dir)
	}
}
