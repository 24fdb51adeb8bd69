package database

import (
	"path/filepath"
	"testing"

	"finance-tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "data/app.db?_foreign_keys=on", sqliteDSN("data/app.db"))
	assert.Equal(t, "app.db?cache=shared&_foreign_keys=on", sqliteDSN("app.db?cache=shared"))
	assert.Equal(t, "app.db?_fk=1", sqliteDSN("app.db?_fk=1"))
}

func TestInitSqlite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")
	db, err := Init(config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, AutoMigrate(db))

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	for _, table := range []string{"users", "categories", "transactions", "monthly_budgets", "sessions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestInitUnknownDriver(t *testing.T) {
	_, err := Init(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
