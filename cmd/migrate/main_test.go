package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE users (id uuid);
ALTER TABLE users ADD COLUMN name text;

-- +migrate Down
DROP TABLE users;
`
	t.Run("Extract Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE users")
		assert.Contains(t, up, "ALTER TABLE users")
		assert.NotContains(t, up, "DROP TABLE users")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Extract Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE users")
		assert.NotContains(t, down, "CREATE TABLE users")
	})
}

func TestInitMigrationFile(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)

	up := extractMigrationPart(string(content), "Up")
	for _, table := range []string{"users", "products", "product_reviews", "orders"} {
		assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, extractMigrationPart(string(content), "Down"), "DROP TABLE IF EXISTS orders")
}

func writeMigration(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunMigrationsUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	applied := writeMigration(t, dir, "001_init.sql", "-- +migrate Up\nCREATE TABLE a (id int);")
	pending := writeMigration(t, dir, "002_more.sql", "-- +migrate Up\nCREATE TABLE b (id int);")

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("001_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("002_more.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE b").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("002_more.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, runMigrationsUp(context.Background(), db, []string{applied, pending}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsUp_FailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	file := writeMigration(t, t.TempDir(), "001_init.sql", "-- +migrate Up\nCREATE TABLE broken;")

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("001_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE broken").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = runMigrationsUp(context.Background(), db, []string{file})
	assert.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	file := writeMigration(t, t.TempDir(), "001_init.sql",
		"-- +migrate Up\nCREATE TABLE a (id int);\n-- +migrate Down\nDROP TABLE a;")

	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("001_init.sql"))
	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM schema_migrations").
		WithArgs("001_init.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, runMigrationsDown(context.Background(), db, []string{file}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsDown_NothingApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	require.NoError(t, runMigrationsDown(context.Background(), db, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_UnknownMode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = run(context.Background(), db, "sideways", t.TempDir())
	assert.EqualError(t, err, "unknown mode: sideways (use 'up', 'down' or 'seed')")
}
