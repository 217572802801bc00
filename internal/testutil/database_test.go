package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPostgresTestDSN(t *testing.T) {
	t.Setenv("TEST_POSTGRES_DSN", "")
	assert.Equal(t, defaultPostgresTestDSN, GetPostgresTestDSN())

	t.Setenv("TEST_POSTGRES_DSN", "postgres://custom")
	assert.Equal(t, "postgres://custom", GetPostgresTestDSN())
}

func TestGetMySQLTestDSN(t *testing.T) {
	t.Setenv("TEST_MYSQL_DSN", "")
	assert.Equal(t, defaultMySQLTestDSN, GetMySQLTestDSN())

	t.Setenv("TEST_MYSQL_DSN", "root@tcp(db)/x")
	assert.Equal(t, "root@tcp(db)/x", GetMySQLTestDSN())
}

func TestNewSQLMock(t *testing.T) {
	db, mock := NewSQLMock(t)
	require.NotNil(t, db)
	require.NotNil(t, mock)

	mock.ExpectExec("DELETE FROM roles").WillReturnResult(sqlmock.NewResult(0, 2))

	result, err := db.Exec("DELETE FROM roles")
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
}

func TestGetMigrationsPath(t *testing.T) {
	t.Run("found by walking up", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "migrations", "postgresql"), 0o755))
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		t.Chdir(nested)

		path, err := getMigrationsPath("postgresql")
		require.NoError(t, err)
		assert.Equal(t, "postgresql", filepath.Base(path))
	})

	t.Run("not found", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := getMigrationsPath("does-not-exist")
		assert.Error(t, err)
	})
}
