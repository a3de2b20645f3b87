package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndMigrate_InMemory(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	// Migrations are re-runnable.
	require.NoError(t, Migrate(db))

	_, err = db.Exec("INSERT INTO events (id, user_id, type, message, created_at) VALUES ('e1', 'u1', 't', 'm', 1)")
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM events").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	_, err = db.Exec("INSERT INTO events (id, user_id, type, message, created_at) VALUES ('e1', 'u1', 't', 'm', 1)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM events").Scan(&n))
	assert.Equal(t, 1, n)
}
