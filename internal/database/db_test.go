package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, profile Profile) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "finance.db")
	db, err := New(Config{Path: path, Profile: profile, Name: "finance"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "finance.db")

	db, err := New(Config{Path: path, Profile: ProfileStandard, Name: "finance"})
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Dir(db.Path()))
	assert.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t, ProfileStandard)

	// Reapplying the schema is a no-op, and seeded rows are not duplicated
	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())

	var defaults int
	err := db.QueryRow("SELECT COUNT(*) FROM categories WHERE is_default = 1").Scan(&defaults)
	require.NoError(t, err)
	assert.Equal(t, 7, defaults)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := newTestDB(t, ProfileLedger)

	for _, table := range []string{"users", "accounts", "categories", "transactions", "budgets", "goals", "pending_migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}
}

func TestWithTransaction_Commit(t *testing.T) {
	db := newTestDB(t, ProfileStandard)

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO users (id, name, is_guest, created_at) VALUES ('u1', 'Alice', 0, 0)")
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE id = 'u1'").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db := newTestDB(t, ProfileStandard)
	boom := errors.New("boom")

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO users (id, name, is_guest, created_at) VALUES ('u1', 'Alice', 0, 0)"); err != nil {
			return err
		}
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Zero(t, count)
}

func TestWithTransaction_RecoversPanic(t *testing.T) {
	db := newTestDB(t, ProfileStandard)

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO users (id, name, is_guest, created_at) VALUES ('u1', 'Alice', 0, 0)"); err != nil {
			return err
		}
		panic("unexpected")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in transaction")

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Zero(t, count)
}

func TestWithTransaction_NilConnection(t *testing.T) {
	err := WithTransaction(nil, func(tx *sql.Tx) error { return nil })
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	db := newTestDB(t, ProfileLedger)

	ctx := context.Background()
	assert.NoError(t, db.HealthCheck(ctx))
	assert.NoError(t, db.QuickCheck(ctx))
}

func TestWALCheckpoint(t *testing.T) {
	db := newTestDB(t, ProfileStandard)

	_, err := db.Exec("INSERT INTO users (id, name, is_guest, created_at) VALUES ('u1', 'Alice', 0, 0)")
	require.NoError(t, err)

	assert.NoError(t, db.WALCheckpoint("TRUNCATE"))
	assert.NoError(t, db.WALCheckpoint(""))
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t, ProfileStandard)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.SizeBytes, int64(0))
	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := newTestDB(t, ProfileLedger)

	// Child row pointing at a missing user must be refused
	_, err := db.Exec(`
		INSERT INTO accounts (id, user_id, name, type, initial_balance, currency, is_active, created_at, updated_at)
		VALUES ('a1', 'nobody', 'Checking', 'bank', 0, 'USD', 1, 0, 0)
	`)
	assert.Error(t, err)
}
