package migration

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/nvasilakis/fintrack/internal/testing"
)

func TestSweepJob_RemovesOnlyStaleMarkers(t *testing.T) {
	db, cleanup := testutil.NewTestDB(t)
	t.Cleanup(cleanup)

	pending := NewPendingRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, pending.Create("fresh"))
	require.NoError(t, pending.Create("stale"))
	testutil.ExecSQL(t, db, "UPDATE pending_migrations SET created_at = ? WHERE guest_user_id = 'stale'",
		time.Now().Add(-pendingWindow-time.Hour).Unix())

	job := NewSweepJob(pending, zerolog.Nop())
	assert.Equal(t, "migration_sweep", job.Name())
	require.NoError(t, job.Run())

	assert.Equal(t, 1, testutil.CountRows(t, db, "pending_migrations", ""))
	_, err := pending.Get("fresh")
	assert.NoError(t, err)
}
