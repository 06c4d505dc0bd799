package users

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasilakis/fintrack/internal/domain"
	testutil "github.com/nvasilakis/fintrack/internal/testing"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, cleanup := testutil.NewTestDB(t)
	t.Cleanup(cleanup)
	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(domain.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotZero(t, created.CreatedAt)

	fetched, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", fetched.Name)
	assert.Equal(t, "alice@example.com", fetched.Email)
	assert.False(t, fetched.IsGuest)
}

func TestCreate_GuestWithoutEmail(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(domain.User{Name: "Guest", IsGuest: true})
	require.NoError(t, err)

	fetched, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.True(t, fetched.IsGuest)
	assert.Empty(t, fetched.Email)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExists(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(domain.User{Name: "Bob"})
	require.NoError(t, err)

	ok, err := repo.Exists(created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
