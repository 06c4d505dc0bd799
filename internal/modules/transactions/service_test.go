package transactions

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasilakis/fintrack/internal/database"
	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/events"
	testutil "github.com/nvasilakis/fintrack/internal/testing"
)

func newTestService(t *testing.T) (*Service, *database.DB) {
	t.Helper()
	db, cleanup := testutil.NewTestDB(t)
	t.Cleanup(cleanup)

	log := zerolog.Nop()
	repo := NewRepository(db.Conn(), log)
	return NewService(repo, events.NewBus(log), log), db
}

func strPtr(s string) *string { return &s }

func TestCreate_NumberAndStringAmounts(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	fromFloat, err := svc.Create(CreateInput{
		UserID:    userID,
		AccountID: accountID,
		Amount:    12.5,
		Type:      domain.TransactionExpense,
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, fromFloat.Amount)

	fromString, err := svc.Create(CreateInput{
		UserID:    userID,
		AccountID: accountID,
		Amount:    "42.75",
		Type:      domain.TransactionIncome,
	})
	require.NoError(t, err)
	assert.Equal(t, 42.75, fromString.Amount)

	// Both rows land identically typed in storage
	var stored float64
	err = db.QueryRow("SELECT amount FROM transactions WHERE id = ?", fromString.ID).Scan(&stored)
	require.NoError(t, err)
	assert.Equal(t, 42.75, stored)
}

func TestCreate_RejectsBadAmounts(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	for _, amount := range []interface{}{"not a number", "", nil, true} {
		_, err := svc.Create(CreateInput{
			UserID:    userID,
			AccountID: accountID,
			Amount:    amount,
			Type:      domain.TransactionExpense,
		})
		assert.True(t, domain.IsValidationError(err), "amount %v should be rejected", amount)
	}
}

func TestCreate_TransferShape(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	source := testutil.CreateTestAccount(t, db, userID, 100)
	dest := testutil.CreateTestAccount(t, db, userID, 0)

	// Transfers need a destination
	_, err := svc.Create(CreateInput{
		UserID:    userID,
		AccountID: source,
		Amount:    10.0,
		Type:      domain.TransactionTransfer,
	})
	assert.True(t, domain.IsValidationError(err))

	// Destination must differ from the source
	_, err = svc.Create(CreateInput{
		UserID:      userID,
		AccountID:   source,
		ToAccountID: strPtr(source),
		Amount:      10.0,
		Type:        domain.TransactionTransfer,
	})
	assert.True(t, domain.IsValidationError(err))

	// Non-transfers must not carry a destination
	_, err = svc.Create(CreateInput{
		UserID:      userID,
		AccountID:   source,
		ToAccountID: strPtr(dest),
		Amount:      10.0,
		Type:        domain.TransactionExpense,
	})
	assert.True(t, domain.IsValidationError(err))

	// Well-formed transfer
	created, err := svc.Create(CreateInput{
		UserID:      userID,
		AccountID:   source,
		ToAccountID: strPtr(dest),
		Amount:      10.0,
		Type:        domain.TransactionTransfer,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ToAccountID)
	assert.Equal(t, dest, *created.ToAccountID)
}

func TestCreate_RejectsUnknownType(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	_, err := svc.Create(CreateInput{
		UserID:    userID,
		AccountID: accountID,
		Amount:    5.0,
		Type:      domain.TransactionType("refund"),
	})
	assert.True(t, domain.IsValidationError(err))
}

func TestListIncomingTransfers_OnlyTransfers(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	source := testutil.CreateTestAccount(t, db, userID, 100)
	dest := testutil.CreateTestAccount(t, db, userID, 0)

	_, err := svc.Create(CreateInput{
		UserID:      userID,
		AccountID:   source,
		ToAccountID: strPtr(dest),
		Amount:      25.0,
		Type:        domain.TransactionTransfer,
	})
	require.NoError(t, err)

	// A stray non-transfer row with a populated destination must not count
	// as incoming money; only rows typed as transfers do.
	testutil.CreateTestTransaction(t, db, userID, source, dest, "expense", 99)

	repo := NewRepository(db.Conn(), zerolog.Nop())
	incoming, err := repo.ListIncomingTransfers(dest)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, 25.0, incoming[0].Amount)
}

func TestUpdate_RewritesAccountReferences(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	first := testutil.CreateTestAccount(t, db, userID, 0)
	second := testutil.CreateTestAccount(t, db, userID, 0)

	created, err := svc.Create(CreateInput{
		UserID:    userID,
		AccountID: first,
		Amount:    30.0,
		Type:      domain.TransactionExpense,
	})
	require.NoError(t, err)

	err = svc.Update(UpdateInput{
		ID:        created.ID,
		AccountID: second,
		Amount:    "31.50",
		Type:      domain.TransactionExpense,
		Date:      created.Date,
	})
	require.NoError(t, err)

	updated, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, second, updated.AccountID)
	assert.Equal(t, 31.5, updated.Amount)
	assert.Equal(t, userID, updated.UserID)
}

func TestUpdate_ValidatesShape(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	created, err := svc.Create(CreateInput{
		UserID:    userID,
		AccountID: accountID,
		Amount:    30.0,
		Type:      domain.TransactionExpense,
	})
	require.NoError(t, err)

	err = svc.Update(UpdateInput{
		ID:        created.ID,
		AccountID: accountID,
		Amount:    30.0,
		Type:      domain.TransactionTransfer,
	})
	assert.True(t, domain.IsValidationError(err), "transfer without destination should be rejected")
}

func TestDelete(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	created, err := svc.Create(CreateInput{
		UserID:    userID,
		AccountID: accountID,
		Amount:    30.0,
		Type:      domain.TransactionExpense,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))

	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(created.ID), domain.ErrNotFound)
}

func TestListByUser_NewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	for i, date := range []int64{1000, 3000, 2000} {
		_, err := svc.Create(CreateInput{
			UserID:    userID,
			AccountID: accountID,
			Amount:    float64(i + 1),
			Type:      domain.TransactionExpense,
			Date:      date,
		})
		require.NoError(t, err)
	}

	listed, err := svc.ListByUser(userID, 10)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, int64(3000), listed[0].Date)
	assert.Equal(t, int64(2000), listed[1].Date)
	assert.Equal(t, int64(1000), listed[2].Date)
}

func TestSyncedColumnUntouched(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	created, err := svc.Create(CreateInput{
		UserID:    userID,
		AccountID: accountID,
		Amount:    10.0,
		Type:      domain.TransactionExpense,
	})
	require.NoError(t, err)

	testutil.ExecSQL(t, db, "UPDATE transactions SET synced = 1 WHERE id = ?", created.ID)

	err = svc.Update(UpdateInput{
		ID:        created.ID,
		AccountID: accountID,
		Amount:    11.0,
		Type:      domain.TransactionExpense,
		Date:      created.Date,
	})
	require.NoError(t, err)

	// Updates never write the synced column
	var synced int
	err = db.QueryRow("SELECT synced FROM transactions WHERE id = ?", created.ID).Scan(&synced)
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
}
