package goals

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasilakis/fintrack/internal/database"
	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/events"
	"github.com/nvasilakis/fintrack/internal/modules/transactions"
	testutil "github.com/nvasilakis/fintrack/internal/testing"
)

func newTestService(t *testing.T) (*Service, *database.DB, *events.Bus) {
	t.Helper()
	db, cleanup := testutil.NewTestDB(t)
	t.Cleanup(cleanup)

	log := zerolog.Nop()
	repo := NewRepository(db.Conn(), log)
	txRepo := transactions.NewRepository(db.Conn(), log)
	bus := events.NewBus(log)

	return NewService(db.Conn(), repo, txRepo, bus, log), db, bus
}

func TestService_Create_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(domain.Goal{Name: "No user", TargetAmount: 100})
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.Create(domain.Goal{UserID: "u1", TargetAmount: 100})
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.Create(domain.Goal{UserID: "u1", Name: "Zero target"})
	assert.True(t, domain.IsValidationError(err))
}

func TestService_Contribute(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 500.0)
	goalID := testutil.CreateTestGoal(t, db, userID, 1000.0, 0.0)

	goal, err := svc.Contribute(goalID, accountID, 150.0)
	require.NoError(t, err)
	assert.Equal(t, 150.0, goal.CurrentAmount)
	assert.Equal(t, domain.GoalStatusActive, goal.Status)

	// A goal_contribution transaction was recorded on the funding account
	assert.Equal(t, 1, testutil.CountRows(t, db, "transactions",
		"account_id = ? AND type = 'goal_contribution' AND amount = 150", accountID))
}

func TestService_Contribute_AcceptsStringAmount(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 500.0)
	goalID := testutil.CreateTestGoal(t, db, userID, 1000.0, 0.0)

	goal, err := svc.Contribute(goalID, accountID, "42.50")
	require.NoError(t, err)
	assert.Equal(t, 42.5, goal.CurrentAmount)
}

func TestService_Contribute_RejectsBadAmounts(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 500.0)
	goalID := testutil.CreateTestGoal(t, db, userID, 1000.0, 0.0)

	_, err := svc.Contribute(goalID, accountID, "not a number")
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.Contribute(goalID, accountID, -5.0)
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.Contribute(goalID, accountID, 0.0)
	assert.True(t, domain.IsValidationError(err))
}

func TestService_Contribute_CompletesAtTarget(t *testing.T) {
	svc, db, bus := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 500.0)
	goalID := testutil.CreateTestGoal(t, db, userID, 100.0, 80.0)

	_, ch := bus.Subscribe()

	goal, err := svc.Contribute(goalID, accountID, 20.0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, goal.CurrentAmount)
	assert.Equal(t, domain.GoalStatusCompleted, goal.Status)

	evt := <-ch
	assert.Equal(t, "goal.completed", string(evt.Type))

	// Status persisted, not just returned
	stored, err := svc.Get(goalID)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalStatusCompleted, stored.Status)
}

func TestService_Contribute_InactiveGoalRefused(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 500.0)
	goalID := testutil.CreateTestGoal(t, db, userID, 100.0, 100.0)
	testutil.ExecSQL(t, db, "UPDATE goals SET status = 'completed' WHERE id = ?", goalID)

	_, err := svc.Contribute(goalID, accountID, 10.0)
	require.Error(t, err)
	assert.True(t, domain.IsConstraintViolation(err))

	// Rolled back: no transaction row, amount unchanged
	assert.Equal(t, 0, testutil.CountRows(t, db, "transactions", "goal_id = ?", goalID))
}

func TestService_Withdraw(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0.0)
	goalID := testutil.CreateTestGoal(t, db, userID, 1000.0, 300.0)

	goal, err := svc.Withdraw(goalID, accountID, 100.0)
	require.NoError(t, err)
	assert.Equal(t, 200.0, goal.CurrentAmount)

	assert.Equal(t, 1, testutil.CountRows(t, db, "transactions",
		"account_id = ? AND type = 'goal_withdrawal' AND amount = 100", accountID))
}

func TestService_Withdraw_ExceedsBalance(t *testing.T) {
	svc, db, _ := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0.0)
	goalID := testutil.CreateTestGoal(t, db, userID, 1000.0, 50.0)

	_, err := svc.Withdraw(goalID, accountID, 100.0)
	require.Error(t, err)
	assert.True(t, domain.IsConstraintViolation(err))

	// Nothing recorded or mutated
	assert.Equal(t, 0, testutil.CountRows(t, db, "transactions", "goal_id = ?", goalID))
	stored, err := svc.Get(goalID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored.CurrentAmount)
}

func TestService_GoalAmountIsMutatedNotDerived(t *testing.T) {
	// Deleting the contribution transaction must NOT change the goal's
	// current amount: goals mutate state directly, unlike account balances
	// which are derived from the ledger on every read.
	svc, db, _ := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 500.0)
	goalID := testutil.CreateTestGoal(t, db, userID, 1000.0, 0.0)

	_, err := svc.Contribute(goalID, accountID, 75.0)
	require.NoError(t, err)

	testutil.ExecSQL(t, db, "DELETE FROM transactions WHERE goal_id = ?", goalID)

	stored, err := svc.Get(goalID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, stored.CurrentAmount)
}
