package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasilakis/fintrack/internal/database"
	testutil "github.com/nvasilakis/fintrack/internal/testing"
)

func newTestService(t *testing.T) (*Service, *database.DB) {
	t.Helper()
	db, cleanup := testutil.NewTestDB(t)
	t.Cleanup(cleanup)
	return NewService(db.Conn(), zerolog.Nop()), db
}

// addTransaction inserts a row with an explicit date, since the summary
// groups by calendar month
func addTransaction(t *testing.T, db *database.DB, userID, accountID, txType string, amount float64, date time.Time) string {
	t.Helper()
	id := testutil.CreateTestTransaction(t, db, userID, accountID, "", txType, amount)
	testutil.ExecSQL(t, db, "UPDATE transactions SET date = ? WHERE id = ?", date.Unix(), id)
	return id
}

func TestSpendingSummary_Empty(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)

	summary, err := svc.SpendingSummary(userID)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalIncome)
	assert.Zero(t, summary.TotalExpenses)
	assert.Empty(t, summary.ByCategory)
	assert.Empty(t, summary.ByMonth)
	assert.Zero(t, summary.MonthlyMean)
	assert.Zero(t, summary.MonthlyStdDev)
	assert.Zero(t, summary.MonthsObserved)
}

func TestSpendingSummary_Totals(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	jan := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	addTransaction(t, db, userID, accountID, "income", 3000, jan)
	addTransaction(t, db, userID, accountID, "expense", 120, jan)
	addTransaction(t, db, userID, accountID, "expense", 80, jan)
	// Transfers and goal movements count as neither income nor spending
	addTransaction(t, db, userID, accountID, "goal_contribution", 500, jan)

	summary, err := svc.SpendingSummary(userID)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, summary.TotalIncome)
	assert.Equal(t, 200.0, summary.TotalExpenses)
}

func TestSpendingSummary_ByCategory(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	groceries := addTransaction(t, db, userID, accountID, "expense", 150, jan)
	testutil.ExecSQL(t, db, "UPDATE transactions SET category_id = 'default-groceries' WHERE id = ?", groceries)
	more := addTransaction(t, db, userID, accountID, "expense", 50, jan)
	testutil.ExecSQL(t, db, "UPDATE transactions SET category_id = 'default-groceries' WHERE id = ?", more)
	addTransaction(t, db, userID, accountID, "expense", 30, jan)

	summary, err := svc.SpendingSummary(userID)
	require.NoError(t, err)
	require.Len(t, summary.ByCategory, 2)

	// Largest category first
	assert.Equal(t, "default-groceries", summary.ByCategory[0].CategoryID)
	assert.Equal(t, 200.0, summary.ByCategory[0].Total)
	assert.Equal(t, "uncategorized", summary.ByCategory[1].CategoryID)
	assert.Equal(t, 30.0, summary.ByCategory[1].Total)
}

func TestSpendingSummary_MonthlyStats(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	addTransaction(t, db, userID, accountID, "expense", 100,
		time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC))
	addTransaction(t, db, userID, accountID, "expense", 100,
		time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC))
	addTransaction(t, db, userID, accountID, "expense", 300,
		time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC))
	addTransaction(t, db, userID, accountID, "expense", 400,
		time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))

	summary, err := svc.SpendingSummary(userID)
	require.NoError(t, err)

	require.Len(t, summary.ByMonth, 3)
	assert.Equal(t, "2026-01", summary.ByMonth[0].Month)
	assert.Equal(t, 200.0, summary.ByMonth[0].Total)
	assert.Equal(t, "2026-02", summary.ByMonth[1].Month)
	assert.Equal(t, 300.0, summary.ByMonth[1].Total)
	assert.Equal(t, "2026-03", summary.ByMonth[2].Month)
	assert.Equal(t, 400.0, summary.ByMonth[2].Total)

	assert.Equal(t, 3, summary.MonthsObserved)
	assert.InDelta(t, 300.0, summary.MonthlyMean, 1e-9)
	// Sample standard deviation of {200, 300, 400}
	assert.InDelta(t, 100.0, summary.MonthlyStdDev, 1e-9)
	assert.False(t, math.IsNaN(summary.MonthlyStdDev))
}

func TestSpendingSummary_SingleMonthSkipsStdDev(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)

	addTransaction(t, db, userID, accountID, "expense", 250,
		time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))

	summary, err := svc.SpendingSummary(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.MonthsObserved)
	assert.Equal(t, 250.0, summary.MonthlyMean)
	assert.Zero(t, summary.MonthlyStdDev)
}

func TestSpendingSummary_ScopedToUser(t *testing.T) {
	svc, db := newTestService(t)
	userID := testutil.CreateTestUser(t, db, false)
	otherID := testutil.CreateTestUser(t, db, false)
	accountID := testutil.CreateTestAccount(t, db, userID, 0)
	otherAccount := testutil.CreateTestAccount(t, db, otherID, 0)

	jan := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	addTransaction(t, db, userID, accountID, "expense", 100, jan)
	addTransaction(t, db, otherID, otherAccount, "expense", 999, jan)

	summary, err := svc.SpendingSummary(userID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.TotalExpenses)
}
