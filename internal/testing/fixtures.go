package testing

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nvasilakis/fintrack/internal/database"
)

// CreateTestUser inserts a user row and returns its id
func CreateTestUser(t *testing.T, db *database.DB, isGuest bool) string {
	t.Helper()
	id := uuid.NewString()
	guest := 0
	if isGuest {
		guest = 1
	}
	ExecSQL(t, db, `INSERT INTO users (id, name, is_guest, created_at) VALUES (?, ?, ?, ?)`,
		id, "Test User", guest, time.Now().Unix())
	return id
}

// CreateTestAccount inserts an account row and returns its id
func CreateTestAccount(t *testing.T, db *database.DB, userID string, initialBalance float64) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().Unix()
	ExecSQL(t, db, `
		INSERT INTO accounts (id, user_id, name, type, initial_balance, currency, is_active, created_at, updated_at)
		VALUES (?, ?, 'Checking', 'bank', ?, 'USD', 1, ?, ?)
	`, id, userID, initialBalance, now, now)
	return id
}

// CreateTestTransaction inserts a transaction row and returns its id.
// toAccountID may be empty for non-transfers.
func CreateTestTransaction(t *testing.T, db *database.DB, userID, accountID, toAccountID, txType string, amount float64) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().Unix()
	var dest interface{}
	if toAccountID != "" {
		dest = toAccountID
	}
	ExecSQL(t, db, `
		INSERT INTO transactions (id, user_id, account_id, to_account_id, amount, type, date, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, '', ?, ?)
	`, id, userID, accountID, dest, amount, txType, now, now, now)
	return id
}

// CreateTestGoal inserts a goal row and returns its id
func CreateTestGoal(t *testing.T, db *database.DB, userID string, target, current float64) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().Unix()
	ExecSQL(t, db, `
		INSERT INTO goals (id, user_id, name, target_amount, current_amount, status, created_at, updated_at)
		VALUES (?, ?, 'Vacation', ?, ?, 'active', ?, ?)
	`, id, userID, target, current, now, now)
	return id
}

// CreateTestBudget inserts a budget row and returns its id
func CreateTestBudget(t *testing.T, db *database.DB, userID string, amount float64) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().Unix()
	ExecSQL(t, db, `
		INSERT INTO budgets (id, user_id, name, amount, category_ids, period, created_at, updated_at)
		VALUES (?, ?, 'Monthly budget', ?, '[]', 'monthly', ?, ?)
	`, id, userID, amount, now, now)
	return id
}

// CreateTestCategory inserts a user-owned category row and returns its id
func CreateTestCategory(t *testing.T, db *database.DB, userID string) string {
	t.Helper()
	id := uuid.NewString()
	ExecSQL(t, db, `
		INSERT INTO categories (id, user_id, name, icon, type, is_default, created_at)
		VALUES (?, ?, 'Coffee', 'cup', 'expense', 0, ?)
	`, id, userID, time.Now().Unix())
	return id
}
