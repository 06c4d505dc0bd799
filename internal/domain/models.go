// Package domain provides core domain models and types.
package domain

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// AccountType represents the kind of account a user holds
type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCash       AccountType = "cash"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeWallet     AccountType = "wallet"
)

// ValidAccountType reports whether t is one of the known account types
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeBank, AccountTypeCash, AccountTypeCredit, AccountTypeInvestment, AccountTypeWallet:
		return true
	}
	return false
}

// TransactionType represents the direction/kind of a transaction.
// Amounts are stored as non-negative magnitudes; the type implies the sign.
type TransactionType string

const (
	TransactionIncome           TransactionType = "income"
	TransactionExpense          TransactionType = "expense"
	TransactionTransfer         TransactionType = "transfer"
	TransactionGoalContribution TransactionType = "goal_contribution"
	TransactionGoalWithdrawal   TransactionType = "goal_withdrawal"
)

// ValidTransactionType reports whether t is one of the known transaction types
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionTransfer,
		TransactionGoalContribution, TransactionGoalWithdrawal:
		return true
	}
	return false
}

// GoalStatus represents the lifecycle state of a savings goal
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// BudgetPeriod represents the recurrence period of a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// User represents a user or guest identity that owns records
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	IsGuest   bool   `json:"is_guest"`
	CreatedAt int64  `json:"created_at"`
}

// Account represents a money holding account.
// InitialBalance is set once at creation and never mutated afterwards.
// Balance is derived on every read (initial balance plus the signed
// contributions of all transactions referencing the account) and is never
// persisted as authoritative state.
type Account struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Name           string      `json:"name"`
	Type           AccountType `json:"type"`
	InitialBalance float64     `json:"initial_balance"`
	Balance        float64     `json:"balance"` // Derived, never stored
	Currency       Currency    `json:"currency"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      int64       `json:"created_at"`
	UpdatedAt      int64       `json:"updated_at"`
}

// Transaction represents a single financial movement.
// ToAccountID is only meaningful for transfers, where the stored amount
// affects two accounts in opposite directions.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	AccountID   string          `json:"account_id"`
	ToAccountID *string         `json:"to_account_id,omitempty"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Date        int64           `json:"date"`
	Description string          `json:"description"`
	GoalID      *string         `json:"goal_id,omitempty"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at"`
}

// Goal represents a savings goal.
// CurrentAmount is mutated directly by contribution/withdrawal operations,
// NOT derived from transactions. This is a deliberate asymmetry with
// Account.Balance carried over from the original system.
type Goal struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	Status        GoalStatus `json:"status"`
	CreatedAt     int64      `json:"created_at"`
	UpdatedAt     int64      `json:"updated_at"`
}

// Budget represents a spending budget over a set of categories
type Budget struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	Amount      float64      `json:"amount"`
	CategoryIDs []string     `json:"category_ids"`
	Period      BudgetPeriod `json:"period"`
	CreatedAt   int64        `json:"created_at"`
	UpdatedAt   int64        `json:"updated_at"`
}

// Category represents a transaction category.
// Default categories (IsDefault) are global, shared across users, and
// excluded from ownership migration.
type Category struct {
	ID        string  `json:"id"`
	UserID    *string `json:"user_id,omitempty"` // nil for global defaults
	Name      string  `json:"name"`
	Icon      string  `json:"icon"`
	Type      string  `json:"type"` // income or expense
	IsDefault bool    `json:"is_default"`
	CreatedAt int64   `json:"created_at"`
}

// PendingMigration marks a guest identity whose data is waiting to be
// attributed to an authenticated user
type PendingMigration struct {
	GuestUserID string `json:"guest_user_id"`
	CreatedAt   int64  `json:"created_at"`
	Attempts    int    `json:"attempts"`
}
