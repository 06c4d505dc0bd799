package di

import (
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/modules/accounts"
	"github.com/nvasilakis/fintrack/internal/modules/budgets"
	"github.com/nvasilakis/fintrack/internal/modules/categories"
	"github.com/nvasilakis/fintrack/internal/modules/goals"
	"github.com/nvasilakis/fintrack/internal/modules/migration"
	"github.com/nvasilakis/fintrack/internal/modules/transactions"
	"github.com/nvasilakis/fintrack/internal/modules/users"
)

// InitializeRepositories creates all repositories on the finance database
func InitializeRepositories(c *Container, log zerolog.Logger) error {
	conn := c.FinanceDB.Conn()

	c.UserRepo = users.NewRepository(conn, log)
	c.AccountRepo = accounts.NewRepository(conn, log)
	c.TransactionRepo = transactions.NewRepository(conn, log)
	c.CategoryRepo = categories.NewRepository(conn, log)
	c.BudgetRepo = budgets.NewRepository(conn, log)
	c.GoalRepo = goals.NewRepository(conn, log)
	c.PendingRepo = migration.NewPendingRepository(conn, log)

	return nil
}
