package di

import (
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/config"
	"github.com/nvasilakis/fintrack/internal/events"
	"github.com/nvasilakis/fintrack/internal/modules/accounts"
	"github.com/nvasilakis/fintrack/internal/modules/analytics"
	"github.com/nvasilakis/fintrack/internal/modules/goals"
	"github.com/nvasilakis/fintrack/internal/modules/migration"
	"github.com/nvasilakis/fintrack/internal/modules/transactions"
	"github.com/nvasilakis/fintrack/internal/reliability"
)

// InitializeServices creates all services on top of the repositories
func InitializeServices(c *Container, cfg *config.Config, log zerolog.Logger) error {
	conn := c.FinanceDB.Conn()

	c.EventBus = events.NewBus(log)

	c.TransactionService = transactions.NewService(c.TransactionRepo, c.EventBus, log)
	c.AccountService = accounts.NewService(c.AccountRepo, c.TransactionRepo, c.EventBus, log)
	c.GoalService = goals.NewService(conn, c.GoalRepo, c.TransactionRepo, c.EventBus, log)
	c.MigrationService = migration.NewService(conn, c.PendingRepo, c.EventBus, log)
	c.AnalyticsService = analytics.NewService(conn, log)
	c.BackupService = reliability.NewBackupService(c.FinanceDB, cfg.BackupDir, cfg.BackupRetention, c.EventBus, log)

	return nil
}
