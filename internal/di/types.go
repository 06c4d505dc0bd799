// Package di provides dependency injection type definitions.
//
// The Container is the single source of truth for all service instances.
// It is created by Wire() and handed to the server for route setup.
package di

import (
	"github.com/nvasilakis/fintrack/internal/database"
	"github.com/nvasilakis/fintrack/internal/events"
	"github.com/nvasilakis/fintrack/internal/modules/accounts"
	"github.com/nvasilakis/fintrack/internal/modules/analytics"
	"github.com/nvasilakis/fintrack/internal/modules/budgets"
	"github.com/nvasilakis/fintrack/internal/modules/categories"
	"github.com/nvasilakis/fintrack/internal/modules/goals"
	"github.com/nvasilakis/fintrack/internal/modules/migration"
	"github.com/nvasilakis/fintrack/internal/modules/transactions"
	"github.com/nvasilakis/fintrack/internal/modules/users"
	"github.com/nvasilakis/fintrack/internal/reliability"
)

// Container holds all application dependencies.
//
// Everything hangs off one SQLite database: the finance ledger. The ledger
// profile trades write throughput for durability because account history is
// the authoritative record from which balances are derived.
type Container struct {
	// Database
	FinanceDB *database.DB

	// Event bus for pub/sub (SSE stream, background jobs)
	EventBus *events.Bus

	// Repositories - data access layer
	UserRepo        *users.Repository
	AccountRepo     *accounts.Repository
	TransactionRepo *transactions.Repository
	CategoryRepo    *categories.Repository
	BudgetRepo      *budgets.Repository
	GoalRepo        *goals.Repository
	PendingRepo     *migration.PendingRepository

	// Services - business logic layer
	AccountService     *accounts.Service
	TransactionService *transactions.Service
	GoalService        *goals.Service
	MigrationService   *migration.Service
	AnalyticsService   *analytics.Service
	BackupService      *reliability.BackupService
}

// JobInstances holds background job instances for scheduler registration
// and manual triggering via the API
type JobInstances struct {
	Maintenance *reliability.MaintenanceJob
	Sweep       *migration.SweepJob
}

// Close releases held resources
func (c *Container) Close() error {
	if c.FinanceDB != nil {
		return c.FinanceDB.Close()
	}
	return nil
}
