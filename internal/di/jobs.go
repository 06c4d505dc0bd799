package di

import (
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/modules/migration"
	"github.com/nvasilakis/fintrack/internal/reliability"
)

// RegisterJobs creates background job instances. The caller wires them
// into the scheduler with the configured cron expressions.
func RegisterJobs(c *Container, log zerolog.Logger) (*JobInstances, error) {
	return &JobInstances{
		Maintenance: reliability.NewMaintenanceJob(c.FinanceDB, c.BackupService, c.EventBus, log),
		Sweep:       migration.NewSweepJob(c.PendingRepo, log),
	}, nil
}
