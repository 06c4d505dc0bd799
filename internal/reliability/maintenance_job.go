package reliability

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/database"
	"github.com/nvasilakis/fintrack/internal/events"
)

// MaintenanceJob runs periodic database maintenance: integrity check,
// WAL checkpoint, and a local backup. Scheduled daily by default.
type MaintenanceJob struct {
	db     *database.DB
	backup *BackupService
	bus    *events.Bus
	log    zerolog.Logger
}

// NewMaintenanceJob creates a new maintenance job
func NewMaintenanceJob(db *database.DB, backup *BackupService, bus *events.Bus, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:     db,
		backup: backup,
		bus:    bus,
		log:    log.With().Str("job", "maintenance").Logger(),
	}
}

// Name returns the job name for scheduler registration
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run executes the maintenance cycle. A failed integrity check is logged
// and reported but does not stop the checkpoint or backup steps.
func (j *MaintenanceJob) Run() error {
	startTime := time.Now()
	j.log.Info().Msg("Starting database maintenance")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	healthy := true
	if err := j.db.HealthCheck(ctx); err != nil {
		healthy = false
		j.log.Error().Err(err).Msg("Database integrity check failed")
	}

	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		j.log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	if _, err := j.backup.CreateBackup(); err != nil {
		j.log.Error().Err(err).Msg("Scheduled backup failed")
		return err
	}

	elapsed := time.Since(startTime)
	j.log.Info().
		Bool("healthy", healthy).
		Dur("elapsed", elapsed).
		Msg("Database maintenance finished")

	j.bus.Publish(events.MaintenanceFinished, &events.MaintenanceFinishedData{
		DurationMs: elapsed.Milliseconds(),
		Healthy:    healthy,
	})

	return nil
}
