package migration

import (
	"time"

	"github.com/rs/zerolog"
)

// SweepJob removes pending-migration markers that fell out of the attempt
// window. Runs on the background scheduler.
type SweepJob struct {
	pending *PendingRepository
	log     zerolog.Logger
}

// NewSweepJob creates a new sweep job
func NewSweepJob(pending *PendingRepository, log zerolog.Logger) *SweepJob {
	return &SweepJob{
		pending: pending,
		log:     log.With().Str("job", "migration_sweep").Logger(),
	}
}

// Name returns the job name
func (j *SweepJob) Name() string {
	return "migration_sweep"
}

// Run deletes markers older than the pending window
func (j *SweepJob) Run() error {
	swept, err := j.pending.DeleteExpired(time.Now().Add(-pendingWindow))
	if err != nil {
		return err
	}

	if swept > 0 {
		j.log.Info().Int64("swept", swept).Msg("Stale pending migrations swept")
	}
	return nil
}
