package migration

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
)

// PendingRepository stores the markers that gate migration attempts.
// A marker is created when a guest identity is queued for migration and is
// only cleared by a successful migration (or by the expiry sweep).
type PendingRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPendingRepository creates a new pending-migration repository
func NewPendingRepository(db *sql.DB, log zerolog.Logger) *PendingRepository {
	return &PendingRepository{
		db:  db,
		log: log.With().Str("repository", "pending_migrations").Logger(),
	}
}

// Create inserts a marker for a guest identity. Creating a marker that
// already exists resets nothing; the original attempt window stands.
func (r *PendingRepository) Create(guestUserID string) error {
	_, err := r.db.Exec(`
		INSERT OR IGNORE INTO pending_migrations (guest_user_id, created_at, attempts)
		VALUES (?, ?, 0)
	`, guestUserID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to create pending migration marker: %w", err)
	}

	r.log.Info().Str("guest_user_id", guestUserID).Msg("Pending migration marker created")
	return nil
}

// Get returns the marker for a guest identity, or domain.ErrNotFound
func (r *PendingRepository) Get(guestUserID string) (*domain.PendingMigration, error) {
	var marker domain.PendingMigration
	err := r.db.QueryRow(`
		SELECT guest_user_id, created_at, attempts FROM pending_migrations WHERE guest_user_id = ?
	`, guestUserID).Scan(&marker.GuestUserID, &marker.CreatedAt, &marker.Attempts)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending migration marker: %w", err)
	}
	return &marker, nil
}

// IncrementAttempts bumps the attempt counter after a failed migration
func (r *PendingRepository) IncrementAttempts(guestUserID string) error {
	_, err := r.db.Exec(`
		UPDATE pending_migrations SET attempts = attempts + 1 WHERE guest_user_id = ?
	`, guestUserID)
	if err != nil {
		return fmt.Errorf("failed to increment migration attempts: %w", err)
	}
	return nil
}

// Delete clears a marker (after a successful migration)
func (r *PendingRepository) Delete(guestUserID string) error {
	_, err := r.db.Exec("DELETE FROM pending_migrations WHERE guest_user_id = ?", guestUserID)
	if err != nil {
		return fmt.Errorf("failed to delete pending migration marker: %w", err)
	}

	r.log.Info().Str("guest_user_id", guestUserID).Msg("Pending migration marker cleared")
	return nil
}

// DeleteExpired removes markers created before the cutoff and returns how
// many were swept
func (r *PendingRepository) DeleteExpired(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM pending_migrations WHERE created_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired migration markers: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected > 0 {
		r.log.Info().Int64("swept", affected).Msg("Expired pending migration markers removed")
	}
	return affected, nil
}
