// Package migration implements the guest-to-user ownership migration
// engine: a single atomic reassignment of every guest-owned row across the
// five entity tables, followed by deletion of the guest user row.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/database"
	"github.com/nvasilakis/fintrack/internal/events"
)

const (
	// How long a pending-migration marker stays valid.
	pendingWindow = 24 * time.Hour
	// Maximum failed attempts before a marker is considered stale.
	maxAttempts = 5
)

// Counts reports how many rows of each type were reassigned
type Counts struct {
	Transactions int64 `json:"transactions"`
	Budgets      int64 `json:"budgets"`
	Goals        int64 `json:"goals"`
	Accounts     int64 `json:"accounts"`
	Categories   int64 `json:"categories"`
}

// Result is the outcome of a migration. Failures are values, not errors:
// callers check Success rather than catch. On failure the counts are all
// zero because the whole transaction rolled back.
type Result struct {
	Success        bool   `json:"success"`
	MigratedCounts Counts `json:"migrated_counts"`
	Error          string `json:"error,omitempty"`
}

// Service is the migration engine
type Service struct {
	db      *sql.DB
	pending *PendingRepository
	bus     *events.Bus
	log     zerolog.Logger
}

// NewService creates a new migration service
func NewService(db *sql.DB, pending *PendingRepository, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		db:      db,
		pending: pending,
		bus:     bus,
		log:     log.With().Str("service", "migration").Logger(),
	}
}

// MigrateOwnership reassigns every record owned by fromUserID to toUserID
// across accounts, categories, transactions, budgets and goals, then
// deletes the source user row. Everything runs in one database transaction:
// a reader never observes a partial reassignment.
//
// Default categories are excluded: they are shared rows, and reassigning
// them would corrupt category data for every other user.
//
// The user deletion must stay last. With foreign keys enforced, deleting
// the user while child rows still point at it would fail (or cascade).
//
// Running the migration again for an already-migrated (now nonexistent)
// fromUserID is a successful no-op: statements matching zero rows are not
// failures, so the result is Success with all-zero counts.
func (s *Service) MigrateOwnership(ctx context.Context, fromUserID, toUserID string) Result {
	if fromUserID == "" || toUserID == "" {
		return Result{Success: false, Error: "both user ids are required"}
	}
	if fromUserID == toUserID {
		return Result{Success: false, Error: "source and target user ids must differ"}
	}

	var counts Counts
	err := database.WithTransaction(s.db, func(tx *sql.Tx) error {
		reassign := func(query string, dest *int64) error {
			result, err := tx.ExecContext(ctx, query, toUserID, fromUserID)
			if err != nil {
				return err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			*dest = affected
			return nil
		}

		if err := reassign("UPDATE accounts SET user_id = ? WHERE user_id = ?", &counts.Accounts); err != nil {
			return fmt.Errorf("accounts: %w", err)
		}
		if err := reassign("UPDATE categories SET user_id = ? WHERE user_id = ? AND is_default = 0", &counts.Categories); err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		if err := reassign("UPDATE transactions SET user_id = ? WHERE user_id = ?", &counts.Transactions); err != nil {
			return fmt.Errorf("transactions: %w", err)
		}
		if err := reassign("UPDATE budgets SET user_id = ? WHERE user_id = ?", &counts.Budgets); err != nil {
			return fmt.Errorf("budgets: %w", err)
		}
		if err := reassign("UPDATE goals SET user_id = ? WHERE user_id = ?", &counts.Goals); err != nil {
			return fmt.Errorf("goals: %w", err)
		}

		// Source user row goes last, after every child row has moved.
		if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", fromUserID); err != nil {
			return fmt.Errorf("users: %w", err)
		}

		return nil
	})
	if err != nil {
		s.log.Error().
			Err(err).
			Str("from_user_id", fromUserID).
			Str("to_user_id", toUserID).
			Msg("Migration rolled back")
		return Result{Success: false, Error: err.Error()}
	}

	s.log.Info().
		Str("from_user_id", fromUserID).
		Str("to_user_id", toUserID).
		Int64("accounts", counts.Accounts).
		Int64("categories", counts.Categories).
		Int64("transactions", counts.Transactions).
		Int64("budgets", counts.Budgets).
		Int64("goals", counts.Goals).
		Msg("Migration committed")

	return Result{Success: true, MigratedCounts: counts}
}

// MigrateGuestDataToUser is the gated entry point used at sign-in time.
// It refuses to run without a valid pending-migration marker, increments
// the marker's attempt count on failure (so a later retry is possible),
// and clears the marker only after success.
func (s *Service) MigrateGuestDataToUser(ctx context.Context, fromGuestUserID, toAuthUserID string) Result {
	marker, err := s.pending.Get(fromGuestUserID)
	if err != nil {
		return Result{Success: false, Error: "no pending migration for guest user " + fromGuestUserID}
	}

	if time.Since(time.Unix(marker.CreatedAt, 0)) > pendingWindow {
		return Result{Success: false, Error: "pending migration for guest user has expired"}
	}
	if marker.Attempts >= maxAttempts {
		return Result{Success: false, Error: "pending migration attempt limit reached"}
	}

	result := s.MigrateOwnership(ctx, fromGuestUserID, toAuthUserID)
	if !result.Success {
		if err := s.pending.IncrementAttempts(fromGuestUserID); err != nil {
			s.log.Error().Err(err).Msg("Failed to record migration attempt")
		}
		s.bus.Publish(events.MigrationFailed, &events.MigrationFailedData{
			FromUserID: fromGuestUserID,
			Error:      result.Error,
		})
		return result
	}

	if err := s.pending.Delete(fromGuestUserID); err != nil {
		// The migration itself committed; losing the marker cleanup is
		// recoverable because a rerun is an idempotent no-op.
		s.log.Error().Err(err).Msg("Failed to clear pending migration marker")
	}

	s.bus.Publish(events.MigrationCompleted, &events.MigrationCompletedData{
		FromUserID:   fromGuestUserID,
		ToUserID:     toAuthUserID,
		Transactions: result.MigratedCounts.Transactions,
		Budgets:      result.MigratedCounts.Budgets,
		Goals:        result.MigratedCounts.Goals,
		Accounts:     result.MigratedCounts.Accounts,
		Categories:   result.MigratedCounts.Categories,
	})

	return result
}

// QueueGuestMigration records a pending-migration marker for a guest
// identity
func (s *Service) QueueGuestMigration(guestUserID string) error {
	if guestUserID == "" {
		return fmt.Errorf("guest user id is required")
	}
	return s.pending.Create(guestUserID)
}
