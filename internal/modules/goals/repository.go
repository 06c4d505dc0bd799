// Package goals provides persistence and contribution handling for savings
// goals.
package goals

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
)

// Repository handles goal database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new goal repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "goals").Logger(),
	}
}

const goalColumns = `id, user_id, name, target_amount, current_amount, status, created_at, updated_at`

// Create inserts a new goal
func (r *Repository) Create(g domain.Goal) (*domain.Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.Status == "" {
		g.Status = domain.GoalStatusActive
	}

	_, err := r.db.Exec(`
		INSERT INTO goals (id, user_id, name, target_amount, current_amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, string(g.Status), g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	r.log.Info().Str("goal_id", g.ID).Float64("target", g.TargetAmount).Msg("Goal created")
	return &g, nil
}

// GetByID returns a goal by id, or domain.ErrNotFound
func (r *Repository) GetByID(id string) (*domain.Goal, error) {
	row := r.db.QueryRow(`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal %s: %w", id, err)
	}
	return g, nil
}

// GetByIDTx returns a goal inside an existing transaction, or domain.ErrNotFound
func (r *Repository) GetByIDTx(tx *sql.Tx, id string) (*domain.Goal, error) {
	row := tx.QueryRow(`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal %s: %w", id, err)
	}
	return g, nil
}

// ListByUser returns all goals owned by a user
func (r *Repository) ListByUser(userID string) ([]domain.Goal, error) {
	rows, err := r.db.Query(`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var result []domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		result = append(result, *g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return result, nil
}

// Update rewrites a goal's mutable fields
func (r *Repository) Update(g domain.Goal) error {
	result, err := r.db.Exec(`
		UPDATE goals SET name = ?, target_amount = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, g.Name, g.TargetAmount, string(g.Status), time.Now().Unix(), g.ID)
	if err != nil {
		return fmt.Errorf("failed to update goal %s: %w", g.ID, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("goal_id", g.ID).Msg("Goal updated")
	return nil
}

// AdjustCurrentAmountTx applies a delta to current_amount inside an existing
// transaction and returns the new value. Goal progress is mutated directly
// rather than derived, unlike account balances.
func (r *Repository) AdjustCurrentAmountTx(tx *sql.Tx, id string, delta float64) (float64, error) {
	_, err := tx.Exec(`
		UPDATE goals SET current_amount = current_amount + ?, updated_at = ? WHERE id = ?
	`, delta, time.Now().Unix(), id)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust goal %s: %w", id, err)
	}

	var current float64
	if err := tx.QueryRow("SELECT current_amount FROM goals WHERE id = ?", id).Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to read goal %s after adjustment: %w", id, err)
	}

	return current, nil
}

// SetStatusTx updates a goal's status inside an existing transaction
func (r *Repository) SetStatusTx(tx *sql.Tx, id string, status domain.GoalStatus) error {
	_, err := tx.Exec("UPDATE goals SET status = ?, updated_at = ? WHERE id = ?",
		string(status), time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to set goal %s status: %w", id, err)
	}
	return nil
}

// Delete removes a goal
func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", id, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("goal_id", id).Msg("Goal deleted")
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanGoal
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGoal(s scanner) (*domain.Goal, error) {
	var g domain.Goal
	var status string

	err := s.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.Status = domain.GoalStatus(status)
	return &g, nil
}
