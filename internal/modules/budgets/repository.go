// Package budgets provides persistence for spending budgets.
package budgets

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
)

// Repository handles budget database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new budget repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "budgets").Logger(),
	}
}

const budgetColumns = `id, user_id, name, amount, category_ids, period, created_at, updated_at`

// Create inserts a new budget. The category id list is stored as JSON text.
func (r *Repository) Create(b domain.Budget) (*domain.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Period == "" {
		b.Period = domain.BudgetPeriodMonthly
	}
	if b.CategoryIDs == nil {
		b.CategoryIDs = []string{}
	}

	categoryIDs, err := json.Marshal(b.CategoryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode category ids: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO budgets (id, user_id, name, amount, category_ids, period, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.UserID, b.Name, b.Amount, string(categoryIDs), string(b.Period), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	r.log.Info().Str("budget_id", b.ID).Str("period", string(b.Period)).Msg("Budget created")
	return &b, nil
}

// GetByID returns a budget by id, or domain.ErrNotFound
func (r *Repository) GetByID(id string) (*domain.Budget, error) {
	row := r.db.QueryRow(`SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget %s: %w", id, err)
	}
	return b, nil
}

// ListByUser returns all budgets owned by a user
func (r *Repository) ListByUser(userID string) ([]domain.Budget, error) {
	rows, err := r.db.Query(`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var result []domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return result, nil
}

// Update rewrites a budget's mutable fields
func (r *Repository) Update(b domain.Budget) error {
	categoryIDs, err := json.Marshal(b.CategoryIDs)
	if err != nil {
		return fmt.Errorf("failed to encode category ids: %w", err)
	}

	result, err := r.db.Exec(`
		UPDATE budgets SET name = ?, amount = ?, category_ids = ?, period = ?, updated_at = ?
		WHERE id = ?
	`, b.Name, b.Amount, string(categoryIDs), string(b.Period), time.Now().Unix(), b.ID)
	if err != nil {
		return fmt.Errorf("failed to update budget %s: %w", b.ID, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("budget_id", b.ID).Msg("Budget updated")
	return nil
}

// Delete removes a budget
func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", id, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("budget_id", id).Msg("Budget deleted")
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanBudget
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBudget(s scanner) (*domain.Budget, error) {
	var b domain.Budget
	var categoryIDs, period string

	err := s.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &categoryIDs, &period, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(categoryIDs), &b.CategoryIDs); err != nil {
		return nil, fmt.Errorf("failed to decode category ids for budget %s: %w", b.ID, err)
	}
	b.Period = domain.BudgetPeriod(period)

	return &b, nil
}
