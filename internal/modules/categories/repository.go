// Package categories provides persistence for transaction categories.
// Default categories are global rows shared across users; they are
// protected from deletion and from ownership migration.
package categories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
)

// Repository handles category database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new category repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "categories").Logger(),
	}
}

const categoryColumns = `id, user_id, name, icon, type, is_default, created_at`

// Create inserts a user-owned category. Default categories come from the
// schema seed, never from this method.
func (r *Repository) Create(c domain.Category) (*domain.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}
	if c.UserID == nil || *c.UserID == "" {
		return nil, domain.NewValidationError("user_id", "missing")
	}
	if c.Name == "" {
		return nil, domain.NewValidationError("name", "missing")
	}
	c.IsDefault = false

	_, err := r.db.Exec(`
		INSERT INTO categories (id, user_id, name, icon, type, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, c.ID, *c.UserID, c.Name, c.Icon, c.Type, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	r.log.Info().Str("category_id", c.ID).Str("name", c.Name).Msg("Category created")
	return &c, nil
}

// GetByID returns a category by id, or domain.ErrNotFound
func (r *Repository) GetByID(id string) (*domain.Category, error) {
	row := r.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	return c, nil
}

// ListForUser returns the global defaults plus the user's own categories
func (r *Repository) ListForUser(userID string) ([]domain.Category, error) {
	rows, err := r.db.Query(`
		SELECT `+categoryColumns+` FROM categories
		WHERE is_default = 1 OR user_id = ?
		ORDER BY is_default DESC, name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		result = append(result, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return result, nil
}

// Update renames or restyles a user-owned category.
// Default categories are immutable.
func (r *Repository) Update(c domain.Category) error {
	existing, err := r.GetByID(c.ID)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return domain.NewConstraintViolation("default categories cannot be modified")
	}

	_, err = r.db.Exec(`
		UPDATE categories SET name = ?, icon = ?, type = ? WHERE id = ?
	`, c.Name, c.Icon, c.Type, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update category %s: %w", c.ID, err)
	}

	r.log.Info().Str("category_id", c.ID).Msg("Category updated")
	return nil
}

// Delete removes a user-owned category. Default categories are protected.
func (r *Repository) Delete(id string) error {
	existing, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return domain.NewConstraintViolation("default categories cannot be deleted")
	}

	if _, err := r.db.Exec("DELETE FROM categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}

	r.log.Info().Str("category_id", id).Msg("Category deleted")
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanCategory
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCategory(s scanner) (*domain.Category, error) {
	var c domain.Category
	var userID sql.NullString
	var isDefault int

	err := s.Scan(&c.ID, &userID, &c.Name, &c.Icon, &c.Type, &isDefault, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		c.UserID = &userID.String
	}
	c.IsDefault = isDefault != 0

	return &c, nil
}
