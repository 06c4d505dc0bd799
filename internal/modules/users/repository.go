// Package users provides persistence for user and guest identities.
package users

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
)

// Repository handles user database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "users").Logger(),
	}
}

// Create inserts a new user. An empty ID gets a generated uuid.
func (r *Repository) Create(user domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := r.db.Exec(`
		INSERT INTO users (id, name, email, is_guest, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Name, nullString(user.Email), boolToInt(user.IsGuest), user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info().Str("user_id", user.ID).Bool("is_guest", user.IsGuest).Msg("User created")
	return &user, nil
}

// GetByID returns a user by id, or domain.ErrNotFound
func (r *Repository) GetByID(id string) (*domain.User, error) {
	var user domain.User
	var email sql.NullString
	var isGuest int

	err := r.db.QueryRow(`
		SELECT id, name, email, is_guest, created_at FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.Name, &email, &isGuest, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	if email.Valid {
		user.Email = email.String
	}
	user.IsGuest = isGuest != 0

	return &user, nil
}

// Exists reports whether a user row with the given id exists
func (r *Repository) Exists(id string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func nullString(val string) sql.NullString {
	if val == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: val, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
