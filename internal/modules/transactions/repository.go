// Package transactions provides persistence and validation for financial
// transactions.
package transactions

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
)

// Repository handles transaction database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new transaction repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "transactions").Logger(),
	}
}

const transactionColumns = `id, user_id, account_id, to_account_id, category_id, amount, type, date, description, goal_id, created_at, updated_at`

// Create inserts a new transaction
func (r *Repository) Create(t domain.Transaction) (*domain.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Date == 0 {
		t.Date = now
	}

	_, err := r.db.Exec(`
		INSERT INTO transactions (id, user_id, account_id, to_account_id, category_id, amount, type, date, description, goal_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.AccountID, nullStringPtr(t.ToAccountID), nullStringPtr(t.CategoryID),
		t.Amount, string(t.Type), t.Date, t.Description, nullStringPtr(t.GoalID),
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	r.log.Info().
		Str("transaction_id", t.ID).
		Str("type", string(t.Type)).
		Float64("amount", t.Amount).
		Msg("Transaction created")
	return &t, nil
}

// CreateTx inserts a transaction inside an existing database transaction.
// Used by the goals service, which records the movement and mutates the goal
// atomically.
func (r *Repository) CreateTx(tx *sql.Tx, t domain.Transaction) (*domain.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Date == 0 {
		t.Date = now
	}

	_, err := tx.Exec(`
		INSERT INTO transactions (id, user_id, account_id, to_account_id, category_id, amount, type, date, description, goal_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.AccountID, nullStringPtr(t.ToAccountID), nullStringPtr(t.CategoryID),
		t.Amount, string(t.Type), t.Date, t.Description, nullStringPtr(t.GoalID),
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &t, nil
}

// GetByID returns a transaction by id, or domain.ErrNotFound
func (r *Repository) GetByID(id string) (*domain.Transaction, error) {
	row := r.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}
	return t, nil
}

// ListByUser returns all of a user's transactions, newest first
func (r *Repository) ListByUser(userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY date DESC, id ASC LIMIT ?`, userID, limit)
}

// ListByAccount returns all transactions whose source account is accountID.
// Storage order (insertion order by rowid) keeps balance summation stable
// across calls.
func (r *Repository) ListByAccount(accountID string) ([]domain.Transaction, error) {
	return r.list(`SELECT `+transactionColumns+` FROM transactions WHERE account_id = ?`, accountID)
}

// ListIncomingTransfers returns all transfers whose destination is accountID,
// in storage order.
func (r *Repository) ListIncomingTransfers(accountID string) ([]domain.Transaction, error) {
	return r.list(`SELECT `+transactionColumns+` FROM transactions WHERE to_account_id = ? AND type = ?`,
		accountID, string(domain.TransactionTransfer))
}

func (r *Repository) list(query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return result, nil
}

// Update rewrites every mutable field of a transaction, including account
// references
func (r *Repository) Update(t domain.Transaction) error {
	now := time.Now().Unix()

	result, err := r.db.Exec(`
		UPDATE transactions
		SET account_id = ?, to_account_id = ?, category_id = ?, amount = ?, type = ?, date = ?, description = ?, goal_id = ?, updated_at = ?
		WHERE id = ?
	`, t.AccountID, nullStringPtr(t.ToAccountID), nullStringPtr(t.CategoryID),
		t.Amount, string(t.Type), t.Date, t.Description, nullStringPtr(t.GoalID), now, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", t.ID, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("transaction_id", t.ID).Msg("Transaction updated")
	return nil
}

// Delete physically removes a transaction row
func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("transaction_id", id).Msg("Transaction deleted")
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanTransaction
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var toAccountID, categoryID, goalID sql.NullString
	var txType string

	err := s.Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&toAccountID,
		&categoryID,
		&t.Amount,
		&txType,
		&t.Date,
		&t.Description,
		&goalID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Type = domain.TransactionType(txType)
	if toAccountID.Valid {
		t.ToAccountID = &toAccountID.String
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.String
	}
	if goalID.Valid {
		t.GoalID = &goalID.String
	}

	return &t, nil
}

func nullStringPtr(val *string) sql.NullString {
	if val == nil || *val == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *val, Valid: true}
}
