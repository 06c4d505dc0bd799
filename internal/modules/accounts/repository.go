// Package accounts provides account persistence and derived balance
// computation.
package accounts

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
)

// Repository handles account database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new account repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "accounts").Logger(),
	}
}

const accountColumns = `id, user_id, name, type, initial_balance, currency, is_active, created_at, updated_at`

// Create inserts a new account. InitialBalance is written here and never
// touched again by any statement in this package.
func (r *Repository) Create(account domain.Account) (*domain.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO accounts (id, user_id, name, type, initial_balance, currency, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, account.ID, account.UserID, account.Name, string(account.Type),
		account.InitialBalance, string(account.Currency), boolToInt(account.IsActive),
		account.CreatedAt, account.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	r.log.Info().Str("account_id", account.ID).Str("type", string(account.Type)).Msg("Account created")
	return &account, nil
}

// GetByID returns an account by id, or domain.ErrNotFound.
// The returned Balance field is zero; callers that need the derived balance
// go through Service.GetAccountWithBalance.
func (r *Repository) GetByID(id string) (*domain.Account, error) {
	row := r.db.QueryRow(`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return account, nil
}

// ListByUser returns all accounts owned by a user, oldest first
func (r *Repository) ListByUser(userID string) ([]domain.Account, error) {
	rows, err := r.db.Query(`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// Update rewrites the mutable fields of an account.
// initial_balance is absent from the statement: it is immutable after
// creation and the derived balance depends on it staying fixed.
func (r *Repository) Update(account domain.Account) error {
	now := time.Now().Unix()

	result, err := r.db.Exec(`
		UPDATE accounts SET name = ?, type = ?, currency = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, account.Name, string(account.Type), string(account.Currency),
		boolToInt(account.IsActive), now, account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.ID, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("account_id", account.ID).Msg("Account updated")
	return nil
}

// Delete physically removes an account row.
// The reference-count guard lives in Service.Delete; this method assumes
// the guard already passed.
func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.log.Info().Str("account_id", id).Msg("Account deleted")
	return nil
}

// CountReferences returns how many transactions reference the account as
// source, and how many transfers reference it as destination.
func (r *Repository) CountReferences(id string) (asSource int, asTransferDest int, err error) {
	err = r.db.QueryRow("SELECT COUNT(*) FROM transactions WHERE account_id = ?", id).Scan(&asSource)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count source references: %w", err)
	}

	err = r.db.QueryRow("SELECT COUNT(*) FROM transactions WHERE to_account_id = ? AND type = ?",
		id, string(domain.TransactionTransfer)).Scan(&asTransferDest)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count transfer destination references: %w", err)
	}

	return asSource, asTransferDest, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanAccount
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(s scanner) (*domain.Account, error) {
	var account domain.Account
	var accountType, currency string
	var isActive int

	err := s.Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&accountType,
		&account.InitialBalance,
		&currency,
		&isActive,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Type = domain.AccountType(accountType)
	account.Currency = domain.Currency(currency)
	account.IsActive = isActive != 0

	return &account, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
