package accounts

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/events"
)

// TransactionSource defines the transaction reads the balance engine needs.
// Defined here to avoid an import cycle with the transactions package.
type TransactionSource interface {
	// ListByAccount returns all transactions whose source account is accountID,
	// in storage order.
	ListByAccount(accountID string) ([]domain.Transaction, error)
	// ListIncomingTransfers returns all transfers whose destination account is
	// accountID, in storage order.
	ListIncomingTransfers(accountID string) ([]domain.Transaction, error)
}

// Service provides account operations with derived balances and the
// deletion guard.
type Service struct {
	repo         *Repository
	transactions TransactionSource
	bus          *events.Bus
	log          zerolog.Logger
}

// NewService creates a new account service
func NewService(repo *Repository, transactions TransactionSource, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		transactions: transactions,
		bus:          bus,
		log:          log.With().Str("service", "accounts").Logger(),
	}
}

// Create validates and stores a new account
func (s *Service) Create(account domain.Account) (*domain.Account, error) {
	if account.UserID == "" {
		return nil, domain.NewValidationError("user_id", "missing")
	}
	if account.Name == "" {
		return nil, domain.NewValidationError("name", "missing")
	}
	if !domain.ValidAccountType(account.Type) {
		return nil, domain.NewValidationError("type", "unknown account type: "+string(account.Type))
	}
	if account.Currency == "" {
		account.Currency = domain.CurrencyUSD
	}
	account.IsActive = true

	return s.repo.Create(account)
}

// GetAccountWithBalance returns the account with its derived balance.
//
// The balance is recomputed on every call from two independent read queries
// (outgoing transactions, incoming transfers) with no transactional
// wrapping: a concurrent write landing between the two reads only makes the
// result a slightly stale snapshot, which is acceptable on a single-user
// device. The balance is never written back to storage.
func (s *Service) GetAccountWithBalance(id string) (*domain.Account, error) {
	account, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	outgoing, err := s.transactions.ListByAccount(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for account %s: %w", id, err)
	}

	incoming, err := s.transactions.ListIncomingTransfers(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load incoming transfers for account %s: %w", id, err)
	}

	account.Balance = ComputeBalance(account.InitialBalance, outgoing, incoming)
	return account, nil
}

// ListWithBalances returns all of a user's accounts with derived balances
func (s *Service) ListWithBalances(userID string) ([]domain.Account, error) {
	accounts, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	for i := range accounts {
		outgoing, err := s.transactions.ListByAccount(accounts[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions for account %s: %w", accounts[i].ID, err)
		}
		incoming, err := s.transactions.ListIncomingTransfers(accounts[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load incoming transfers for account %s: %w", accounts[i].ID, err)
		}
		accounts[i].Balance = ComputeBalance(accounts[i].InitialBalance, outgoing, incoming)
	}

	return accounts, nil
}

// Update modifies an account's mutable fields (never initial_balance)
func (s *Service) Update(account domain.Account) error {
	if !domain.ValidAccountType(account.Type) {
		return domain.NewValidationError("type", "unknown account type: "+string(account.Type))
	}
	return s.repo.Update(account)
}

// Delete removes an account, but only when no transaction references it.
// An account referenced as a transaction source or as a transfer destination
// must be archived (is_active = false) instead of deleted; the error reason
// tells the caller which reference kind blocked the deletion.
func (s *Service) Delete(id string) error {
	// Ensure the account exists before checking references
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	asSource, asTransferDest, err := s.repo.CountReferences(id)
	if err != nil {
		return err
	}

	if asSource > 0 {
		return domain.NewConstraintViolation(
			"account has existing transactions; archive instead of delete")
	}
	if asTransferDest > 0 {
		return domain.NewConstraintViolation(
			"account has incoming transfers; archive instead of delete")
	}

	return s.repo.Delete(id)
}

// Archive deactivates an account without touching its rows or history
func (s *Service) Archive(id string) error {
	account, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	account.IsActive = false
	if err := s.repo.Update(*account); err != nil {
		return err
	}

	s.bus.Publish(events.AccountArchived, &events.AccountArchivedData{AccountID: id})
	return nil
}
