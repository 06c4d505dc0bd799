package transactions

import (
	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/events"
)

// CreateInput carries caller-supplied fields for a new transaction.
// Amount is untyped because the boundary accepts both a numeric value and a
// numeric string; ParseAmount coerces it exactly once, here.
type CreateInput struct {
	UserID      string
	AccountID   string
	ToAccountID *string
	CategoryID  *string
	Amount      interface{}
	Type        domain.TransactionType
	Date        int64
	Description string
	GoalID      *string
}

// UpdateInput carries caller-supplied fields for updating a transaction
type UpdateInput struct {
	ID          string
	AccountID   string
	ToAccountID *string
	CategoryID  *string
	Amount      interface{}
	Type        domain.TransactionType
	Date        int64
	Description string
	GoalID      *string
}

// Service validates and stores transactions
type Service struct {
	repo *Repository
	bus  *events.Bus
	log  zerolog.Logger
}

// NewService creates a new transaction service
func NewService(repo *Repository, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log.With().Str("service", "transactions").Logger(),
	}
}

// Create validates input and stores a new transaction
func (s *Service) Create(input CreateInput) (*domain.Transaction, error) {
	amount, err := domain.ParseAmount("amount", input.Amount)
	if err != nil {
		return nil, err
	}

	if err := validateShape(input.UserID, input.AccountID, input.Type, input.ToAccountID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(domain.Transaction{
		UserID:      input.UserID,
		AccountID:   input.AccountID,
		ToAccountID: input.ToAccountID,
		CategoryID:  input.CategoryID,
		Amount:      amount,
		Type:        input.Type,
		Date:        input.Date,
		Description: input.Description,
		GoalID:      input.GoalID,
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.TransactionRecorded, &events.TransactionRecordedData{
		TransactionID: created.ID,
		AccountID:     created.AccountID,
		Type:          string(created.Type),
		Amount:        created.Amount,
	})

	return created, nil
}

// Get returns a transaction by id
func (s *Service) Get(id string) (*domain.Transaction, error) {
	return s.repo.GetByID(id)
}

// ListByUser returns a user's transactions, newest first
func (s *Service) ListByUser(userID string, limit int) ([]domain.Transaction, error) {
	return s.repo.ListByUser(userID, limit)
}

// Update validates input and rewrites an existing transaction.
// Any field may change, including account references.
func (s *Service) Update(input UpdateInput) error {
	amount, err := domain.ParseAmount("amount", input.Amount)
	if err != nil {
		return err
	}

	existing, err := s.repo.GetByID(input.ID)
	if err != nil {
		return err
	}

	if err := validateShape(existing.UserID, input.AccountID, input.Type, input.ToAccountID); err != nil {
		return err
	}

	return s.repo.Update(domain.Transaction{
		ID:          input.ID,
		UserID:      existing.UserID,
		AccountID:   input.AccountID,
		ToAccountID: input.ToAccountID,
		CategoryID:  input.CategoryID,
		Amount:      amount,
		Type:        input.Type,
		Date:        input.Date,
		Description: input.Description,
		GoalID:      input.GoalID,
	})
}

// Delete removes a transaction
func (s *Service) Delete(id string) error {
	return s.repo.Delete(id)
}

func validateShape(userID, accountID string, txType domain.TransactionType, toAccountID *string) error {
	if userID == "" {
		return domain.NewValidationError("user_id", "missing")
	}
	if accountID == "" {
		return domain.NewValidationError("account_id", "missing")
	}
	if !domain.ValidTransactionType(txType) {
		return domain.NewValidationError("type", "unknown transaction type: "+string(txType))
	}
	if txType == domain.TransactionTransfer {
		if toAccountID == nil || *toAccountID == "" {
			return domain.NewValidationError("to_account_id", "required for transfers")
		}
		if *toAccountID == accountID {
			return domain.NewValidationError("to_account_id", "transfer source and destination must differ")
		}
	} else if toAccountID != nil && *toAccountID != "" {
		return domain.NewValidationError("to_account_id", "only meaningful for transfers")
	}
	return nil
}
