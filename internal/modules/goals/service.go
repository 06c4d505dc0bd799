package goals

import (
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/database"
	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/events"
	"github.com/nvasilakis/fintrack/internal/modules/transactions"
)

// Service provides goal operations. Contributions and withdrawals record a
// transaction against the funding account and mutate the goal's
// current_amount in the same database transaction, so the ledger and the
// goal can never disagree.
type Service struct {
	db           *sql.DB
	repo         *Repository
	transactions *transactions.Repository
	bus          *events.Bus
	log          zerolog.Logger
}

// NewService creates a new goal service
func NewService(db *sql.DB, repo *Repository, txRepo *transactions.Repository, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		db:           db,
		repo:         repo,
		transactions: txRepo,
		bus:          bus,
		log:          log.With().Str("service", "goals").Logger(),
	}
}

// Create validates and stores a new goal
func (s *Service) Create(g domain.Goal) (*domain.Goal, error) {
	if g.UserID == "" {
		return nil, domain.NewValidationError("user_id", "missing")
	}
	if g.Name == "" {
		return nil, domain.NewValidationError("name", "missing")
	}
	if g.TargetAmount <= 0 {
		return nil, domain.NewValidationError("target_amount", "must be positive")
	}
	return s.repo.Create(g)
}

// Get returns a goal by id
func (s *Service) Get(id string) (*domain.Goal, error) {
	return s.repo.GetByID(id)
}

// ListByUser returns all goals owned by a user
func (s *Service) ListByUser(userID string) ([]domain.Goal, error) {
	return s.repo.ListByUser(userID)
}

// Update rewrites a goal's mutable fields
func (s *Service) Update(g domain.Goal) error {
	if g.TargetAmount <= 0 {
		return domain.NewValidationError("target_amount", "must be positive")
	}
	return s.repo.Update(g)
}

// Delete removes a goal
func (s *Service) Delete(id string) error {
	return s.repo.Delete(id)
}

// Contribute moves money from an account into a goal: it records a
// goal_contribution transaction on the funding account and increments the
// goal's current_amount atomically. Reaching the target flips the goal to
// completed.
func (s *Service) Contribute(goalID, accountID string, rawAmount interface{}) (*domain.Goal, error) {
	amount, err := domain.ParseAmount("amount", rawAmount)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, domain.NewValidationError("amount", "must be positive")
	}

	var completed bool
	var result *domain.Goal
	err = database.WithTransaction(s.db, func(tx *sql.Tx) error {
		goal, err := s.repo.GetByIDTx(tx, goalID)
		if err != nil {
			return err
		}
		if goal.Status != domain.GoalStatusActive {
			return domain.NewConstraintViolation("goal is not active")
		}

		if _, err := s.transactions.CreateTx(tx, domain.Transaction{
			UserID:    goal.UserID,
			AccountID: accountID,
			Amount:    amount,
			Type:      domain.TransactionGoalContribution,
			GoalID:    &goal.ID,
		}); err != nil {
			return err
		}

		current, err := s.repo.AdjustCurrentAmountTx(tx, goalID, amount)
		if err != nil {
			return err
		}

		goal.CurrentAmount = current
		if current >= goal.TargetAmount {
			if err := s.repo.SetStatusTx(tx, goalID, domain.GoalStatusCompleted); err != nil {
				return err
			}
			goal.Status = domain.GoalStatusCompleted
			completed = true
		}

		result = goal
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.bus.Publish(events.GoalCompleted, &events.GoalCompletedData{
			GoalID:        result.ID,
			TargetAmount:  result.TargetAmount,
			CurrentAmount: result.CurrentAmount,
		})
	}

	s.log.Info().
		Str("goal_id", goalID).
		Float64("amount", amount).
		Float64("current", result.CurrentAmount).
		Msg("Goal contribution recorded")

	return result, nil
}

// Withdraw moves money from a goal back into an account: it records a
// goal_withdrawal transaction and decrements current_amount atomically.
// Withdrawing more than the goal currently holds fails.
func (s *Service) Withdraw(goalID, accountID string, rawAmount interface{}) (*domain.Goal, error) {
	amount, err := domain.ParseAmount("amount", rawAmount)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, domain.NewValidationError("amount", "must be positive")
	}

	var result *domain.Goal
	err = database.WithTransaction(s.db, func(tx *sql.Tx) error {
		goal, err := s.repo.GetByIDTx(tx, goalID)
		if err != nil {
			return err
		}
		if amount > goal.CurrentAmount {
			return domain.NewConstraintViolation("withdrawal exceeds goal balance")
		}

		if _, err := s.transactions.CreateTx(tx, domain.Transaction{
			UserID:    goal.UserID,
			AccountID: accountID,
			Amount:    amount,
			Type:      domain.TransactionGoalWithdrawal,
			GoalID:    &goal.ID,
		}); err != nil {
			return err
		}

		current, err := s.repo.AdjustCurrentAmountTx(tx, goalID, -amount)
		if err != nil {
			return err
		}

		goal.CurrentAmount = current
		result = goal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("goal_id", goalID).
		Float64("amount", amount).
		Float64("current", result.CurrentAmount).
		Msg("Goal withdrawal recorded")

	return result, nil
}
