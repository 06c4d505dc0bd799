// Package analytics computes read-only spending statistics over the
// transaction history.
package analytics

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/nvasilakis/fintrack/internal/domain"
)

// CategoryTotal is the total spent against one category
type CategoryTotal struct {
	CategoryID string  `json:"category_id"`
	Total      float64 `json:"total"`
}

// MonthTotal is the total spent in one calendar month
type MonthTotal struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// Summary aggregates a user's financial activity
type Summary struct {
	TotalIncome    float64         `json:"total_income"`
	TotalExpenses  float64         `json:"total_expenses"`
	ByCategory     []CategoryTotal `json:"by_category"`
	ByMonth        []MonthTotal    `json:"by_month"`
	MonthlyMean    float64         `json:"monthly_mean"`
	MonthlyStdDev  float64         `json:"monthly_std_dev"`
	MonthsObserved int             `json:"months_observed"`
}

// Service computes spending summaries
type Service struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewService creates a new analytics service
func NewService(db *sql.DB, log zerolog.Logger) *Service {
	return &Service{
		db:  db,
		log: log.With().Str("service", "analytics").Logger(),
	}
}

// SpendingSummary returns income/expense totals, per-category expense
// totals, and the mean and standard deviation of monthly spending.
func (s *Service) SpendingSummary(userID string) (*Summary, error) {
	summary := &Summary{
		ByCategory: []CategoryTotal{},
		ByMonth:    []MonthTotal{},
	}

	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = ? AND type = ?
	`, userID, string(domain.TransactionIncome)).Scan(&summary.TotalIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}

	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = ? AND type = ?
	`, userID, string(domain.TransactionExpense)).Scan(&summary.TotalExpenses)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT COALESCE(category_id, 'uncategorized'), SUM(amount)
		FROM transactions
		WHERE user_id = ? AND type = ?
		GROUP BY category_id
		ORDER BY SUM(amount) DESC
	`, userID, string(domain.TransactionExpense))
	if err != nil {
		return nil, fmt.Errorf("failed to group expenses by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		summary.ByCategory = append(summary.ByCategory, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}

	monthRows, err := s.db.Query(`
		SELECT strftime('%Y-%m', date, 'unixepoch') AS month, SUM(amount)
		FROM transactions
		WHERE user_id = ? AND type = ?
		GROUP BY month
		ORDER BY month ASC
	`, userID, string(domain.TransactionExpense))
	if err != nil {
		return nil, fmt.Errorf("failed to group expenses by month: %w", err)
	}
	defer monthRows.Close()

	var monthly []float64
	for monthRows.Next() {
		var mt MonthTotal
		if err := monthRows.Scan(&mt.Month, &mt.Total); err != nil {
			return nil, fmt.Errorf("failed to scan month total: %w", err)
		}
		summary.ByMonth = append(summary.ByMonth, mt)
		monthly = append(monthly, mt.Total)
	}
	if err := monthRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating month totals: %w", err)
	}

	summary.MonthsObserved = len(monthly)
	if len(monthly) > 0 {
		summary.MonthlyMean = stat.Mean(monthly, nil)
	}
	if len(monthly) > 1 {
		summary.MonthlyStdDev = stat.StdDev(monthly, nil)
	}

	return summary, nil
}
