package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvasilakis/fintrack/internal/domain"
)

func tx(txType domain.TransactionType, amount float64) domain.Transaction {
	return domain.Transaction{Type: txType, Amount: amount}
}

func TestComputeBalance_NoTransactions(t *testing.T) {
	assert.Equal(t, 100.0, ComputeBalance(100.0, nil, nil))
	assert.Equal(t, 0.0, ComputeBalance(0.0, nil, nil))
	assert.Equal(t, -50.0, ComputeBalance(-50.0, nil, nil))
}

func TestComputeBalance_SignedContributions(t *testing.T) {
	// 100 initial, -30 expense, +50 income, +20 incoming transfer
	outgoing := []domain.Transaction{
		tx(domain.TransactionExpense, 30),
		tx(domain.TransactionIncome, 50),
	}
	incoming := []domain.Transaction{
		tx(domain.TransactionTransfer, 20),
	}

	assert.Equal(t, 140.0, ComputeBalance(100, outgoing, incoming))
}

func TestComputeBalance_TypeDirections(t *testing.T) {
	tests := []struct {
		name     string
		txType   domain.TransactionType
		expected float64
	}{
		{"income adds", domain.TransactionIncome, 110},
		{"goal withdrawal adds", domain.TransactionGoalWithdrawal, 110},
		{"expense subtracts", domain.TransactionExpense, 90},
		{"outgoing transfer subtracts", domain.TransactionTransfer, 90},
		{"goal contribution subtracts", domain.TransactionGoalContribution, 90},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeBalance(100, []domain.Transaction{tx(tc.txType, 10)}, nil)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestComputeBalance_TransferSymmetry(t *testing.T) {
	// One transfer of 25 between two accounts: source loses what the
	// destination gains, so total money is conserved.
	transfer := tx(domain.TransactionTransfer, 25)

	source := ComputeBalance(100, []domain.Transaction{transfer}, nil)
	dest := ComputeBalance(40, nil, []domain.Transaction{transfer})

	assert.Equal(t, 75.0, source)
	assert.Equal(t, 65.0, dest)
	assert.Equal(t, 140.0, source+dest)
}

func TestComputeBalance_IncomingIgnoresNonTransfers(t *testing.T) {
	// Rows in the incoming set that are not transfers contribute nothing;
	// only transfer rows can reference a destination account.
	incoming := []domain.Transaction{
		tx(domain.TransactionIncome, 999),
		tx(domain.TransactionTransfer, 10),
	}

	assert.Equal(t, 10.0, ComputeBalance(0, nil, incoming))
}

func TestComputeBalance_Deterministic(t *testing.T) {
	outgoing := []domain.Transaction{
		tx(domain.TransactionIncome, 0.1),
		tx(domain.TransactionExpense, 0.2),
		tx(domain.TransactionIncome, 0.3),
	}

	first := ComputeBalance(1.0, outgoing, nil)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ComputeBalance(1.0, outgoing, nil))
	}
}
