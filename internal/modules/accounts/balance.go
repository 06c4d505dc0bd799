package accounts

import "github.com/nvasilakis/fintrack/internal/domain"

// ComputeBalance derives an account's current balance from its immutable
// initial balance plus the signed contributions of every transaction that
// references it.
//
// outgoing holds transactions whose source account is this account:
// income and goal withdrawals add money, expenses, outgoing transfers and
// goal contributions remove it. incomingTransfers holds transactions whose
// destination (to_account_id) is this account; a transfer's amount is stored
// once but affects both accounts in opposite directions, which is why it
// needs the second pass.
//
// The function is pure and iterates in the order given (storage order), so
// repeated calls over an unchanged transaction set return bit-identical
// results.
func ComputeBalance(initialBalance float64, outgoing []domain.Transaction, incomingTransfers []domain.Transaction) float64 {
	balance := initialBalance

	for _, t := range outgoing {
		switch t.Type {
		case domain.TransactionIncome, domain.TransactionGoalWithdrawal:
			balance += t.Amount
		case domain.TransactionExpense, domain.TransactionTransfer, domain.TransactionGoalContribution:
			balance -= t.Amount
		}
	}

	for _, t := range incomingTransfers {
		if t.Type == domain.TransactionTransfer {
			balance += t.Amount
		}
	}

	return balance
}
