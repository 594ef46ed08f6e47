package models

import "github.com/shopspring/decimal"

// TransactionType is the kind of money movement a transaction records.
type TransactionType string

const (
	TransactionExpense TransactionType = "EXPENSE"
	TransactionIncome  TransactionType = "INCOME"
	// TransactionSettlement is the ledger entry written when a
	// settlement is recorded. Settlement transactions carry no splits
	// and are invisible to balance computation.
	TransactionSettlement TransactionType = "SETTLEMENT"
)

// Transaction represents a single money movement within a wallet.
// Transactions are immutable once created, except for the split
// mutations performed during settlement reconciliation.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// WalletID is the wallet this transaction belongs to.
	WalletID string

	// Type is EXPENSE, INCOME, or SETTLEMENT.
	Type TransactionType

	// Amount is the full transaction amount, always >= 0.
	Amount decimal.Decimal

	// PaidByID is the user who fronted the money.
	PaidByID string

	// CreatedByID is the user who recorded the transaction.
	CreatedByID string

	// CategoryID is the optional category; empty means uncategorized.
	CategoryID string

	// Description is an optional free-text note.
	Description string

	// Date is the Unix timestamp of when the expense happened.
	// Reconciliation clears splits in ascending Date order.
	Date int64

	// CreatedAt is the Unix timestamp when the row was inserted.
	CreatedAt int64

	// Splits are the per-debtor sub-obligations, populated on reads.
	Splits []TransactionSplit
}

// TransactionSplit represents "OwedByID owes Amount to the
// transaction's payer".
//
// The Settled flag is monotonic: false -> true, never reversed. A
// split may be decomposed during partial reconciliation: the row's
// amount shrinks to the settled portion and a new unsettled sibling is
// created for the remainder, preserving the total.
type TransactionSplit struct {
	ID            string
	TransactionID string
	OwedByID      string
	Amount        decimal.Decimal
	Settled       bool
}
