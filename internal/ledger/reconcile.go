package ledger

import "github.com/shopspring/decimal"

// OutstandingSplit is an unsettled split owed by one debtor to one
// payer, as fetched for reconciliation in ascending transaction-date
// order.
type OutstandingSplit struct {
	SplitID       string
	TransactionID string
	Amount        decimal.Decimal
}

// SplitAction tells the storage layer how one split row changes during
// reconciliation.
type SplitAction struct {
	// SplitID is the existing row being settled.
	SplitID string

	// SettledAmount is the row's amount after the action; the row is
	// marked settled. Equal to the original amount unless the split
	// was decomposed.
	SettledAmount decimal.Decimal

	// Remainder, when positive, is the amount of the new unsettled
	// sibling row created on the same transaction for the uncovered
	// portion.
	Remainder decimal.Decimal

	// TransactionID is the transaction the sibling row belongs to.
	TransactionID string
}

// PlanReconciliation walks outstanding splits oldest-first, consuming
// the settled amount. Splits fully covered are settled unchanged; the
// first split only partially covered is decomposed into a settled
// portion and an unsettled remainder. An exactly covered split is
// settled unchanged with no sibling.
//
// The total settled across all actions never exceeds amount, and the
// sum of split amounts (settled portions plus remainders) is
// preserved.
func PlanReconciliation(splits []OutstandingSplit, amount decimal.Decimal) []SplitAction {
	var actions []SplitAction
	remaining := amount
	for _, s := range splits {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if s.Amount.LessThanOrEqual(remaining) {
			actions = append(actions, SplitAction{
				SplitID:       s.SplitID,
				SettledAmount: s.Amount,
				TransactionID: s.TransactionID,
			})
			remaining = remaining.Sub(s.Amount)
			continue
		}
		// Partial cover: shrink the row to the settled portion and
		// leave the rest on a fresh unsettled sibling.
		actions = append(actions, SplitAction{
			SplitID:       s.SplitID,
			SettledAmount: remaining,
			Remainder:     s.Amount.Sub(remaining),
			TransactionID: s.TransactionID,
		})
		remaining = decimal.Zero
	}
	return actions
}
