// Package ledger holds the pure math of the wallet ledger: net balance
// computation, minimal-transfer settlement planning, and FIFO split
// reconciliation. Nothing in this package touches storage; all
// functions are side-effect-free over plain value structs and safe for
// any number of concurrent callers.
package ledger

import "github.com/shopspring/decimal"

// SplitRecord is the minimal view of a transaction split needed for
// balance computation: who fronted the money and who owes it.
type SplitRecord struct {
	PayerID  string
	DebtorID string
	Amount   decimal.Decimal
}

// MemberBalance is one member's net position within a wallet.
// Positive = owed money, negative = owes money.
type MemberBalance struct {
	UserID string
	Net    decimal.Decimal
}

// ComputeBalances derives each member's net balance from the wallet's
// splits. Every split credits the payer and debits the debtor by the
// same amount, so the returned nets always sum to exactly zero.
//
// memberIDs seeds the result so that members with no activity still
// appear with net zero. Users appearing only as payer or debtor are
// inserted on demand, after the seeded members.
func ComputeBalances(memberIDs []string, splits []SplitRecord) []MemberBalance {
	index := make(map[string]int, len(memberIDs))
	balances := make([]MemberBalance, 0, len(memberIDs))

	at := func(userID string) int {
		if i, ok := index[userID]; ok {
			return i
		}
		index[userID] = len(balances)
		balances = append(balances, MemberBalance{UserID: userID, Net: decimal.Zero})
		return len(balances) - 1
	}

	for _, id := range memberIDs {
		at(id)
	}

	for _, s := range splits {
		// Credit the payer: someone owes them.
		p := at(s.PayerID)
		balances[p].Net = balances[p].Net.Add(s.Amount)

		// Debit the debtor.
		d := at(s.DebtorID)
		balances[d].Net = balances[d].Net.Sub(s.Amount)
	}

	return balances
}
