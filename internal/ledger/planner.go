package ledger

import "github.com/shopspring/decimal"

// epsilon absorbs sub-cent rounding noise when deciding that a side
// of the merge is exhausted.
var epsilon = decimal.New(1, -6) // 1e-6

// ProposedSettlement is one suggested transfer that, applied together
// with its siblings, would zero all balances. It is a suggestion only.
type ProposedSettlement struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// SuggestSettlements produces a minimal-cardinality set of transfers
// clearing the given balances.
//
// Greedy two-pointer merge: members are partitioned into debtors
// (negative net, tracked as positive magnitude) and creditors
// (positive net), processed in their given order. Each step transfers
// the smaller of the current debtor's remaining debt and the current
// creditor's remaining credit, rounded to 2 decimals, then advances
// whichever side reached zero. At most min(|debtors|, |creditors|)
// transfers are produced, never more than n-1 for n members with
// nonzero balance.
func SuggestSettlements(balances []MemberBalance) []ProposedSettlement {
	type side struct {
		userID    string
		remaining decimal.Decimal
	}

	var debtors, creditors []side
	for _, b := range balances {
		switch {
		case b.Net.IsNegative():
			debtors = append(debtors, side{b.UserID, b.Net.Neg()})
		case b.Net.IsPositive():
			creditors = append(creditors, side{b.UserID, b.Net})
		}
	}

	var settlements []ProposedSettlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		pay := decimal.Min(debtors[i].remaining, creditors[j].remaining)
		settlements = append(settlements, ProposedSettlement{
			FromUserID: debtors[i].userID,
			ToUserID:   creditors[j].userID,
			Amount:     pay.Round(2),
		})
		debtors[i].remaining = debtors[i].remaining.Sub(pay)
		creditors[j].remaining = creditors[j].remaining.Sub(pay)
		if debtors[i].remaining.LessThanOrEqual(epsilon) {
			i++
		}
		if creditors[j].remaining.LessThanOrEqual(epsilon) {
			j++
		}
	}

	return settlements
}
