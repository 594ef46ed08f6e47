package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPlanReconciliation(t *testing.T) {
	t.Run("partial payment decomposes oldest-first", func(t *testing.T) {
		splits := []OutstandingSplit{
			{SplitID: "s1", TransactionID: "t1", Amount: dec("30")},
			{SplitID: "s2", TransactionID: "t2", Amount: dec("50")},
		}

		actions := PlanReconciliation(splits, dec("40"))

		if len(actions) != 2 {
			t.Fatalf("got %d actions, want 2", len(actions))
		}

		// s1 is fully covered, settled unchanged.
		if actions[0].SplitID != "s1" || !actions[0].SettledAmount.Equal(dec("30")) {
			t.Errorf("first action = %+v, want s1 settled at 30", actions[0])
		}
		if actions[0].Remainder.IsPositive() {
			t.Errorf("first action remainder = %s, want none", actions[0].Remainder)
		}

		// s2 is decomposed: 10 settled, 40 left on a sibling.
		if actions[1].SplitID != "s2" || !actions[1].SettledAmount.Equal(dec("10")) {
			t.Errorf("second action = %+v, want s2 settled at 10", actions[1])
		}
		if !actions[1].Remainder.Equal(dec("40")) {
			t.Errorf("second action remainder = %s, want 40", actions[1].Remainder)
		}
		if actions[1].TransactionID != "t2" {
			t.Errorf("sibling transaction = %s, want t2", actions[1].TransactionID)
		}
	})

	t.Run("exact cover creates no sibling", func(t *testing.T) {
		splits := []OutstandingSplit{
			{SplitID: "s1", TransactionID: "t1", Amount: dec("20")},
			{SplitID: "s2", TransactionID: "t2", Amount: dec("35.50")},
		}

		actions := PlanReconciliation(splits, dec("55.50"))

		if len(actions) != 2 {
			t.Fatalf("got %d actions, want 2", len(actions))
		}
		for _, a := range actions {
			if a.Remainder.IsPositive() {
				t.Errorf("action %s has remainder %s, want none", a.SplitID, a.Remainder)
			}
		}
	})

	t.Run("overpayment stops at last split", func(t *testing.T) {
		splits := []OutstandingSplit{
			{SplitID: "s1", TransactionID: "t1", Amount: dec("10")},
		}

		actions := PlanReconciliation(splits, dec("100"))

		if len(actions) != 1 {
			t.Fatalf("got %d actions, want 1", len(actions))
		}
		if !actions[0].SettledAmount.Equal(dec("10")) {
			t.Errorf("settled = %s, want 10", actions[0].SettledAmount)
		}
	})

	t.Run("split amounts preserved", func(t *testing.T) {
		splits := []OutstandingSplit{
			{SplitID: "s1", TransactionID: "t1", Amount: dec("12.34")},
			{SplitID: "s2", TransactionID: "t2", Amount: dec("56.78")},
			{SplitID: "s3", TransactionID: "t3", Amount: dec("90.12")},
		}

		actions := PlanReconciliation(splits, dec("100"))

		// Settled portions plus remainders must equal the amounts of
		// every touched split.
		touched := decimal.Zero
		accounted := decimal.Zero
		for _, a := range actions {
			accounted = accounted.Add(a.SettledAmount).Add(a.Remainder)
			for _, s := range splits {
				if s.SplitID == a.SplitID {
					touched = touched.Add(s.Amount)
				}
			}
		}
		if !accounted.Equal(touched) {
			t.Errorf("accounted %s != touched %s", accounted, touched)
		}

		settled := decimal.Zero
		for _, a := range actions {
			settled = settled.Add(a.SettledAmount)
		}
		if settled.GreaterThan(dec("100")) {
			t.Errorf("settled %s exceeds payment 100", settled)
		}
	})

	t.Run("zero amount settles nothing", func(t *testing.T) {
		splits := []OutstandingSplit{
			{SplitID: "s1", TransactionID: "t1", Amount: dec("10")},
		}
		if actions := PlanReconciliation(splits, decimal.Zero); len(actions) != 0 {
			t.Errorf("got %d actions for zero payment, want 0", len(actions))
		}
	})

	t.Run("no outstanding splits", func(t *testing.T) {
		if actions := PlanReconciliation(nil, dec("50")); len(actions) != 0 {
			t.Errorf("got %d actions with no splits, want 0", len(actions))
		}
	})
}
