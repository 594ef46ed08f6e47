package service

import (
	"context"
	"testing"

	"github.com/nmoreno/walletly/internal/models"
)

func TestTransactionService(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wallets := NewWalletService(store)
	goals := NewGoalService(store, nil)
	txns := NewTransactionService(store, goals)

	alice := mustCreateUser(t, store, "alice@example.com", "Alice")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob")
	outsider := mustCreateUser(t, store, "eve@example.com", "Eve")

	wallet, err := wallets.CreateWallet(ctx, alice.ID, "Home", models.WalletGroup, "COP")
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	if _, err := wallets.AddMember(ctx, alice.ID, wallet.ID, "bob@example.com"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	t.Run("rejects SETTLEMENT type", func(t *testing.T) {
		_, err := txns.CreateTransaction(ctx, alice.ID, CreateTransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionSettlement,
			Amount:   dec("10"),
		})
		wantKind(t, err, KindBadRequest)
	})

	t.Run("rejects non-member actor", func(t *testing.T) {
		_, err := txns.CreateTransaction(ctx, outsider.ID, CreateTransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionExpense,
			Amount:   dec("10"),
		})
		wantKind(t, err, KindForbidden)
	})

	t.Run("rejects non-member split debtor", func(t *testing.T) {
		_, err := txns.CreateTransaction(ctx, alice.ID, CreateTransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionExpense,
			Amount:   dec("10"),
			Splits:   []SplitInput{{OwedByUserID: outsider.ID, Amount: dec("5")}},
		})
		wantKind(t, err, KindBadRequest)
	})

	t.Run("payer defaults to actor", func(t *testing.T) {
		txn, err := txns.CreateTransaction(ctx, bob.ID, CreateTransactionInput{
			WalletID: wallet.ID,
			Type:     models.TransactionExpense,
			Amount:   dec("12"),
		})
		if err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if txn.PaidByID != bob.ID {
			t.Errorf("payer = %s, want actor %s", txn.PaidByID, bob.ID)
		}
	})

	t.Run("tagged income feeds goal progress", func(t *testing.T) {
		goal, err := goals.CreateGoal(ctx, alice.ID, wallet.ID, "Emergency fund", dec("1000"), 0)
		if err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}

		_, err = txns.CreateTransaction(ctx, alice.ID, CreateTransactionInput{
			WalletID:           wallet.ID,
			Type:               models.TransactionIncome,
			Amount:             dec("250"),
			Description:        "Monthly savings",
			ContributeToGoalID: goal.ID,
		})
		if err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		got, err := store.GetGoal(ctx, goal.ID)
		if err != nil {
			t.Fatalf("GetGoal failed: %v", err)
		}
		if !got.CurrentAmount.Equal(dec("250")) {
			t.Errorf("goal current amount = %s, want 250", got.CurrentAmount)
		}

		entries, err := store.ListGoalProgress(ctx, goal.ID)
		if err != nil {
			t.Fatalf("ListGoalProgress failed: %v", err)
		}
		if len(entries) != 1 || entries[0].Note != "Monthly savings" {
			t.Errorf("progress log = %+v, want one entry with the transaction description", entries)
		}
	})

	t.Run("contribution to inactive goal is skipped", func(t *testing.T) {
		goal, err := goals.CreateGoal(ctx, alice.ID, wallet.ID, "Small goal", dec("10"), 0)
		if err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
		if _, err := goals.UpdateProgress(ctx, goal.ID, dec("10"), alice.ID, ""); err != nil {
			t.Fatalf("UpdateProgress failed: %v", err)
		}

		// The goal is now ACHIEVED; a tagged transaction still
		// commits but adds no progress.
		txn, err := txns.CreateTransaction(ctx, alice.ID, CreateTransactionInput{
			WalletID:           wallet.ID,
			Type:               models.TransactionIncome,
			Amount:             dec("5"),
			ContributeToGoalID: goal.ID,
		})
		if err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if txn.ID == "" {
			t.Error("transaction was not created")
		}

		got, err := store.GetGoal(ctx, goal.ID)
		if err != nil {
			t.Fatalf("GetGoal failed: %v", err)
		}
		if !got.CurrentAmount.Equal(dec("10")) {
			t.Errorf("goal current amount = %s, want unchanged 10", got.CurrentAmount)
		}
	})

	t.Run("ListTransactions requires membership", func(t *testing.T) {
		_, err := txns.ListTransactions(ctx, outsider.ID, wallet.ID)
		wantKind(t, err, KindForbidden)

		listed, err := txns.ListTransactions(ctx, alice.ID, wallet.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(listed) == 0 {
			t.Error("got no transactions, want at least one")
		}
	})
}
