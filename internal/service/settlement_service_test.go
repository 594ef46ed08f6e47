package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/models"
)

func TestSettlementService(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wallets := NewWalletService(store)
	txns := NewTransactionService(store, NewGoalService(store, nil))
	settlements := NewSettlementService(store, nil)

	alice := mustCreateUser(t, store, "alice@example.com", "Alice")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob")
	mallory := mustCreateUser(t, store, "mallory@example.com", "Mallory")

	wallet, err := wallets.CreateWallet(ctx, alice.ID, "Shared", models.WalletGroup, "COP")
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	if _, err := wallets.AddMember(ctx, alice.ID, wallet.ID, "bob@example.com"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	t.Run("rejects non-member actor", func(t *testing.T) {
		_, err := settlements.RecordSettlement(ctx, mallory.ID, wallet.ID, bob.ID, alice.ID, dec("10"))
		wantKind(t, err, KindForbidden)
	})

	t.Run("rejects non-member participant", func(t *testing.T) {
		_, err := settlements.RecordSettlement(ctx, alice.ID, wallet.ID, mallory.ID, alice.ID, dec("10"))
		wantKind(t, err, KindBadRequest)
	})

	t.Run("rejects self settlement", func(t *testing.T) {
		_, err := settlements.RecordSettlement(ctx, alice.ID, wallet.ID, bob.ID, bob.ID, dec("10"))
		wantKind(t, err, KindBadRequest)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := settlements.RecordSettlement(ctx, alice.ID, wallet.ID, bob.ID, alice.ID, decimal.Zero)
		wantKind(t, err, KindBadRequest)

		_, err = settlements.RecordSettlement(ctx, alice.ID, wallet.ID, bob.ID, alice.ID, dec("-5"))
		wantKind(t, err, KindBadRequest)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		_, err := settlements.RecordSettlement(ctx, alice.ID, "missing", bob.ID, alice.ID, dec("10"))
		wantKind(t, err, KindNotFound)
	})

	t.Run("settlement does not change balances", func(t *testing.T) {
		_, err := txns.CreateTransaction(ctx, alice.ID, CreateTransactionInput{
			WalletID:     wallet.ID,
			Type:         models.TransactionExpense,
			Amount:       dec("60"),
			PaidByUserID: alice.ID,
			Date:         1000,
			Splits:       []SplitInput{{OwedByUserID: bob.ID, Amount: dec("60")}},
		})
		if err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		before, err := wallets.ComputeBalances(ctx, alice.ID, wallet.ID)
		if err != nil {
			t.Fatalf("ComputeBalances failed: %v", err)
		}

		settlement, err := settlements.RecordSettlement(ctx, bob.ID, wallet.ID, bob.ID, alice.ID, dec("60"))
		if err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}
		if settlement.ID == "" || settlement.CreatedAt == 0 {
			t.Errorf("settlement not fully populated: %+v", settlement)
		}

		// Balance computation reads all splits regardless of the
		// settled flag, so recording a payment leaves nets untouched.
		after, err := wallets.ComputeBalances(ctx, alice.ID, wallet.ID)
		if err != nil {
			t.Fatalf("ComputeBalances failed: %v", err)
		}
		if len(before) != len(after) {
			t.Fatalf("member count changed: %d -> %d", len(before), len(after))
		}
		for i := range before {
			if !before[i].Net.Equal(after[i].Net) {
				t.Errorf("net[%s] changed %s -> %s", before[i].UserID, before[i].Net, after[i].Net)
			}
		}
	})

	t.Run("audit trail is listable by members only", func(t *testing.T) {
		listed, err := settlements.ListSettlements(ctx, bob.ID, wallet.ID)
		if err != nil {
			t.Fatalf("ListSettlements failed: %v", err)
		}
		if len(listed) != 1 {
			t.Errorf("got %d settlements, want 1", len(listed))
		}

		_, err = settlements.ListSettlements(ctx, mallory.ID, wallet.ID)
		wantKind(t, err, KindForbidden)
	})
}
