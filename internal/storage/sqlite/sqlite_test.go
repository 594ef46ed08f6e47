package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/storage"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "walletly-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(email, name, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func mustCreateWallet(t *testing.T, store *SQLiteStore, name string, wtype models.WalletType, creatorID string, memberIDs ...string) *models.Wallet {
	t.Helper()
	ctx := context.Background()
	wallet := &models.Wallet{Name: name, Type: wtype, Currency: "COP", CreatedByID: creatorID}
	if err := store.CreateWallet(ctx, wallet); err != nil {
		t.Fatalf("CreateWallet(%s) failed: %v", name, err)
	}
	for _, id := range memberIDs {
		member := models.WalletMember{WalletID: wallet.ID, UserID: id, Role: models.RoleMember}
		if err := store.AddWalletMember(ctx, member); err != nil {
			t.Fatalf("AddWalletMember(%s) failed: %v", id, err)
		}
	}
	got, err := store.GetWallet(ctx, wallet.ID)
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	return got
}

func mustCreateExpense(t *testing.T, store *SQLiteStore, walletID, paidBy string, amount string, date int64, splits ...models.TransactionSplit) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		WalletID:    walletID,
		Type:        models.TransactionExpense,
		Amount:      dec(amount),
		PaidByID:    paidBy,
		CreatedByID: paidBy,
		Date:        date,
		Splits:      splits,
	}
	if err := store.CreateTransaction(context.Background(), txn); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	return txn
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob")

	t.Run("GetUserByEmail round trip", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != alice.ID || got.Name != "Alice" {
			t.Errorf("got user %+v, want alice", got)
		}
	})

	t.Run("GetUserByEmail missing returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("got err %v, want ErrNotFound", err)
		}
	})

	t.Run("group wallet gets owner member row", func(t *testing.T) {
		wallet := mustCreateWallet(t, store, "Apartment", models.WalletGroup, alice.ID, bob.ID)

		if len(wallet.Members) != 2 {
			t.Fatalf("got %d members, want 2", len(wallet.Members))
		}
		if !wallet.IsOwner(alice.ID) {
			t.Error("creator is not owner")
		}
		if !wallet.IsMember(bob.ID) {
			t.Error("bob is not a member")
		}
	})

	t.Run("ListWalletsByUser sees membership", func(t *testing.T) {
		wallets, err := store.ListWalletsByUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListWalletsByUser failed: %v", err)
		}
		found := false
		for _, w := range wallets {
			if w.Name == "Apartment" {
				found = true
			}
		}
		if !found {
			t.Error("bob does not see the Apartment wallet")
		}
	})

	t.Run("FindCategory falls back to global", func(t *testing.T) {
		wallet := mustCreateWallet(t, store, "Fallback", models.WalletGroup, alice.ID)

		cat, err := store.FindCategory(ctx, wallet.ID, models.SettlementCategoryName, models.CategoryExpense)
		if err != nil {
			t.Fatalf("FindCategory failed: %v", err)
		}
		if !cat.IsSystem || cat.Name != models.SettlementCategoryName {
			t.Errorf("got category %+v, want seeded settlement category", cat)
		}

		// A wallet-scoped category with the same name wins.
		scoped := &models.Category{
			Name:        models.SettlementCategoryName,
			Type:        models.CategoryExpense,
			WalletID:    wallet.ID,
			CreatedByID: alice.ID,
		}
		if err := store.CreateCategory(ctx, scoped); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
		cat, err = store.FindCategory(ctx, wallet.ID, models.SettlementCategoryName, models.CategoryExpense)
		if err != nil {
			t.Fatalf("FindCategory failed: %v", err)
		}
		if cat.ID != scoped.ID {
			t.Errorf("got category %s, want wallet-scoped %s", cat.ID, scoped.ID)
		}
	})

	t.Run("transactions and splits round trip", func(t *testing.T) {
		wallet := mustCreateWallet(t, store, "Trip", models.WalletGroup, alice.ID, bob.ID)

		mustCreateExpense(t, store, wallet.ID, alice.ID, "100", 1000,
			models.TransactionSplit{OwedByID: bob.ID, Amount: dec("50")},
		)

		txns, err := store.ListTransactionsByWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("ListTransactionsByWallet failed: %v", err)
		}
		if len(txns) != 1 {
			t.Fatalf("got %d transactions, want 1", len(txns))
		}
		if len(txns[0].Splits) != 1 {
			t.Fatalf("got %d splits, want 1", len(txns[0].Splits))
		}
		if !txns[0].Splits[0].Amount.Equal(dec("50")) {
			t.Errorf("split amount = %s, want 50", txns[0].Splits[0].Amount)
		}

		splits, err := store.ListSplitsByWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("ListSplitsByWallet failed: %v", err)
		}
		if len(splits) != 1 {
			t.Fatalf("got %d wallet splits, want 1", len(splits))
		}
		if splits[0].PayerID != alice.ID || splits[0].DebtorID != bob.ID {
			t.Errorf("wallet split = %+v, want alice->bob", splits[0])
		}
	})
}

func TestRecordSettlement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob")

	record := func(t *testing.T, walletID, from, to, amount string) *models.Settlement {
		t.Helper()
		settlement := &models.Settlement{
			WalletID:    walletID,
			FromUserID:  from,
			ToUserID:    to,
			Amount:      dec(amount),
			CreatedByID: from,
		}
		txn := &models.Transaction{
			WalletID:    walletID,
			Type:        models.TransactionSettlement,
			Amount:      dec(amount),
			PaidByID:    from,
			CreatedByID: from,
			CategoryID:  "cat-settlement",
		}
		if err := store.RecordSettlement(ctx, settlement, txn); err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}
		return settlement
	}

	unsettled := func(t *testing.T, walletID string) []storage.WalletSplit {
		t.Helper()
		splits, err := store.ListSplitsByWallet(ctx, walletID)
		if err != nil {
			t.Fatalf("ListSplitsByWallet failed: %v", err)
		}
		var open []storage.WalletSplit
		for _, s := range splits {
			if !s.Settled {
				open = append(open, s)
			}
		}
		return open
	}

	t.Run("partial payment settles oldest debt first", func(t *testing.T) {
		wallet := mustCreateWallet(t, store, "FIFO", models.WalletGroup, alice.ID, bob.ID)

		// Bob owes Alice 30 (older) then 50 (newer). He pays 40.
		mustCreateExpense(t, store, wallet.ID, alice.ID, "30", 1000,
			models.TransactionSplit{OwedByID: bob.ID, Amount: dec("30")},
		)
		mustCreateExpense(t, store, wallet.ID, alice.ID, "50", 2000,
			models.TransactionSplit{OwedByID: bob.ID, Amount: dec("50")},
		)

		record(t, wallet.ID, bob.ID, alice.ID, "40")

		open := unsettled(t, wallet.ID)
		if len(open) != 1 {
			t.Fatalf("got %d unsettled splits, want 1", len(open))
		}
		if !open[0].Amount.Equal(dec("40")) {
			t.Errorf("remaining debt = %s, want 40", open[0].Amount)
		}

		// Total split amounts are preserved through decomposition.
		splits, err := store.ListSplitsByWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("ListSplitsByWallet failed: %v", err)
		}
		total := decimal.Zero
		for _, s := range splits {
			total = total.Add(s.Amount)
		}
		if !total.Equal(dec("80")) {
			t.Errorf("split total = %s, want 80", total)
		}
	})

	t.Run("exact payment leaves no remainder split", func(t *testing.T) {
		wallet := mustCreateWallet(t, store, "Exact", models.WalletGroup, alice.ID, bob.ID)

		mustCreateExpense(t, store, wallet.ID, alice.ID, "25", 1000,
			models.TransactionSplit{OwedByID: bob.ID, Amount: dec("25")},
		)

		record(t, wallet.ID, bob.ID, alice.ID, "25")

		splits, err := store.ListSplitsByWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("ListSplitsByWallet failed: %v", err)
		}
		if len(splits) != 1 {
			t.Fatalf("got %d splits, want 1", len(splits))
		}
		if !splits[0].Settled {
			t.Error("split is still unsettled after exact payment")
		}
	})

	t.Run("only the pair's debts are touched", func(t *testing.T) {
		carol := mustCreateUser(t, store, "carol@example.com", "Carol")
		wallet := mustCreateWallet(t, store, "Pairs", models.WalletGroup, alice.ID, bob.ID, carol.ID)

		mustCreateExpense(t, store, wallet.ID, alice.ID, "10", 1000,
			models.TransactionSplit{OwedByID: bob.ID, Amount: dec("10")},
		)
		mustCreateExpense(t, store, wallet.ID, alice.ID, "20", 1000,
			models.TransactionSplit{OwedByID: carol.ID, Amount: dec("20")},
		)

		record(t, wallet.ID, bob.ID, alice.ID, "10")

		open := unsettled(t, wallet.ID)
		if len(open) != 1 {
			t.Fatalf("got %d unsettled splits, want 1", len(open))
		}
		if open[0].DebtorID != carol.ID {
			t.Errorf("unsettled debtor = %s, want carol", open[0].DebtorID)
		}
	})

	t.Run("settlement transaction is invisible to balances", func(t *testing.T) {
		wallet := mustCreateWallet(t, store, "Ledger", models.WalletGroup, alice.ID, bob.ID)

		mustCreateExpense(t, store, wallet.ID, alice.ID, "60", 1000,
			models.TransactionSplit{OwedByID: bob.ID, Amount: dec("60")},
		)
		record(t, wallet.ID, bob.ID, alice.ID, "60")

		// The SETTLEMENT transaction carries no splits, so the split
		// view is unchanged in size.
		splits, err := store.ListSplitsByWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("ListSplitsByWallet failed: %v", err)
		}
		if len(splits) != 1 {
			t.Errorf("got %d splits, want 1", len(splits))
		}

		txns, err := store.ListTransactionsByWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("ListTransactionsByWallet failed: %v", err)
		}
		if len(txns) != 2 {
			t.Fatalf("got %d transactions, want expense + settlement", len(txns))
		}
	})

	t.Run("ListSettlementsByWallet newest first", func(t *testing.T) {
		wallet := mustCreateWallet(t, store, "Audit", models.WalletGroup, alice.ID, bob.ID)

		first := record(t, wallet.ID, bob.ID, alice.ID, "5")
		second := &models.Settlement{
			WalletID:    wallet.ID,
			FromUserID:  bob.ID,
			ToUserID:    alice.ID,
			Amount:      dec("7"),
			CreatedByID: bob.ID,
			CreatedAt:   first.CreatedAt + 10,
		}
		txn := &models.Transaction{
			WalletID: wallet.ID, Type: models.TransactionSettlement,
			Amount: dec("7"), PaidByID: bob.ID, CreatedByID: bob.ID,
		}
		if err := store.RecordSettlement(ctx, second, txn); err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}

		settlements, err := store.ListSettlementsByWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByWallet failed: %v", err)
		}
		if len(settlements) != 2 {
			t.Fatalf("got %d settlements, want 2", len(settlements))
		}
		if settlements[0].ID != second.ID {
			t.Errorf("first listed = %s, want newest %s", settlements[0].ID, second.ID)
		}
	})
}

func TestGoals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice")
	wallet := mustCreateWallet(t, store, "House", models.WalletGroup, alice.ID)

	newGoal := func(t *testing.T, target string) *models.Goal {
		t.Helper()
		goal := &models.Goal{
			Scope:         models.GoalScopeWallet,
			WalletID:      wallet.ID,
			Name:          "Vacation",
			TargetAmount:  dec(target),
			CurrentAmount: decimal.Zero,
			Status:        models.GoalActive,
			CreatedByID:   alice.ID,
		}
		if err := store.CreateGoal(ctx, goal); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
		return goal
	}

	apply := func(t *testing.T, goalID, amount string) *models.Goal {
		t.Helper()
		got, err := store.ApplyGoalProgress(ctx, &models.GoalProgress{
			GoalID:      goalID,
			Amount:      dec(amount),
			CreatedByID: alice.ID,
		})
		if err != nil {
			t.Fatalf("ApplyGoalProgress failed: %v", err)
		}
		return got
	}

	t.Run("progress accumulates additively", func(t *testing.T) {
		goal := newGoal(t, "100")

		apply(t, goal.ID, "30")
		got := apply(t, goal.ID, "-10")

		if !got.CurrentAmount.Equal(dec("20")) {
			t.Errorf("current amount = %s, want 20", got.CurrentAmount)
		}
		if got.Status != models.GoalActive {
			t.Errorf("status = %s, want ACTIVE", got.Status)
		}

		entries, err := store.ListGoalProgress(ctx, goal.ID)
		if err != nil {
			t.Fatalf("ListGoalProgress failed: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("got %d progress entries, want 2", len(entries))
		}
	})

	t.Run("reaching target flips to ACHIEVED", func(t *testing.T) {
		goal := newGoal(t, "50")

		got := apply(t, goal.ID, "50")
		if got.Status != models.GoalAchieved {
			t.Errorf("status = %s, want ACHIEVED", got.Status)
		}

		// A later withdrawal does not revert the status.
		got = apply(t, goal.ID, "-20")
		if got.Status != models.GoalAchieved {
			t.Errorf("status after withdrawal = %s, want ACHIEVED", got.Status)
		}
	})

	t.Run("progress on missing goal returns ErrNotFound", func(t *testing.T) {
		_, err := store.ApplyGoalProgress(ctx, &models.GoalProgress{
			GoalID:      "missing",
			Amount:      dec("1"),
			CreatedByID: alice.ID,
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("got err %v, want ErrNotFound", err)
		}
	})
}
