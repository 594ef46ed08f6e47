package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nmoreno/walletly/internal/ledger"
	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/storage"
)

// WalletService covers wallet CRUD plus the read-only ledger
// operations: balance computation and settlement suggestions. Both
// reads are side-effect-free and safe under any concurrency.
type WalletService struct {
	store storage.Store
}

// NewWalletService creates a WalletService with the given storage
// backend.
func NewWalletService(store storage.Store) *WalletService {
	return &WalletService{store: store}
}

// CreateWallet creates a PERSONAL or GROUP wallet owned by the actor.
func (s *WalletService) CreateWallet(ctx context.Context, actorID, name string, wtype models.WalletType, currency string) (*models.Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequest("wallet name is required")
	}
	if wtype != models.WalletPersonal && wtype != models.WalletGroup {
		return nil, badRequest("wallet type must be PERSONAL or GROUP")
	}

	wallet := &models.Wallet{
		Name:        name,
		Type:        wtype,
		Currency:    currency,
		CreatedByID: actorID,
	}
	if err := s.store.CreateWallet(ctx, wallet); err != nil {
		slog.Error("CreateWallet failed", "user_id", actorID, "error", err)
		return nil, internal("failed to create wallet", err)
	}

	slog.Info("Wallet created", "wallet_id", wallet.ID, "type", wallet.Type, "user_id", actorID)
	return wallet, nil
}

// ListWallets returns the wallets the actor created or belongs to.
func (s *WalletService) ListWallets(ctx context.Context, actorID string) ([]*models.Wallet, error) {
	wallets, err := s.store.ListWalletsByUser(ctx, actorID)
	if err != nil {
		slog.Error("ListWallets failed", "user_id", actorID, "error", err)
		return nil, internal("failed to list wallets", err)
	}
	return wallets, nil
}

// AddMember adds the user with the given email to a group wallet.
// Only the owner may invite; re-adding an existing member succeeds
// without effect.
func (s *WalletService) AddMember(ctx context.Context, actorID, walletID, email string) (*models.WalletMember, error) {
	wallet, err := s.getWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsOwner(actorID) {
		return nil, forbidden("only the wallet owner can add members")
	}
	if wallet.Type != models.WalletGroup {
		return nil, badRequest("members can only be added to group wallets")
	}

	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, badRequest("no user registered with that email")
		}
		return nil, internal("failed to look up user", err)
	}

	member := models.WalletMember{WalletID: walletID, UserID: user.ID, Role: models.RoleMember}
	if err := s.store.AddWalletMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "wallet_id", walletID, "user_id", user.ID, "error", err)
		return nil, internal("failed to add member", err)
	}

	slog.Info("Member added", "wallet_id", walletID, "user_id", user.ID, "added_by", actorID)
	return &member, nil
}

// ComputeBalances derives each member's net balance from the wallet's
// splits. The returned nets sum to exactly zero.
func (s *WalletService) ComputeBalances(ctx context.Context, actorID, walletID string) ([]ledger.MemberBalance, error) {
	wallet, err := s.getWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsMember(actorID) {
		return nil, forbidden("you are not a member of this wallet")
	}

	splits, err := s.store.ListSplitsByWallet(ctx, walletID)
	if err != nil {
		slog.Error("ComputeBalances failed", "wallet_id", walletID, "error", err)
		return nil, internal("failed to load splits", err)
	}

	records := make([]ledger.SplitRecord, len(splits))
	for i, sp := range splits {
		records[i] = ledger.SplitRecord{PayerID: sp.PayerID, DebtorID: sp.DebtorID, Amount: sp.Amount}
	}

	balances := ledger.ComputeBalances(wallet.MemberIDs(), records)
	slog.Debug("Balances computed", "wallet_id", walletID, "members", len(balances), "splits", len(records))
	return balances, nil
}

// SuggestSettlements proposes a minimal set of transfers that would
// zero all balances. It mutates nothing.
func (s *WalletService) SuggestSettlements(ctx context.Context, actorID, walletID string) ([]ledger.ProposedSettlement, error) {
	balances, err := s.ComputeBalances(ctx, actorID, walletID)
	if err != nil {
		return nil, err
	}
	suggestions := ledger.SuggestSettlements(balances)
	slog.Debug("Settlements suggested", "wallet_id", walletID, "count", len(suggestions))
	return suggestions, nil
}

func (s *WalletService) getWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	wallet, err := s.store.GetWallet(ctx, walletID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("wallet not found")
		}
		return nil, internal("failed to load wallet", err)
	}
	return wallet, nil
}
