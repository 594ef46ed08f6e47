package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/events"
	"github.com/nmoreno/walletly/internal/metrics"
	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/storage"
)

// SettlementService records actual debt payments. Recording is the one
// failure-sensitive multi-step mutation in the system: a settlement
// row, a SETTLEMENT ledger transaction, and the FIFO reconciliation of
// outstanding splits all commit together or not at all.
type SettlementService struct {
	store     storage.Store
	publisher events.Publisher // optional; nil disables event emission
}

// NewSettlementService creates a SettlementService. publisher may be
// nil.
func NewSettlementService(store storage.Store, publisher events.Publisher) *SettlementService {
	return &SettlementService{store: store, publisher: publisher}
}

// RecordSettlement validates the participants and persists the
// settlement atomically.
//
// Preconditions, checked in order:
//  1. actor is a member (or creator) of the wallet — Forbidden.
//  2. from and to are both current members — BadRequest.
//  3. from != to — BadRequest.
//  4. amount > 0 — BadRequest.
func (s *SettlementService) RecordSettlement(ctx context.Context, actorID, walletID, fromUserID, toUserID string, amount decimal.Decimal) (*models.Settlement, error) {
	wallet, err := s.store.GetWallet(ctx, walletID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("wallet not found")
		}
		return nil, internal("failed to load wallet", err)
	}

	if !wallet.IsMember(actorID) {
		return nil, forbidden("you are not a member of this wallet")
	}
	if !wallet.IsMember(fromUserID) || !wallet.IsMember(toUserID) {
		return nil, badRequest("both participants must be wallet members")
	}
	if fromUserID == toUserID {
		return nil, badRequest("cannot settle a debt with yourself")
	}
	if !amount.IsPositive() {
		return nil, badRequest("amount must be greater than zero")
	}

	// The settlement transaction's category comes from the
	// wallet-then-global fallback chain; neither existing is a
	// configuration error, fatal to the call.
	category, err := s.store.FindCategory(ctx, walletID, models.SettlementCategoryName, models.CategoryExpense)
	if err != nil {
		slog.Error("RecordSettlement category resolution failed", "wallet_id", walletID, "error", err)
		return nil, internal("settlement category is not configured", err)
	}

	settlement := &models.Settlement{
		WalletID:    walletID,
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		Amount:      amount,
		CreatedByID: actorID,
	}
	txn := &models.Transaction{
		WalletID:    walletID,
		Type:        models.TransactionSettlement,
		Amount:      amount,
		PaidByID:    fromUserID,
		CreatedByID: actorID,
		CategoryID:  category.ID,
		Description: fmt.Sprintf("Settlement %s -> %s", fromUserID, toUserID),
	}

	if err := s.store.RecordSettlement(ctx, settlement, txn); err != nil {
		slog.Error("RecordSettlement failed", "wallet_id", walletID, "from", fromUserID, "to", toUserID, "error", err)
		return nil, internal("failed to record settlement", err)
	}

	metrics.SettlementsRecorded.Inc()
	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"wallet_id", walletID,
		"from", fromUserID,
		"to", toUserID,
		"amount", amount.String(),
	)

	s.publish(ctx, events.TopicSettlementRecorded, events.SettlementRecorded{
		SettlementID: settlement.ID,
		WalletID:     walletID,
		FromUserID:   fromUserID,
		ToUserID:     toUserID,
		Amount:       amount.String(),
		RecordedAt:   settlement.CreatedAt,
	})

	return settlement, nil
}

// ListSettlements returns the wallet's settlement audit trail, newest
// first.
func (s *SettlementService) ListSettlements(ctx context.Context, actorID, walletID string) ([]*models.Settlement, error) {
	wallet, err := s.store.GetWallet(ctx, walletID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("wallet not found")
		}
		return nil, internal("failed to load wallet", err)
	}
	if !wallet.IsMember(actorID) {
		return nil, forbidden("you are not a member of this wallet")
	}

	settlements, err := s.store.ListSettlementsByWallet(ctx, walletID)
	if err != nil {
		slog.Error("ListSettlements failed", "wallet_id", walletID, "error", err)
		return nil, internal("failed to list settlements", err)
	}
	return settlements, nil
}

func (s *SettlementService) publish(ctx context.Context, topic string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("Event publish failed", "topic", topic, "error", err)
	}
}
