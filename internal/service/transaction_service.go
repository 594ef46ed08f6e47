package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/storage"
)

// SplitInput is one debtor's share in a transaction being created.
type SplitInput struct {
	OwedByUserID string
	Amount       decimal.Decimal
}

// CreateTransactionInput carries everything needed to record a money
// movement. ContributeToGoalID is the typed contribution intent: when
// set, the transaction's amount is forwarded to the goal's progress
// tracker after the transaction commits.
type CreateTransactionInput struct {
	WalletID           string
	Type               models.TransactionType
	Amount             decimal.Decimal
	PaidByUserID       string
	CategoryID         string
	Description        string
	Date               int64
	Splits             []SplitInput
	ContributeToGoalID string
}

// TransactionService handles transaction creation and listing, and
// drives goal progress for transactions tagged as contributions.
type TransactionService struct {
	store storage.Store
	goals *GoalService
}

// NewTransactionService creates a TransactionService.
func NewTransactionService(store storage.Store, goals *GoalService) *TransactionService {
	return &TransactionService{store: store, goals: goals}
}

// CreateTransaction records a transaction with its splits. The actor
// and the payer must be wallet members; every split debtor must be a
// member too. SETTLEMENT transactions cannot be created directly.
func (s *TransactionService) CreateTransaction(ctx context.Context, actorID string, in CreateTransactionInput) (*models.Transaction, error) {
	if in.Type != models.TransactionExpense && in.Type != models.TransactionIncome {
		return nil, badRequest("transaction type must be EXPENSE or INCOME")
	}
	if in.Amount.IsNegative() {
		return nil, badRequest("amount must not be negative")
	}

	wallet, err := s.store.GetWallet(ctx, in.WalletID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("wallet not found")
		}
		return nil, internal("failed to load wallet", err)
	}
	if !wallet.IsMember(actorID) {
		return nil, forbidden("you are not a member of this wallet")
	}

	paidBy := in.PaidByUserID
	if paidBy == "" {
		paidBy = actorID
	}
	if !wallet.IsMember(paidBy) {
		return nil, badRequest("payer must be a wallet member")
	}

	txn := &models.Transaction{
		WalletID:    in.WalletID,
		Type:        in.Type,
		Amount:      in.Amount,
		PaidByID:    paidBy,
		CreatedByID: actorID,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Date:        in.Date,
	}
	for _, split := range in.Splits {
		if split.Amount.IsNegative() {
			return nil, badRequest("split amount must not be negative")
		}
		if !wallet.IsMember(split.OwedByUserID) {
			return nil, badRequest("split debtor must be a wallet member")
		}
		txn.Splits = append(txn.Splits, models.TransactionSplit{
			OwedByID: split.OwedByUserID,
			Amount:   split.Amount,
		})
	}

	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		slog.Error("CreateTransaction failed", "wallet_id", in.WalletID, "error", err)
		return nil, internal("failed to create transaction", err)
	}

	slog.Info("Transaction created",
		"transaction_id", txn.ID,
		"wallet_id", txn.WalletID,
		"type", txn.Type,
		"amount", txn.Amount.String(),
		"splits", len(txn.Splits),
	)

	if in.ContributeToGoalID != "" {
		s.applyContribution(ctx, actorID, in.ContributeToGoalID, txn)
	}

	return txn, nil
}

// applyContribution forwards a tagged transaction's amount to the
// goal tracker. Only ACTIVE goals are auto-updated; a failure here is
// logged and never aborts the already committed transaction.
func (s *TransactionService) applyContribution(ctx context.Context, actorID, goalID string, txn *models.Transaction) {
	goal, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		slog.Warn("Contribution goal not found", "goal_id", goalID, "transaction_id", txn.ID, "error", err)
		return
	}
	if goal.Status != models.GoalActive {
		slog.Warn("Contribution skipped, goal not active",
			"goal_id", goalID, "status", goal.Status, "transaction_id", txn.ID)
		return
	}

	if _, err := s.goals.UpdateProgress(ctx, goalID, txn.Amount, actorID, txn.Description); err != nil {
		slog.Warn("Contribution progress update failed",
			"goal_id", goalID, "transaction_id", txn.ID, "error", err)
	}
}

// ListTransactions returns a wallet's transactions for its members,
// newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, actorID, walletID string) ([]*models.Transaction, error) {
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

	txns, err := s.store.ListTransactionsByWallet(ctx, walletID)
	if err != nil {
		slog.Error("ListTransactions failed", "wallet_id", walletID, "error", err)
		return nil, internal("failed to list transactions", err)
	}
	return txns, nil
}

// ListCategories returns system categories plus the actor's own.
func (s *TransactionService) ListCategories(ctx context.Context, actorID string) ([]*models.Category, error) {
	categories, err := s.store.ListCategories(ctx, actorID)
	if err != nil {
		slog.Error("ListCategories failed", "user_id", actorID, "error", err)
		return nil, internal("failed to list categories", err)
	}
	return categories, nil
}
