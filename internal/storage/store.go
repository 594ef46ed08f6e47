// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
// Implementations wrap it with context; callers test with errors.Is.
var ErrNotFound = errors.New("not found")

// WalletSplit is the flattened view of one split joined with its
// transaction's payer, as consumed by balance computation.
type WalletSplit struct {
	PayerID  string
	DebtorID string
	Amount   decimal.Decimal
	Settled  bool
}

// Store defines the interface for Walletly storage operations.
// This abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the service layer.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Wallets. CreateWallet also inserts the creator's OWNER member
	// row for GROUP wallets. GetWallet populates Members.
	CreateWallet(ctx context.Context, wallet *models.Wallet) error
	GetWallet(ctx context.Context, walletID string) (*models.Wallet, error)
	ListWalletsByUser(ctx context.Context, userID string) ([]*models.Wallet, error)
	AddWalletMember(ctx context.Context, member models.WalletMember) error

	// Categories. FindCategory looks up a wallet-scoped category
	// first, then a global one; ErrNotFound when neither exists.
	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)
	FindCategory(ctx context.Context, walletID, name string, ctype models.CategoryType) (*models.Category, error)

	// Transactions. CreateTransaction persists the transaction and
	// its splits as one atomic unit.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactionsByWallet(ctx context.Context, walletID string) ([]*models.Transaction, error)
	ListSplitsByWallet(ctx context.Context, walletID string) ([]WalletSplit, error)

	// RecordSettlement performs the whole settlement write as one
	// atomic unit: settlement insert, ledger transaction insert, and
	// FIFO reconciliation of the (to, from) pair's unsettled splits.
	// No partial state survives a failure.
	RecordSettlement(ctx context.Context, settlement *models.Settlement, txn *models.Transaction) error
	ListSettlementsByWallet(ctx context.Context, walletID string) ([]*models.Settlement, error)

	// Goals. ApplyGoalProgress appends the progress row and updates
	// the goal's cached amount and status in one atomic unit,
	// returning the updated goal.
	CreateGoal(ctx context.Context, goal *models.Goal) error
	GetGoal(ctx context.Context, goalID string) (*models.Goal, error)
	ListGoalsByWallet(ctx context.Context, walletID string) ([]*models.Goal, error)
	ApplyGoalProgress(ctx context.Context, progress *models.GoalProgress) (*models.Goal, error)
	ListGoalProgress(ctx context.Context, goalID string) ([]*models.GoalProgress, error)

	// Close releases any resources held by the store.
	Close() error
}
