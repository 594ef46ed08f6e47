package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/storage"
)

// CreateTransaction persists a transaction and its splits as one
// atomic unit.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if txn.CreatedAt == 0 {
		txn.CreatedAt = now
	}
	if txn.Date == 0 {
		txn.Date = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, wallet_id, type, amount, paid_by, created_by, category_id, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.WalletID, txn.Type, txn.Amount.String(), txn.PaidByID, txn.CreatedByID,
		nullable(txn.CategoryID), nullable(txn.Description), txn.Date, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	for i := range txn.Splits {
		split := &txn.Splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.TransactionID = txn.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO transaction_splits (id, transaction_id, owed_by, amount, settled)
			 VALUES (?, ?, ?, ?, ?)`,
			split.ID, split.TransactionID, split.OwedByID, split.Amount.String(), split.Settled,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListTransactionsByWallet retrieves a wallet's transactions with
// their splits, newest first.
func (s *SQLiteStore) ListTransactionsByWallet(ctx context.Context, walletID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, wallet_id, type, amount, paid_by, created_by,
		        COALESCE(category_id, ''), COALESCE(description, ''), date, created_at
		 FROM transactions WHERE wallet_id = ?
		 ORDER BY date DESC, created_at DESC`,
		walletID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	byID := make(map[string]*models.Transaction)
	for rows.Next() {
		txn := &models.Transaction{}
		var amount string
		if err := rows.Scan(&txn.ID, &txn.WalletID, &txn.Type, &amount, &txn.PaidByID,
			&txn.CreatedByID, &txn.CategoryID, &txn.Description, &txn.Date, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if txn.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad amount for transaction %s: %w", txn.ID, err)
		}
		txns = append(txns, txn)
		byID[txn.ID] = txn
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	// One batch query for all splits, avoiding per-transaction
	// round-trips.
	splitRows, err := s.db.QueryContext(ctx,
		`SELECT sp.id, sp.transaction_id, sp.owed_by, sp.amount, sp.settled
		 FROM transaction_splits sp
		 JOIN transactions t ON t.id = sp.transaction_id
		 WHERE t.wallet_id = ?
		 ORDER BY sp.rowid`,
		walletID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var sp models.TransactionSplit
		var amount string
		if err := splitRows.Scan(&sp.ID, &sp.TransactionID, &sp.OwedByID, &amount, &sp.Settled); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if sp.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad amount for split %s: %w", sp.ID, err)
		}
		if txn, ok := byID[sp.TransactionID]; ok {
			txn.Splits = append(txn.Splits, sp)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return txns, nil
}

// ListSplitsByWallet returns every split in the wallet joined with its
// transaction's payer, the read model balance computation consumes.
func (s *SQLiteStore) ListSplitsByWallet(ctx context.Context, walletID string) ([]storage.WalletSplit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.paid_by, sp.owed_by, sp.amount, sp.settled
		 FROM transaction_splits sp
		 JOIN transactions t ON t.id = sp.transaction_id
		 WHERE t.wallet_id = ?
		 ORDER BY t.date, t.created_at, sp.rowid`,
		walletID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet splits: %w", err)
	}
	defer rows.Close()

	var splits []storage.WalletSplit
	for rows.Next() {
		var ws storage.WalletSplit
		var amount string
		if err := rows.Scan(&ws.PayerID, &ws.DebtorID, &amount, &ws.Settled); err != nil {
			return nil, fmt.Errorf("failed to scan wallet split: %w", err)
		}
		if ws.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad split amount: %w", err)
		}
		splits = append(splits, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet splits: %w", err)
	}
	return splits, nil
}
