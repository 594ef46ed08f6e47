package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/ledger"
	"github.com/nmoreno/walletly/internal/models"
)

// RecordSettlement writes the settlement, its SETTLEMENT ledger
// transaction, and the FIFO split reconciliation as one database
// transaction. Any failure rolls back the whole unit.
//
// The reconciliation reads the unsettled splits owed by the
// settlement's payer to its receiver inside the same transaction, so
// concurrent settlements for the same pair serialize on SQLite's
// single writer instead of double-settling the same split.
func (s *SQLiteStore) RecordSettlement(ctx context.Context, settlement *models.Settlement, txn *models.Transaction) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = now
	}
	if settlement.Date == 0 {
		settlement.Date = now
	}
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = settlement.CreatedAt
	}
	if txn.Date == 0 {
		txn.Date = settlement.Date
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlements (id, wallet_id, from_user_id, to_user_id, amount, created_by, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.WalletID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount.String(), settlement.CreatedByID, settlement.Date, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, wallet_id, type, amount, paid_by, created_by, category_id, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.WalletID, txn.Type, txn.Amount.String(), txn.PaidByID, txn.CreatedByID,
		nullable(txn.CategoryID), nullable(txn.Description), txn.Date, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement transaction: %w", err)
	}

	// Outstanding debts of the payer toward the receiver, oldest
	// transaction first: earliest debts clear first.
	rows, err := tx.QueryContext(ctx,
		`SELECT sp.id, sp.transaction_id, sp.amount
		 FROM transaction_splits sp
		 JOIN transactions t ON t.id = sp.transaction_id
		 WHERE t.wallet_id = ? AND t.paid_by = ? AND sp.owed_by = ? AND sp.settled = 0
		 ORDER BY t.date, t.created_at, sp.rowid`,
		settlement.WalletID, settlement.ToUserID, settlement.FromUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to query unsettled splits: %w", err)
	}

	var outstanding []ledger.OutstandingSplit
	for rows.Next() {
		var o ledger.OutstandingSplit
		var amount string
		if err := rows.Scan(&o.SplitID, &o.TransactionID, &amount); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan unsettled split: %w", err)
		}
		if o.Amount, err = decimal.NewFromString(amount); err != nil {
			rows.Close()
			return fmt.Errorf("bad split amount: %w", err)
		}
		outstanding = append(outstanding, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate unsettled splits: %w", err)
	}

	for _, action := range ledger.PlanReconciliation(outstanding, settlement.Amount) {
		_, err = tx.ExecContext(ctx,
			`UPDATE transaction_splits SET amount = ?, settled = 1 WHERE id = ?`,
			action.SettledAmount.String(), action.SplitID,
		)
		if err != nil {
			return fmt.Errorf("failed to settle split %s: %w", action.SplitID, err)
		}

		if action.Remainder.IsPositive() {
			// Decomposition: the uncovered portion lives on in a new
			// unsettled sibling, preserving the split-amount sum.
			_, err = tx.ExecContext(ctx,
				`INSERT INTO transaction_splits (id, transaction_id, owed_by, amount, settled)
				 VALUES (?, ?, ?, ?, 0)`,
				uuid.New().String(), action.TransactionID, settlement.FromUserID, action.Remainder.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert remainder split: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}

// ListSettlementsByWallet retrieves a wallet's settlements, newest
// first.
func (s *SQLiteStore) ListSettlementsByWallet(ctx context.Context, walletID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, wallet_id, from_user_id, to_user_id, amount, created_by, date, created_at
		 FROM settlements WHERE wallet_id = ? ORDER BY created_at DESC`,
		walletID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var amount string
		if err := rows.Scan(&settlement.ID, &settlement.WalletID, &settlement.FromUserID,
			&settlement.ToUserID, &amount, &settlement.CreatedByID, &settlement.Date, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if settlement.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad settlement amount: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
