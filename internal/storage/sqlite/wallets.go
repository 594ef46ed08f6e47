package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/storage"
)

// CreateWallet persists a wallet. For GROUP wallets the creator is
// inserted as the OWNER member in the same transaction.
func (s *SQLiteStore) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet.ID == "" {
		wallet.ID = uuid.New().String()
	}
	if wallet.CreatedAt == 0 {
		wallet.CreatedAt = time.Now().Unix()
	}
	if wallet.Currency == "" {
		wallet.Currency = "COP"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wallets (id, name, type, currency, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		wallet.ID, wallet.Name, wallet.Type, wallet.Currency, wallet.CreatedByID, wallet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert wallet: %w", err)
	}

	if wallet.Type == models.WalletGroup {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO wallet_members (wallet_id, user_id, role) VALUES (?, ?, ?)`,
			wallet.ID, wallet.CreatedByID, models.RoleOwner,
		)
		if err != nil {
			return fmt.Errorf("failed to insert owner member: %w", err)
		}
		wallet.Members = []models.WalletMember{
			{WalletID: wallet.ID, UserID: wallet.CreatedByID, Role: models.RoleOwner},
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetWallet retrieves a wallet by ID, including its member set.
func (s *SQLiteStore) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	wallet := &models.Wallet{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, currency, created_by, created_at FROM wallets WHERE id = ?`,
		walletID,
	).Scan(&wallet.ID, &wallet.Name, &wallet.Type, &wallet.Currency, &wallet.CreatedByID, &wallet.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("wallet %s: %w", walletID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT wallet_id, user_id, role FROM wallet_members WHERE wallet_id = ? ORDER BY rowid`,
		walletID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.WalletMember
		if err := rows.Scan(&m.WalletID, &m.UserID, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		wallet.Members = append(wallet.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return wallet, nil
}

// ListWalletsByUser retrieves all wallets the user created or belongs
// to, newest first.
func (s *SQLiteStore) ListWalletsByUser(ctx context.Context, userID string) ([]*models.Wallet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT w.id FROM wallets w
		 LEFT JOIN wallet_members m ON m.wallet_id = w.id
		 WHERE w.created_by = ? OR m.user_id = ?
		 ORDER BY w.created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan wallet id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallets: %w", err)
	}

	wallets := make([]*models.Wallet, 0, len(ids))
	for _, id := range ids {
		w, err := s.GetWallet(ctx, id)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

// AddWalletMember inserts a member row. Adding an existing member is a
// no-op, keeping invitations idempotent.
func (s *SQLiteStore) AddWalletMember(ctx context.Context, member models.WalletMember) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO wallet_members (wallet_id, user_id, role) VALUES (?, ?, ?)`,
		member.WalletID, member.UserID, member.Role,
	)
	if err != nil {
		return fmt.Errorf("failed to add wallet member: %w", err)
	}
	return nil
}
