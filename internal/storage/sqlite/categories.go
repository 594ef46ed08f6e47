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

// CreateCategory inserts a user-created category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, type, description, wallet_id, created_by, is_system, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		category.ID, category.Name, category.Type, nullable(category.Description),
		nullable(category.WalletID), nullable(category.CreatedByID), category.IsSystem, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// ListCategories returns system categories plus the user's own.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, description, wallet_id, created_by, is_system, created_at
		 FROM categories
		 WHERE is_system = 1 OR created_by = ?
		 ORDER BY is_system DESC, name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// FindCategory resolves a category by name and type with the
// wallet-then-global fallback chain: a category scoped to walletID
// wins over a global one of the same name.
func (s *SQLiteStore) FindCategory(ctx context.Context, walletID, name string, ctype models.CategoryType) (*models.Category, error) {
	if walletID != "" {
		row := s.db.QueryRowContext(ctx,
			`SELECT id, name, type, description, wallet_id, created_by, is_system, created_at
			 FROM categories WHERE wallet_id = ? AND name = ? AND type = ? LIMIT 1`,
			walletID, name, ctype,
		)
		c, err := scanCategory(row)
		if err == nil {
			return c, nil
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to find wallet category: %w", err)
		}
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, description, wallet_id, created_by, is_system, created_at
		 FROM categories WHERE wallet_id IS NULL AND name = ? AND type = ? LIMIT 1`,
		name, ctype,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return c, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (*models.Category, error) {
	c := &models.Category{}
	var description, walletID, createdBy sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Type, &description, &walletID, &createdBy, &c.IsSystem, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	c.Description = description.String
	c.WalletID = walletID.String
	c.CreatedByID = createdBy.String
	return c, nil
}

// nullable maps empty strings to NULL so optional columns stay NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
