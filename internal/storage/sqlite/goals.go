package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/storage"
)

// CreateGoal persists a new goal.
func (s *SQLiteStore) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt == 0 {
		goal.CreatedAt = time.Now().Unix()
	}
	if goal.Status == "" {
		goal.Status = models.GoalActive
	}

	var deadline any
	if goal.Deadline != 0 {
		deadline = goal.Deadline
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, scope, user_id, wallet_id, name, target_amount, current_amount, deadline, status, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Scope, nullable(goal.UserID), nullable(goal.WalletID), goal.Name,
		goal.TargetAmount.String(), goal.CurrentAmount.String(), deadline, goal.Status,
		goal.CreatedByID, goal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a goal by ID.
func (s *SQLiteStore) GetGoal(ctx context.Context, goalID string) (*models.Goal, error) {
	goal, err := scanGoal(s.db.QueryRowContext(ctx, goalQuery+` WHERE id = ?`, goalID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("goal %s: %w", goalID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

// ListGoalsByWallet retrieves a wallet's goals, newest first.
func (s *SQLiteStore) ListGoalsByWallet(ctx context.Context, walletID string) ([]*models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, goalQuery+` WHERE wallet_id = ? ORDER BY created_at DESC`, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}

// ApplyGoalProgress appends a progress row and updates the goal's
// cached amount (and ACTIVE->ACHIEVED status) in one atomic unit,
// returning the updated goal. The goal row is re-read inside the
// transaction so concurrent contributions cannot lose deltas.
func (s *SQLiteStore) ApplyGoalProgress(ctx context.Context, progress *models.GoalProgress) (*models.Goal, error) {
	if progress.ID == "" {
		progress.ID = uuid.New().String()
	}
	if progress.Date == 0 {
		progress.Date = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	goal, err := scanGoal(tx.QueryRowContext(ctx, goalQuery+` WHERE id = ?`, progress.GoalID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("goal %s: %w", progress.GoalID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO goal_progress (id, goal_id, amount, note, created_by, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		progress.ID, progress.GoalID, progress.Amount.String(), nullable(progress.Note),
		progress.CreatedByID, progress.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert goal progress: %w", err)
	}

	goal.ApplyDelta(progress.Amount)

	_, err = tx.ExecContext(ctx,
		`UPDATE goals SET current_amount = ?, status = ? WHERE id = ?`,
		goal.CurrentAmount.String(), goal.Status, goal.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit goal progress: %w", err)
	}
	return goal, nil
}

// ListGoalProgress retrieves a goal's progress log, newest first.
func (s *SQLiteStore) ListGoalProgress(ctx context.Context, goalID string) ([]*models.GoalProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, goal_id, amount, COALESCE(note, ''), created_by, date
		 FROM goal_progress WHERE goal_id = ? ORDER BY date DESC, rowid DESC`,
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list goal progress: %w", err)
	}
	defer rows.Close()

	var entries []*models.GoalProgress
	for rows.Next() {
		p := &models.GoalProgress{}
		var amount string
		if err := rows.Scan(&p.ID, &p.GoalID, &amount, &p.Note, &p.CreatedByID, &p.Date); err != nil {
			return nil, fmt.Errorf("failed to scan goal progress: %w", err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad progress amount: %w", err)
		}
		entries = append(entries, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goal progress: %w", err)
	}
	return entries, nil
}

const goalQuery = `SELECT id, scope, COALESCE(user_id, ''), COALESCE(wallet_id, ''), name,
	target_amount, current_amount, COALESCE(deadline, 0), status, created_by, created_at FROM goals`

func scanGoal(row scanner) (*models.Goal, error) {
	goal := &models.Goal{}
	var target, current string
	err := row.Scan(&goal.ID, &goal.Scope, &goal.UserID, &goal.WalletID, &goal.Name,
		&target, &current, &goal.Deadline, &goal.Status, &goal.CreatedByID, &goal.CreatedAt)
	if err != nil {
		return nil, err
	}
	if goal.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return nil, fmt.Errorf("bad target amount: %w", err)
	}
	if goal.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return nil, fmt.Errorf("bad current amount: %w", err)
	}
	return goal, nil
}
