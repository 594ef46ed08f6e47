package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/events"
	"github.com/nmoreno/walletly/internal/metrics"
	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/storage"
)

// GoalService manages savings goals and tracks their progress.
// UpdateProgress is the goal-progress tracker of the core: it appends
// to the goal's contribution log and maintains the cached current
// amount; the sum of the log always equals the cache.
type GoalService struct {
	store     storage.Store
	publisher events.Publisher // optional; nil disables event emission
}

// NewGoalService creates a GoalService. publisher may be nil.
func NewGoalService(store storage.Store, publisher events.Publisher) *GoalService {
	return &GoalService{store: store, publisher: publisher}
}

// CreateGoal creates a USER-scoped goal, or a WALLET-scoped goal when
// walletID is set. Wallet goals live in group wallets and only the
// owner may create them.
func (s *GoalService) CreateGoal(ctx context.Context, actorID, walletID, name string, target decimal.Decimal, deadline int64) (*models.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequest("goal name is required")
	}
	if !target.IsPositive() {
		return nil, badRequest("target amount must be greater than zero")
	}

	goal := &models.Goal{
		Scope:         models.GoalScopeUser,
		UserID:        actorID,
		Name:          name,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Deadline:      deadline,
		Status:        models.GoalActive,
		CreatedByID:   actorID,
	}

	if walletID != "" {
		wallet, err := s.store.GetWallet(ctx, walletID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, notFound("wallet not found")
			}
			return nil, internal("failed to load wallet", err)
		}
		if !wallet.IsOwner(actorID) {
			return nil, forbidden("only the wallet owner can create goals")
		}
		if wallet.Type != models.WalletGroup {
			return nil, badRequest("wallet goals can only be created in group wallets")
		}
		goal.Scope = models.GoalScopeWallet
		goal.WalletID = walletID
		goal.UserID = ""
	}

	if err := s.store.CreateGoal(ctx, goal); err != nil {
		slog.Error("CreateGoal failed", "user_id", actorID, "error", err)
		return nil, internal("failed to create goal", err)
	}

	slog.Info("Goal created", "goal_id", goal.ID, "scope", goal.Scope, "user_id", actorID)
	return goal, nil
}

// ListWalletGoals returns a wallet's goals for its members.
func (s *GoalService) ListWalletGoals(ctx context.Context, actorID, walletID string) ([]*models.Goal, error) {
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

	goals, err := s.store.ListGoalsByWallet(ctx, walletID)
	if err != nil {
		slog.Error("ListWalletGoals failed", "wallet_id", walletID, "error", err)
		return nil, internal("failed to list goals", err)
	}
	return goals, nil
}

// UpdateProgress appends a signed contribution delta to the goal's
// log and updates its cached amount, flipping an ACTIVE goal to
// ACHIEVED when the target is reached. The delta is applied
// unconditionally; status gating before invocation is the caller's
// responsibility.
func (s *GoalService) UpdateProgress(ctx context.Context, goalID string, delta decimal.Decimal, actorID, note string) (*models.Goal, error) {
	wasAchieved := false
	if before, err := s.store.GetGoal(ctx, goalID); err == nil {
		wasAchieved = before.Status == models.GoalAchieved
	}

	goal, err := s.store.ApplyGoalProgress(ctx, &models.GoalProgress{
		GoalID:      goalID,
		Amount:      delta,
		Note:        note,
		CreatedByID: actorID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("goal not found")
		}
		slog.Error("UpdateProgress failed", "goal_id", goalID, "error", err)
		return nil, internal("failed to update goal progress", err)
	}

	slog.Info("Goal progress updated",
		"goal_id", goalID,
		"delta", delta.String(),
		"current", goal.CurrentAmount.String(),
		"status", goal.Status,
	)

	if !wasAchieved && goal.Status == models.GoalAchieved {
		metrics.GoalsAchieved.Inc()
		s.publishAchieved(ctx, goal)
	}

	return goal, nil
}

// ListProgress returns a goal's contribution log for users with access
// to it: the goal's owner, or any wallet member for wallet goals.
func (s *GoalService) ListProgress(ctx context.Context, actorID, goalID string) ([]*models.GoalProgress, error) {
	goal, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("goal not found")
		}
		return nil, internal("failed to load goal", err)
	}

	if goal.WalletID != "" {
		wallet, err := s.store.GetWallet(ctx, goal.WalletID)
		if err != nil {
			return nil, internal("failed to load wallet", err)
		}
		if !wallet.IsMember(actorID) {
			return nil, forbidden("you do not have access to this goal")
		}
	} else if goal.UserID != actorID {
		return nil, forbidden("you do not have access to this goal")
	}

	entries, err := s.store.ListGoalProgress(ctx, goalID)
	if err != nil {
		slog.Error("ListProgress failed", "goal_id", goalID, "error", err)
		return nil, internal("failed to list goal progress", err)
	}
	return entries, nil
}

func (s *GoalService) publishAchieved(ctx context.Context, goal *models.Goal) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.TopicGoalAchieved, events.GoalAchieved{
		GoalID:       goal.ID,
		WalletID:     goal.WalletID,
		UserID:       goal.UserID,
		Name:         goal.Name,
		TargetAmount: goal.TargetAmount.String(),
		AchievedAt:   time.Now().Unix(),
	})
	if err != nil {
		slog.Warn("Event publish failed", "topic", events.TopicGoalAchieved, "error", err)
	}
}
