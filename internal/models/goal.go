package models

import "github.com/shopspring/decimal"

// GoalScope says whether a goal belongs to a single user or to a
// group wallet.
type GoalScope string

const (
	GoalScopeUser   GoalScope = "USER"
	GoalScopeWallet GoalScope = "WALLET"
)

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalPaused    GoalStatus = "PAUSED"
	GoalAchieved  GoalStatus = "ACHIEVED"
	GoalCancelled GoalStatus = "CANCELLED"
)

// Goal is a savings target. CurrentAmount is a cached aggregate: it
// always equals the sum of the goal's GoalProgress deltas.
type Goal struct {
	ID string

	// Scope is USER or WALLET; exactly one of UserID/WalletID is set.
	Scope    GoalScope
	UserID   string
	WalletID string

	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal

	// Deadline is an optional Unix timestamp; zero means none.
	Deadline int64

	Status      GoalStatus
	CreatedByID string
	CreatedAt   int64
}

// ApplyDelta adds a signed contribution to the cached amount and
// flips an ACTIVE goal to ACHIEVED when the target is reached.
// ACHIEVED and CANCELLED goals keep their status; the delta is applied
// regardless, since status gating is the caller's concern.
func (g *Goal) ApplyDelta(delta decimal.Decimal) {
	g.CurrentAmount = g.CurrentAmount.Add(delta)
	if g.Status == GoalActive && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = GoalAchieved
	}
}

// GoalProgress is one append-only entry in a goal's contribution log.
// Rows are created exactly once per qualifying contribution and never
// mutated.
type GoalProgress struct {
	ID          string
	GoalID      string
	Amount      decimal.Decimal
	Note        string
	CreatedByID string
	Date        int64
}
