// Package events defines the outbound event contract and payloads.
// Publishing is best-effort bookkeeping around the core: a failed
// publish is logged, never rolled into the originating operation's
// failure.
package events

import "context"

// Topics.
const (
	TopicSettlementRecorded = "settlement_recorded"
	TopicGoalAchieved       = "goal_achieved"
)

// Publisher emits domain events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// SettlementRecorded is emitted after a settlement commits.
type SettlementRecorded struct {
	SettlementID string `json:"settlement_id"`
	WalletID     string `json:"wallet_id"`
	FromUserID   string `json:"from_user_id"`
	ToUserID     string `json:"to_user_id"`
	Amount       string `json:"amount"`
	RecordedAt   int64  `json:"recorded_at"`
}

// GoalAchieved is emitted when a contribution pushes an active goal
// past its target.
type GoalAchieved struct {
	GoalID       string `json:"goal_id"`
	WalletID     string `json:"wallet_id,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	Name         string `json:"name"`
	TargetAmount string `json:"target_amount"`
	AchievedAt   int64  `json:"achieved_at"`
}
