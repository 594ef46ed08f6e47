package models

import "github.com/shopspring/decimal"

// Settlement is an append-only audit record of a real-world payment
// between two wallet members. It carries no split linkage: which
// splits it cleared is decided by the FIFO reconciliation pass at
// creation time.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// WalletID is the wallet this settlement belongs to.
	WalletID string

	// FromUserID is the debtor who paid.
	FromUserID string

	// ToUserID is the creditor who received the payment.
	ToUserID string

	// Amount is the payment amount, always > 0.
	Amount decimal.Decimal

	// CreatedByID is the member who recorded the settlement.
	CreatedByID string

	// Date is the Unix timestamp of the payment.
	Date int64

	// CreatedAt is the Unix timestamp when the row was inserted.
	CreatedAt int64
}
