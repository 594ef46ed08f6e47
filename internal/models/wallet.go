package models

// WalletType distinguishes single-user ledgers from shared ones.
type WalletType string

const (
	WalletPersonal WalletType = "PERSONAL"
	WalletGroup    WalletType = "GROUP"
)

// WalletRole is a member's role within a wallet.
// Each wallet has exactly one OWNER at any time.
type WalletRole string

const (
	RoleOwner  WalletRole = "OWNER"
	RoleMember WalletRole = "MEMBER"
)

// Wallet represents a personal or group ledger.
type Wallet struct {
	// ID is the unique identifier for the wallet (UUID format).
	ID string

	// Name is the display name (e.g., "Apartment", "Trip to Cali").
	Name string

	// Type is PERSONAL or GROUP. Group wallets carry a member set;
	// personal wallets behave as a single-member ledger.
	Type WalletType

	// Currency is the ISO 4217 code all amounts in this wallet use.
	Currency string

	// CreatedByID is the user who created the wallet.
	CreatedByID string

	// CreatedAt is the Unix timestamp when the wallet was created.
	CreatedAt int64

	// Members is the wallet's member set, populated on reads.
	Members []WalletMember
}

// WalletMember links a user to a wallet with a role.
type WalletMember struct {
	WalletID string
	UserID   string
	Role     WalletRole
}

// IsMember reports whether userID belongs to the wallet, counting the
// creator even when no explicit member row exists (personal wallets).
func (w *Wallet) IsMember(userID string) bool {
	if w.CreatedByID == userID {
		return true
	}
	for _, m := range w.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// IsOwner reports whether userID is the wallet creator or holds the
// OWNER role.
func (w *Wallet) IsOwner(userID string) bool {
	if w.CreatedByID == userID {
		return true
	}
	for _, m := range w.Members {
		if m.UserID == userID && m.Role == RoleOwner {
			return true
		}
	}
	return false
}

// MemberIDs returns the IDs of all members, including the creator when
// absent from the member rows.
func (w *Wallet) MemberIDs() []string {
	ids := make([]string, 0, len(w.Members)+1)
	seen := make(map[string]bool, len(w.Members)+1)
	for _, m := range w.Members {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			ids = append(ids, m.UserID)
		}
	}
	if !seen[w.CreatedByID] {
		ids = append(ids, w.CreatedByID)
	}
	return ids
}
