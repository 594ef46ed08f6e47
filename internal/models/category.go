package models

// CategoryType classifies a category as expense or income.
type CategoryType string

const (
	CategoryExpense CategoryType = "EXPENSE"
	CategoryIncome  CategoryType = "INCOME"
)

// SettlementCategoryName is the system category settlements are filed
// under. The recorder resolves it wallet-scoped first, then global;
// missing both is a configuration error.
const SettlementCategoryName = "Debt settlement"

// Category classifies transactions. System categories are seeded at
// migration time and shared by everyone; users may create their own,
// optionally scoped to a single wallet.
type Category struct {
	ID          string
	Name        string
	Type        CategoryType
	Description string

	// WalletID scopes the category to one wallet; empty means global.
	WalletID string

	// CreatedByID is empty for system categories.
	CreatedByID string

	// IsSystem marks seeded categories that cannot be edited.
	IsSystem bool

	CreatedAt int64
}
