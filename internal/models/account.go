package models

// Account is the persisted form of a chart-of-accounts node.
// ParentAccountID is nil for root accounts.
type Account struct {
	AccountID       string  `db:"account_id"`
	Code            string  `db:"code"`
	Name            string  `db:"name"`
	AccountType     string  `db:"account_type"`
	Category        string  `db:"category"`
	ParentAccountID *string `db:"parent_account_id"` // Nullable
	IsActive        bool    `db:"is_active"`
	AuditFields             // Embed common audit fields
}
