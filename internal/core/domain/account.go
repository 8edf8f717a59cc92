package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every supported account type in chart-of-accounts order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five supported account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether balances of this type normally sit on the debit side.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account is a node in the chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`       // UUID
	Code            string      `json:"code"`            // Unique, e.g. "1000"
	Name            string      `json:"name"`            // e.g. "Cash"
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	Category        string      `json:"category"`        // Optional free-form grouping, e.g. "Current Assets"
	ParentAccountID string      `json:"parentAccountID"` // Empty for root accounts
	IsActive        bool        `json:"isActive"`
	AuditFields
}
