package domain

// AccountType defines the fundamental accounting nature of an account. It
// drives the sign convention used when deriving balances.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// DebitPositive reports whether debits increase the account's balance under
// the standard convention (asset/expense accounts).
func (t AccountType) DebitPositive() bool {
	return t == Asset || t == Expense
}

// Account is the engine's view of an entry in the account directory. The
// directory is owned by a separate collaborator; this engine references
// accounts but never changes their nature.
type Account struct {
	AccountID    string      `json:"accountID"` // Primary Key (UUID)
	Code         string      `json:"code"`      // Short chart-of-accounts code
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	CurrencyCode string      `json:"currencyCode"`
	Description  string      `json:"description"`
	IsActive     bool        `json:"isActive"`
	AuditFields
}
