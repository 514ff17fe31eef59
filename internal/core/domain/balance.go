package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DerivedBalance is an aggregate recomputed in full from the posted-line
// stream for one scope (an account). It is a derived view, never a source of
// truth: the line stream wins on any discrepancy.
type DerivedBalance struct {
	ScopeKey     string          `json:"scopeKey"` // Account reference, unique
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`     // Signed per the account nature's convention
	TotalDebit   decimal.Decimal `json:"totalDebit"`  // Sum of posted debit lines in scope
	TotalCredit  decimal.Decimal `json:"totalCredit"` // Sum of posted credit lines in scope
	RecomputedAt time.Time       `json:"recomputedAt"`
}
