package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DerivedBalance mirrors the derived_balances table.
type DerivedBalance struct {
	ScopeKey     string          `db:"scope_key"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	TotalDebit   decimal.Decimal `db:"total_debit"`
	TotalCredit  decimal.Decimal `db:"total_credit"`
	RecomputedAt time.Time       `db:"recomputed_at"`
}
