package dto

import (
	"time"

	"github.com/erpcore/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceResponse is the API shape of a derived balance record.
type BalanceResponse struct {
	ScopeKey     string          `json:"scopeKey"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	TotalDebit   decimal.Decimal `json:"totalDebit"`
	TotalCredit  decimal.Decimal `json:"totalCredit"`
	RecomputedAt time.Time       `json:"recomputedAt"`
}

// ToBalanceResponse converts a domain derived balance to its API shape.
func ToBalanceResponse(b *domain.DerivedBalance) BalanceResponse {
	return BalanceResponse{
		ScopeKey:     b.ScopeKey,
		CurrencyCode: b.CurrencyCode,
		Balance:      b.Balance,
		TotalDebit:   b.TotalDebit,
		TotalCredit:  b.TotalCredit,
		RecomputedAt: b.RecomputedAt,
	}
}
