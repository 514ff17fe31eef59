package repositories

import (
	"context"

	"github.com/erpcore/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceRepositoryFacade persists derived balance records and answers the
// full-recompute aggregation query over committed, posted lines.
type BalanceRepositoryFacade interface {
	// SumPostedLines aggregates debit and credit totals across every line of
	// every POSTED document referencing the account. Cancelled and draft
	// documents are excluded.
	SumPostedLines(ctx context.Context, accountID string) (debit, credit decimal.Decimal, err error)

	// GetDerivedBalance retrieves the stored record for a scope, or
	// apperrors.ErrNotFound when no reconciliation has run yet.
	GetDerivedBalance(ctx context.Context, scopeKey string) (*domain.DerivedBalance, error)

	// UpsertDerivedBalance overwrites (or lazily creates) the record for its
	// scope in one statement; no incremental patching.
	UpsertDerivedBalance(ctx context.Context, balance domain.DerivedBalance) error
}
