package services

import (
	"context"

	"github.com/erpcore/ledger_engine/internal/core/domain"
)

// BalanceSvcFacade recomputes and serves derived balance records.
type BalanceSvcFacade interface {
	// Recompute re-aggregates every posted line for the account and
	// overwrites the derived balance record, creating it if absent.
	// Idempotent: a second call with no intervening postings is a no-op
	// beyond the timestamp.
	Recompute(ctx context.Context, accountID string) (*domain.DerivedBalance, error)

	// GetBalance returns the stored record, lazily recomputing when none
	// exists yet.
	GetBalance(ctx context.Context, accountID string) (*domain.DerivedBalance, error)

	// NotifyPosted signals that postings affecting the given accounts have
	// committed. Recomputation failures are reported, never propagated into
	// the posting path.
	NotifyPosted(ctx context.Context, accountIDs []string)
}
