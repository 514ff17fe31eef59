package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/erpcore/ledger_engine/internal/apperrors"
	"github.com/erpcore/ledger_engine/internal/core/domain"
	portsrepo "github.com/erpcore/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/erpcore/ledger_engine/internal/core/ports/services"
	"github.com/erpcore/ledger_engine/internal/middleware"
	"github.com/erpcore/ledger_engine/internal/utils/accounting"
)

// ErrReconciliation wraps recomputation failures. It is reported, never
// propagated into the posting path: the line stream stays the source of
// truth and a stale derived view must not block bookkeeping throughput.
var ErrReconciliation = errors.New("balance reconciliation failed")

// balanceService maintains derived balance records by full recomputation
// over the posted-line stream.
type balanceService struct {
	balanceRepo portsrepo.BalanceRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade

	// scopeLocks serialises recomputation per scope so two postings that
	// affect the same account cannot interleave their read-then-overwrite.
	// Different scopes recompute concurrently.
	scopeLocks sync.Map // scopeKey -> *sync.Mutex
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(balanceRepo portsrepo.BalanceRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.BalanceSvcFacade {
	return &balanceService{
		balanceRepo: balanceRepo,
		accountRepo: accountRepo,
	}
}

// Ensure balanceService implements the portssvc.BalanceSvcFacade interface
var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

func (s *balanceService) lockScope(scopeKey string) *sync.Mutex {
	actual, _ := s.scopeLocks.LoadOrStore(scopeKey, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// Recompute re-aggregates every posted line referencing the account and
// overwrites the derived balance record, creating it lazily on first use.
// The recomputation is always a full scan, never an incremental delta, so
// repeated runs cannot drift. Implements portssvc.BalanceSvcFacade
func (s *balanceService) Recompute(ctx context.Context, accountID string) (*domain.DerivedBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	mu := s.lockScope(accountID)
	mu.Lock()
	defer mu.Unlock()

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		// Keep ErrNotFound visible so callers can distinguish a missing
		// account from a genuine reconciliation failure.
		return nil, fmt.Errorf("%w: account %s: %w", ErrReconciliation, accountID, err)
	}

	totalDebit, totalCredit, err := s.balanceRepo.SumPostedLines(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: summing posted lines for %s: %v", ErrReconciliation, accountID, err)
	}

	signed, err := accounting.SignedBalance(totalDebit, totalCredit, account.AccountType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReconciliation, err)
	}

	balance := domain.DerivedBalance{
		ScopeKey:     accountID,
		CurrencyCode: account.CurrencyCode,
		Balance:      signed,
		TotalDebit:   totalDebit,
		TotalCredit:  totalCredit,
		RecomputedAt: time.Now().UTC(),
	}

	if err := s.balanceRepo.UpsertDerivedBalance(ctx, balance); err != nil {
		return nil, fmt.Errorf("%w: storing balance for %s: %v", ErrReconciliation, accountID, err)
	}

	logger.Debug("Derived balance recomputed",
		slog.String("scope", accountID),
		slog.String("balance", signed.String()))
	return &balance, nil
}

// GetBalance returns the stored derived balance for an account, lazily
// recomputing when no record exists yet.
// Implements portssvc.BalanceSvcFacade
func (s *balanceService) GetBalance(ctx context.Context, accountID string) (*domain.DerivedBalance, error) {
	balance, err := s.balanceRepo.GetDerivedBalance(ctx, accountID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.Recompute(ctx, accountID)
}

// NotifyPosted recomputes each affected scope after a posting event has
// committed. Failures are logged and swallowed; posting already succeeded
// and recomputation can be retried by any later trigger.
// Implements portssvc.BalanceSvcFacade
func (s *balanceService) NotifyPosted(ctx context.Context, accountIDs []string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	for _, accountID := range accountIDs {
		if _, err := s.Recompute(ctx, accountID); err != nil {
			logger.Error("Reconciliation failed; derived balance is stale until next trigger",
				slog.String("scope", accountID),
				slog.String("error", err.Error()))
		}
	}
}
