package repositories

import (
	"context"

	"github.com/erpcore/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations against the account directory.
type AccountReader interface {
	// FindAccountByID retrieves a single account.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves the requested accounts keyed by ID. Missing
	// IDs are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for seeding the account directory.
type AccountWriter interface {
	// SaveAccount persists a new account. Duplicate codes surface apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines account reader and writer.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
