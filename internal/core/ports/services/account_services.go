package services

import (
	"context"

	"github.com/erpcore/ledger_engine/internal/core/domain"
	"github.com/erpcore/ledger_engine/internal/dto"
)

// AccountSvcFacade exposes the account directory collaborator.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}
