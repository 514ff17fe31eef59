package pgsql

import (
	"context"
	"errors"

	"github.com/erpcore/ledger_engine/internal/apperrors"
	"github.com/erpcore/ledger_engine/internal/core/domain"
	portsrepo "github.com/erpcore/ledger_engine/internal/core/ports/repositories"
	"github.com/erpcore/ledger_engine/internal/models"
	"github.com/erpcore/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for the account directory.
func NewAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `
	account_id, code, name, account_type, currency_code, description, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveAccount persists a new account. A duplicate code surfaces apperrors.ErrDuplicate.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAccount := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (
			account_id, code, name, account_type, currency_code, description, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAccount.AccountID,
		modelAccount.Code,
		modelAccount.Name,
		modelAccount.AccountType,
		modelAccount.CurrencyCode,
		modelAccount.Description,
		modelAccount.IsActive,
		modelAccount.CreatedAt,
		modelAccount.CreatedBy,
		modelAccount.LastUpdatedAt,
		modelAccount.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert account "+modelAccount.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	var modelAccount models.Account
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&modelAccount.AccountID,
		&modelAccount.Code,
		&modelAccount.Name,
		&modelAccount.AccountType,
		&modelAccount.CurrencyCode,
		&modelAccount.Description,
		&modelAccount.IsActive,
		&modelAccount.CreatedAt,
		&modelAccount.CreatedBy,
		&modelAccount.LastUpdatedAt,
		&modelAccount.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by ID "+accountID, err)
	}

	domainAccount := mapping.ToDomainAccount(modelAccount)
	return &domainAccount, nil
}

// FindAccountsByIDs retrieves the requested accounts keyed by ID. IDs without
// a matching row are simply absent from the result map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		var modelAccount models.Account
		err := rows.Scan(
			&modelAccount.AccountID,
			&modelAccount.Code,
			&modelAccount.Name,
			&modelAccount.AccountType,
			&modelAccount.CurrencyCode,
			&modelAccount.Description,
			&modelAccount.IsActive,
			&modelAccount.CreatedAt,
			&modelAccount.CreatedBy,
			&modelAccount.LastUpdatedAt,
			&modelAccount.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts[modelAccount.AccountID] = mapping.ToDomainAccount(modelAccount)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}

	return accounts, nil
}

// ListAccounts retrieves all accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var modelAccount models.Account
		err := rows.Scan(
			&modelAccount.AccountID,
			&modelAccount.Code,
			&modelAccount.Name,
			&modelAccount.AccountType,
			&modelAccount.CurrencyCode,
			&modelAccount.Description,
			&modelAccount.IsActive,
			&modelAccount.CreatedAt,
			&modelAccount.CreatedBy,
			&modelAccount.LastUpdatedAt,
			&modelAccount.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(modelAccount))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}

	return accounts, nil
}
