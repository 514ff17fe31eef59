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
	"github.com/shopspring/decimal"
)

type PgxBalanceRepository struct {
	BaseRepository
}

// NewBalanceRepository creates a new repository for derived balance records.
func NewBalanceRepository(pool *pgxpool.Pool) *PgxBalanceRepository {
	return &PgxBalanceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBalanceRepository implements portsrepo.BalanceRepositoryFacade
var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

// SumPostedLines aggregates debit and credit totals across every line of every
// POSTED document referencing the account. Draft and cancelled documents never
// contribute.
func (r *PgxBalanceRepository) SumPostedLines(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM document_lines l
		JOIN documents d ON d.document_id = l.document_id
		WHERE l.account_id = $1 AND d.status = 'POSTED';
	`
	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum posted lines for account "+accountID, err)
	}
	return debit, credit, nil
}

// GetDerivedBalance retrieves the stored balance record for a scope.
func (r *PgxBalanceRepository) GetDerivedBalance(ctx context.Context, scopeKey string) (*domain.DerivedBalance, error) {
	query := `
		SELECT scope_key, currency_code, balance, total_debit, total_credit, recomputed_at
		FROM derived_balances
		WHERE scope_key = $1;
	`
	var modelBalance models.DerivedBalance
	err := r.Pool.QueryRow(ctx, query, scopeKey).Scan(
		&modelBalance.ScopeKey,
		&modelBalance.CurrencyCode,
		&modelBalance.Balance,
		&modelBalance.TotalDebit,
		&modelBalance.TotalCredit,
		&modelBalance.RecomputedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find derived balance for scope "+scopeKey, err)
	}

	domainBalance := mapping.ToDomainBalance(modelBalance)
	return &domainBalance, nil
}

// UpsertDerivedBalance overwrites the record for its scope in a single
// statement. Recomputation always produces the full record, so a plain
// column-by-column overwrite is correct.
func (r *PgxBalanceRepository) UpsertDerivedBalance(ctx context.Context, balance domain.DerivedBalance) error {
	modelBalance := mapping.ToModelBalance(balance)
	query := `
		INSERT INTO derived_balances (scope_key, currency_code, balance, total_debit, total_credit, recomputed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (scope_key)
		DO UPDATE SET currency_code = EXCLUDED.currency_code,
		              balance = EXCLUDED.balance,
		              total_debit = EXCLUDED.total_debit,
		              total_credit = EXCLUDED.total_credit,
		              recomputed_at = EXCLUDED.recomputed_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		modelBalance.ScopeKey,
		modelBalance.CurrencyCode,
		modelBalance.Balance,
		modelBalance.TotalDebit,
		modelBalance.TotalCredit,
		modelBalance.RecomputedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert derived balance for scope "+modelBalance.ScopeKey, err)
	}
	return nil
}
