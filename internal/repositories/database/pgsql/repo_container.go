package pgsql

import (
	portsrepo "github.com/erpcore/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		DocumentRepo: NewDocumentRepository(dbPool),
		AccountRepo:  NewAccountRepository(dbPool),
		BalanceRepo:  NewBalanceRepository(dbPool),
		AuditRepo:    NewAuditRepository(dbPool),
	}
}
