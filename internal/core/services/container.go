package services

import (
	portsrepo "github.com/erpcore/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/erpcore/ledger_engine/internal/core/ports/services"
)

// NewServiceContainer wires every service from the repository provider.
// Construction order matters: the document service depends on the account
// and balance services.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	balanceSvc := NewBalanceService(repos.BalanceRepo, repos.AccountRepo)
	documentSvc := NewDocumentService(repos.DocumentRepo, repos.AuditRepo, accountSvc, balanceSvc)

	return &portssvc.ServiceContainer{
		Document: documentSvc,
		Balance:  balanceSvc,
		Account:  accountSvc,
	}
}
