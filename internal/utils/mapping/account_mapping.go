package mapping

import (
	"github.com/erpcore/ledger_engine/internal/core/domain"
	"github.com/erpcore/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		Code:         d.Code,
		Name:         d.Name,
		AccountType:  string(d.AccountType),
		CurrencyCode: d.CurrencyCode,
		Description:  d.Description,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		Code:         m.Code,
		Name:         m.Name,
		AccountType:  domain.AccountType(m.AccountType),
		CurrencyCode: m.CurrencyCode,
		Description:  m.Description,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBalance converts a domain DerivedBalance to a model DerivedBalance
func ToModelBalance(d domain.DerivedBalance) models.DerivedBalance {
	return models.DerivedBalance{
		ScopeKey:     d.ScopeKey,
		CurrencyCode: d.CurrencyCode,
		Balance:      d.Balance,
		TotalDebit:   d.TotalDebit,
		TotalCredit:  d.TotalCredit,
		RecomputedAt: d.RecomputedAt,
	}
}

// ToDomainBalance converts a model DerivedBalance to a domain DerivedBalance
func ToDomainBalance(m models.DerivedBalance) domain.DerivedBalance {
	return domain.DerivedBalance{
		ScopeKey:     m.ScopeKey,
		CurrencyCode: m.CurrencyCode,
		Balance:      m.Balance,
		TotalDebit:   m.TotalDebit,
		TotalCredit:  m.TotalCredit,
		RecomputedAt: m.RecomputedAt,
	}
}

// ToDomainAuditEntry converts a model AuditEntry to a domain AuditEntry
func ToDomainAuditEntry(m models.AuditEntry) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:     m.AuditID,
		DocumentID:  m.DocumentID,
		Action:      domain.AuditAction(m.Action),
		Description: m.Description,
		ActorID:     m.ActorID,
		OccurredAt:  m.OccurredAt,
		Snapshot:    m.Snapshot,
	}
}
