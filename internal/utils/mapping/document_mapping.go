package mapping

import (
	"github.com/erpcore/ledger_engine/internal/core/domain"
	"github.com/erpcore/ledger_engine/internal/models"
)

// ToModelDocument converts a domain LedgerDocument to a model Document
func ToModelDocument(d domain.LedgerDocument) models.Document {
	return models.Document{
		DocumentID:   d.DocumentID,
		DocNumber:    d.DocNumber,
		DocumentType: string(d.DocumentType),
		DocumentDate: d.DocumentDate,
		Reference:    d.Reference,
		Description:  d.Description,
		CurrencyCode: d.CurrencyCode,
		Status:       string(d.Status),
		TotalDebit:   d.TotalDebit,
		TotalCredit:  d.TotalCredit,
		PostedAt:     d.PostedAt,
		PostedBy:     d.PostedBy,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model Document to a domain LedgerDocument
func ToDomainDocument(m models.Document) domain.LedgerDocument {
	return domain.LedgerDocument{
		DocumentID:   m.DocumentID,
		DocNumber:    m.DocNumber,
		DocumentType: domain.DocumentType(m.DocumentType),
		DocumentDate: m.DocumentDate,
		Reference:    m.Reference,
		Description:  m.Description,
		CurrencyCode: m.CurrencyCode,
		Status:       domain.DocumentStatus(m.Status),
		TotalDebit:   m.TotalDebit,
		TotalCredit:  m.TotalCredit,
		PostedAt:     m.PostedAt,
		PostedBy:     m.PostedBy,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLine converts a domain MonetaryLine to a model MonetaryLine
func ToModelLine(d domain.MonetaryLine) models.MonetaryLine {
	return models.MonetaryLine{
		LineID:      d.LineID,
		DocumentID:  d.DocumentID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLine converts a model MonetaryLine to a domain MonetaryLine
func ToDomainLine(m models.MonetaryLine) domain.MonetaryLine {
	return domain.MonetaryLine{
		LineID:      m.LineID,
		DocumentID:  m.DocumentID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineSlice converts model lines to domain lines
func ToDomainLineSlice(ms []models.MonetaryLine) []domain.MonetaryLine {
	out := make([]domain.MonetaryLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainLine(m)
	}
	return out
}
