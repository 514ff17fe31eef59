package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document mirrors the documents table.
type Document struct {
	DocumentID   string
	DocNumber    string
	DocumentType string
	DocumentDate time.Time
	Reference    string
	Description  string
	CurrencyCode string
	Status       string
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
	PostedAt     *time.Time
	PostedBy     *string
	AuditFields
}

// MonetaryLine mirrors the document_lines table.
type MonetaryLine struct {
	LineID      string
	DocumentID  string
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
	AuditFields
}
