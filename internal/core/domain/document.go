package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentStatus indicates the lifecycle state of a ledger document.
type DocumentStatus string

const (
	Draft     DocumentStatus = "DRAFT"
	Posted    DocumentStatus = "POSTED"
	Cancelled DocumentStatus = "CANCELLED"
)

// allowedTransitions defines the valid lifecycle moves. POSTED and CANCELLED
// are terminal: a posted document can only be neutralised by a reversing
// document, never by a status change.
var allowedTransitions = map[DocumentStatus][]DocumentStatus{
	Draft:     {Posted, Cancelled},
	Posted:    {},
	Cancelled: {},
}

// CanTransitionTo reports whether the status machine permits moving to target.
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from this status.
func (s DocumentStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// DocumentType identifies the accounting subsystem a document belongs to.
// Each type carries its own numbering prefix and suffix width.
type DocumentType string

const (
	Journal    DocumentType = "JOURNAL"
	Adjustment DocumentType = "ADJUSTMENT"
	PettyCash  DocumentType = "PETTY_CASH"
)

// numberingSpec describes how sequence numbers are rendered for a type.
type numberingSpec struct {
	prefix string
	width  int
}

var numberingSpecs = map[DocumentType]numberingSpec{
	Journal:    {prefix: "JV", width: 6},
	Adjustment: {prefix: "ADJ", width: 4},
	PettyCash:  {prefix: "PCV", width: 5},
}

// NumberPrefix returns the fixed tag used in this type's document numbers.
func (t DocumentType) NumberPrefix() string {
	return numberingSpecs[t].prefix
}

// NumberWidth returns the zero-padded suffix width for this type.
func (t DocumentType) NumberWidth() int {
	return numberingSpecs[t].width
}

// IsValid reports whether t is a known document type.
func (t DocumentType) IsValid() bool {
	_, ok := numberingSpecs[t]
	return ok
}

// LedgerDocument is an aggregate of monetary lines plus lifecycle state. Once
// posted, the document and its lines are immutable and the cached totals are
// frozen from the validated sums.
type LedgerDocument struct {
	DocumentID   string          `json:"documentID"` // Primary Key (UUID)
	DocNumber    string          `json:"docNumber"`  // Human-readable sequence number, unique, immutable
	DocumentType DocumentType    `json:"documentType"`
	DocumentDate time.Time       `json:"documentDate"`
	Reference    string          `json:"reference"`   // Free-text external reference
	Description  string          `json:"description"` // Narration
	CurrencyCode string          `json:"currencyCode"`
	Status       DocumentStatus  `json:"status"`
	TotalDebit   decimal.Decimal `json:"totalDebit"`  // Cached; frozen at posting
	TotalCredit  decimal.Decimal `json:"totalCredit"` // Cached; frozen at posting
	PostedAt     *time.Time      `json:"postedAt,omitempty"`
	PostedBy     *string         `json:"postedBy,omitempty"` // Actor reference
	Lines        []MonetaryLine  `json:"lines,omitempty"`
	AuditFields
}

// MonetaryLine is a single debit-or-credit amount against an account within a
// document. Exactly one of Debit/Credit is positive; the other is zero.
type MonetaryLine struct {
	LineID      string          `json:"lineID"`     // Primary Key (UUID)
	DocumentID  string          `json:"documentID"` // FK -> LedgerDocument
	AccountID   string          `json:"accountID"`  // FK -> Account
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l MonetaryLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the nonzero side of the line.
func (l MonetaryLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// AccountIDs returns the distinct account references across the given lines,
// in first-seen order.
func AccountIDs(lines []MonetaryLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			ids = append(ids, line.AccountID)
		}
	}
	return ids
}

// InvalidTransitionError reports a lifecycle move the status machine forbids.
type InvalidTransitionError struct {
	DocumentID string
	From       DocumentStatus
	To         DocumentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s for document %s", e.From, e.To, e.DocumentID)
}

// ImmutableDocumentError reports an attempt to mutate a non-draft document.
type ImmutableDocumentError struct {
	DocumentID string
	Status     DocumentStatus
}

func (e *ImmutableDocumentError) Error() string {
	return fmt.Sprintf("document %s is immutable in status %s", e.DocumentID, e.Status)
}
