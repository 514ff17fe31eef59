package dto

import (
	"time"

	"github.com/erpcore/ledger_engine/internal/core/domain"
	"github.com/erpcore/ledger_engine/internal/core/validation"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one proposed monetary line. Exactly one of debit and
// credit must be positive; the validator reports the complete violation set.
type CreateLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	Remove      bool            `json:"remove,omitempty"` // Marks a line for deletion on update
}

// CreateDocumentRequest is the payload for creating a draft document.
type CreateDocumentRequest struct {
	DocumentType domain.DocumentType `json:"documentType" binding:"required"`
	DocumentDate time.Time           `json:"documentDate" binding:"required"`
	Reference    string              `json:"reference"`
	Description  string              `json:"description" binding:"required"`
	CurrencyCode string              `json:"currencyCode" binding:"required,len=3"`
	Lines        []CreateLineRequest `json:"lines" binding:"required,dive"`
}

// UpdateDocumentRequest edits a draft. Nil header fields are left untouched;
// a non-nil Lines slice replaces the draft's lines wholesale (entries with
// Remove set are dropped before validation).
type UpdateDocumentRequest struct {
	DocumentDate *time.Time          `json:"documentDate,omitempty"`
	Reference    *string             `json:"reference,omitempty"`
	Description  *string             `json:"description,omitempty"`
	Lines        []CreateLineRequest `json:"lines,omitempty" binding:"omitempty,dive"`
}

// ToValidationLines adapts request lines for the balance validator.
func ToValidationLines(lines []CreateLineRequest) []validation.Line {
	out := make([]validation.Line, len(lines))
	for i, l := range lines {
		out[i] = validation.Line{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Remove:    l.Remove,
		}
	}
	return out
}

// ListDocumentsParams holds the filters and pagination of a document listing.
type ListDocumentsParams struct {
	Status       *domain.DocumentStatus `form:"status"`
	DocumentType *domain.DocumentType   `form:"documentType"`
	Limit        int                    `form:"limit"`
	NextToken    *string                `form:"nextToken"`
}

// LineResponse is the API shape of a monetary line.
type LineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// DocumentResponse is the API shape of a ledger document.
type DocumentResponse struct {
	DocumentID   string                `json:"documentID"`
	DocNumber    string                `json:"docNumber"`
	DocumentType domain.DocumentType   `json:"documentType"`
	DocumentDate time.Time             `json:"documentDate"`
	Reference    string                `json:"reference,omitempty"`
	Description  string                `json:"description"`
	CurrencyCode string                `json:"currencyCode"`
	Status       domain.DocumentStatus `json:"status"`
	TotalDebit   decimal.Decimal       `json:"totalDebit"`
	TotalCredit  decimal.Decimal       `json:"totalCredit"`
	PostedAt     *time.Time            `json:"postedAt,omitempty"`
	PostedBy     *string               `json:"postedBy,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	CreatedBy    string                `json:"createdBy"`
	Lines        []LineResponse        `json:"lines,omitempty"`
}

// ToDocumentResponse converts a domain document to its API shape.
func ToDocumentResponse(d *domain.LedgerDocument) DocumentResponse {
	resp := DocumentResponse{
		DocumentID:   d.DocumentID,
		DocNumber:    d.DocNumber,
		DocumentType: d.DocumentType,
		DocumentDate: d.DocumentDate,
		Reference:    d.Reference,
		Description:  d.Description,
		CurrencyCode: d.CurrencyCode,
		Status:       d.Status,
		TotalDebit:   d.TotalDebit,
		TotalCredit:  d.TotalCredit,
		PostedAt:     d.PostedAt,
		PostedBy:     d.PostedBy,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
	if len(d.Lines) > 0 {
		resp.Lines = make([]LineResponse, len(d.Lines))
		for i, l := range d.Lines {
			resp.Lines[i] = LineResponse{
				LineID:      l.LineID,
				AccountID:   l.AccountID,
				Debit:       l.Debit,
				Credit:      l.Credit,
				Description: l.Description,
			}
		}
	}
	return resp
}

// ListDocumentsResponse is one page of documents plus the token for the next.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ValidateLinesRequest is the payload of the pure validation endpoint.
type ValidateLinesRequest struct {
	Lines []CreateLineRequest `json:"lines" binding:"required,dive"`
}

// ValidationResultResponse mirrors validation.Result for API consumers.
type ValidationResultResponse struct {
	OK          bool                   `json:"ok"`
	Violations  []validation.Violation `json:"violations"`
	TotalDebit  decimal.Decimal        `json:"totalDebit"`
	TotalCredit decimal.Decimal        `json:"totalCredit"`
}

// ToValidationResultResponse converts a validator result to its API shape.
func ToValidationResultResponse(r validation.Result) ValidationResultResponse {
	violations := r.Violations
	if violations == nil {
		violations = []validation.Violation{}
	}
	return ValidationResultResponse{
		OK:          r.OK(),
		Violations:  violations,
		TotalDebit:  r.TotalDebit,
		TotalCredit: r.TotalCredit,
	}
}
