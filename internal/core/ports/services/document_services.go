package services

import (
	"context"

	"github.com/erpcore/ledger_engine/internal/core/domain"
	"github.com/erpcore/ledger_engine/internal/dto"
)

// DocumentSvcFacade exposes the posting workflow to the surrounding
// application: draft creation, draft editing, the draft→posted and
// draft→cancelled transitions, draft deletion, and the audit trail.
type DocumentSvcFacade interface {
	// CreateDocument validates the proposed lines, assigns the next sequence
	// number for the document's scope (retrying on conflict), and persists
	// the draft atomically.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, actorID string) (*domain.LedgerDocument, error)

	// GetDocumentByID retrieves a document with its lines.
	GetDocumentByID(ctx context.Context, documentID string) (*domain.LedgerDocument, error)

	// ListDocuments retrieves a filtered, token-paginated page of documents.
	ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)

	// UpdateDocument edits a draft's header and lines after re-validation.
	UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, actorID string) (*domain.LedgerDocument, error)

	// PostDocument executes the draft→posted transition and notifies the
	// reconciliation service for every account on the document.
	PostDocument(ctx context.Context, documentID string, actorID string) (*domain.LedgerDocument, error)

	// CancelDocument executes the draft→cancelled transition.
	CancelDocument(ctx context.Context, documentID string, actorID string) (*domain.LedgerDocument, error)

	// DeleteDocument removes a draft. Its sequence number is never reissued.
	DeleteDocument(ctx context.Context, documentID string, actorID string) error

	// ListAuditEntries returns a document's audit trail, newest first.
	ListAuditEntries(ctx context.Context, documentID string) ([]domain.AuditEntry, error)
}
