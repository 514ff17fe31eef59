package repositories

import (
	"context"

	"github.com/erpcore/ledger_engine/internal/core/domain"
)

// ListDocumentsFilter narrows a document listing.
type ListDocumentsFilter struct {
	Status       *domain.DocumentStatus
	DocumentType *domain.DocumentType
}

// DocumentReader defines read operations for ledger documents.
type DocumentReader interface {
	// FindDocumentByID retrieves a document header by its unique identifier.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.LedgerDocument, error)

	// FindLinesByDocumentID retrieves all monetary lines of a document in insertion order.
	FindLinesByDocumentID(ctx context.Context, documentID string) ([]domain.MonetaryLine, error)

	// ListDocuments retrieves a filtered, token-paginated list of documents.
	// It returns the documents, a token for the next page, and an error.
	ListDocuments(ctx context.Context, filter ListDocumentsFilter, limit int, nextToken *string) ([]domain.LedgerDocument, *string, error)
}

// DocumentWriter defines write operations for ledger documents. Every write
// persists its audit entry in the same database transaction as the mutation.
type DocumentWriter interface {
	// SaveDocument persists a new draft with its lines and the creation audit
	// entry atomically. A sequence-number collision surfaces as
	// apperrors.ErrDuplicate so the caller can retry assignment.
	SaveDocument(ctx context.Context, doc domain.LedgerDocument, lines []domain.MonetaryLine, audit domain.AuditEntry) error

	// ReplaceDraft overwrites a draft's header fields and lines. The update is
	// guarded on status = DRAFT; a non-draft row surfaces apperrors.ErrConflict.
	ReplaceDraft(ctx context.Context, doc domain.LedgerDocument, lines []domain.MonetaryLine, audit domain.AuditEntry) error

	// MarkPosted transitions a draft to POSTED, freezing totals and stamping
	// the posting actor and time. Guarded on status = DRAFT.
	MarkPosted(ctx context.Context, doc domain.LedgerDocument, audit domain.AuditEntry) error

	// MarkCancelled transitions a draft to CANCELLED. Guarded on status = DRAFT.
	MarkCancelled(ctx context.Context, doc domain.LedgerDocument, audit domain.AuditEntry) error

	// DeleteDocument removes a draft and its lines, keeping the audit trail
	// and the issued sequence number. Guarded on status = DRAFT.
	DeleteDocument(ctx context.Context, documentID string, audit domain.AuditEntry) error
}

// SequenceRepository hands out the next value of a per-scope document number
// counter. The increment is transactional (row-locked upsert) and the counter
// is seeded from the highest number already issued under the prefix, so
// values are monotonic within a scope and never handed out twice.
type SequenceRepository interface {
	NextSequenceValue(ctx context.Context, prefix string) (int64, error)
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	SequenceRepository
}
