package repositories

import (
	"context"

	"github.com/erpcore/ledger_engine/internal/core/domain"
)

// AuditRepositoryFacade reads the append-only audit trail. Writes happen
// inside the document repository's transactions so an entry can never exist
// without the mutation it describes.
type AuditRepositoryFacade interface {
	// ListAuditByDocumentID returns every entry for a document, newest first.
	ListAuditByDocumentID(ctx context.Context, documentID string) ([]domain.AuditEntry, error)
}
