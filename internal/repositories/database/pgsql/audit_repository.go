package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/erpcore/ledger_engine/internal/core/domain"
	portsrepo "github.com/erpcore/ledger_engine/internal/core/ports/repositories"
	"github.com/erpcore/ledger_engine/internal/models"
	"github.com/erpcore/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository implements portsrepo.AuditRepositoryFacade using PostgreSQL
type AuditRepository struct {
	BaseRepository
}

var _ portsrepo.AuditRepositoryFacade = (*AuditRepository)(nil)

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

const auditColumns = `audit_id, document_id, action, description, actor_id, occurred_at, snapshot`

// insertAuditEntry writes a single audit entry inside an existing transaction.
// Entries carry the document ID as a plain column so they outlive the
// document row itself.
func insertAuditEntry(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error {
	snapshot, err := json.Marshal(entry.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal audit snapshot: %w", err)
	}
	query := `
		INSERT INTO audit_entries (audit_id, document_id, action, description, actor_id, occurred_at, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = tx.Exec(ctx, query,
		entry.AuditID,
		entry.DocumentID,
		string(entry.Action),
		entry.Description,
		entry.ActorID,
		entry.OccurredAt,
		snapshot,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ListAuditByDocumentID retrieves the audit trail for a document, newest first.
// ULID audit IDs sort lexicographically by creation time.
func (r *AuditRepository) ListAuditByDocumentID(ctx context.Context, documentID string) ([]domain.AuditEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM audit_entries WHERE document_id = $1 ORDER BY audit_id DESC`, auditColumns)

	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var model models.AuditEntry
		var snapshot []byte
		if err := rows.Scan(
			&model.AuditID,
			&model.DocumentID,
			&model.Action,
			&model.Description,
			&model.ActorID,
			&model.OccurredAt,
			&snapshot,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(snapshot) > 0 {
			if err := json.Unmarshal(snapshot, &model.Snapshot); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit snapshot: %w", err)
			}
		}
		entries = append(entries, mapping.ToDomainAuditEntry(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating audit entries: %w", err)
	}
	return entries, nil
}
