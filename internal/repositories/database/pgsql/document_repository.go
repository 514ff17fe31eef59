package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/erpcore/ledger_engine/internal/apperrors"
	"github.com/erpcore/ledger_engine/internal/core/domain"
	portsrepo "github.com/erpcore/ledger_engine/internal/core/ports/repositories"
	"github.com/erpcore/ledger_engine/internal/models"
	"github.com/erpcore/ledger_engine/internal/utils/mapping"
	"github.com/erpcore/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDocumentRepository struct {
	BaseRepository
}

// NewDocumentRepository creates a new repository for ledger documents and their lines.
func NewDocumentRepository(pool *pgxpool.Pool) *PgxDocumentRepository {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentRepositoryFacade
var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentColumns = `
	document_id, doc_number, document_type, document_date, reference, description,
	currency_code, status, total_debit, total_credit, posted_at, posted_by,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveDocument persists a new draft, its lines and the creation audit entry
// within a single DB transaction. A doc_number collision is mapped to
// apperrors.ErrDuplicate so the service can retry number assignment.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.LedgerDocument, lines []domain.MonetaryLine, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored if the transaction is committed successfully
	defer r.Rollback(ctx, tx)

	modelDoc := mapping.ToModelDocument(doc)
	docQuery := `
		INSERT INTO documents (
			document_id, doc_number, document_type, document_date, reference, description,
			currency_code, status, total_debit, total_credit, posted_at, posted_by,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, docQuery,
		modelDoc.DocumentID,
		modelDoc.DocNumber,
		modelDoc.DocumentType,
		modelDoc.DocumentDate,
		modelDoc.Reference,
		modelDoc.Description,
		modelDoc.CurrencyCode,
		modelDoc.Status,
		modelDoc.TotalDebit,
		modelDoc.TotalCredit,
		modelDoc.PostedAt,
		modelDoc.PostedBy,
		modelDoc.CreatedAt,
		modelDoc.CreatedBy,
		modelDoc.LastUpdatedAt,
		modelDoc.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert document "+modelDoc.DocumentID, err)
	}

	if err := insertLines(ctx, tx, lines); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for document "+modelDoc.DocumentID, err)
	}

	if err := insertAuditEntry(ctx, tx, audit); err != nil {
		return apperrors.NewAppError(500, "failed to record audit for document "+modelDoc.DocumentID, err)
	}

	return r.Commit(ctx, tx)
}

// insertLines queues a batch insert for all monetary lines.
func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.MonetaryLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO document_lines (line_id, document_id, account_id, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.DocumentID,
			modelLine.AccountID,
			modelLine.Debit,
			modelLine.Credit,
			modelLine.Description,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	return br.Close()
}

// ReplaceDraft overwrites a draft's header fields and replaces its lines.
// The update is guarded on status = DRAFT; losing the guard surfaces
// apperrors.ErrConflict so the service can report the document immutable.
func (r *PgxDocumentRepository) ReplaceDraft(ctx context.Context, doc domain.LedgerDocument, lines []domain.MonetaryLine, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelDoc := mapping.ToModelDocument(doc)
	updateQuery := `
		UPDATE documents
		SET document_date = $2, reference = $3, description = $4,
		    total_debit = $5, total_credit = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE document_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, updateQuery,
		modelDoc.DocumentID,
		modelDoc.DocumentDate,
		modelDoc.Reference,
		modelDoc.Description,
		modelDoc.TotalDebit,
		modelDoc.TotalCredit,
		modelDoc.LastUpdatedAt,
		modelDoc.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update document "+modelDoc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		// Row exists but is no longer a draft, or vanished under us.
		return apperrors.ErrConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1;`, modelDoc.DocumentID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines for document "+modelDoc.DocumentID, err)
	}
	if err := insertLines(ctx, tx, lines); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for document "+modelDoc.DocumentID, err)
	}

	if err := insertAuditEntry(ctx, tx, audit); err != nil {
		return apperrors.NewAppError(500, "failed to record audit for document "+modelDoc.DocumentID, err)
	}

	return r.Commit(ctx, tx)
}

// MarkPosted transitions a draft to POSTED, freezing totals and stamping the
// posting actor and time. Guarded on status = DRAFT.
func (r *PgxDocumentRepository) MarkPosted(ctx context.Context, doc domain.LedgerDocument, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelDoc := mapping.ToModelDocument(doc)
	query := `
		UPDATE documents
		SET status = $2, total_debit = $3, total_credit = $4,
		    posted_at = $5, posted_by = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE document_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, query,
		modelDoc.DocumentID,
		modelDoc.Status,
		modelDoc.TotalDebit,
		modelDoc.TotalCredit,
		modelDoc.PostedAt,
		modelDoc.PostedBy,
		modelDoc.LastUpdatedAt,
		modelDoc.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to post document "+modelDoc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := insertAuditEntry(ctx, tx, audit); err != nil {
		return apperrors.NewAppError(500, "failed to record audit for document "+modelDoc.DocumentID, err)
	}

	return r.Commit(ctx, tx)
}

// MarkCancelled transitions a draft to CANCELLED. Guarded on status = DRAFT.
func (r *PgxDocumentRepository) MarkCancelled(ctx context.Context, doc domain.LedgerDocument, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelDoc := mapping.ToModelDocument(doc)
	query := `
		UPDATE documents
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, query,
		modelDoc.DocumentID,
		modelDoc.Status,
		modelDoc.LastUpdatedAt,
		modelDoc.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to cancel document "+modelDoc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := insertAuditEntry(ctx, tx, audit); err != nil {
		return apperrors.NewAppError(500, "failed to record audit for document "+modelDoc.DocumentID, err)
	}

	return r.Commit(ctx, tx)
}

// DeleteDocument removes a draft and its lines. The audit entry is written in
// the same transaction and survives because audit_entries carries no foreign
// key to documents. The issued doc_number stays consumed: the sequence counter
// never moves backwards.
func (r *PgxDocumentRepository) DeleteDocument(ctx context.Context, documentID string, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1;`, documentID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for document "+documentID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM documents WHERE document_id = $1 AND status = 'DRAFT';`, documentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete document "+documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := insertAuditEntry(ctx, tx, audit); err != nil {
		return apperrors.NewAppError(500, "failed to record audit for document "+documentID, err)
	}

	return r.Commit(ctx, tx)
}

// NextSequenceValue atomically increments and returns the counter for a number
// prefix. A missing counter row is seeded from the highest suffix already
// issued under the prefix, so numbers deleted with their drafts are never
// reissued. The upsert row-locks the counter, serialising concurrent callers.
func (r *PgxDocumentRepository) NextSequenceValue(ctx context.Context, prefix string) (int64, error) {
	query := `
		INSERT INTO document_sequences (prefix, last_value)
		VALUES ($1, COALESCE((
			SELECT MAX(CAST(SUBSTRING(doc_number FROM CHAR_LENGTH($1) + 1) AS BIGINT))
			FROM documents
			WHERE doc_number LIKE $1 || '%'
		), 0) + 1)
		ON CONFLICT (prefix)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := r.Pool.QueryRow(ctx, query, prefix).Scan(&value); err != nil {
		return 0, apperrors.NewAppError(500, "failed to advance sequence for prefix "+prefix, err)
	}
	return value, nil
}

// FindDocumentByID retrieves a document header by its ID.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.LedgerDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1;`

	var modelDoc models.Document
	var postedAt sql.NullTime
	var postedBy sql.NullString

	err := r.Pool.QueryRow(ctx, query, documentID).Scan(
		&modelDoc.DocumentID,
		&modelDoc.DocNumber,
		&modelDoc.DocumentType,
		&modelDoc.DocumentDate,
		&modelDoc.Reference,
		&modelDoc.Description,
		&modelDoc.CurrencyCode,
		&modelDoc.Status,
		&modelDoc.TotalDebit,
		&modelDoc.TotalCredit,
		&postedAt,
		&postedBy,
		&modelDoc.CreatedAt,
		&modelDoc.CreatedBy,
		&modelDoc.LastUpdatedAt,
		&modelDoc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find document by ID "+documentID, err)
	}

	if postedAt.Valid {
		modelDoc.PostedAt = &postedAt.Time
	}
	if postedBy.Valid {
		modelDoc.PostedBy = &postedBy.String
	}

	domainDoc := mapping.ToDomainDocument(modelDoc)
	return &domainDoc, nil
}

// FindLinesByDocumentID retrieves all monetary lines of a document in insertion order.
func (r *PgxDocumentRepository) FindLinesByDocumentID(ctx context.Context, documentID string) ([]domain.MonetaryLine, error) {
	query := `
		SELECT line_id, document_id, account_id, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by
		FROM document_lines
		WHERE document_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for document "+documentID, err)
	}
	defer rows.Close()

	lines := []models.MonetaryLine{}
	for rows.Next() {
		var l models.MonetaryLine
		err := rows.Scan(
			&l.LineID,
			&l.DocumentID,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.Description,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for document "+documentID, err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for document "+documentID, err)
	}

	return mapping.ToDomainLineSlice(lines), nil
}

// ListDocuments retrieves a paginated list of document headers using token-based
// pagination, optionally narrowed by status and document type.
// It returns the documents, a token for the next page, and an error.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.ListDocumentsFilter, limit int, nextToken *string) ([]domain.LedgerDocument, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine whether there is a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		baseQuery += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.DocumentType != nil {
		args = append(args, string(*filter.DocumentType))
		baseQuery += ` AND document_type = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastDocumentDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		// Tuple comparison keeps the cursor condition concise and index-friendly
		args = append(args, lastDocumentDate, lastCreatedAt)
		baseQuery += ` AND (document_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	// Ordering must be stable: document_date DESC with created_at as tie-breaker
	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY document_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query documents", err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0, fetchLimit)
	for rows.Next() {
		var d models.Document
		var postedAt sql.NullTime
		var postedBy sql.NullString
		err := rows.Scan(
			&d.DocumentID,
			&d.DocNumber,
			&d.DocumentType,
			&d.DocumentDate,
			&d.Reference,
			&d.Description,
			&d.CurrencyCode,
			&d.Status,
			&d.TotalDebit,
			&d.TotalCredit,
			&postedAt,
			&postedBy,
			&d.CreatedAt,
			&d.CreatedBy,
			&d.LastUpdatedAt,
			&d.LastUpdatedBy,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan document row", err)
		}
		if postedAt.Valid {
			d.PostedAt = &postedAt.Time
		}
		if postedBy.Valid {
			d.PostedBy = &postedBy.String
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating document rows", err)
	}

	var nextTokenVal *string
	if len(docs) > limit {
		last := docs[limit-1]
		token := pagination.EncodeToken(last.DocumentDate, last.CreatedAt)
		nextTokenVal = &token
		docs = docs[:limit]
	}

	result := make([]domain.LedgerDocument, len(docs))
	for i, d := range docs {
		result[i] = mapping.ToDomainDocument(d)
	}
	return result, nextTokenVal, nil
}
