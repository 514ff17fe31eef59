package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/erpcore/ledger_engine/internal/apperrors"
	"github.com/erpcore/ledger_engine/internal/core/domain"
	"github.com/erpcore/ledger_engine/internal/core/numbering"
	portsrepo "github.com/erpcore/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/erpcore/ledger_engine/internal/core/ports/services"
	"github.com/erpcore/ledger_engine/internal/core/validation"
	"github.com/erpcore/ledger_engine/internal/dto"
	"github.com/erpcore/ledger_engine/internal/middleware"
	"github.com/erpcore/ledger_engine/pkg/id"
)

var (
	ErrDescriptionMissing     = errors.New("document description is required")
	ErrUnknownDocumentType    = errors.New("unknown document type")
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrCurrencyMismatch       = errors.New("account currency does not match document currency")
	ErrNumberAssignmentFailed = errors.New("document number assignment failed after retries")
)

// maxNumberAttempts bounds the retry loop around sequence-number assignment.
// The counter increment is transactional, so a conflict only happens when a
// concurrent creator races the unique constraint on doc_number.
const maxNumberAttempts = 3

// documentService owns the posting workflow: draft creation and editing, the
// draft→posted and draft→cancelled transitions, and draft deletion.
type documentService struct {
	documentRepo portsrepo.DocumentRepositoryFacade
	auditRepo    portsrepo.AuditRepositoryFacade
	accountSvc   portssvc.AccountSvcFacade
	balanceSvc   portssvc.BalanceSvcFacade
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	documentRepo portsrepo.DocumentRepositoryFacade,
	auditRepo portsrepo.AuditRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	balanceSvc portssvc.BalanceSvcFacade,
) portssvc.DocumentSvcFacade {
	return &documentService{
		documentRepo: documentRepo,
		auditRepo:    auditRepo,
		accountSvc:   accountSvc,
		balanceSvc:   balanceSvc,
	}
}

// Ensure documentService implements the portssvc.DocumentSvcFacade interface
var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// resolveAccounts fetches the referenced accounts and checks existence,
// active state and currency compatibility against the document.
func (s *documentService) resolveAccounts(ctx context.Context, accountIDs []string, currencyCode string) (map[string]domain.Account, error) {
	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, accID := range accountIDs {
		acc, found := accountsMap[accID]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, accID)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrAccountInactive, accID)
		}
		if acc.CurrencyCode != currencyCode {
			return nil, fmt.Errorf("%w: account %s is %s, document is %s", ErrCurrencyMismatch, accID, acc.CurrencyCode, currencyCode)
		}
	}
	return accountsMap, nil
}

// CreateDocument validates the proposed lines, assigns the next sequence
// number for the scope, and persists the draft, its lines and the creation
// audit entry in one transaction.
// Implements portssvc.DocumentSvcFacade
func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, actorID string) (*domain.LedgerDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.DocumentType.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocumentType, req.DocumentType)
	}
	if req.Description == "" {
		return nil, ErrDescriptionMissing
	}

	// Balance validation (double-entry check); the full violation set is
	// carried in the returned error.
	result := validation.ValidateLines(dto.ToValidationLines(req.Lines))
	if err := result.Err(); err != nil {
		return nil, err
	}

	// Build domain lines from the surviving request lines.
	now := time.Now().UTC()
	documentID := uuid.NewString()
	lines := make([]domain.MonetaryLine, 0, len(req.Lines))
	for _, lineReq := range req.Lines {
		if lineReq.Remove {
			continue
		}
		lines = append(lines, domain.MonetaryLine{
			LineID:      uuid.NewString(),
			DocumentID:  documentID,
			AccountID:   lineReq.AccountID,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			Description: lineReq.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		})
	}

	if _, err := s.resolveAccounts(ctx, domain.AccountIDs(lines), req.CurrencyCode); err != nil {
		logger.Warn("Account resolution failed for CreateDocument", slog.String("error", err.Error()))
		return nil, err
	}

	doc := domain.LedgerDocument{
		DocumentID:   documentID,
		DocumentType: req.DocumentType,
		DocumentDate: req.DocumentDate,
		Reference:    req.Reference,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.Draft,
		TotalDebit:   result.TotalDebit,
		TotalCredit:  result.TotalCredit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	// Assign the sequence number and persist, retrying on a number collision.
	// The sequence row is the authority; the unique constraint on doc_number
	// is the backstop for racing creators.
	prefix := numbering.ScopePrefix(req.DocumentType.NumberPrefix(), req.DocumentDate.Year())
	var saveErr error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		value, err := s.documentRepo.NextSequenceValue(ctx, prefix)
		if err != nil {
			logger.Error("Failed to advance document sequence", slog.String("prefix", prefix), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to advance document sequence for %s: %w", prefix, err)
		}
		doc.DocNumber = numbering.FormatNumber(prefix, req.DocumentType.NumberWidth(), value)

		audit := newAuditEntry(doc.DocumentID, domain.AuditCreated, actorID, now,
			fmt.Sprintf("Document %s created as draft", doc.DocNumber), nil)

		saveErr = s.documentRepo.SaveDocument(ctx, doc, lines, audit)
		if saveErr == nil {
			break
		}
		if !errors.Is(saveErr, apperrors.ErrDuplicate) {
			logger.Error("Failed to save document", slog.String("error", saveErr.Error()))
			return nil, fmt.Errorf("failed to save document: %w", saveErr)
		}
		logger.Warn("Document number collision, retrying assignment",
			slog.String("doc_number", doc.DocNumber), slog.Int("attempt", attempt))
	}
	if saveErr != nil {
		return nil, fmt.Errorf("%w: scope %s", ErrNumberAssignmentFailed, prefix)
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID), slog.String("doc_number", doc.DocNumber))
	doc.Lines = lines
	return &doc, nil
}

// GetDocumentByID retrieves a document together with its lines.
// Implements portssvc.DocumentSvcFacade
func (s *documentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.LedgerDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find document by ID", slog.String("error", err.Error()), slog.String("document_id", documentID))
		}
		return nil, err
	}

	lines, err := s.documentRepo.FindLinesByDocumentID(ctx, documentID)
	if err != nil {
		logger.Error("Failed to fetch lines for document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to retrieve lines for document %s: %w", documentID, apperrors.ErrInternal)
	}
	doc.Lines = lines
	return doc, nil
}

// ListDocuments retrieves a filtered, token-paginated page of documents.
// Implements portssvc.DocumentSvcFacade
func (s *documentService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	filter := portsrepo.ListDocumentsFilter{
		Status:       params.Status,
		DocumentType: params.DocumentType,
	}
	docs, nextToken, err := s.documentRepo.ListDocuments(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list documents from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve documents: %w", err)
	}

	responses := make([]dto.DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = dto.ToDocumentResponse(&docs[i])
	}
	logger.Debug("Documents listed", slog.Int("count", len(docs)))
	return &dto.ListDocumentsResponse{Documents: responses, NextToken: nextToken}, nil
}

// UpdateDocument edits a draft's header fields and, when lines are supplied,
// replaces its lines after re-validation. Non-draft documents are immutable.
// Implements portssvc.DocumentSvcFacade
func (s *documentService) UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, actorID string) (*domain.LedgerDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.Draft {
		return nil, &domain.ImmutableDocumentError{DocumentID: documentID, Status: doc.Status}
	}

	before := map[string]any{
		"documentDate": doc.DocumentDate,
		"reference":    doc.Reference,
		"description":  doc.Description,
	}

	updated := false
	if req.DocumentDate != nil {
		doc.DocumentDate = *req.DocumentDate
		updated = true
	}
	if req.Reference != nil {
		doc.Reference = *req.Reference
		updated = true
	}
	if req.Description != nil {
		if *req.Description == "" {
			return nil, ErrDescriptionMissing
		}
		doc.Description = *req.Description
		updated = true
	}

	now := time.Now().UTC()
	var lines []domain.MonetaryLine
	if req.Lines != nil {
		result := validation.ValidateLines(dto.ToValidationLines(req.Lines))
		if err := result.Err(); err != nil {
			return nil, err
		}
		lines = make([]domain.MonetaryLine, 0, len(req.Lines))
		for _, lineReq := range req.Lines {
			if lineReq.Remove {
				continue
			}
			lines = append(lines, domain.MonetaryLine{
				LineID:      uuid.NewString(),
				DocumentID:  documentID,
				AccountID:   lineReq.AccountID,
				Debit:       lineReq.Debit,
				Credit:      lineReq.Credit,
				Description: lineReq.Description,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     actorID,
					LastUpdatedAt: now,
					LastUpdatedBy: actorID,
				},
			})
		}
		if _, err := s.resolveAccounts(ctx, domain.AccountIDs(lines), doc.CurrencyCode); err != nil {
			return nil, err
		}
		doc.TotalDebit = result.TotalDebit
		doc.TotalCredit = result.TotalCredit
		updated = true
	} else {
		lines, err = s.documentRepo.FindLinesByDocumentID(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve lines for document %s: %w", documentID, err)
		}
	}

	if !updated {
		logger.Debug("No fields provided for document update", slog.String("document_id", documentID))
		doc.Lines = lines
		return doc, nil
	}

	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorID

	after := map[string]any{
		"documentDate": doc.DocumentDate,
		"reference":    doc.Reference,
		"description":  doc.Description,
	}
	audit := newAuditEntry(documentID, domain.AuditUpdated, actorID, now,
		fmt.Sprintf("Document %s updated", doc.DocNumber),
		map[string]any{"before": before, "after": after})

	if err := s.documentRepo.ReplaceDraft(ctx, *doc, lines, audit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost a race with a concurrent transition.
			return nil, &domain.ImmutableDocumentError{DocumentID: documentID, Status: doc.Status}
		}
		logger.Error("Failed to save document update", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to save document update: %w", err)
	}

	logger.Info("Document updated", slog.String("document_id", documentID))
	doc.Lines = lines
	return doc, nil
}

// PostDocument executes the draft→posted transition: re-validates the current
// lines, freezes the validated totals, stamps the posting actor and time, and
// appends the posted audit entry, all in one transaction. After the commit it
// notifies the reconciliation service for every distinct account referenced
// by the document's lines.
// Implements portssvc.DocumentSvcFacade
func (s *documentService) PostDocument(ctx context.Context, documentID string, actorID string) (*domain.LedgerDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.Status.CanTransitionTo(domain.Posted) {
		logger.Warn("Attempted to post non-draft document", slog.String("document_id", documentID), slog.String("status", string(doc.Status)))
		return nil, &domain.InvalidTransitionError{DocumentID: documentID, From: doc.Status, To: domain.Posted}
	}

	lines, err := s.documentRepo.FindLinesByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for document %s: %w", documentID, err)
	}

	// Validation strictly precedes the status transition; totals are frozen
	// from the validated sums, not recomputed later.
	result := validation.ValidateLines(validation.FromDomainLines(lines))
	if err := result.Err(); err != nil {
		logger.Warn("Posting rejected by balance validation", slog.String("document_id", documentID), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	prevStatus := doc.Status
	doc.Status = domain.Posted
	doc.TotalDebit = result.TotalDebit
	doc.TotalCredit = result.TotalCredit
	doc.PostedAt = &now
	doc.PostedBy = &actorID
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorID

	audit := newAuditEntry(documentID, domain.AuditPosted, actorID, now,
		fmt.Sprintf("Document %s posted", doc.DocNumber),
		statusSnapshot(prevStatus, domain.Posted))

	if err := s.documentRepo.MarkPosted(ctx, *doc, audit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, &domain.InvalidTransitionError{DocumentID: documentID, From: prevStatus, To: domain.Posted}
		}
		logger.Error("Failed to mark document posted", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to post document: %w", err)
	}

	logger.Info("Document posted", slog.String("document_id", documentID), slog.String("doc_number", doc.DocNumber))

	// Reconciliation operates on committed state and is best-effort: a
	// failure here never unwinds the posting.
	s.balanceSvc.NotifyPosted(ctx, domain.AccountIDs(lines))

	doc.Lines = lines
	return doc, nil
}

// CancelDocument executes the draft→cancelled transition. A posted document
// cannot be cancelled; it can only be neutralised by a reversing document.
// Implements portssvc.DocumentSvcFacade
func (s *documentService) CancelDocument(ctx context.Context, documentID string, actorID string) (*domain.LedgerDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.Status.CanTransitionTo(domain.Cancelled) {
		logger.Warn("Attempted to cancel document in disallowed state", slog.String("document_id", documentID), slog.String("status", string(doc.Status)))
		return nil, &domain.InvalidTransitionError{DocumentID: documentID, From: doc.Status, To: domain.Cancelled}
	}

	now := time.Now().UTC()
	prevStatus := doc.Status
	doc.Status = domain.Cancelled
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorID

	audit := newAuditEntry(documentID, domain.AuditCancelled, actorID, now,
		fmt.Sprintf("Document %s cancelled", doc.DocNumber),
		statusSnapshot(prevStatus, domain.Cancelled))

	if err := s.documentRepo.MarkCancelled(ctx, *doc, audit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, &domain.InvalidTransitionError{DocumentID: documentID, From: prevStatus, To: domain.Cancelled}
		}
		logger.Error("Failed to mark document cancelled", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to cancel document: %w", err)
	}

	logger.Info("Document cancelled", slog.String("document_id", documentID))
	return doc, nil
}

// DeleteDocument removes a draft together with its lines. The audit trail and
// the issued sequence number survive; a deleted draft's number is never
// reissued.
// Implements portssvc.DocumentSvcFacade
func (s *documentService) DeleteDocument(ctx context.Context, documentID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.Status != domain.Draft {
		logger.Warn("Attempted to delete non-draft document", slog.String("document_id", documentID), slog.String("status", string(doc.Status)))
		return &domain.ImmutableDocumentError{DocumentID: documentID, Status: doc.Status}
	}

	now := time.Now().UTC()
	audit := newAuditEntry(documentID, domain.AuditDeleted, actorID, now,
		fmt.Sprintf("Draft %s deleted", doc.DocNumber), nil)

	if err := s.documentRepo.DeleteDocument(ctx, documentID, audit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return &domain.ImmutableDocumentError{DocumentID: documentID, Status: doc.Status}
		}
		logger.Error("Failed to delete document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return fmt.Errorf("failed to delete document: %w", err)
	}

	logger.Info("Draft deleted", slog.String("document_id", documentID), slog.String("doc_number", doc.DocNumber))
	return nil
}

// ListAuditEntries returns a document's audit trail, newest first.
// Implements portssvc.DocumentSvcFacade
func (s *documentService) ListAuditEntries(ctx context.Context, documentID string) ([]domain.AuditEntry, error) {
	return s.auditRepo.ListAuditByDocumentID(ctx, documentID)
}

// newAuditEntry builds one append-only trail record. ULIDs keep entries
// time-sortable.
func newAuditEntry(documentID string, action domain.AuditAction, actorID string, at time.Time, description string, snapshot map[string]any) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:     id.New(),
		DocumentID:  documentID,
		Action:      action,
		Description: description,
		ActorID:     actorID,
		OccurredAt:  at,
		Snapshot:    snapshot,
	}
}

func statusSnapshot(from, to domain.DocumentStatus) map[string]any {
	return map[string]any{
		"before": map[string]any{"status": string(from)},
		"after":  map[string]any{"status": string(to)},
	}
}
