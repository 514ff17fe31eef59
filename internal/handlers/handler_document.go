package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erpcore/ledger_engine/internal/apperrors"
	"github.com/erpcore/ledger_engine/internal/core/domain"
	portssvc "github.com/erpcore/ledger_engine/internal/core/ports/services"
	"github.com/erpcore/ledger_engine/internal/core/services"
	"github.com/erpcore/ledger_engine/internal/core/validation"
	"github.com/erpcore/ledger_engine/internal/dto"
	"github.com/erpcore/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler handles HTTP requests related to ledger documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(documentService portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: documentService,
	}
}

// respondDocumentError maps service errors onto HTTP status codes. Validation
// failures return the full violation set so clients can render every problem
// of the first violated rule class at once.
func respondDocumentError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		logger.Warn("Document lines failed validation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "document lines failed validation",
			"validation": dto.ToValidationResultResponse(validationErr.Result),
		})
		return
	}

	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		logger.Warn("Invalid status transition", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
		return
	}

	var immutableErr *domain.ImmutableDocumentError
	if errors.As(err, &immutableErr) {
		logger.Warn("Attempt to mutate non-draft document", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": immutableErr.Error()})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, services.ErrNumberAssignmentFailed):
		logger.Error("Document number assignment exhausted retries", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not assign a document number, please retry"})
	case errors.Is(err, services.ErrDescriptionMissing),
		errors.Is(err, services.ErrUnknownDocumentType),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrAccountInactive),
		errors.Is(err, services.ErrCurrencyMismatch),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Rejected document request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// createDocument godoc
// @Summary Create a draft ledger document
// @Description Validates the proposed lines, assigns the next document number and persists the draft
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.CreateDocumentRequest true "Document and lines"
// @Param   X-Actor-ID header string true "Acting user"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]interface{} "Invalid request or failed validation"
// @Failure 503 {object} map[string]string "Number assignment exhausted retries"
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateDocumentRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}
	logger = logger.With(slog.String("actor_id", actorID))

	doc, err := h.documentService.CreateDocument(c.Request.Context(), createReq, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "create document")
		return
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID), slog.String("doc_number", doc.DocNumber))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// getDocument godoc
// @Summary Get a ledger document with its lines
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	doc, err := h.documentService.GetDocumentByID(c.Request.Context(), documentID)
	if err != nil {
		respondDocumentError(c, logger, err, "retrieve document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List ledger documents
// @Description Token-paginated listing, optionally filtered by status and document type
// @Tags documents
// @Produce  json
// @Param   status query string false "Filter by status" Enums(DRAFT, POSTED, CANCELLED)
// @Param   documentType query string false "Filter by document type" Enums(JOURNAL, ADJUSTMENT, PETTY_CASH)
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Router /documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListDocumentsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listDocuments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	page, err := h.documentService.ListDocuments(c.Request.Context(), params)
	if err != nil {
		respondDocumentError(c, logger, err, "list documents")
		return
	}

	c.JSON(http.StatusOK, page)
}

// updateDocument godoc
// @Summary Edit a draft document
// @Description Replaces header fields and lines of a draft after re-validation
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   document body dto.UpdateDocumentRequest true "Fields to change"
// @Param   X-Actor-ID header string true "Acting user"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]interface{} "Invalid request or failed validation"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Router /documents/{documentID} [put]
func (h *documentHandler) updateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	updateReq := dto.UpdateDocumentRequest{}
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		logger.Error("Failed to bind JSON for updateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}
	logger = logger.With(slog.String("actor_id", actorID), slog.String("document_id", documentID))

	doc, err := h.documentService.UpdateDocument(c.Request.Context(), documentID, updateReq, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "update document")
		return
	}

	logger.Info("Document updated")
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// postDocument godoc
// @Summary Post a draft document
// @Description Re-validates the draft, freezes its totals and transitions it to POSTED
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   X-Actor-ID header string true "Acting user"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]interface{} "Draft no longer passes validation"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Router /documents/{documentID}/post [post]
func (h *documentHandler) postDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}
	logger = logger.With(slog.String("actor_id", actorID), slog.String("document_id", documentID))

	doc, err := h.documentService.PostDocument(c.Request.Context(), documentID, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "post document")
		return
	}

	logger.Info("Document posted", slog.String("doc_number", doc.DocNumber))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// cancelDocument godoc
// @Summary Cancel a draft document
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   X-Actor-ID header string true "Acting user"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Router /documents/{documentID}/cancel [post]
func (h *documentHandler) cancelDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}
	logger = logger.With(slog.String("actor_id", actorID), slog.String("document_id", documentID))

	doc, err := h.documentService.CancelDocument(c.Request.Context(), documentID, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "cancel document")
		return
	}

	logger.Info("Document cancelled")
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// deleteDocument godoc
// @Summary Delete a draft document
// @Description Removes a draft and its lines; the audit trail and the issued number survive
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   X-Actor-ID header string true "Acting user"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Router /documents/{documentID} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing actor"})
		return
	}
	logger = logger.With(slog.String("actor_id", actorID), slog.String("document_id", documentID))

	if err := h.documentService.DeleteDocument(c.Request.Context(), documentID, actorID); err != nil {
		respondDocumentError(c, logger, err, "delete document")
		return
	}

	logger.Info("Document deleted")
	c.Status(http.StatusNoContent)
}

// listAuditEntries godoc
// @Summary Get the audit trail of a document
// @Description Returns every recorded action for the document, newest first. Entries outlive draft deletion.
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {array} dto.AuditEntryResponse
// @Router /documents/{documentID}/audit [get]
func (h *documentHandler) listAuditEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	entries, err := h.documentService.ListAuditEntries(c.Request.Context(), documentID)
	if err != nil {
		respondDocumentError(c, logger, err, "retrieve audit trail")
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditEntryResponses(entries))
}

// validateLines godoc
// @Summary Validate proposed lines without persisting anything
// @Description Runs the double-entry checks and returns the complete violation report
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   lines body dto.ValidateLinesRequest true "Proposed lines"
// @Success 200 {object} dto.ValidationResultResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /documents/validate [post]
func (h *documentHandler) validateLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ValidateLinesRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for validateLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := validation.ValidateLines(dto.ToValidationLines(req.Lines))
	c.JSON(http.StatusOK, dto.ToValidationResultResponse(result))
}
