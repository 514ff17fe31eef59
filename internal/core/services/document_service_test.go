package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erpcore/ledger_engine/internal/apperrors"
	"github.com/erpcore/ledger_engine/internal/core/domain"
	portsrepo "github.com/erpcore/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/erpcore/ledger_engine/internal/core/ports/services"
	"github.com/erpcore/ledger_engine/internal/core/services"
	"github.com/erpcore/ledger_engine/internal/core/validation"
	"github.com/erpcore/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockDocumentRepository is a mock type for the DocumentRepositoryFacade interface
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.LedgerDocument, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindLinesByDocumentID(ctx context.Context, documentID string) ([]domain.MonetaryLine, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonetaryLine), args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.ListDocumentsFilter, limit int, nextToken *string) ([]domain.LedgerDocument, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var docs []domain.LedgerDocument
	if args.Get(0) != nil {
		docs = args.Get(0).([]domain.LedgerDocument)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return docs, token, args.Error(2)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.LedgerDocument, lines []domain.MonetaryLine, audit domain.AuditEntry) error {
	args := m.Called(ctx, doc, lines, audit)
	return args.Error(0)
}

func (m *MockDocumentRepository) ReplaceDraft(ctx context.Context, doc domain.LedgerDocument, lines []domain.MonetaryLine, audit domain.AuditEntry) error {
	args := m.Called(ctx, doc, lines, audit)
	return args.Error(0)
}

func (m *MockDocumentRepository) MarkPosted(ctx context.Context, doc domain.LedgerDocument, audit domain.AuditEntry) error {
	args := m.Called(ctx, doc, audit)
	return args.Error(0)
}

func (m *MockDocumentRepository) MarkCancelled(ctx context.Context, doc domain.LedgerDocument, audit domain.AuditEntry) error {
	args := m.Called(ctx, doc, audit)
	return args.Error(0)
}

func (m *MockDocumentRepository) DeleteDocument(ctx context.Context, documentID string, audit domain.AuditEntry) error {
	args := m.Called(ctx, documentID, audit)
	return args.Error(0)
}

func (m *MockDocumentRepository) NextSequenceValue(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditRepository is a mock type for the AuditRepositoryFacade interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) ListAuditByDocumentID(ctx context.Context, documentID string) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

// MockAccountService is a mock type for the AccountSvcFacade interface
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// MockBalanceService is a mock type for the BalanceSvcFacade interface
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) Recompute(ctx context.Context, accountID string) (*domain.DerivedBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DerivedBalance), args.Error(1)
}

func (m *MockBalanceService) GetBalance(ctx context.Context, accountID string) (*domain.DerivedBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DerivedBalance), args.Error(1)
}

func (m *MockBalanceService) NotifyPosted(ctx context.Context, accountIDs []string) {
	m.Called(ctx, accountIDs)
}

// --- Test Suite Setup ---

type DocumentServiceTestSuite struct {
	suite.Suite
	mockDocRepo    *MockDocumentRepository
	mockAuditRepo  *MockAuditRepository
	mockAccountSvc *MockAccountService
	mockBalanceSvc *MockBalanceService
	service        portssvc.DocumentSvcFacade
	actorID        string
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockDocRepo = new(MockDocumentRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.service = services.NewDocumentService(suite.mockDocRepo, suite.mockAuditRepo, suite.mockAccountSvc, suite.mockBalanceSvc)
	suite.actorID = uuid.NewString()
}

func (suite *DocumentServiceTestSuite) activeAccounts(ids ...string) map[string]domain.Account {
	accounts := make(map[string]domain.Account, len(ids))
	for _, accID := range ids {
		accounts[accID] = domain.Account{
			AccountID:    accID,
			AccountType:  domain.Asset,
			CurrencyCode: "USD",
			IsActive:     true,
		}
	}
	return accounts
}

func (suite *DocumentServiceTestSuite) balancedRequest() dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{
		DocumentType: domain.Journal,
		DocumentDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Description:  "March office rent",
		CurrencyCode: "USD",
		Lines: []dto.CreateLineRequest{
			{AccountID: "acc-rent", Debit: decimal.NewFromInt(1200)},
			{AccountID: "acc-bank", Credit: decimal.NewFromInt(1200)},
		},
	}
}

// --- Test Cases ---

func (suite *DocumentServiceTestSuite) TestCreateDocument_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, []string{"acc-rent", "acc-bank"}).
		Return(suite.activeAccounts("acc-rent", "acc-bank"), nil).Once()
	suite.mockDocRepo.On("NextSequenceValue", ctx, "JV-2026-").Return(int64(1), nil).Once()
	suite.mockDocRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.LedgerDocument"), mock.Anything, mock.AnythingOfType("domain.AuditEntry")).
		Return(nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(doc)
	suite.Equal("JV-2026-000001", doc.DocNumber)
	suite.Equal(domain.Draft, doc.Status)
	suite.True(doc.TotalDebit.Equal(decimal.NewFromInt(1200)))
	suite.True(doc.TotalCredit.Equal(decimal.NewFromInt(1200)))
	suite.Len(doc.Lines, 2)
	suite.Equal(suite.actorID, doc.CreatedBy)
	suite.Nil(doc.PostedAt)

	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_InsufficientLines() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = req.Lines[:1]

	_, err := suite.service.CreateDocument(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))

	var validationErr *validation.Error
	suite.Require().True(errors.As(err, &validationErr))
	suite.Equal(validation.InsufficientLines, validationErr.Result.Violations[0].Kind)

	// No persistence and no sequence consumption on a rejected draft.
	suite.mockDocRepo.AssertNotCalled(suite.T(), "NextSequenceValue", mock.Anything, mock.Anything)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_UnbalancedReportsDifference() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Credit = decimal.NewFromInt(1195)

	_, err := suite.service.CreateDocument(ctx, req, suite.actorID)

	suite.Require().Error(err)
	var validationErr *validation.Error
	suite.Require().True(errors.As(err, &validationErr))
	v := validationErr.Result.Violations[0]
	suite.Equal(validation.Unbalanced, v.Kind)
	suite.True(v.Difference.Equal(decimal.NewFromInt(5)))
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_MissingDescription() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Description = ""

	_, err := suite.service.CreateDocument(ctx, req, suite.actorID)

	suite.Require().ErrorIs(err, services.ErrDescriptionMissing)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_UnknownType() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.DocumentType = domain.DocumentType("INVOICE")

	_, err := suite.service.CreateDocument(ctx, req, suite.actorID)

	suite.Require().ErrorIs(err, services.ErrUnknownDocumentType)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()

	accounts := suite.activeAccounts("acc-rent", "acc-bank")
	inactive := accounts["acc-bank"]
	inactive.IsActive = false
	accounts["acc-bank"] = inactive

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, []string{"acc-rent", "acc-bank"}).
		Return(accounts, nil).Once()

	_, err := suite.service.CreateDocument(ctx, req, suite.actorID)

	suite.Require().ErrorIs(err, services.ErrAccountInactive)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_CurrencyMismatch() {
	ctx := context.Background()
	req := suite.balancedRequest()

	accounts := suite.activeAccounts("acc-rent", "acc-bank")
	foreign := accounts["acc-bank"]
	foreign.CurrencyCode = "EUR"
	accounts["acc-bank"] = foreign

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, []string{"acc-rent", "acc-bank"}).
		Return(accounts, nil).Once()

	_, err := suite.service.CreateDocument(ctx, req, suite.actorID)

	suite.Require().ErrorIs(err, services.ErrCurrencyMismatch)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_RetriesOnNumberCollision() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.Anything).
		Return(suite.activeAccounts("acc-rent", "acc-bank"), nil).Once()
	suite.mockDocRepo.On("NextSequenceValue", ctx, "JV-2026-").Return(int64(7), nil).Once()
	suite.mockDocRepo.On("NextSequenceValue", ctx, "JV-2026-").Return(int64(8), nil).Once()
	suite.mockDocRepo.On("SaveDocument", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockDocRepo.On("SaveDocument", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("JV-2026-000008", doc.DocNumber)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_NumberAssignmentExhausted() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.Anything).
		Return(suite.activeAccounts("acc-rent", "acc-bank"), nil).Once()
	suite.mockDocRepo.On("NextSequenceValue", ctx, "JV-2026-").Return(int64(9), nil).Times(3)
	suite.mockDocRepo.On("SaveDocument", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Times(3)

	_, err := suite.service.CreateDocument(ctx, req, suite.actorID)

	suite.Require().ErrorIs(err, services.ErrNumberAssignmentFailed)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_AdjustmentUsesOwnScope() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.DocumentType = domain.Adjustment

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, mock.Anything).
		Return(suite.activeAccounts("acc-rent", "acc-bank"), nil).Once()
	suite.mockDocRepo.On("NextSequenceValue", ctx, "ADJ-2026-").Return(int64(12), nil).Once()
	suite.mockDocRepo.On("SaveDocument", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("ADJ-2026-0012", doc.DocNumber)
}

func (suite *DocumentServiceTestSuite) TestPostDocument_Success() {
	ctx := context.Background()
	documentID := uuid.NewString()
	draft := &domain.LedgerDocument{
		DocumentID:   documentID,
		DocNumber:    "JV-2026-000003",
		DocumentType: domain.Journal,
		Status:       domain.Draft,
		CurrencyCode: "USD",
	}
	lines := []domain.MonetaryLine{
		{LineID: uuid.NewString(), DocumentID: documentID, AccountID: "acc-rent", Debit: decimal.NewFromInt(500)},
		{LineID: uuid.NewString(), DocumentID: documentID, AccountID: "acc-bank", Credit: decimal.NewFromInt(500)},
	}

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(draft, nil).Once()
	suite.mockDocRepo.On("FindLinesByDocumentID", ctx, documentID).Return(lines, nil).Once()
	suite.mockDocRepo.On("MarkPosted", ctx, mock.AnythingOfType("domain.LedgerDocument"), mock.AnythingOfType("domain.AuditEntry")).
		Return(nil).Once()
	suite.mockBalanceSvc.On("NotifyPosted", ctx, []string{"acc-rent", "acc-bank"}).Return().Once()

	doc, err := suite.service.PostDocument(ctx, documentID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, doc.Status)
	suite.True(doc.TotalDebit.Equal(decimal.NewFromInt(500)))
	suite.True(doc.TotalCredit.Equal(decimal.NewFromInt(500)))
	suite.Require().NotNil(doc.PostedAt)
	suite.Require().NotNil(doc.PostedBy)
	suite.Equal(suite.actorID, *doc.PostedBy)
	suite.WithinDuration(time.Now(), *doc.PostedAt, time.Second)

	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockBalanceSvc.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestPostDocument_AlreadyPosted() {
	ctx := context.Background()
	documentID := uuid.NewString()
	posted := &domain.LedgerDocument{DocumentID: documentID, Status: domain.Posted}

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(posted, nil).Once()

	_, err := suite.service.PostDocument(ctx, documentID, suite.actorID)

	var transitionErr *domain.InvalidTransitionError
	suite.Require().True(errors.As(err, &transitionErr))
	suite.Equal(domain.Posted, transitionErr.From)
	suite.Equal(domain.Posted, transitionErr.To)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "MarkPosted", mock.Anything, mock.Anything, mock.Anything)
	suite.mockBalanceSvc.AssertNotCalled(suite.T(), "NotifyPosted", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestPostDocument_RevalidationBlocksPosting() {
	ctx := context.Background()
	documentID := uuid.NewString()
	draft := &domain.LedgerDocument{DocumentID: documentID, Status: domain.Draft}
	// Stored lines no longer balance; posting must refuse.
	lines := []domain.MonetaryLine{
		{AccountID: "acc-rent", Debit: decimal.NewFromInt(500)},
		{AccountID: "acc-bank", Credit: decimal.NewFromInt(400)},
	}

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(draft, nil).Once()
	suite.mockDocRepo.On("FindLinesByDocumentID", ctx, documentID).Return(lines, nil).Once()

	_, err := suite.service.PostDocument(ctx, documentID, suite.actorID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.mockDocRepo.AssertNotCalled(suite.T(), "MarkPosted", mock.Anything, mock.Anything, mock.Anything)
	suite.mockBalanceSvc.AssertNotCalled(suite.T(), "NotifyPosted", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestPostDocument_ConcurrentTransitionLosesGuard() {
	ctx := context.Background()
	documentID := uuid.NewString()
	draft := &domain.LedgerDocument{DocumentID: documentID, Status: domain.Draft}
	lines := []domain.MonetaryLine{
		{AccountID: "acc-rent", Debit: decimal.NewFromInt(100)},
		{AccountID: "acc-bank", Credit: decimal.NewFromInt(100)},
	}

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(draft, nil).Once()
	suite.mockDocRepo.On("FindLinesByDocumentID", ctx, documentID).Return(lines, nil).Once()
	suite.mockDocRepo.On("MarkPosted", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.PostDocument(ctx, documentID, suite.actorID)

	var transitionErr *domain.InvalidTransitionError
	suite.Require().True(errors.As(err, &transitionErr))
	suite.mockBalanceSvc.AssertNotCalled(suite.T(), "NotifyPosted", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCancelDocument_Success() {
	ctx := context.Background()
	documentID := uuid.NewString()
	draft := &domain.LedgerDocument{DocumentID: documentID, DocNumber: "JV-2026-000004", Status: domain.Draft}

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(draft, nil).Once()
	suite.mockDocRepo.On("MarkCancelled", ctx, mock.AnythingOfType("domain.LedgerDocument"), mock.AnythingOfType("domain.AuditEntry")).
		Return(nil).Once()

	doc, err := suite.service.CancelDocument(ctx, documentID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Cancelled, doc.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCancelDocument_PostedIsNotCancellable() {
	ctx := context.Background()
	documentID := uuid.NewString()
	posted := &domain.LedgerDocument{DocumentID: documentID, Status: domain.Posted}

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(posted, nil).Once()

	_, err := suite.service.CancelDocument(ctx, documentID, suite.actorID)

	var transitionErr *domain.InvalidTransitionError
	suite.Require().True(errors.As(err, &transitionErr))
	suite.mockDocRepo.AssertNotCalled(suite.T(), "MarkCancelled", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_PostedIsImmutable() {
	ctx := context.Background()
	documentID := uuid.NewString()
	posted := &domain.LedgerDocument{DocumentID: documentID, Status: domain.Posted}
	newDescription := "tampering attempt"

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(posted, nil).Once()

	_, err := suite.service.UpdateDocument(ctx, documentID, dto.UpdateDocumentRequest{Description: &newDescription}, suite.actorID)

	var immutableErr *domain.ImmutableDocumentError
	suite.Require().True(errors.As(err, &immutableErr))
	suite.Equal(domain.Posted, immutableErr.Status)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "ReplaceDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_ReplacesLinesAfterValidation() {
	ctx := context.Background()
	documentID := uuid.NewString()
	draft := &domain.LedgerDocument{
		DocumentID:   documentID,
		DocNumber:    "JV-2026-000005",
		Status:       domain.Draft,
		CurrencyCode: "USD",
		Description:  "original",
	}
	req := dto.UpdateDocumentRequest{
		Lines: []dto.CreateLineRequest{
			{AccountID: "acc-rent", Debit: decimal.NewFromInt(750)},
			{AccountID: "acc-bank", Credit: decimal.NewFromInt(750)},
		},
	}

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(draft, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, []string{"acc-rent", "acc-bank"}).
		Return(suite.activeAccounts("acc-rent", "acc-bank"), nil).Once()
	suite.mockDocRepo.On("ReplaceDraft", ctx, mock.AnythingOfType("domain.LedgerDocument"), mock.Anything, mock.AnythingOfType("domain.AuditEntry")).
		Return(nil).Once()

	doc, err := suite.service.UpdateDocument(ctx, documentID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(doc.TotalDebit.Equal(decimal.NewFromInt(750)))
	suite.Len(doc.Lines, 2)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestUpdateDocument_InvalidLinesRejected() {
	ctx := context.Background()
	documentID := uuid.NewString()
	draft := &domain.LedgerDocument{DocumentID: documentID, Status: domain.Draft, CurrencyCode: "USD"}
	req := dto.UpdateDocumentRequest{
		Lines: []dto.CreateLineRequest{
			{AccountID: "acc-rent", Debit: decimal.NewFromInt(750)},
			{AccountID: "acc-bank", Credit: decimal.NewFromInt(700)},
		},
	}

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(draft, nil).Once()

	_, err := suite.service.UpdateDocument(ctx, documentID, req, suite.actorID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.mockDocRepo.AssertNotCalled(suite.T(), "ReplaceDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestDeleteDocument_DraftSuccess() {
	ctx := context.Background()
	documentID := uuid.NewString()
	draft := &domain.LedgerDocument{DocumentID: documentID, DocNumber: "JV-2026-000006", Status: domain.Draft}

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(draft, nil).Once()
	suite.mockDocRepo.On("DeleteDocument", ctx, documentID, mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

	err := suite.service.DeleteDocument(ctx, documentID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestDeleteDocument_PostedIsImmutable() {
	ctx := context.Background()
	documentID := uuid.NewString()
	posted := &domain.LedgerDocument{DocumentID: documentID, Status: domain.Posted}

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(posted, nil).Once()

	err := suite.service.DeleteDocument(ctx, documentID, suite.actorID)

	var immutableErr *domain.ImmutableDocumentError
	suite.Require().True(errors.As(err, &immutableErr))
	suite.mockDocRepo.AssertNotCalled(suite.T(), "DeleteDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestGetDocumentByID_NotFound() {
	ctx := context.Background()
	documentID := uuid.NewString()

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetDocumentByID(ctx, documentID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DocumentServiceTestSuite) TestListAuditEntries_Delegates() {
	ctx := context.Background()
	documentID := uuid.NewString()
	entries := []domain.AuditEntry{
		{AuditID: "01B", DocumentID: documentID, Action: domain.AuditPosted},
		{AuditID: "01A", DocumentID: documentID, Action: domain.AuditCreated},
	}

	suite.mockAuditRepo.On("ListAuditByDocumentID", ctx, documentID).Return(entries, nil).Once()

	got, err := suite.service.ListAuditEntries(ctx, documentID)

	suite.Require().NoError(err)
	suite.Equal(entries, got)
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
