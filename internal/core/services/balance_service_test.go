package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erpcore/ledger_engine/internal/apperrors"
	"github.com/erpcore/ledger_engine/internal/core/domain"
	portssvc "github.com/erpcore/ledger_engine/internal/core/ports/services"
	"github.com/erpcore/ledger_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockBalanceRepository is a mock type for the BalanceRepositoryFacade interface
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) SumPostedLines(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockBalanceRepository) GetDerivedBalance(ctx context.Context, scopeKey string) (*domain.DerivedBalance, error) {
	args := m.Called(ctx, scopeKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DerivedBalance), args.Error(1)
}

func (m *MockBalanceRepository) UpsertDerivedBalance(ctx context.Context, balance domain.DerivedBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Test Suite Setup ---

type BalanceServiceTestSuite struct {
	suite.Suite
	mockBalanceRepo *MockBalanceRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.BalanceSvcFacade
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockBalanceRepo = new(MockBalanceRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewBalanceService(suite.mockBalanceRepo, suite.mockAccountRepo)
}

func assetAccount(accountID string) *domain.Account {
	return &domain.Account{
		AccountID:    accountID,
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
}

// --- Test Cases ---

func (suite *BalanceServiceTestSuite) TestRecompute_DebitPositiveConvention() {
	ctx := context.Background()
	accountID := "acc-bank"

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(assetAccount(accountID), nil).Once()
	suite.mockBalanceRepo.On("SumPostedLines", ctx, accountID).
		Return(decimal.NewFromInt(500), decimal.NewFromInt(120), nil).Once()
	suite.mockBalanceRepo.On("UpsertDerivedBalance", ctx, mock.MatchedBy(func(b domain.DerivedBalance) bool {
		return b.ScopeKey == accountID && b.Balance.Equal(decimal.NewFromInt(380))
	})).Return(nil).Once()

	balance, err := suite.service.Recompute(ctx, accountID)

	suite.Require().NoError(err)
	suite.Equal(accountID, balance.ScopeKey)
	suite.Equal("USD", balance.CurrencyCode)
	suite.True(balance.Balance.Equal(decimal.NewFromInt(380)))
	suite.True(balance.TotalDebit.Equal(decimal.NewFromInt(500)))
	suite.True(balance.TotalCredit.Equal(decimal.NewFromInt(120)))
	suite.WithinDuration(time.Now(), balance.RecomputedAt, time.Second)
	suite.mockBalanceRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestRecompute_CreditPositiveConvention() {
	ctx := context.Background()
	accountID := "acc-revenue"
	account := assetAccount(accountID)
	account.AccountType = domain.Revenue

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockBalanceRepo.On("SumPostedLines", ctx, accountID).
		Return(decimal.NewFromInt(50), decimal.NewFromInt(900), nil).Once()
	suite.mockBalanceRepo.On("UpsertDerivedBalance", ctx, mock.Anything).Return(nil).Once()

	balance, err := suite.service.Recompute(ctx, accountID)

	suite.Require().NoError(err)
	suite.True(balance.Balance.Equal(decimal.NewFromInt(850)))
}

func (suite *BalanceServiceTestSuite) TestRecompute_NoPostedLinesYieldsZero() {
	ctx := context.Background()
	accountID := "acc-empty"

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(assetAccount(accountID), nil).Once()
	suite.mockBalanceRepo.On("SumPostedLines", ctx, accountID).
		Return(decimal.Zero, decimal.Zero, nil).Once()
	suite.mockBalanceRepo.On("UpsertDerivedBalance", ctx, mock.Anything).Return(nil).Once()

	balance, err := suite.service.Recompute(ctx, accountID)

	suite.Require().NoError(err)
	suite.True(balance.Balance.IsZero())
}

func (suite *BalanceServiceTestSuite) TestRecompute_Idempotent() {
	ctx := context.Background()
	accountID := "acc-bank"

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(assetAccount(accountID), nil).Twice()
	suite.mockBalanceRepo.On("SumPostedLines", ctx, accountID).
		Return(decimal.NewFromInt(100), decimal.Zero, nil).Twice()
	suite.mockBalanceRepo.On("UpsertDerivedBalance", ctx, mock.Anything).Return(nil).Twice()

	first, err := suite.service.Recompute(ctx, accountID)
	suite.Require().NoError(err)
	second, err := suite.service.Recompute(ctx, accountID)
	suite.Require().NoError(err)

	// A rerun with no intervening postings changes nothing but the timestamp.
	suite.True(first.Balance.Equal(second.Balance))
	suite.True(first.TotalDebit.Equal(second.TotalDebit))
	suite.True(first.TotalCredit.Equal(second.TotalCredit))
}

func (suite *BalanceServiceTestSuite) TestRecompute_MissingAccount() {
	ctx := context.Background()
	accountID := "acc-ghost"

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Recompute(ctx, accountID)

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrReconciliation))
	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.mockBalanceRepo.AssertNotCalled(suite.T(), "UpsertDerivedBalance", mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestGetBalance_ReturnsStoredRecord() {
	ctx := context.Background()
	accountID := "acc-bank"
	stored := &domain.DerivedBalance{ScopeKey: accountID, Balance: decimal.NewFromInt(42)}

	suite.mockBalanceRepo.On("GetDerivedBalance", ctx, accountID).Return(stored, nil).Once()

	balance, err := suite.service.GetBalance(ctx, accountID)

	suite.Require().NoError(err)
	suite.Equal(stored, balance)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestGetBalance_LazilyRecomputesWhenAbsent() {
	ctx := context.Background()
	accountID := "acc-bank"

	suite.mockBalanceRepo.On("GetDerivedBalance", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(assetAccount(accountID), nil).Once()
	suite.mockBalanceRepo.On("SumPostedLines", ctx, accountID).
		Return(decimal.NewFromInt(10), decimal.Zero, nil).Once()
	suite.mockBalanceRepo.On("UpsertDerivedBalance", ctx, mock.Anything).Return(nil).Once()

	balance, err := suite.service.GetBalance(ctx, accountID)

	suite.Require().NoError(err)
	suite.True(balance.Balance.Equal(decimal.NewFromInt(10)))
	suite.mockBalanceRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestNotifyPosted_FailureDoesNotPanicOrPropagate() {
	ctx := context.Background()

	// First scope fails, second still recomputes.
	suite.mockAccountRepo.On("FindAccountByID", ctx, "acc-broken").Return(nil, errors.New("connection reset")).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, "acc-bank").Return(assetAccount("acc-bank"), nil).Once()
	suite.mockBalanceRepo.On("SumPostedLines", ctx, "acc-bank").
		Return(decimal.NewFromInt(5), decimal.Zero, nil).Once()
	suite.mockBalanceRepo.On("UpsertDerivedBalance", ctx, mock.Anything).Return(nil).Once()

	suite.service.NotifyPosted(ctx, []string{"acc-broken", "acc-bank"})

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockBalanceRepo.AssertExpectations(suite.T())
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
