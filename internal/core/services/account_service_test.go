package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hotel_ledger/internal/core/ports/services"
	"github.com/SscSPs/hotel_ledger/internal/core/services"
	"github.com/SscSPs/hotel_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	mockRepo    *MockAccountRepository
	mockJournal *MockJournalRepository
	mockLedger  *MockLedgerRepository
	service     portssvc.AccountSvcFacade
	admin       domain.Actor
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockAccountRepository)
	suite.mockJournal = new(MockJournalRepository)
	suite.mockLedger = new(MockLedgerRepository)
	suite.service = services.NewAccountService(passThroughTx{}, suite.mockRepo,
		services.WithAccountUsageReaders(suite.mockJournal, suite.mockLedger))
	suite.admin = domain.NewActor("admin", domain.CapManageAccounts)
}

func (suite *AccountServiceTestSuite) existing(id, code, parent string) *domain.Account {
	return &domain.Account{
		AccountID:       id,
		Code:            code,
		Name:            "Account " + code,
		AccountType:     domain.Asset,
		ParentAccountID: parent,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields("admin", time.Now().UTC()),
	}
}

func strPtr(s string) *string { return &s }

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: " 1000 ", Name: "Cash", AccountType: domain.Asset, Category: "Current Assets"}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	acc, err := suite.service.CreateAccount(suite.ctx, suite.admin, req)

	suite.Require().NoError(err)
	suite.NotEmpty(acc.AccountID)
	suite.Equal("1000", acc.Code)
	suite.Equal("Cash", acc.Name)
	suite.True(acc.IsActive)
	suite.Equal("admin", acc.CreatedBy)
	suite.Equal(1, acc.Version)
	suite.WithinDuration(time.Now(), acc.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RequiresCapability() {
	clerk := domain.NewActor("clerk", domain.CapCreateEntry)
	_, err := suite.service.CreateAccount(suite.ctx, clerk, dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, "1000").Return(suite.existing("a1", "1000", ""), nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, suite.admin, dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset})

	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateOnSaveRace() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateAccount(suite.ctx, suite.admin, dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset})
	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidInput() {
	testCases := []struct {
		name string
		req  dto.CreateAccountRequest
	}{
		{"blank code", dto.CreateAccountRequest{Code: "  ", Name: "Cash", AccountType: domain.Asset}},
		{"blank name", dto.CreateAccountRequest{Code: "1000", Name: "", AccountType: domain.Asset}},
		{"unknown type", dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "INCOME"}},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.service.CreateAccount(suite.ctx, suite.admin, tc.req)
			suite.ErrorIs(err, apperrors.ErrInvalidAccount)
		})
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MissingParent() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, "1010").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", suite.ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(suite.ctx, suite.admin, dto.CreateAccountRequest{
		Code: "1010", Name: "Front Desk Float", AccountType: domain.Asset, ParentAccountID: strPtr("ghost"),
	})
	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()
	_, err := suite.service.GetAccountByID(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccountsByType() {
	revenue := domain.Revenue
	accounts := []domain.Account{*suite.existing("a1", "4000", "")}
	suite.mockRepo.On("ListAccounts", suite.ctx, portsrepo.AccountFilter{AccountType: &revenue, IncludeInactive: true}).Return(accounts, nil).Once()

	got, err := suite.service.ListAccountsByType(suite.ctx, domain.Revenue)
	suite.Require().NoError(err)
	suite.Len(got, 1)

	_, err = suite.service.ListAccountsByType(suite.ctx, "INCOME")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RejectsCycle() {
	// a1 <- a2 <- a3; moving a1 under a3 would loop.
	a1 := suite.existing("a1", "1000", "")
	a2 := suite.existing("a2", "1100", "a1")
	a3 := suite.existing("a3", "1110", "a2")
	suite.mockRepo.On("LockHierarchy", mock.Anything).Return(nil).Once()
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a1").Return(a1, nil)
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a2").Return(a2, nil)
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a3").Return(a3, nil)

	_, err := suite.service.UpdateAccount(suite.ctx, suite.admin, "a1", dto.UpdateAccountRequest{ParentAccountID: strPtr("a3")})

	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RejectsSelfParent() {
	suite.mockRepo.On("LockHierarchy", mock.Anything).Return(nil).Once()
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a1").Return(suite.existing("a1", "1000", ""), nil)

	_, err := suite.service.UpdateAccount(suite.ctx, suite.admin, "a1", dto.UpdateAccountRequest{ParentAccountID: strPtr("a1")})
	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Success() {
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a1").Return(suite.existing("a1", "1000", ""), nil)
	suite.mockRepo.On("UpdateAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Cash on Hand" && a.Version == 2 && a.LastUpdatedBy == "admin"
	}), 1).Return(nil).Once()

	acc, err := suite.service.UpdateAccount(suite.ctx, suite.admin, "a1", dto.UpdateAccountRequest{Name: strPtr("Cash on Hand")})

	suite.Require().NoError(err)
	suite.Equal("Cash on Hand", acc.Name)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRepo.AssertNotCalled(suite.T(), "LockHierarchy", mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ParentChangeLocksBeforeReadingTree() {
	a1 := suite.existing("a1", "1000", "")
	a2 := suite.existing("a2", "1100", "")
	var calls []string
	suite.mockRepo.On("LockHierarchy", mock.Anything).Return(nil).Once().
		Run(func(mock.Arguments) { calls = append(calls, "lock") })
	record := func(args mock.Arguments) { calls = append(calls, "find "+args.String(1)) }
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a1").Run(record).Return(a1, nil)
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a2").Run(record).Return(a2, nil)
	suite.mockRepo.On("UpdateAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.ParentAccountID == "a2"
	}), 1).Return(nil).Once()

	acc, err := suite.service.UpdateAccount(suite.ctx, suite.admin, "a1", dto.UpdateAccountRequest{ParentAccountID: strPtr("a2")})

	suite.Require().NoError(err)
	suite.Equal("a2", acc.ParentAccountID)
	suite.Equal([]string{"lock", "find a1", "find a2"}, calls)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_LockFailureAbortsMove() {
	lockErr := errors.New("lock timeout")
	suite.mockRepo.On("LockHierarchy", mock.Anything).Return(lockErr).Once()

	_, err := suite.service.UpdateAccount(suite.ctx, suite.admin, "a1", dto.UpdateAccountRequest{ParentAccountID: strPtr("a2")})

	suite.ErrorIs(err, lockErr)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Idempotent() {
	inactive := suite.existing("a1", "1000", "")
	inactive.IsActive = false
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a1").Return(inactive, nil)

	suite.NoError(suite.service.DeactivateAccount(suite.ctx, suite.admin, "a1"))
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Active() {
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a1").Return(suite.existing("a1", "1000", ""), nil)
	suite.mockRepo.On("UpdateAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool { return !a.IsActive }), 1).Return(nil).Once()

	suite.NoError(suite.service.DeactivateAccount(suite.ctx, suite.admin, "a1"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_ReferencedByJournal() {
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a1").Return(suite.existing("a1", "1000", ""), nil)
	suite.mockRepo.On("CountChildren", mock.Anything, "a1").Return(0, nil)
	suite.mockJournal.On("HasLinesForAccount", mock.Anything, "a1").Return(true, nil)

	err := suite.service.DeleteAccount(suite.ctx, suite.admin, "a1")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HasChildren() {
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a1").Return(suite.existing("a1", "1000", ""), nil)
	suite.mockRepo.On("CountChildren", mock.Anything, "a1").Return(2, nil)

	err := suite.service.DeleteAccount(suite.ctx, suite.admin, "a1")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Unused() {
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a1").Return(suite.existing("a1", "1000", ""), nil)
	suite.mockRepo.On("CountChildren", mock.Anything, "a1").Return(0, nil)
	suite.mockJournal.On("HasLinesForAccount", mock.Anything, "a1").Return(false, nil)
	suite.mockLedger.On("HasRowsForAccount", mock.Anything, "a1").Return(false, nil)
	suite.mockRepo.On("DeleteAccount", mock.Anything, "a1").Return(nil).Once()

	suite.NoError(suite.service.DeleteAccount(suite.ctx, suite.admin, "a1"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_StorageError() {
	boom := errors.New("connection reset")
	suite.mockRepo.On("FindAccountByID", mock.Anything, "a1").Return(nil, boom)

	err := suite.service.DeleteAccount(suite.ctx, suite.admin, "a1")
	suite.ErrorIs(err, boom)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
