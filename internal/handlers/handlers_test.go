package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/hotel_ledger/internal/core/ports/services"
	"github.com/SscSPs/hotel_ledger/internal/dto"
	"github.com/SscSPs/hotel_ledger/internal/handlers"
	"github.com/SscSPs/hotel_ledger/internal/middleware"
	"github.com/SscSPs/hotel_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "hotel-ledger-test"
)

type HandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	accountSvc  *MockAccountService
	journalSvc  *MockJournalService
	postingSvc  *MockPostingService
	ledgerSvc   *MockLedgerService
	clerkToken  string
	postToken   string
	adminToken  string
	entryDate   time.Time
	sampleEntry *domain.JournalEntry
}

// generateTestToken creates a signed JWT carrying the given capabilities.
func (suite *HandlerTestSuite) generateTestToken(actorID string, caps ...domain.Capability) string {
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = string(c)
	}
	claims := middleware.ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   actorID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Caps: names,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.accountSvc = new(MockAccountService)
	suite.journalSvc = new(MockJournalService)
	suite.postingSvc = new(MockPostingService)
	suite.ledgerSvc = new(MockLedgerService)

	cfg := &config.Config{
		JWTSecret:          testSecret,
		JWTIssuer:          testIssuer,
		RateLimit:          "1000-M",
		RequestTimeout:     time.Second,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		IsProduction:       true,
	}
	err := handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Account: suite.accountSvc,
		Journal: suite.journalSvc,
		Posting: suite.postingSvc,
		Ledger:  suite.ledgerSvc,
	})
	suite.Require().NoError(err)

	suite.clerkToken = suite.generateTestToken("clerk", domain.CapCreateEntry, domain.CapCancelEntry)
	suite.postToken = suite.generateTestToken("manager", domain.CapPostEntry)
	suite.adminToken = suite.generateTestToken("admin", domain.CapManageAccounts)

	suite.entryDate = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	suite.sampleEntry = &domain.JournalEntry{
		EntryID:     "entry-1",
		EntryNumber: "JE-202610-000001",
		EntryDate:   suite.entryDate,
		Description: "Walk-in room sale",
		EntryType:   domain.EntryTypeGeneral,
		TotalDebit:  decimal.RequireFromString("500.00"),
		TotalCredit: decimal.RequireFromString("500.00"),
		Status:      domain.Draft,
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountID: "cash", Debit: decimal.RequireFromString("500.00")},
			{LineNo: 2, AccountID: "revenue", Credit: decimal.RequireFromString("500.00")},
		},
		AuditFields: domain.NewAuditFields("clerk", suite.entryDate),
	}
}

func (suite *HandlerTestSuite) do(method, url, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func actorWith(id string, c domain.Capability) any {
	return mock.MatchedBy(func(a domain.Actor) bool { return a.ActorID == id && a.Has(c) })
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestMissingToken() {
	w := suite.do(http.MethodGet, "/api/v1/accounts", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("UNAUTHORIZED", suite.errorBody(w).Code)
	suite.accountSvc.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}
	suite.accountSvc.On("CreateAccount", mock.Anything, actorWith("admin", domain.CapManageAccounts), req).
		Return(&domain.Account{AccountID: "cash", Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", suite.adminToken, req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("cash", resp.AccountID)
	suite.Equal(domain.Asset, resp.AccountType)
	suite.accountSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateAccount_BadType() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", suite.adminToken, gin.H{"code": "1000", "name": "Cash", "accountType": "GOLD"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accountSvc.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_Forbidden() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}
	suite.accountSvc.On("CreateAccount", mock.Anything, mock.Anything, req).
		Return(nil, fmt.Errorf("%w: actor clerk lacks manage-accounts", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", suite.clerkToken, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("FORBIDDEN", suite.errorBody(w).Code)
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.accountSvc.On("GetAccountByID", mock.Anything, "nope").
		Return(nil, fmt.Errorf("%w: account nope", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/nope", suite.clerkToken, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", suite.errorBody(w).Code)
}

func (suite *HandlerTestSuite) TestListAccounts_Filter() {
	revenue := domain.Revenue
	suite.accountSvc.On("ListAccounts", mock.Anything, dto.ListAccountsParams{AccountType: &revenue, IncludeInactive: true}).
		Return([]domain.Account{{AccountID: "revenue", Code: "4000", AccountType: domain.Revenue}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?type=REVENUE&includeInactive=true", suite.clerkToken, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Accounts, 1)
	suite.Equal("4000", resp.Accounts[0].Code)
}

func (suite *HandlerTestSuite) TestDeleteAccount_Referenced() {
	suite.accountSvc.On("DeleteAccount", mock.Anything, mock.Anything, "cash").
		Return(fmt.Errorf("%w: account cash is referenced by journal history", apperrors.ErrConflict)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/cash", suite.adminToken, nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("CONFLICT", suite.errorBody(w).Code)
}

func (suite *HandlerTestSuite) TestDeactivateAccount() {
	suite.accountSvc.On("DeactivateAccount", mock.Anything, actorWith("admin", domain.CapManageAccounts), "cash").Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/cash/deactivate", suite.adminToken, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.accountSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateEntry_Success() {
	suite.journalSvc.On("CreateEntry", mock.Anything, actorWith("clerk", domain.CapCreateEntry),
		mock.MatchedBy(func(r dto.CreateJournalEntryRequest) bool {
			return len(r.Lines) == 2 && r.Lines[0].Debit.Equal(decimal.NewFromInt(500)) && r.EntryDate.Equal(suite.entryDate)
		})).Return(suite.sampleEntry, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", suite.clerkToken, gin.H{
		"entryDate":   "2026-10-19T00:00:00Z",
		"description": "Walk-in room sale",
		"lines": []gin.H{
			{"accountID": "cash", "debit": "500.00"},
			{"accountID": "revenue", "credit": "500.00"},
		},
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("JE-202610-000001", resp.EntryNumber)
	suite.Equal(domain.Draft, resp.Status)
	suite.Len(resp.Lines, 2)
	suite.journalSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateEntry_Unbalanced() {
	suite.journalSvc.On("CreateEntry", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewUnbalancedEntryError(decimal.NewFromInt(500), decimal.NewFromInt(450))).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", suite.clerkToken, gin.H{
		"entryDate":   "2026-10-19T00:00:00Z",
		"description": "Short credit",
		"lines": []gin.H{
			{"accountID": "cash", "debit": "500"},
			{"accountID": "revenue", "credit": "450"},
		},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	body := suite.errorBody(w)
	suite.Equal("UNBALANCED_ENTRY", body.Code)
	suite.Equal("500.00", body.Debit)
	suite.Equal("450.00", body.Credit)
	suite.Equal("50.00", body.Difference)
}

func (suite *HandlerTestSuite) TestCreateEntry_SubCentImbalanceNotRounded() {
	suite.journalSvc.On("CreateEntry", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewUnbalancedEntryError(decimal.RequireFromString("100.011"), decimal.RequireFromString("100"))).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", suite.clerkToken, gin.H{
		"entryDate":   "2026-10-19T00:00:00Z",
		"description": "Minibar charge",
		"lines": []gin.H{
			{"accountID": "cash", "debit": "100.011"},
			{"accountID": "revenue", "credit": "100"},
		},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	body := suite.errorBody(w)
	suite.Equal("UNBALANCED_ENTRY", body.Code)
	suite.Equal("100.011", body.Debit)
	suite.Equal("100.00", body.Credit)
	suite.Equal("0.011", body.Difference)
	suite.Contains(body.Error, "difference 0.011")
}

func (suite *HandlerTestSuite) TestCreateEntry_MissingAccountID() {
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", suite.clerkToken, gin.H{
		"entryDate":   "2026-10-19T00:00:00Z",
		"description": "No account",
		"lines":       []gin.H{{"debit": "1"}, {"accountID": "revenue", "credit": "1"}},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.journalSvc.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestPostEntry_ErrorMapping() {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"already posted", fmt.Errorf("%w: JE-1", apperrors.ErrAlreadyPosted), http.StatusConflict, "ALREADY_POSTED"},
		{"cancelled", fmt.Errorf("%w: JE-1 is CANCELLED", apperrors.ErrInvalidTransition), http.StatusConflict, "INVALID_TRANSITION"},
		{"separation of duties", fmt.Errorf("%w: actor manager created entry JE-1", apperrors.ErrSeparationOfDuties), http.StatusForbidden, "SEPARATION_OF_DUTIES"},
		{"lost race", fmt.Errorf("%w: version moved", apperrors.ErrConflict), http.StatusConflict, "CONFLICT"},
		{"not found", fmt.Errorf("%w: journal entry entry-1", apperrors.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"timeout", fmt.Errorf("waiting for storage lock: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, "TIMEOUT"},
		{"storage", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.postingSvc.On("Post", mock.Anything, actorWith("manager", domain.CapPostEntry), "entry-1").
				Return(nil, tc.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/journal-entries/entry-1/post", suite.postToken, nil)

			suite.Equal(tc.status, w.Code)
			suite.Equal(tc.code, suite.errorBody(w).Code)
		})
	}
}

func (suite *HandlerTestSuite) TestPostEntry_Success() {
	posted := *suite.sampleEntry
	posted.MarkPosted("manager", suite.entryDate)
	suite.postingSvc.On("Post", mock.Anything, mock.Anything, "entry-1").Return(&posted, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/entry-1/post", suite.postToken, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.Posted, resp.Status)
	suite.Require().NotNil(resp.PostedBy)
	suite.Equal("manager", *resp.PostedBy)
}

func (suite *HandlerTestSuite) TestCreateReversal_EmptyBody() {
	suite.journalSvc.On("CreateReversal", mock.Anything, mock.Anything, "entry-1", dto.CreateReversalRequest{}).
		Return(suite.sampleEntry, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/entry-1/reversal", suite.clerkToken, nil)

	suite.Equal(http.StatusCreated, w.Code)
	suite.journalSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListEntries_InvalidToken() {
	suite.journalSvc.On("ListEntries", mock.Anything, mock.Anything).
		Return(nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries?nextToken=garbage", suite.clerkToken, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", suite.errorBody(w).Code)
}

func (suite *HandlerTestSuite) TestListEntries_StatusFilter() {
	next := "token-2"
	suite.journalSvc.On("ListEntries", mock.Anything, mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool {
		return p.Status != nil && *p.Status == domain.Posted && p.Limit == 5
	})).Return([]domain.JournalEntry{*suite.sampleEntry}, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries?status=POSTED&limit=5", suite.clerkToken, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListJournalEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("token-2", *resp.NextToken)
}

func (suite *HandlerTestSuite) TestBalance_NormalSide() {
	suite.accountSvc.On("GetAccountByID", mock.Anything, "revenue").
		Return(&domain.Account{AccountID: "revenue", Code: "4000", AccountType: domain.Revenue}, nil).Once()
	asOf := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	suite.ledgerSvc.On("BalanceOf", mock.Anything, "revenue", mock.MatchedBy(func(t *time.Time) bool {
		return t != nil && t.Equal(asOf)
	})).Return(&domain.AccountBalance{
		AccountID:   "revenue",
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.RequireFromString("500.00"),
		AsOf:        &asOf,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/revenue/balance?asOf=2026-10-20", suite.clerkToken, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.NormalBalance.Equal(decimal.NewFromInt(500)))
	suite.True(resp.CreditTotal.Equal(decimal.NewFromInt(500)))
	suite.ledgerSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestEntryLedgerRows() {
	suite.ledgerSvc.On("RowsFor", mock.Anything, "entry-1").Return([]domain.LedgerRow{
		{RowID: "r1", AccountID: "cash", Debit: decimal.NewFromInt(500), JournalEntryID: "entry-1", LineNo: 1},
		{RowID: "r2", AccountID: "revenue", Credit: decimal.NewFromInt(500), JournalEntryID: "entry-1", LineNo: 2},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries/entry-1/ledger-rows", suite.clerkToken, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListLedgerRowsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Rows, 2)
	suite.Nil(resp.NextToken)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
