package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/hotel_ledger/internal/core/ports/services"
	"github.com/SscSPs/hotel_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves the read side of the general ledger.
type ledgerHandler struct {
	accountService portssvc.AccountReaderSvc
	ledgerService  portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(accountService portssvc.AccountReaderSvc, ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		accountService: accountService,
		ledgerService:  ledgerService,
	}
}

// registerLedgerRoutes registers balance and statement routes.
func registerLedgerRoutes(rg *gin.RouterGroup, accountService portssvc.AccountReaderSvc, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(accountService, ledgerService)

	rg.GET("/accounts/:accountID/balance", h.getBalance)
	rg.GET("/accounts/:accountID/ledger", h.listAccountRows)
	rg.GET("/journal-entries/:entryID/ledger-rows", h.listEntryRows)
}

// getBalance godoc
// @Summary Get an account balance
// @Description Sums posted ledger rows. normalBalance is signed by the account type's normal side.
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Inclusive cutoff date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute balance"
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	if _, ok := actorFromContext(c); !ok {
		return
	}

	var params dto.AccountBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindError(c, err, "query parameters")
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondWithError(c, err, "compute balance")
		return
	}

	balance, err := h.ledgerService.BalanceOf(c.Request.Context(), account.AccountID, params.AsOf)
	if err != nil {
		respondWithError(c, err, "compute balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(*balance, account.AccountType))
}

// listAccountRows godoc
// @Summary Account statement
// @Description Lists posted ledger rows for an account, oldest first.
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListLedgerRowsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters or token"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list ledger rows"
// @Security BearerAuth
// @Router /accounts/{accountID}/ledger [get]
func (h *ledgerHandler) listAccountRows(c *gin.Context) {
	if _, ok := actorFromContext(c); !ok {
		return
	}

	var params dto.ListLedgerRowsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindError(c, err, "query parameters")
		return
	}

	rows, next, err := h.ledgerService.ListRowsByAccount(c.Request.Context(), c.Param("accountID"), params)
	if err != nil {
		respondWithError(c, err, "list ledger rows")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgerRowsResponse(rows, next))
}

// listEntryRows godoc
// @Summary Ledger rows of a journal entry
// @Description Returns the rows written when the entry was posted; empty for drafts and cancelled entries.
// @Tags ledger
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.ListLedgerRowsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list ledger rows"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/ledger-rows [get]
func (h *ledgerHandler) listEntryRows(c *gin.Context) {
	if _, ok := actorFromContext(c); !ok {
		return
	}

	rows, err := h.ledgerService.RowsFor(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondWithError(c, err, "list ledger rows")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgerRowsResponse(rows, nil))
}
