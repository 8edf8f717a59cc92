package dto

import (
	"time"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRowResponse defines the data returned for a general-ledger row.
type LedgerRowResponse struct {
	RowID          string          `json:"rowID"`
	AccountID      string          `json:"accountID"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Reference      string          `json:"reference"`
	JournalEntryID string          `json:"journalEntryID"`
	LineNo         int             `json:"lineNo"`
	PostedBy       string          `json:"postedBy"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ListLedgerRowsParams defines query parameters for an account statement.
type ListLedgerRowsParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=0,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerRowsResponse wraps a page of ledger rows.
type ListLedgerRowsResponse struct {
	Rows      []LedgerRowResponse `json:"rows"`
	NextToken *string             `json:"nextToken,omitempty"`
}

// ToLedgerRowResponse converts a domain.LedgerRow.
func ToLedgerRowResponse(r domain.LedgerRow) LedgerRowResponse {
	return LedgerRowResponse{
		RowID:          r.RowID,
		AccountID:      r.AccountID,
		EntryDate:      r.EntryDate,
		Description:    r.Description,
		Debit:          r.Debit,
		Credit:         r.Credit,
		Reference:      r.Reference,
		JournalEntryID: r.JournalEntryID,
		LineNo:         r.LineNo,
		PostedBy:       r.PostedBy,
		CreatedAt:      r.CreatedAt,
	}
}

// ToListLedgerRowsResponse converts a page of rows.
func ToListLedgerRowsResponse(rows []domain.LedgerRow, nextToken *string) ListLedgerRowsResponse {
	res := ListLedgerRowsResponse{Rows: make([]LedgerRowResponse, len(rows)), NextToken: nextToken}
	for i, r := range rows {
		res.Rows[i] = ToLedgerRowResponse(r)
	}
	return res
}
