package dto

import (
	"time"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit or credit line of a new entry.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// CreateJournalEntryRequest defines the data needed to record a draft entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time            `json:"entryDate" binding:"required"`
	Reference   string               `json:"reference" binding:"max=100"`
	Description string               `json:"description" binding:"required,max=500"`
	EntryType   domain.EntryType     `json:"entryType"` // Defaults to GENERAL
	Lines       []JournalLineRequest `json:"lines" binding:"dive"`
}

// CreateReversalRequest customises the reversing draft. Both fields are optional.
type CreateReversalRequest struct {
	EntryDate   *time.Time `json:"entryDate"`
	Description *string    `json:"description"`
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	Status    *domain.JournalStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED CANCELLED"`
	Limit     int                   `form:"limit,default=20" binding:"min=0,max=200"`
	NextToken *string               `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	EntryNumber       string                `json:"entryNumber"`
	EntryDate         time.Time             `json:"entryDate"`
	Reference         string                `json:"reference"`
	Description       string                `json:"description"`
	EntryType         domain.EntryType      `json:"entryType"`
	TotalDebit        decimal.Decimal       `json:"totalDebit"`
	TotalCredit       decimal.Decimal       `json:"totalCredit"`
	Status            domain.JournalStatus  `json:"status"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
	PostedAt          *time.Time            `json:"postedAt,omitempty"`
	PostedBy          *string               `json:"postedBy,omitempty"`
	CancelledAt       *time.Time            `json:"cancelledAt,omitempty"`
	CancelledBy       *string               `json:"cancelledBy,omitempty"`
	ReversalOfEntryID *string               `json:"reversalOfEntryID,omitempty"`
	Version           int                   `json:"version"`
	Lines             []JournalLineResponse `json:"lines,omitempty"`
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalLines converts request lines into numbered domain lines.
func ToJournalLines(reqs []JournalLineRequest) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, r := range reqs {
		lines[i] = domain.JournalLine{
			LineNo:      i + 1,
			AccountID:   r.AccountID,
			Description: r.Description,
			Debit:       r.Debit,
			Credit:      r.Credit,
		}
	}
	return lines
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		Reference:         e.Reference,
		Description:       e.Description,
		EntryType:         e.EntryType,
		TotalDebit:        e.TotalDebit,
		TotalCredit:       e.TotalCredit,
		Status:            e.Status,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
		CancelledAt:       e.CancelledAt,
		CancelledBy:       e.CancelledBy,
		ReversalOfEntryID: e.ReversalOfEntryID,
		Version:           e.Version,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = JournalLineResponse{
				LineNo:      l.LineNo,
				AccountID:   l.AccountID,
				Description: l.Description,
				Debit:       l.Debit,
				Credit:      l.Credit,
			}
		}
	}
	return resp
}

// ToListJournalEntriesResponse converts a page of entries.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	res := ListJournalEntriesResponse{Entries: make([]JournalEntryResponse, len(entries)), NextToken: nextToken}
	for i := range entries {
		res.Entries[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}
