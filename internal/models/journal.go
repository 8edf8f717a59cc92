package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID           string          `db:"entry_id"`
	EntryNumber       string          `db:"entry_number"`
	EntryDate         time.Time       `db:"entry_date"`
	Reference         string          `db:"reference"`
	Description       string          `db:"description"`
	EntryType         string          `db:"entry_type"`
	TotalDebit        decimal.Decimal `db:"total_debit"`
	TotalCredit       decimal.Decimal `db:"total_credit"`
	Status            string          `db:"status"`
	PostedBy          *string         `db:"posted_by"`
	PostedAt          *time.Time      `db:"posted_at"`
	CancelledBy       *string         `db:"cancelled_by"`
	CancelledAt       *time.Time      `db:"cancelled_at"`
	ReversalOfEntryID *string         `db:"reversal_of_entry_id"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	EntryID     string          `db:"entry_id"`
	LineNo      int             `db:"line_no"`
	AccountID   string          `db:"account_id"`
	Description string          `db:"description"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
}
