package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is a row of the append-only general_ledger table.
type LedgerRow struct {
	RowID          string          `db:"row_id"`
	AccountID      string          `db:"account_id"`
	EntryDate      time.Time       `db:"entry_date"`
	Description    string          `db:"description"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	Reference      string          `db:"reference"`
	JournalEntryID string          `db:"journal_entry_id"`
	LineNo         int             `db:"line_no"`
	PostedBy       string          `db:"posted_by"`
	CreatedAt      time.Time       `db:"created_at"`
}
