package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is an immutable general-ledger record mirroring one posted journal line.
type LedgerRow struct {
	RowID          string          `json:"rowID"`
	AccountID      string          `json:"accountID"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Reference      string          `json:"reference"` // EntryNumber of the originating entry
	JournalEntryID string          `json:"journalEntryID"`
	LineNo         int             `json:"lineNo"`
	PostedBy       string          `json:"postedBy"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// AccountBalance holds raw debit and credit totals for an account.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	AsOf        *time.Time      `json:"asOf,omitempty"`
}

// Net returns DebitTotal - CreditTotal.
func (b AccountBalance) Net() decimal.Decimal {
	return b.DebitTotal.Sub(b.CreditTotal)
}

// NormalBalance returns the balance signed by the account type's normal side:
// debit-normal types return debit - credit, the others credit - debit.
func (b AccountBalance) NormalBalance(t AccountType) decimal.Decimal {
	if t.IsDebitNormal() {
		return b.Net()
	}
	return b.Net().Neg()
}

// LedgerRowsForEntry builds one ledger row per line of a posted entry.
func LedgerRowsForEntry(e *JournalEntry, postedBy string, now time.Time, newID func() string) []LedgerRow {
	rows := make([]LedgerRow, len(e.Lines))
	for i, l := range e.Lines {
		desc := l.Description
		if desc == "" {
			desc = e.Description
		}
		rows[i] = LedgerRow{
			RowID:          newID(),
			AccountID:      l.AccountID,
			EntryDate:      e.EntryDate,
			Description:    desc,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Reference:      e.EntryNumber,
			JournalEntryID: e.EntryID,
			LineNo:         l.LineNo,
			PostedBy:       postedBy,
			CreatedAt:      now,
		}
	}
	return rows
}
