package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// JournalStatus indicates the lifecycle state of a journal entry.
type JournalStatus string

const (
	Draft     JournalStatus = "DRAFT"
	Posted    JournalStatus = "POSTED"
	Cancelled JournalStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible from s.
func (s JournalStatus) IsTerminal() bool {
	return s == Posted || s == Cancelled
}

// EntryType is an open classification of journal entries. The constants
// below are the well-known values; any non-empty upper-case token is accepted.
type EntryType string

const (
	EntryTypeGeneral    EntryType = "GENERAL"
	EntryTypeAdjustment EntryType = "ADJUSTMENT"
	EntryTypeCorrection EntryType = "CORRECTION"
	EntryTypeClosing    EntryType = "CLOSING"
	EntryTypeOpening    EntryType = "OPENING"
	EntryTypeReversal   EntryType = "REVERSAL"
)

// EntryDay truncates t to its UTC calendar day. Entry dates carry no time of day.
func EntryDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AmountScale is the number of decimal places kept for money amounts.
const AmountScale = 4

// maxAmount is the exclusive upper bound of a stored amount, NUMERIC(19,4).
var maxAmount = decimal.New(1, 19-AmountScale)

// FitsAmount reports whether d is storable without rounding or overflow.
func FitsAmount(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale)) && d.Abs().LessThan(maxAmount)
}

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	LineNo      int             `json:"lineNo"` // 1-based, preserves input order
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Validate checks that exactly one of Debit or Credit is nonzero, neither is
// negative, and both fit the stored precision.
func (l JournalLine) Validate() error {
	if l.AccountID == "" {
		return fmt.Errorf("%w: line %d has no account", apperrors.ErrInvalidLine, l.LineNo)
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrInvalidLine, l.LineNo)
	}
	if l.Debit.IsZero() == l.Credit.IsZero() {
		return fmt.Errorf("%w: line %d must carry exactly one nonzero amount", apperrors.ErrInvalidLine, l.LineNo)
	}
	if !FitsAmount(l.Debit) || !FitsAmount(l.Credit) {
		return fmt.Errorf("%w: line %d amount must have at most %d decimal places and fewer than %d integer digits",
			apperrors.ErrInvalidLine, l.LineNo, AmountScale, 19-AmountScale+1)
	}
	return nil
}

// Swapped returns the line with its debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}

// JournalEntry is a proposed or recorded financial event made of balanced lines.
type JournalEntry struct {
	EntryID           string          `json:"entryID"`     // UUID
	EntryNumber       string          `json:"entryNumber"` // Unique, e.g. JE-202610-000042
	EntryDate         time.Time       `json:"entryDate"`
	Reference         string          `json:"reference"`
	Description       string          `json:"description"`
	EntryType         EntryType       `json:"entryType"`
	TotalDebit        decimal.Decimal `json:"totalDebit"`
	TotalCredit       decimal.Decimal `json:"totalCredit"`
	Status            JournalStatus   `json:"status"`
	PostedBy          *string         `json:"postedBy,omitempty"`
	PostedAt          *time.Time      `json:"postedAt,omitempty"`
	CancelledBy       *string         `json:"cancelledBy,omitempty"`
	CancelledAt       *time.Time      `json:"cancelledAt,omitempty"`
	ReversalOfEntryID *string         `json:"reversalOfEntryID,omitempty"`
	Lines             []JournalLine   `json:"lines"`
	AuditFields
}

// CanPost returns nil when the entry may move to POSTED.
func (e *JournalEntry) CanPost() error {
	switch e.Status {
	case Draft:
		return nil
	case Posted:
		return fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyPosted, e.EntryNumber)
	default:
		return fmt.Errorf("%w: cannot post entry %s in status %s", apperrors.ErrInvalidTransition, e.EntryNumber, e.Status)
	}
}

// CanCancel returns nil when the entry may move to CANCELLED.
func (e *JournalEntry) CanCancel() error {
	if e.Status != Draft {
		return fmt.Errorf("%w: cannot cancel entry %s in status %s", apperrors.ErrInvalidTransition, e.EntryNumber, e.Status)
	}
	return nil
}

// MarkPosted moves a draft entry to POSTED, stamping the poster.
func (e *JournalEntry) MarkPosted(actorID string, now time.Time) {
	e.Status = Posted
	e.PostedBy = &actorID
	e.PostedAt = &now
	e.Touch(actorID, now)
}

// MarkCancelled moves a draft entry to CANCELLED.
func (e *JournalEntry) MarkCancelled(actorID string, now time.Time) {
	e.Status = Cancelled
	e.CancelledBy = &actorID
	e.CancelledAt = &now
	e.Touch(actorID, now)
}

// ReversalLines returns the entry's lines with sides swapped, renumbered from 1.
func (e *JournalEntry) ReversalLines() []JournalLine {
	lines := make([]JournalLine, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = l.Swapped()
		lines[i].LineNo = i + 1
	}
	return lines
}
