package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over the general ledger
type LedgerReader interface {
	// RowsByJournalEntryID returns the rows produced by posting entryID, ordered by line number.
	RowsByJournalEntryID(ctx context.Context, entryID string) ([]domain.LedgerRow, error)

	// SumByAccount returns raw debit and credit totals for accountID, limited to
	// rows dated on or before asOf when it is non-nil.
	SumByAccount(ctx context.Context, accountID string, asOf *time.Time) (debit, credit decimal.Decimal, err error)

	// ListRowsByAccount returns rows for accountID oldest first with token pagination.
	ListRowsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerRow, *string, error)

	// HasRowsForAccount reports whether any ledger row references accountID.
	HasRowsForAccount(ctx context.Context, accountID string) (bool, error)
}

// LedgerAppender appends rows to the general ledger. Only the posting engine
// calls it, inside the transaction that flips the entry to POSTED.
type LedgerAppender interface {
	AppendBatch(ctx context.Context, rows []domain.LedgerRow) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerAppender
}
