package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
)

// JournalFilter narrows journal entry listings.
type JournalFilter struct {
	Status *domain.JournalStatus
}

// StatusChange describes a compare-and-set transition of a journal entry.
type StatusChange struct {
	EntryID         string
	From            domain.JournalStatus
	To              domain.JournalStatus
	ExpectedVersion int
	ActorID         string
	At              time.Time
}

// JournalReader defines read operations for journal entry data
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByIDForUpdate retrieves an entry and locks it until the surrounding transaction ends.
	FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns entries newest first (entry date, then creation time) with token pagination.
	ListEntries(ctx context.Context, filter JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// HasLinesForAccount reports whether any journal line references accountID.
	HasLinesForAccount(ctx context.Context, accountID string) (bool, error)
}

// JournalWriter defines write operations for journal entry data
type JournalWriter interface {
	// SaveEntry persists a new entry and its lines atomically.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// TransitionStatus moves an entry from change.From to change.To only if both the
	// stored status and version still match; otherwise apperrors.ErrConflict.
	TransitionStatus(ctx context.Context, change StatusChange) error
}

// EntryNumberSequence hands out monotonically increasing entry sequence numbers.
type EntryNumberSequence interface {
	NextEntrySequence(ctx context.Context) (int64, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	EntryNumberSequence
}
