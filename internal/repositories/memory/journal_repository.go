package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/hotel_ledger/internal/utils/pagination"
)

type journalRepository struct {
	store *Store
}

func newJournalRepository(store *Store) portsrepo.JournalRepositoryFacade {
	return &journalRepository{store: store}
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func (r *journalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.entries[entry.EntryID]; ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
		}
		if _, ok := st.entryNumbers[entry.EntryNumber]; ok {
			return fmt.Errorf("%w: entry number %s", apperrors.ErrDuplicate, entry.EntryNumber)
		}
		for _, l := range entry.Lines {
			if _, ok := st.accounts[l.AccountID]; !ok {
				return fmt.Errorf("%w: line %d references a missing account", apperrors.ErrValidation, l.LineNo)
			}
		}
		st.entries[entry.EntryID] = copyEntry(entry)
		st.entryNumbers[entry.EntryNumber] = entry.EntryID
		return nil
	})
}

func (r *journalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	var found domain.JournalEntry
	err := r.store.read(ctx, func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		found = copyEntry(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// FindEntryByIDForUpdate is a plain read: holding the store's unit-of-work
// slot already excludes every other writer.
func (r *journalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.FindEntryByID(ctx, entryID)
}

func (r *journalRepository) ListEntries(ctx context.Context, filter portsrepo.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	entries := []domain.JournalEntry{}
	err := r.store.read(ctx, func(st *state) error {
		for _, e := range st.entries {
			if filter.Status != nil && e.Status != *filter.Status {
				continue
			}
			if cursor != nil && !cursor.Before(e.EntryDate, e.CreatedAt, e.EntryID) {
				continue
			}
			entries = append(entries, copyEntry(e))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Newest first.
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		return pagination.Cursor{Date: b.EntryDate, CreatedAt: b.CreatedAt, ID: b.EntryID}.After(a.EntryDate, a.CreatedAt, a.EntryID)
	})

	var next *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.EntryID})
		next = &token
		entries = entries[:limit]
	}
	return entries, next, nil
}

func (r *journalRepository) HasLinesForAccount(ctx context.Context, accountID string) (bool, error) {
	found := false
	err := r.store.read(ctx, func(st *state) error {
		for _, e := range st.entries {
			for _, l := range e.Lines {
				if l.AccountID == accountID {
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}

func (r *journalRepository) TransitionStatus(ctx context.Context, change portsrepo.StatusChange) error {
	return r.store.write(ctx, func(st *state) error {
		e, ok := st.entries[change.EntryID]
		if !ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, change.EntryID)
		}
		if e.Status != change.From || e.Version != change.ExpectedVersion {
			return fmt.Errorf("%w: journal entry %s is no longer %s at version %d",
				apperrors.ErrConflict, change.EntryID, change.From, change.ExpectedVersion)
		}
		switch change.To {
		case domain.Posted:
			e.MarkPosted(change.ActorID, change.At)
		case domain.Cancelled:
			e.MarkCancelled(change.ActorID, change.At)
		default:
			return fmt.Errorf("%w: unsupported target status %s", apperrors.ErrInvalidTransition, change.To)
		}
		st.entries[e.EntryID] = e
		return nil
	})
}

func (r *journalRepository) NextEntrySequence(ctx context.Context) (int64, error) {
	var seq int64
	err := r.store.write(ctx, func(st *state) error {
		st.entrySeq++
		seq = st.entrySeq
		return nil
	})
	return seq, err
}
