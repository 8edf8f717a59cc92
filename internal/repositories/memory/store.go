// Package memory is an in-process storage backend for development and tests.
// It offers the same transactional guarantees as the PostgreSQL backend:
// units of work are serialized, writes are staged on a private copy of the
// state and become visible only when the unit commits.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
)

type state struct {
	accounts     map[string]domain.Account
	accountCodes map[string]string // code -> account ID
	entries      map[string]domain.JournalEntry
	entryNumbers map[string]string // entry number -> entry ID
	ledger       []domain.LedgerRow
	ledgerKeys   map[ledgerKey]struct{}
	entrySeq     int64
}

type ledgerKey struct {
	entryID string
	lineNo  int
}

func newState() *state {
	return &state{
		accounts:     map[string]domain.Account{},
		accountCodes: map[string]string{},
		entries:      map[string]domain.JournalEntry{},
		entryNumbers: map[string]string{},
		ledgerKeys:   map[ledgerKey]struct{}{},
	}
}

func (s *state) clone() *state {
	return &state{
		accounts:     maps.Clone(s.accounts),
		accountCodes: maps.Clone(s.accountCodes),
		entries:      maps.Clone(s.entries),
		entryNumbers: maps.Clone(s.entryNumbers),
		ledger:       slices.Clip(slices.Clone(s.ledger)),
		ledgerKeys:   maps.Clone(s.ledgerKeys),
		entrySeq:     s.entrySeq,
	}
}

// tx is a unit of work in progress. Only the goroutine that opened it uses it.
type tx struct {
	store   *Store
	staging *state
}

type txCtxKey struct{}

// Store holds the committed state. A single-slot semaphore serializes units
// of work; waiting for it honours context cancellation.
type Store struct {
	sem       chan struct{}
	mu        sync.RWMutex
	committed *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		sem:       make(chan struct{}, 1),
		committed: newState(),
	}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for storage lock: %w", ctx.Err())
	}
}

func (s *Store) release() {
	<-s.sem
}

func (s *Store) txFrom(ctx context.Context) (*tx, bool) {
	t, ok := ctx.Value(txCtxKey{}).(*tx)
	if !ok || t.store != s {
		return nil, false
	}
	return t, true
}

// WithinTx runs fn as one unit of work. Staged writes are published only if
// fn returns nil and ctx is still live; otherwise they are discarded.
// A ctx already inside a unit of work on this store joins it.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := s.txFrom(ctx); ok {
		return fn(ctx)
	}

	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.mu.RLock()
	t := &tx{store: s, staging: s.committed.clone()}
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txCtxKey{}, t)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction abandoned: %w", err)
	}

	s.mu.Lock()
	s.committed = t.staging
	s.mu.Unlock()
	return nil
}

// read runs fn against the caller's staged state, or the committed state
// under a read lock when ctx carries no unit of work.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t, ok := s.txFrom(ctx); ok {
		return fn(t.staging)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// write runs fn against the caller's staged state, or in its own unit of work.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if t, ok := s.txFrom(ctx); ok {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(t.staging)
	}
	return s.WithinTx(ctx, func(ctx context.Context) error {
		t, _ := s.txFrom(ctx)
		return fn(t.staging)
	})
}

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	e.Lines = slices.Clone(e.Lines)
	return e
}
