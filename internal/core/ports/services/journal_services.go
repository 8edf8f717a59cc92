package services

import (
	"context"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/SscSPs/hotel_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntry retrieves an entry with its lines.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns a page of entries, newest first.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error)
}

// JournalWriterSvc defines the draft lifecycle of journal entries
type JournalWriterSvc interface {
	// CreateEntry validates and records a new DRAFT entry.
	CreateEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error)

	// CancelEntry moves a DRAFT entry to CANCELLED.
	CancelEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error)

	// CreateReversal records a DRAFT entry that mirrors a POSTED entry with sides swapped.
	CreateReversal(ctx context.Context, actor domain.Actor, entryID string, req dto.CreateReversalRequest) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
