package services

import (
	"context"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
)

// PostingSvc commits draft entries to the general ledger.
type PostingSvc interface {
	// Post atomically appends one ledger row per line of a DRAFT entry and marks it POSTED.
	Post(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error)
}
