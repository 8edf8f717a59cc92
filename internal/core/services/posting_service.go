package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hotel_ledger/internal/core/ports/services"
	"github.com/SscSPs/hotel_ledger/internal/platform/metrics"
	"github.com/google/uuid"
)

// postingService commits draft journal entries to the general ledger.
type postingService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	journalRepo portsrepo.JournalRepositoryFacade
	ledgerRepo  portsrepo.LedgerAppender
	strictSoD   bool
	metrics     *metrics.Metrics
}

// PostingServiceOption is a functional option for configuring the posting service
type PostingServiceOption func(*postingService)

// WithStrictSeparationOfDuties controls whether the creator of an entry is
// barred from posting it. Enabled by default.
func WithStrictSeparationOfDuties(strict bool) PostingServiceOption {
	return func(s *postingService) {
		s.strictSoD = strict
	}
}

// WithPostingMetrics records posting outcomes and latency.
func WithPostingMetrics(m *metrics.Metrics) PostingServiceOption {
	return func(s *postingService) {
		s.metrics = m
	}
}

// NewPostingService creates the posting engine.
func NewPostingService(txManager portsrepo.TransactionManager, journalRepo portsrepo.JournalRepositoryFacade, ledgerRepo portsrepo.LedgerAppender, options ...PostingServiceOption) portssvc.PostingSvc {
	svc := &postingService{
		txManager:   txManager,
		journalRepo: journalRepo,
		ledgerRepo:  ledgerRepo,
		strictSoD:   true,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PostingSvc = (*postingService)(nil)

// Post locks the entry, checks its state and authorship, appends one ledger
// row per line and flips the entry to POSTED, all in one transaction.
// A second call for the same entry fails with apperrors.ErrAlreadyPosted
// and has no side effects.
func (s *postingService) Post(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error) {
	if err := s.RequireCapability(ctx, actor, domain.CapPostEntry); err != nil {
		s.record(metrics.OutcomeForbidden)
		return nil, err
	}

	start := time.Now()
	var posted *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if err := entry.CanPost(); err != nil {
			return err
		}

		if entry.CreatedBy == actor.ActorID {
			if s.strictSoD {
				return fmt.Errorf("%w: actor %s created entry %s", apperrors.ErrSeparationOfDuties, actor.ActorID, entry.EntryNumber)
			}
			s.LogWarn(ctx, "Creator is posting own journal entry",
				slog.String("entry_id", entry.EntryID),
				slog.String("actor_id", actor.ActorID))
		}

		now := s.Now()
		rows := domain.LedgerRowsForEntry(entry, actor.ActorID, now, uuid.NewString)
		if err := s.ledgerRepo.AppendBatch(ctx, rows); err != nil {
			return err
		}

		if err := s.journalRepo.TransitionStatus(ctx, portsrepo.StatusChange{
			EntryID:         entry.EntryID,
			From:            domain.Draft,
			To:              domain.Posted,
			ExpectedVersion: entry.Version,
			ActorID:         actor.ActorID,
			At:              now,
		}); err != nil {
			return err
		}

		entry.MarkPosted(actor.ActorID, now)
		posted = entry
		return nil
	})
	if s.metrics != nil {
		s.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		outcome := postingOutcome(err)
		s.record(outcome)
		if outcome == metrics.OutcomeError {
			s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		} else {
			s.LogWarn(ctx, "Journal entry not posted",
				slog.String("entry_id", entryID),
				slog.String("outcome", outcome),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	s.record(metrics.OutcomePosted)
	if s.metrics != nil {
		s.metrics.LedgerRowsAppended.Add(float64(len(posted.Lines)))
	}
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", posted.EntryID),
		slog.String("entry_number", posted.EntryNumber),
		slog.Int("rows", len(posted.Lines)))
	return posted, nil
}

func (s *postingService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.PostingAttempts.WithLabelValues(outcome).Inc()
	}
}

func postingOutcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyPosted):
		return metrics.OutcomeAlreadyPosted
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return metrics.OutcomeInvalidTransition
	case errors.Is(err, apperrors.ErrSeparationOfDuties):
		return metrics.OutcomeSeparationOfDuties
	case errors.Is(err, apperrors.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
