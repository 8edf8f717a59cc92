package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hotel_ledger/internal/core/ports/services"
	"github.com/SscSPs/hotel_ledger/internal/dto"
	"github.com/SscSPs/hotel_ledger/internal/platform/metrics"
	"github.com/SscSPs/hotel_ledger/internal/utils/accounting"
	"github.com/SscSPs/hotel_ledger/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var entryTypePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,31}$`)

// journalService manages the draft lifecycle of journal entries.
type journalService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	tolerance   decimal.Decimal
	prefix      string
	metrics     *metrics.Metrics
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithBalanceTolerance overrides the default 0.01 balance tolerance.
func WithBalanceTolerance(tolerance decimal.Decimal) JournalServiceOption {
	return func(s *journalService) {
		s.tolerance = tolerance
	}
}

// WithEntryNumberPrefix sets the prefix of generated entry numbers.
func WithEntryNumberPrefix(prefix string) JournalServiceOption {
	return func(s *journalService) {
		s.prefix = prefix
	}
}

// WithJournalMetrics records creation outcomes.
func WithJournalMetrics(m *metrics.Metrics) JournalServiceOption {
	return func(s *journalService) {
		s.metrics = m
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(txManager portsrepo.TransactionManager, journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		txManager:   txManager,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		tolerance:   accounting.DefaultTolerance,
		prefix:      "JE",
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateEntry validates and records a new DRAFT entry.
func (s *journalService) CreateEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.RequireCapability(ctx, actor, domain.CapCreateEntry); err != nil {
		return nil, err
	}

	entry, err := s.buildEntry(ctx, actor, req, dto.ToJournalLines(req.Lines))
	if err != nil {
		s.recordCreation(metrics.OutcomeRejected)
		if errors.Is(err, apperrors.ErrValidation) {
			s.LogWarn(ctx, "Journal entry rejected", slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to validate journal entry")
		}
		return nil, err
	}

	if err := s.persist(ctx, entry); err != nil {
		s.recordCreation(metrics.OutcomeError)
		s.LogError(ctx, err, "Failed to save journal entry")
		return nil, err
	}

	s.recordCreation(metrics.OutcomeCreated)
	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("total", entry.TotalDebit.String()))
	return entry, nil
}

// buildEntry runs the validation sequence: line count, account resolution,
// per-line amounts, then balance. Nothing is persisted.
func (s *journalService) buildEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest, lines []domain.JournalLine) (*domain.JournalEntry, error) {
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: got %d", apperrors.ErrTooFewLines, len(lines))
	}
	if req.EntryDate.IsZero() {
		return nil, fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}

	entryType := domain.EntryType(strings.ToUpper(strings.TrimSpace(string(req.EntryType))))
	if entryType == "" {
		entryType = domain.EntryTypeGeneral
	}
	if !entryTypePattern.MatchString(string(entryType)) {
		return nil, fmt.Errorf("%w: invalid entry type %q", apperrors.ErrValidation, req.EntryType)
	}

	if err := s.checkAccounts(ctx, lines); err != nil {
		return nil, err
	}

	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return nil, err
		}
	}

	debit, credit, err := accounting.CheckBalance(lines, s.tolerance)
	if err != nil {
		return nil, err
	}
	if !domain.FitsAmount(debit) || !domain.FitsAmount(credit) {
		return nil, fmt.Errorf("%w: entry totals exceed the storable amount", apperrors.ErrValidation)
	}

	now := s.Now()
	return &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   domain.EntryDay(req.EntryDate),
		Reference:   strings.TrimSpace(req.Reference),
		Description: strings.TrimSpace(req.Description),
		EntryType:   entryType,
		TotalDebit:  debit,
		TotalCredit: credit,
		Status:      domain.Draft,
		Lines:       lines,
		AuditFields: domain.NewAuditFields(actor.ActorID, now),
	}, nil
}

// checkAccounts resolves every referenced account and requires it to be active.
func (s *journalService) checkAccounts(ctx context.Context, lines []domain.JournalLine) error {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; !ok && l.AccountID != "" {
			seen[l.AccountID] = struct{}{}
			ids = append(ids, l.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve accounts: %w", err)
	}

	for _, l := range lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return fmt.Errorf("%w: line %d references unknown account %q", apperrors.ErrInvalidLine, l.LineNo, l.AccountID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: line %d references inactive account %s (%s)", apperrors.ErrInvalidLine, l.LineNo, acc.Code, acc.Name)
		}
	}
	return nil
}

// persist assigns the entry number and saves the entry in one transaction.
func (s *journalService) persist(ctx context.Context, entry *domain.JournalEntry) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		seq, err := s.journalRepo.NextEntrySequence(ctx)
		if err != nil {
			return err
		}
		entry.EntryNumber = fmt.Sprintf("%s-%s-%06d", s.prefix, entry.EntryDate.Format("200601"), seq)
		return s.journalRepo.SaveEntry(ctx, *entry)
	})
}

func (s *journalService) recordCreation(outcome string) {
	if s.metrics != nil {
		s.metrics.EntriesCreated.WithLabelValues(outcome).Inc()
	}
}

// GetEntry retrieves an entry with its lines.
func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries returns a page of entries, newest first.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	entries, next, err := s.journalRepo.ListEntries(ctx,
		portsrepo.JournalFilter{Status: params.Status},
		pagination.NormalizeLimit(params.Limit),
		params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list journal entries")
		}
		return nil, nil, err
	}
	return entries, next, nil
}

// CancelEntry moves a DRAFT entry to CANCELLED.
func (s *journalService) CancelEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error) {
	if err := s.RequireCapability(ctx, actor, domain.CapCancelEntry); err != nil {
		return nil, err
	}

	var cancelled *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if err := entry.CanCancel(); err != nil {
			return err
		}

		change := portsrepo.StatusChange{
			EntryID:         entry.EntryID,
			From:            domain.Draft,
			To:              domain.Cancelled,
			ExpectedVersion: entry.Version,
			ActorID:         actor.ActorID,
			At:              s.Now(),
		}
		if err := s.journalRepo.TransitionStatus(ctx, change); err != nil {
			return err
		}
		entry.MarkCancelled(actor.ActorID, change.At)
		cancelled = entry
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) || errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Journal entry not cancelled", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to cancel journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.EntriesCancelled.Inc()
	}
	s.LogInfo(ctx, "Journal entry cancelled",
		slog.String("entry_id", cancelled.EntryID),
		slog.String("entry_number", cancelled.EntryNumber))
	return cancelled, nil
}

// CreateReversal records a DRAFT that mirrors a POSTED entry with sides swapped.
// The draft still has to be posted by an authorized second actor.
func (s *journalService) CreateReversal(ctx context.Context, actor domain.Actor, entryID string, req dto.CreateReversalRequest) (*domain.JournalEntry, error) {
	if err := s.RequireCapability(ctx, actor, domain.CapCreateEntry); err != nil {
		return nil, err
	}

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: only posted entries can be reversed, %s is %s", apperrors.ErrInvalidTransition, original.EntryNumber, original.Status)
	}
	if original.ReversalOfEntryID != nil {
		return nil, fmt.Errorf("%w: %s is itself a reversal", apperrors.ErrInvalidTransition, original.EntryNumber)
	}

	create := dto.CreateJournalEntryRequest{
		EntryDate:   original.EntryDate,
		Reference:   original.EntryNumber,
		Description: "Reversal of " + original.EntryNumber + ": " + original.Description,
		EntryType:   domain.EntryTypeReversal,
	}
	if req.EntryDate != nil {
		create.EntryDate = *req.EntryDate
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		create.Description = *req.Description
	}

	entry, err := s.buildEntry(ctx, actor, create, original.ReversalLines())
	if err != nil {
		s.recordCreation(metrics.OutcomeRejected)
		s.LogWarn(ctx, "Reversal rejected", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}
	entry.ReversalOfEntryID = &original.EntryID

	if err := s.persist(ctx, entry); err != nil {
		s.recordCreation(metrics.OutcomeError)
		s.LogError(ctx, err, "Failed to save reversal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	s.recordCreation(metrics.OutcomeCreated)
	s.LogInfo(ctx, "Reversal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("reverses", original.EntryNumber))
	return entry, nil
}
