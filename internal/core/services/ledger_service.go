package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hotel_ledger/internal/core/ports/services"
	"github.com/SscSPs/hotel_ledger/internal/dto"
	"github.com/SscSPs/hotel_ledger/internal/utils/pagination"
	"golang.org/x/sync/errgroup"
)

// balanceWorkers bounds concurrent balance queries in BalancesOf.
const balanceWorkers = 8

// ledgerService is the read side of the general ledger.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.JournalReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewLedgerService creates a new ledger query service.
func NewLedgerService(accountRepo portsrepo.AccountReader, journalRepo portsrepo.JournalReader, ledgerRepo portsrepo.LedgerReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// BalanceOf sums posted ledger rows for an account, optionally up to asOf inclusive.
func (s *ledgerService) BalanceOf(ctx context.Context, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	var cutoff *time.Time
	if asOf != nil {
		t := domain.EntryDay(*asOf)
		cutoff = &t
	}

	debit, credit, err := s.ledgerRepo.SumByAccount(ctx, accountID, cutoff)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum ledger rows", slog.String("account_id", accountID))
		return nil, err
	}
	return &domain.AccountBalance{
		AccountID:   accountID,
		DebitTotal:  debit,
		CreditTotal: credit,
		AsOf:        cutoff,
	}, nil
}

// BalancesOf computes balances for several accounts concurrently; the result
// keeps the order of accountIDs. The first failure cancels the rest.
func (s *ledgerService) BalancesOf(ctx context.Context, accountIDs []string, asOf *time.Time) ([]domain.AccountBalance, error) {
	balances := make([]domain.AccountBalance, len(accountIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(balanceWorkers)
	for i, id := range accountIDs {
		g.Go(func() error {
			b, err := s.BalanceOf(gctx, id, asOf)
			if err != nil {
				return err
			}
			balances[i] = *b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}

// RowsFor returns the ledger rows produced by posting entryID. A draft or
// cancelled entry yields an empty slice.
func (s *ledgerService) RowsFor(ctx context.Context, entryID string) ([]domain.LedgerRow, error) {
	if _, err := s.journalRepo.FindEntryByID(ctx, entryID); err != nil {
		return nil, err
	}
	rows, err := s.ledgerRepo.RowsByJournalEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger rows", slog.String("entry_id", entryID))
		return nil, err
	}
	return rows, nil
}

// ListRowsByAccount returns a statement page for an account, oldest first.
func (s *ledgerService) ListRowsByAccount(ctx context.Context, accountID string, params dto.ListLedgerRowsParams) ([]domain.LedgerRow, *string, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, nil, err
	}
	rows, next, err := s.ledgerRepo.ListRowsByAccount(ctx, accountID, pagination.NormalizeLimit(params.Limit), params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list ledger rows", slog.String("account_id", accountID))
		}
		return nil, nil, err
	}
	return rows, next, nil
}
