package services

import (
	"context"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/SscSPs/hotel_ledger/internal/dto"
)

// LedgerSvcFacade is the read side of the general ledger.
type LedgerSvcFacade interface {
	// BalanceOf returns raw debit/credit totals of posted rows, optionally as of a date.
	BalanceOf(ctx context.Context, accountID string, asOf *time.Time) (*domain.AccountBalance, error)

	// BalancesOf computes balances for several accounts concurrently.
	BalancesOf(ctx context.Context, accountIDs []string, asOf *time.Time) ([]domain.AccountBalance, error)

	// RowsFor returns the ledger rows produced by posting a journal entry.
	RowsFor(ctx context.Context, entryID string) ([]domain.LedgerRow, error)

	// ListRowsByAccount returns an account statement page, oldest first.
	ListRowsByAccount(ctx context.Context, accountID string, params dto.ListLedgerRowsParams) ([]domain.LedgerRow, *string, error)
}
