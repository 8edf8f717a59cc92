package services

import (
	"context"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/SscSPs/hotel_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByID resolves an account by its identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode resolves an account by its chart-of-accounts code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccountsByType returns every account of the given type ordered by code.
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)

	// ListAccounts returns accounts matching the params ordered by code.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount registers a new account.
	CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount changes an existing account's mutable details.
	UpdateAccount(ctx context.Context, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount marks an account inactive. Idempotent.
	DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) error

	// DeleteAccount removes an account that no journal line, ledger row or child references.
	DeleteAccount(ctx context.Context, actor domain.Actor, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
