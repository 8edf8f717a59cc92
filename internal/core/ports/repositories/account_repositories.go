package repositories

import (
	"context"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
)

// AccountFilter narrows account listings. A zero value lists active accounts of every type.
type AccountFilter struct {
	AccountType     *domain.AccountType
	IncludeInactive bool
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its unique chart-of-accounts code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns accounts matching the filter ordered by code ascending.
	ListAccounts(ctx context.Context, filter AccountFilter) ([]domain.Account, error)

	// CountChildren returns the number of accounts whose parent is accountID.
	CountChildren(ctx context.Context, accountID string) (int, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A duplicate code yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount persists changes when the stored version equals expectedVersion,
	// otherwise apperrors.ErrConflict.
	UpdateAccount(ctx context.Context, account domain.Account, expectedVersion int) error

	// DeleteAccount hard-deletes an account. Callers must ensure it is unreferenced.
	DeleteAccount(ctx context.Context, accountID string) error

	// LockHierarchy blocks other parent changes until the current transaction ends.
	// Ancestor reads made after it see every previously committed move.
	LockHierarchy(ctx context.Context) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
