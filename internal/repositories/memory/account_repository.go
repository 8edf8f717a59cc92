package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
)

type accountRepository struct {
	store *Store
}

func newAccountRepository(store *Store) portsrepo.AccountRepositoryFacade {
	return &accountRepository{store: store}
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.accounts[account.AccountID]; ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		if _, ok := st.accountCodes[account.Code]; ok {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
		if account.ParentAccountID != "" {
			if _, ok := st.accounts[account.ParentAccountID]; !ok {
				return fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrValidation, account.ParentAccountID)
			}
		}
		st.accounts[account.AccountID] = account
		st.accountCodes[account.Code] = account.AccountID
		return nil
	})
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var found domain.Account
	err := r.store.read(ctx, func(st *state) error {
		a, ok := st.accounts[accountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		found = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *accountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	var found domain.Account
	err := r.store.read(ctx, func(st *state) error {
		id, ok := st.accountCodes[code]
		if !ok {
			return fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
		}
		found = st.accounts[id]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	err := r.store.read(ctx, func(st *state) error {
		for _, id := range accountIDs {
			if a, ok := st.accounts[id]; ok {
				result[id] = a
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	accounts := []domain.Account{}
	err := r.store.read(ctx, func(st *state) error {
		for _, a := range st.accounts {
			if filter.AccountType != nil && a.AccountType != *filter.AccountType {
				continue
			}
			if !filter.IncludeInactive && !a.IsActive {
				continue
			}
			accounts = append(accounts, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (r *accountRepository) CountChildren(ctx context.Context, accountID string) (int, error) {
	n := 0
	err := r.store.read(ctx, func(st *state) error {
		for _, a := range st.accounts {
			if a.ParentAccountID == accountID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account, expectedVersion int) error {
	return r.store.write(ctx, func(st *state) error {
		current, ok := st.accounts[account.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
		}
		if current.Version != expectedVersion {
			return fmt.Errorf("%w: account %s changed since version %d", apperrors.ErrConflict, account.AccountID, expectedVersion)
		}
		// Code and type are immutable once created.
		account.Code = current.Code
		account.AccountType = current.AccountType
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (r *accountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	return r.store.write(ctx, func(st *state) error {
		a, ok := st.accounts[accountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		delete(st.accounts, accountID)
		delete(st.accountCodes, a.Code)
		return nil
	})
}

// LockHierarchy is satisfied by the store itself: units of work run one at a time.
func (r *accountRepository) LockHierarchy(ctx context.Context) error {
	return ctx.Err()
}
