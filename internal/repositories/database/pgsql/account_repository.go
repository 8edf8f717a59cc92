package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/hotel_ledger/internal/models"
	"github.com/SscSPs/hotel_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, code, name, account_type, category, parent_account_id, is_active,
	created_at, created_by, last_updated_at, last_updated_by, version`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Category,
		&m.ParentAccountID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	return m, err
}

func (r *PgxAccountRepository) collectAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query accounts", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan account row", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating account rows", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Category,
		m.ParentAccountID,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapWriteError(err, "account "+m.Code)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.conn(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find account by ID "+accountID, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountByCode retrieves an account by its chart-of-accounts code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	m, err := scanAccount(r.conn(ctx).QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find account by code "+code, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	accounts, err := r.collectAccounts(ctx, query, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		result[a.AccountID] = a
	}
	return result, nil
}

// ListAccounts returns accounts matching filter ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	var accountType *string
	if filter.AccountType != nil {
		t := string(*filter.AccountType)
		accountType = &t
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE ($1::text IS NULL OR account_type = $1)
		  AND ($2 OR is_active)
		ORDER BY code ASC;
	`
	return r.collectAccounts(ctx, query, accountType, filter.IncludeInactive)
}

// CountChildren returns the number of direct children of accountID.
func (r *PgxAccountRepository) CountChildren(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE parent_account_id = $1;`, accountID).Scan(&n)
	if err != nil {
		return 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to count child accounts of "+accountID, err)
	}
	return n, nil
}

// UpdateAccount writes mutable fields when the stored version matches expectedVersion.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account, expectedVersion int) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $1, category = $2, parent_account_id = $3, is_active = $4,
		    last_updated_at = $5, last_updated_by = $6, version = $7
		WHERE account_id = $8 AND version = $9;
	`
	tag, err := r.conn(ctx).Exec(ctx, query,
		m.Name,
		m.Category,
		m.ParentAccountID,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
		m.AccountID,
		expectedVersion,
	)
	if err != nil {
		return mapWriteError(err, "account "+m.AccountID)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.FindAccountByID(ctx, m.AccountID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: account %s changed since version %d", apperrors.ErrConflict, m.AccountID, expectedVersion)
	}
	return nil
}

// DeleteAccount hard-deletes an account.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return mapWriteError(err, "account "+accountID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// accountHierarchyLockKey identifies the advisory lock taken for parent changes.
const accountHierarchyLockKey int64 = 0x4c4544474552 // "LEDGER"

// LockHierarchy takes a transaction-scoped advisory lock. Outside a transaction
// the lock is released as soon as the statement ends.
func (r *PgxAccountRepository) LockHierarchy(ctx context.Context) error {
	if _, err := r.conn(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, accountHierarchyLockKey); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to lock account hierarchy", err)
	}
	return nil
}
