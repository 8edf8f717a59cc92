package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/hotel_ledger/internal/models"
	"github.com/SscSPs/hotel_ledger/internal/utils/mapping"
	"github.com/SscSPs/hotel_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `row_id, account_id, entry_date, description, debit, credit, reference,
	journal_entry_id, line_no, posted_by, created_at`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository over the general_ledger table.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// AppendBatch inserts all rows in a single batch. It must run inside the posting transaction.
func (r *PgxLedgerRepository) AppendBatch(ctx context.Context, rows []domain.LedgerRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO general_ledger (` + ledgerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	for _, row := range rows {
		m := mapping.ToModelLedgerRow(row)
		batch.Queue(query,
			m.RowID,
			m.AccountID,
			m.EntryDate,
			m.Description,
			m.Debit,
			m.Credit,
			m.Reference,
			m.JournalEntryID,
			m.LineNo,
			m.PostedBy,
			m.CreatedAt,
		)
	}
	if err := r.conn(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "ledger rows for entry "+rows[0].JournalEntryID)
	}
	return nil
}

func (r *PgxLedgerRepository) collectRows(ctx context.Context, query string, args ...any) ([]models.LedgerRow, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query ledger rows", err)
	}
	defer rows.Close()

	result := []models.LedgerRow{}
	for rows.Next() {
		var m models.LedgerRow
		err := rows.Scan(
			&m.RowID,
			&m.AccountID,
			&m.EntryDate,
			&m.Description,
			&m.Debit,
			&m.Credit,
			&m.Reference,
			&m.JournalEntryID,
			&m.LineNo,
			&m.PostedBy,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan ledger row", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating ledger rows", err)
	}
	return result, nil
}

// RowsByJournalEntryID returns the rows of one posted entry in line order.
func (r *PgxLedgerRepository) RowsByJournalEntryID(ctx context.Context, entryID string) ([]domain.LedgerRow, error) {
	query := `SELECT ` + ledgerColumns + ` FROM general_ledger WHERE journal_entry_id = $1 ORDER BY line_no;`
	rows, err := r.collectRows(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerRowSlice(rows), nil
}

// SumByAccount totals debits and credits for accountID up to asOf inclusive.
func (r *PgxLedgerRepository) SumByAccount(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM general_ledger
		WHERE account_id = $1 AND ($2::date IS NULL OR entry_date <= $2::date);
	`
	var debit, credit decimal.Decimal
	if err := r.conn(ctx).QueryRow(ctx, query, accountID, asOf).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(http.StatusInternalServerError, "failed to sum ledger rows for account "+accountID, err)
	}
	return debit, credit, nil
}

// ListRowsByAccount returns a page of rows for accountID oldest first.
func (r *PgxLedgerRepository) ListRowsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerRow, *string, error) {
	fetchLimit := limit + 1
	args := []any{accountID}
	query := `SELECT ` + ledgerColumns + ` FROM general_ledger WHERE account_id = $1`

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at, row_id) > ($2, $3, $4)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY entry_date ASC, created_at ASC, row_id ASC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.collectRows(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(rows) > limit {
		last := rows[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.RowID})
		next = &token
		rows = rows[:limit]
	}
	return mapping.ToDomainLedgerRowSlice(rows), next, nil
}

// HasRowsForAccount reports whether any ledger row references accountID.
func (r *PgxLedgerRepository) HasRowsForAccount(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM general_ledger WHERE account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to check ledger rows for account "+accountID, err)
	}
	return exists, nil
}
