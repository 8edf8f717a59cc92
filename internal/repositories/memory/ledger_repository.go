package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/hotel_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	store *Store
}

func newLedgerRepository(store *Store) portsrepo.LedgerRepositoryFacade {
	return &ledgerRepository{store: store}
}

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

// AppendBatch stages all rows or none.
func (r *ledgerRepository) AppendBatch(ctx context.Context, rows []domain.LedgerRow) error {
	return r.store.write(ctx, func(st *state) error {
		keys := make(map[ledgerKey]struct{}, len(rows))
		for _, row := range rows {
			if _, ok := st.entries[row.JournalEntryID]; !ok {
				return fmt.Errorf("%w: ledger row references missing entry %s", apperrors.ErrValidation, row.JournalEntryID)
			}
			if _, ok := st.accounts[row.AccountID]; !ok {
				return fmt.Errorf("%w: ledger row references missing account %s", apperrors.ErrValidation, row.AccountID)
			}
			k := ledgerKey{entryID: row.JournalEntryID, lineNo: row.LineNo}
			if _, ok := st.ledgerKeys[k]; ok {
				return fmt.Errorf("%w: ledger row for entry %s line %d", apperrors.ErrDuplicate, row.JournalEntryID, row.LineNo)
			}
			if _, ok := keys[k]; ok {
				return fmt.Errorf("%w: ledger row for entry %s line %d", apperrors.ErrDuplicate, row.JournalEntryID, row.LineNo)
			}
			keys[k] = struct{}{}
		}
		for k := range keys {
			st.ledgerKeys[k] = struct{}{}
		}
		st.ledger = append(st.ledger, rows...)
		return nil
	})
}

func (r *ledgerRepository) RowsByJournalEntryID(ctx context.Context, entryID string) ([]domain.LedgerRow, error) {
	rows := []domain.LedgerRow{}
	err := r.store.read(ctx, func(st *state) error {
		for _, row := range st.ledger {
			if row.JournalEntryID == entryID {
				rows = append(rows, row)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].LineNo < rows[j].LineNo })
	return rows, nil
}

func (r *ledgerRepository) SumByAccount(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := decimal.Zero, decimal.Zero
	err := r.store.read(ctx, func(st *state) error {
		for _, row := range st.ledger {
			if row.AccountID != accountID {
				continue
			}
			if asOf != nil && domain.EntryDay(row.EntryDate).After(domain.EntryDay(*asOf)) {
				continue
			}
			debit = debit.Add(row.Debit)
			credit = credit.Add(row.Credit)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return debit, credit, nil
}

func (r *ledgerRepository) ListRowsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerRow, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	rows := []domain.LedgerRow{}
	err := r.store.read(ctx, func(st *state) error {
		for _, row := range st.ledger {
			if row.AccountID != accountID {
				continue
			}
			if cursor != nil && !cursor.After(row.EntryDate, row.CreatedAt, row.RowID) {
				continue
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Oldest first.
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		return pagination.Cursor{Date: b.EntryDate, CreatedAt: b.CreatedAt, ID: b.RowID}.Before(a.EntryDate, a.CreatedAt, a.RowID)
	})

	var next *string
	if len(rows) > limit {
		last := rows[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.RowID})
		next = &token
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (r *ledgerRepository) HasRowsForAccount(ctx context.Context, accountID string) (bool, error) {
	found := false
	err := r.store.read(ctx, func(st *state) error {
		for _, row := range st.ledger {
			if row.AccountID == accountID {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}
