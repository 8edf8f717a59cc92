package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/hotel_ledger/internal/models"
	"github.com/SscSPs/hotel_ledger/internal/utils/mapping"
	"github.com/SscSPs/hotel_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, entry_number, entry_date, reference, description, entry_type,
	total_debit, total_credit, status, posted_by, posted_at, cancelled_by, cancelled_at, reversal_of_entry_id,
	created_at, created_by, last_updated_at, last_updated_by, version`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Reference,
		&m.Description,
		&m.EntryType,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Status,
		&m.PostedBy,
		&m.PostedAt,
		&m.CancelledBy,
		&m.CancelledAt,
		&m.ReversalOfEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	return m, err
}

// SaveEntry inserts the entry header and its lines in one batch.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);`,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.Reference,
		m.Description,
		m.EntryType,
		m.TotalDebit,
		m.TotalCredit,
		m.Status,
		m.PostedBy,
		m.PostedAt,
		m.CancelledBy,
		m.CancelledAt,
		m.ReversalOfEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)

	lineQuery := `
		INSERT INTO journal_lines (entry_id, line_no, account_id, description, debit, credit)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, l := range entry.Lines {
		ml := mapping.ToModelJournalLine(entry.EntryID, l)
		batch.Queue(lineQuery, ml.EntryID, ml.LineNo, ml.AccountID, ml.Description, ml.Debit, ml.Credit)
	}

	// Close reports the first failing statement.
	if err := r.conn(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "journal entry "+m.EntryNumber)
	}
	return nil
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m, err := scanEntry(r.conn(ctx).QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find journal entry "+entryID, err)
	}

	lines, err := r.linesFor(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m, lines[entryID])
	return &entry, nil
}

// FindEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, entryID, false)
}

// FindEntryByIDForUpdate retrieves an entry and holds a row lock until the transaction ends.
func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, entryID, true)
}

// linesFor loads the lines of the given entries keyed by entry ID, in line order.
func (r *PgxJournalRepository) linesFor(ctx context.Context, entryIDs []string) (map[string][]models.JournalLine, error) {
	query := `
		SELECT entry_id, line_no, account_id, description, debit, credit
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_no;
	`
	rows, err := r.conn(ctx).Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query journal lines", err)
	}
	defer rows.Close()

	result := make(map[string][]models.JournalLine, len(entryIDs))
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.EntryID, &l.LineNo, &l.AccountID, &l.Description, &l.Debit, &l.Credit); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan journal line row", err)
		}
		result[l.EntryID] = append(result[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating journal line rows", err)
	}
	return result, nil
}

// ListEntries retrieves a page of entries newest first using token-based pagination.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter portsrepo.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	args := []any{status}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ($1::text IS NULL OR status = $1)`

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at, entry_id) < ($2, $3, $4)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query journal entries", err)
	}
	entries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan journal entry row", err)
		}
		entries = append(entries, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating journal entry rows", err)
	}

	var next *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.EntryID})
		next = &token
		entries = entries[:limit]
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	result := make([]domain.JournalEntry, len(entries))
	for i, e := range entries {
		result[i] = mapping.ToDomainJournalEntry(e, lines[e.EntryID])
	}
	return result, next, nil
}

// HasLinesForAccount reports whether any journal line references accountID.
func (r *PgxJournalRepository) HasLinesForAccount(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to check journal lines for account "+accountID, err)
	}
	return exists, nil
}

// TransitionStatus updates status and version only when both still match.
func (r *PgxJournalRepository) TransitionStatus(ctx context.Context, change portsrepo.StatusChange) error {
	var postedBy, cancelledBy *string
	switch change.To {
	case domain.Posted:
		postedBy = &change.ActorID
	case domain.Cancelled:
		cancelledBy = &change.ActorID
	default:
		return fmt.Errorf("%w: unsupported target status %s", apperrors.ErrInvalidTransition, change.To)
	}

	query := `
		UPDATE journal_entries
		SET status = $1,
		    posted_by = COALESCE($2, posted_by),
		    posted_at = CASE WHEN $2::text IS NULL THEN posted_at ELSE $3 END,
		    cancelled_by = COALESCE($4, cancelled_by),
		    cancelled_at = CASE WHEN $4::text IS NULL THEN cancelled_at ELSE $3 END,
		    last_updated_at = $3, last_updated_by = $5, version = version + 1
		WHERE entry_id = $6 AND status = $7 AND version = $8;
	`
	tag, err := r.conn(ctx).Exec(ctx, query,
		string(change.To),
		postedBy,
		change.At,
		cancelledBy,
		change.ActorID,
		change.EntryID,
		string(change.From),
		change.ExpectedVersion,
	)
	if err != nil {
		return mapWriteError(err, "journal entry "+change.EntryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is no longer %s at version %d",
			apperrors.ErrConflict, change.EntryID, change.From, change.ExpectedVersion)
	}
	return nil
}

// NextEntrySequence draws the next value of journal_entry_number_seq.
func (r *PgxJournalRepository) NextEntrySequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT nextval('journal_entry_number_seq');`).Scan(&seq); err != nil {
		return 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to draw entry sequence", err)
	}
	return seq, nil
}
