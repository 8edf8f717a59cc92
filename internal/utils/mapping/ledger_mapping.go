package mapping

import (
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/SscSPs/hotel_ledger/internal/models"
)

// ToModelLedgerRow converts a domain LedgerRow to a model LedgerRow
func ToModelLedgerRow(d domain.LedgerRow) models.LedgerRow {
	return models.LedgerRow{
		RowID:          d.RowID,
		AccountID:      d.AccountID,
		EntryDate:      d.EntryDate,
		Description:    d.Description,
		Debit:          d.Debit,
		Credit:         d.Credit,
		Reference:      d.Reference,
		JournalEntryID: d.JournalEntryID,
		LineNo:         d.LineNo,
		PostedBy:       d.PostedBy,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainLedgerRow converts a model LedgerRow to a domain LedgerRow
func ToDomainLedgerRow(m models.LedgerRow) domain.LedgerRow {
	return domain.LedgerRow{
		RowID:          m.RowID,
		AccountID:      m.AccountID,
		EntryDate:      m.EntryDate,
		Description:    m.Description,
		Debit:          m.Debit,
		Credit:         m.Credit,
		Reference:      m.Reference,
		JournalEntryID: m.JournalEntryID,
		LineNo:         m.LineNo,
		PostedBy:       m.PostedBy,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainLedgerRowSlice converts a slice of model LedgerRows to a slice of domain LedgerRows
func ToDomainLedgerRowSlice(ms []models.LedgerRow) []domain.LedgerRow {
	ds := make([]domain.LedgerRow, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerRow(m)
	}
	return ds
}
