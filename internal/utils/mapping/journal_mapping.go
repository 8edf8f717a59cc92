package mapping

import (
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/SscSPs/hotel_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry. Lines are mapped separately.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.EntryDate,
		Reference:         d.Reference,
		Description:       d.Description,
		EntryType:         string(d.EntryType),
		TotalDebit:        d.TotalDebit,
		TotalCredit:       d.TotalCredit,
		Status:            string(d.Status),
		PostedBy:          d.PostedBy,
		PostedAt:          d.PostedAt,
		CancelledBy:       d.CancelledBy,
		CancelledAt:       d.CancelledAt,
		ReversalOfEntryID: d.ReversalOfEntryID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		EntryNumber:       m.EntryNumber,
		EntryDate:         m.EntryDate,
		Reference:         m.Reference,
		Description:       m.Description,
		EntryType:         domain.EntryType(m.EntryType),
		TotalDebit:        m.TotalDebit,
		TotalCredit:       m.TotalCredit,
		Status:            domain.JournalStatus(m.Status),
		PostedBy:          m.PostedBy,
		PostedAt:          m.PostedAt,
		CancelledBy:       m.CancelledBy,
		CancelledAt:       m.CancelledAt,
		ReversalOfEntryID: m.ReversalOfEntryID,
		Lines:             ToDomainJournalLineSlice(lines),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine belonging to entryID to a model JournalLine
func ToModelJournalLine(entryID string, d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		EntryID:     entryID,
		LineNo:      d.LineNo,
		AccountID:   d.AccountID,
		Description: d.Description,
		Debit:       d.Debit,
		Credit:      d.Credit,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineNo:      m.LineNo,
		AccountID:   m.AccountID,
		Description: m.Description,
		Debit:       m.Debit,
		Credit:      m.Credit,
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to a slice of domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
