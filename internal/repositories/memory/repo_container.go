package memory

import (
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the in-memory repositories around one store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:   store,
		AccountRepo: newAccountRepository(store),
		JournalRepo: newJournalRepository(store),
		LedgerRepo:  newLedgerRepository(store),
	}
}
