package services

import (
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hotel_ledger/internal/core/ports/services"
	"github.com/SscSPs/hotel_ledger/internal/platform/config"
	"github.com/SscSPs/hotel_ledger/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// m may be nil, in which case no metrics are recorded.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Metrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(
		repos.TxManager,
		repos.AccountRepo,
		WithAccountUsageReaders(repos.JournalRepo, repos.LedgerRepo),
	)

	container.Journal = NewJournalService(
		repos.TxManager,
		repos.JournalRepo,
		repos.AccountRepo,
		WithBalanceTolerance(cfg.BalanceTolerance),
		WithEntryNumberPrefix(cfg.EntryNumberPrefix),
		WithJournalMetrics(m),
	)

	container.Posting = NewPostingService(
		repos.TxManager,
		repos.JournalRepo,
		repos.LedgerRepo,
		WithStrictSeparationOfDuties(cfg.StrictSeparationOfDuties),
		WithPostingMetrics(m),
	)

	container.Ledger = NewLedgerService(repos.AccountRepo, repos.JournalRepo, repos.LedgerRepo)

	return container
}
