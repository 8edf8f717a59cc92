package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hotel_ledger/internal/core/ports/services"
	"github.com/SscSPs/hotel_ledger/internal/dto"
	"github.com/google/uuid"
)

// maxAccountDepth bounds ancestor walks so corrupted data cannot loop forever.
const maxAccountDepth = 64

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalReader
	ledgerRepo  portsrepo.LedgerReader
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountUsageReaders lets DeleteAccount check journal lines and ledger rows.
func WithAccountUsageReaders(journalRepo portsrepo.JournalReader, ledgerRepo portsrepo.LedgerReader) AccountServiceOption {
	return func(s *accountService) {
		s.journalRepo = journalRepo
		s.ledgerRepo = ledgerRepo
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(txManager portsrepo.TransactionManager, repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		txManager:   txManager,
		accountRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.RequireCapability(ctx, actor, domain.CapManageAccounts); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: code and name are required", apperrors.ErrInvalidAccount)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrInvalidAccount, req.AccountType)
	}

	if _, err := s.accountRepo.FindAccountByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("%w: code %s already in use", apperrors.ErrInvalidAccount, code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code", slog.String("code", code))
		return nil, err
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		if _, err := s.accountRepo.FindAccountByID(ctx, parentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrInvalidAccount, parentID)
			}
			s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", parentID))
			return nil, err
		}
	}

	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            code,
		Name:            name,
		AccountType:     req.AccountType,
		Category:        strings.TrimSpace(req.Category),
		ParentAccountID: parentID,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(actor.ActorID, s.Now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: code %s already in use", apperrors.ErrInvalidAccount, code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}
	return s.ListAccounts(ctx, dto.ListAccountsParams{AccountType: &accountType, IncludeInactive: true})
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{
		AccountType:     params.AccountType,
		IncludeInactive: params.IncludeInactive,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	if err := s.RequireCapability(ctx, actor, domain.CapManageAccounts); err != nil {
		return nil, err
	}

	var updated *domain.Account
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		// Concurrent moves must not each pass the cycle check against the old tree.
		if req.ParentAccountID != nil {
			if err := s.accountRepo.LockHierarchy(ctx); err != nil {
				return err
			}
		}

		account, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		expectedVersion := account.Version

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: name cannot be empty", apperrors.ErrInvalidAccount)
			}
			account.Name = name
		}
		if req.Category != nil {
			account.Category = strings.TrimSpace(*req.Category)
		}
		if req.IsActive != nil {
			account.IsActive = *req.IsActive
		}
		if req.ParentAccountID != nil && *req.ParentAccountID != account.ParentAccountID {
			if err := s.checkParent(ctx, account.AccountID, *req.ParentAccountID); err != nil {
				return err
			}
			account.ParentAccountID = *req.ParentAccountID
		}

		account.Touch(actor.ActorID, s.Now())
		if err := s.accountRepo.UpdateAccount(ctx, *account, expectedVersion); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return updated, nil
}

// checkParent verifies that parentID exists and that attaching accountID under it
// would not make accountID its own ancestor.
func (s *accountService) checkParent(ctx context.Context, accountID, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == accountID {
		return fmt.Errorf("%w: account cannot be its own parent", apperrors.ErrInvalidAccount)
	}

	current := parentID
	for depth := 0; current != ""; depth++ {
		if depth >= maxAccountDepth {
			return fmt.Errorf("%w: account hierarchy deeper than %d levels", apperrors.ErrInvalidAccount, maxAccountDepth)
		}
		ancestor, err := s.accountRepo.FindAccountByID(ctx, current)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrInvalidAccount, current)
			}
			return err
		}
		if ancestor.ParentAccountID == accountID {
			return fmt.Errorf("%w: moving %s under %s would create a cycle", apperrors.ErrInvalidAccount, accountID, parentID)
		}
		current = ancestor.ParentAccountID
	}
	return nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	if err := s.RequireCapability(ctx, actor, domain.CapManageAccounts); err != nil {
		return err
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !account.IsActive {
			return nil
		}
		expectedVersion := account.Version
		account.IsActive = false
		account.Touch(actor.ActorID, s.Now())
		return s.accountRepo.UpdateAccount(ctx, *account, expectedVersion)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		}
		return err
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) DeleteAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	if err := s.RequireCapability(ctx, actor, domain.CapManageAccounts); err != nil {
		return err
	}
	if s.journalRepo == nil || s.ledgerRepo == nil {
		return fmt.Errorf("%w: account deletion is not configured", apperrors.ErrInternal)
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
			return err
		}

		children, err := s.accountRepo.CountChildren(ctx, accountID)
		if err != nil {
			return err
		}
		if children > 0 {
			return fmt.Errorf("%w: account %s has %d child accounts", apperrors.ErrConflict, accountID, children)
		}

		used, err := s.journalRepo.HasLinesForAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if !used {
			used, err = s.ledgerRepo.HasRowsForAccount(ctx, accountID)
			if err != nil {
				return err
			}
		}
		if used {
			return fmt.Errorf("%w: account %s is referenced by journal history; deactivate it instead", apperrors.ErrConflict, accountID)
		}

		return s.accountRepo.DeleteAccount(ctx, accountID)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
