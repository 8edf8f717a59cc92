package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification was detected (stale version or lost compare-and-set).
var ErrConflict = errors.New("conflicting update")

// ErrForbidden indicates the acting principal lacks the capability for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected storage or infrastructure failure.
var ErrInternal = errors.New("internal error")

// Ledger-specific kinds. Validation kinds also match ErrValidation.
var (
	ErrInvalidAccount  = fmt.Errorf("%w: invalid account", ErrValidation)
	ErrTooFewLines     = fmt.Errorf("%w: journal entry requires at least two lines", ErrValidation)
	ErrInvalidLine     = fmt.Errorf("%w: invalid journal line", ErrValidation)
	ErrUnbalancedEntry = fmt.Errorf("%w: journal entry is not balanced", ErrValidation)

	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrAlreadyPosted      = errors.New("journal entry already posted")
	ErrSeparationOfDuties = fmt.Errorf("%w: separation of duties violation", ErrForbidden)
)

// UnbalancedEntryError reports the totals of a journal entry whose sides do not match.
type UnbalancedEntryError struct {
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Difference decimal.Decimal // Debit - Credit
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("%s: debit %s, credit %s, difference %s",
		ErrUnbalancedEntry.Error(), FormatAmount(e.Debit), FormatAmount(e.Credit), FormatAmount(e.Difference))
}

// FormatAmount prints d with at least two decimal places and never rounds
// away a nonzero digit, so a sub-cent imbalance stays visible.
func FormatAmount(d decimal.Decimal) string {
	places := int32(2)
	if exp := -d.Exponent(); exp > places {
		places = exp
	}
	return d.StringFixed(places)
}

// Is lets errors.Is match both ErrUnbalancedEntry and ErrValidation.
func (e *UnbalancedEntryError) Is(target error) bool {
	return target == ErrUnbalancedEntry || target == ErrValidation
}

// NewUnbalancedEntryError builds an UnbalancedEntryError from the two totals.
func NewUnbalancedEntryError(debit, credit decimal.Decimal) *UnbalancedEntryError {
	return &UnbalancedEntryError{Debit: debit, Credit: credit, Difference: debit.Sub(credit)}
}

// AppError carries an HTTP-like status code alongside a wrapped cause.
// Repositories use it for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}
