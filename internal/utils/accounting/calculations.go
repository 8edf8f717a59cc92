package accounting

import (
	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultTolerance is the largest |debit - credit| accepted as balanced.
var DefaultTolerance = decimal.New(1, -2) // 0.01

// SumLines returns the debit and credit totals of the given lines.
func SumLines(lines []domain.JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// CheckBalance returns an *apperrors.UnbalancedEntryError when the two sides
// differ by more than tolerance, and the totals either way.
func CheckBalance(lines []domain.JournalLine, tolerance decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := SumLines(lines)
	if debit.Sub(credit).Abs().GreaterThan(tolerance) {
		return debit, credit, apperrors.NewUnbalancedEntryError(debit, credit)
	}
	return debit, credit, nil
}
