package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/bokisim/bokisim/internal/model"
)

// AccountChecker tests whether an account name exists in the chart of
// accounts.
type AccountChecker interface {
	Exists(name string) bool
}

// ValidateLines enforces the double-entry invariants on a transaction
// request before any balance is touched:
//
//  1. at least two line items;
//  2. every line references a known account;
//  3. the signed amounts sum to exactly zero; there is no epsilon,
//     amounts are fixed-point monetary units.
//
// The first violation found is returned; nil means the request may be
// applied.
func ValidateLines(lines []model.Line, accounts AccountChecker) error {
	if len(lines) < 2 {
		return ValidationError{Reason: "a transaction needs at least two line items"}
	}

	for _, l := range lines {
		if !accounts.Exists(l.Account) {
			return InvalidAccountError{Name: l.Account}
		}
	}

	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount)
	}
	if !sum.IsZero() {
		return UnbalancedTransactionError{Sum: sum}
	}

	return nil
}
