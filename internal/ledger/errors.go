package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError describes a malformed transaction request (wrong shape,
// not a balance or account problem).
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid transaction: %s", e.Reason)
}

// UnbalancedTransactionError is returned when the line amounts of a
// transaction request do not sum to exactly zero.
type UnbalancedTransactionError struct {
	Sum decimal.Decimal
}

func (e UnbalancedTransactionError) Error() string {
	return fmt.Sprintf("transaction does not balance: line amounts sum to %s, want 0", e.Sum)
}

// InvalidAccountError is returned when a transaction references an account
// name that is not in the chart of accounts.
type InvalidAccountError struct {
	Name string
}

func (e InvalidAccountError) Error() string {
	return fmt.Sprintf("unknown account %q", e.Name)
}

// DuplicateAccountError is returned when adding an account whose name is
// already present.
type DuplicateAccountError struct {
	Name string
}

func (e DuplicateAccountError) Error() string {
	return fmt.Sprintf("account %q already exists", e.Name)
}
