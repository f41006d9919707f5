package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one side of a double-entry posting: a signed adjustment to a
// named account. Positive amounts are debits, negative amounts credits.
type Line struct {
	Account string
	Amount  decimal.Decimal
}

// Transaction is a balanced set of line items recorded against the ledger.
// Immutable once recorded; the line amounts sum to exactly zero.
type Transaction struct {
	ID          string // "P<period>-<seq>", see internal/id
	Period      int
	Lines       []Line
	Description string
	Timestamp   time.Time
}

// Total returns the algebraic sum of the line amounts. Zero for any
// transaction the ledger accepted.
func (t Transaction) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range t.Lines {
		sum = sum.Add(l.Amount)
	}
	return sum
}
