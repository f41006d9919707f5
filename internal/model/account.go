package model

import (
	"github.com/shopspring/decimal"
)

// Category classifies accounts in the chart of accounts.
type Category string

const (
	CategoryAsset     Category = "asset"
	CategoryLiability Category = "liability"
	CategoryEquity    Category = "equity"
	CategoryRevenue   Category = "revenue"
	CategoryExpense   Category = "expense"
)

// Valid reports whether the category is one of the five recognized kinds.
func (c Category) Valid() bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryEquity, CategoryRevenue, CategoryExpense:
		return true
	}
	return false
}

// Statement identifies which financial statement an account reports on.
// Income-statement accounts are reset to zero at every period close;
// balance-sheet accounts persist across periods.
type Statement string

const (
	StatementBalanceSheet    Statement = "balance_sheet"
	StatementIncomeStatement Statement = "income_statement"
)

// Valid reports whether the statement is recognized.
func (s Statement) Valid() bool {
	return s == StatementBalanceSheet || s == StatementIncomeStatement
}

// StatementFor returns the statement a category reports on.
func StatementFor(c Category) Statement {
	if c == CategoryRevenue || c == CategoryExpense {
		return StatementIncomeStatement
	}
	return StatementBalanceSheet
}

// Account is a single ledger line: a named balance with a fixed category.
// Balances are debit-positive: assets and expenses normally carry positive
// balances; liabilities, equity and revenue carry negative ones.
type Account struct {
	Name        string
	Category    Category
	Statement   Statement
	SubCategory string // presentation grouping, may be empty
	Balance     decimal.Decimal
}
