// Package ledger implements a double-entry general ledger with period
// closing. Every recorded change preserves the accounting equation: the
// sum of all account balances is zero at all times.
package ledger

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bokisim/bokisim/internal/id"
	"github.com/bokisim/bokisim/internal/model"
)

// NetIncomeKey is the synthetic entry added to the closing snapshot.
const NetIncomeKey = "netIncome"

// Recorder persists ledger mutations. Implementations must apply each call
// inside a single storage transaction so the check-then-apply sequence
// stays atomic against crash or concurrent access.
type Recorder interface {
	RecordTransaction(txn model.Transaction, balances map[string]decimal.Decimal) error
	// RecordClose receives the pre-close snapshot (with the synthetic
	// netIncome entry) and the post-close balances.
	RecordClose(period int, snapshot, balances map[string]decimal.Decimal) error
}

// TrialBalance is the current set of balances without closing. A non-zero
// Total means the zero-sum invariant is broken; callers decide whether to
// treat that as fatal.
type TrialBalance struct {
	Balances map[string]decimal.Decimal
	Total    decimal.Decimal
}

// Ledger owns a chart of accounts and an append-only transaction log
// scoped to the current period. Single-threaded: one operation completes
// fully before the next begins.
type Ledger struct {
	accounts map[string]*model.Account
	order    []string
	log      []model.Transaction
	period   int
	seq      int
	clock    func() time.Time
	rec      Recorder
	logger   zerolog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock injects the time source used to stamp transactions. The
// ledger never reads wall-clock time itself when the period driver
// supplies one.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

// WithRecorder attaches a persistence recorder.
func WithRecorder(rec Recorder) Option {
	return func(l *Ledger) { l.rec = rec }
}

// WithLogger sets the structured logger used for consistency warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New creates a Ledger initialized from a chart of accounts. Balances
// start at zero regardless of what the chart carries.
func New(chart []model.Account, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		accounts: make(map[string]*model.Account, len(chart)),
		period:   1,
		clock:    time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, a := range chart {
		if err := l.AddAccount(a.Name, a.Category, a.Statement, a.SubCategory); err != nil {
			return nil, fmt.Errorf("initializing chart: %w", err)
		}
	}
	return l, nil
}

// AddAccount adds a new account with a zero balance.
func (l *Ledger) AddAccount(name string, category model.Category, statement model.Statement, subCategory string) error {
	if _, ok := l.accounts[name]; ok {
		return DuplicateAccountError{Name: name}
	}
	if !category.Valid() {
		return ValidationError{Reason: fmt.Sprintf("unknown category %q", category)}
	}
	if !statement.Valid() {
		return ValidationError{Reason: fmt.Sprintf("unknown statement %q", statement)}
	}

	l.accounts[name] = &model.Account{
		Name:        name,
		Category:    category,
		Statement:   statement,
		SubCategory: subCategory,
		Balance:     decimal.Zero,
	}
	l.order = append(l.order, name)
	return nil
}

// Exists reports whether an account name is known to the ledger.
func (l *Ledger) Exists(name string) bool {
	_, ok := l.accounts[name]
	return ok
}

// Balance returns the current balance of a named account.
func (l *Ledger) Balance(name string) (decimal.Decimal, error) {
	acct, ok := l.accounts[name]
	if !ok {
		return decimal.Zero, InvalidAccountError{Name: name}
	}
	return acct.Balance, nil
}

// Period returns the current accounting period, starting at 1.
func (l *Ledger) Period() int {
	return l.period
}

// Log returns the transactions recorded in the current period.
func (l *Ledger) Log() []model.Transaction {
	out := make([]model.Transaction, len(l.log))
	copy(out, l.log)
	return out
}

// Execute validates and applies a balanced transaction. Validation happens
// before any mutation: on failure the ledger is unchanged. Returns the
// recorded transaction.
func (l *Ledger) Execute(lines []model.Line, description string) (model.Transaction, error) {
	if err := ValidateLines(lines, l); err != nil {
		return model.Transaction{}, err
	}

	for _, line := range lines {
		l.accounts[line.Account].Balance = l.accounts[line.Account].Balance.Add(line.Amount)
	}

	l.seq++
	txn := model.Transaction{
		ID:          id.FormatTransactionID(l.period, l.seq),
		Period:      l.period,
		Lines:       append([]model.Line(nil), lines...),
		Description: description,
		Timestamp:   l.clock(),
	}

	if l.rec != nil {
		if err := l.rec.RecordTransaction(txn, l.balances()); err != nil {
			// Undo the in-memory application so memory and storage agree.
			for _, line := range lines {
				l.accounts[line.Account].Balance = l.accounts[line.Account].Balance.Sub(line.Amount)
			}
			l.seq--
			return model.Transaction{}, fmt.Errorf("recording transaction: %w", err)
		}
	}

	l.log = append(l.log, txn)
	return txn, nil
}

// ClosePeriod settles the current period: net income is computed from the
// income-statement accounts, rolled into retained earnings, and every
// income-statement account is reset to zero. Returns a balance snapshot
// keyed by account name plus a synthetic netIncome entry.
//
// Revenue accounts carry credit (negative) balances and expense accounts
// debit (positive) ones, so their algebraic sum is -netIncome. Closing
// with no intervening transactions yields netIncome == 0 and changes
// nothing.
func (l *Ledger) ClosePeriod(retainedEarnings string) (map[string]decimal.Decimal, error) {
	re, ok := l.accounts[retainedEarnings]
	if !ok {
		return nil, InvalidAccountError{Name: retainedEarnings}
	}

	netIncomeRaw := decimal.Zero
	for _, name := range l.order {
		acct := l.accounts[name]
		if acct.Category == model.CategoryRevenue || acct.Category == model.CategoryExpense {
			netIncomeRaw = netIncomeRaw.Add(acct.Balance)
		}
	}

	snapshot := l.balances()
	snapshot[NetIncomeKey] = netIncomeRaw.Neg()

	// Roll net income into equity, then zero the income statement. Adding
	// the raw (credit-negative) sum to retained earnings credits equity by
	// exactly the profit, keeping the zero-sum invariant.
	cleared := make(map[string]decimal.Decimal)
	re.Balance = re.Balance.Add(netIncomeRaw)
	for _, name := range l.order {
		acct := l.accounts[name]
		if acct.Statement == model.StatementIncomeStatement && !acct.Balance.IsZero() {
			cleared[name] = acct.Balance
			acct.Balance = decimal.Zero
		}
	}

	if l.rec != nil {
		if err := l.rec.RecordClose(l.period, snapshot, l.balances()); err != nil {
			for name, bal := range cleared {
				l.accounts[name].Balance = bal
			}
			re.Balance = re.Balance.Sub(netIncomeRaw)
			return nil, fmt.Errorf("recording period close: %w", err)
		}
	}

	l.logger.Info().
		Int("period", l.period).
		Str("net_income", netIncomeRaw.Neg().String()).
		Msg("period closed")

	l.period++
	l.seq = 0
	l.log = nil
	return snapshot, nil
}

// GetTrialBalance returns the current balances without closing. A non-zero
// total is a consistency bug: it is logged as a warning and surfaced on
// the result, not raised, so display code can still use the partial state.
func (l *Ledger) GetTrialBalance() TrialBalance {
	balances := l.balances()
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b)
	}

	if !total.IsZero() {
		l.logger.Warn().
			Str("total", total.String()).
			Int("period", l.period).
			Msg("trial balance does not sum to zero")
	}

	return TrialBalance{Balances: balances, Total: total}
}

// Accounts returns copies of all accounts in chart order.
func (l *Ledger) Accounts() []model.Account {
	out := make([]model.Account, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, *l.accounts[name])
	}
	return out
}

func (l *Ledger) balances() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(l.accounts))
	for name, acct := range l.accounts {
		out[name] = acct.Balance
	}
	return out
}
