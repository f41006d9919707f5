package store

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bokisim/bokisim/internal/accounts"
	"github.com/bokisim/bokisim/internal/id"
	"github.com/bokisim/bokisim/internal/ledger"
	"github.com/bokisim/bokisim/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordTransaction_RoundTrip(t *testing.T) {
	s := openStore(t)

	l, err := ledger.New(accounts.DefaultChart(), ledger.WithRecorder(s))
	require.NoError(t, err)

	txn, err := l.Execute([]model.Line{
		{Account: accounts.Cash, Amount: dec("5000")},
		{Account: accounts.ShareCapital, Amount: dec("-5000")},
	}, "initial capital")
	require.NoError(t, err)

	balances, err := s.Balances()
	require.NoError(t, err)
	assert.True(t, balances[accounts.Cash].Equal(dec("5000")))
	assert.True(t, balances[accounts.ShareCapital].Equal(dec("-5000")))

	txns, err := s.Transactions(1)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, txn.ID, txns[0].ID)
	assert.Equal(t, "initial capital", txns[0].Description)
	require.Len(t, txns[0].Lines, 2)
	assert.Equal(t, accounts.Cash, txns[0].Lines[0].Account)
	assert.True(t, txns[0].Lines[0].Amount.Equal(dec("5000")))
}

func TestRecordTransaction_DuplicateIDRejected(t *testing.T) {
	s := openStore(t)

	txn := model.Transaction{
		ID:     "P001-001",
		Period: 1,
		Lines: []model.Line{
			{Account: accounts.Cash, Amount: dec("1")},
			{Account: accounts.ShareCapital, Amount: dec("-1")},
		},
	}
	require.NoError(t, s.RecordTransaction(txn, map[string]decimal.Decimal{accounts.Cash: dec("1")}))

	err := s.RecordTransaction(txn, map[string]decimal.Decimal{accounts.Cash: dec("2")})
	require.Error(t, err)

	// The failed write must not have touched balances: one storage
	// transaction per recorder call.
	balances, err := s.Balances()
	require.NoError(t, err)
	assert.True(t, balances[accounts.Cash].Equal(dec("1")))
}

func TestTransactions_OrderedByInsertion(t *testing.T) {
	s := openStore(t)

	// Sequence 1000 sorts before 999 as text; read-back must follow
	// insertion order regardless.
	for _, seq := range []int{999, 1000} {
		txn := model.Transaction{
			ID:     id.FormatTransactionID(1, seq),
			Period: 1,
			Lines: []model.Line{
				{Account: accounts.Cash, Amount: dec("1")},
				{Account: accounts.ShareCapital, Amount: dec("-1")},
			},
		}
		require.NoError(t, s.RecordTransaction(txn, nil))
	}

	txns, err := s.Transactions(1)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "P001-999", txns[0].ID)
	assert.Equal(t, "P001-1000", txns[1].ID)
}

func TestRecordClose_PersistsSnapshotAndBalances(t *testing.T) {
	s := openStore(t)

	l, err := ledger.New(accounts.DefaultChart(), ledger.WithRecorder(s))
	require.NoError(t, err)

	_, err = l.Execute([]model.Line{
		{Account: accounts.Cash, Amount: dec("500")},
		{Account: accounts.SalesRevenue, Amount: dec("-500")},
	}, "sale")
	require.NoError(t, err)

	_, err = l.ClosePeriod(accounts.RetainedEarnings)
	require.NoError(t, err)

	balances, err := s.Balances()
	require.NoError(t, err)
	// Post-close balances: income statement zeroed, equity rolled forward.
	assert.True(t, balances[accounts.SalesRevenue].IsZero())
	assert.True(t, balances[accounts.RetainedEarnings].Equal(dec("-500")))
	_, hasSynthetic := balances[ledger.NetIncomeKey]
	assert.False(t, hasSynthetic, "synthetic netIncome entry must not become an account")
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Balances()
	assert.NoError(t, err)
}
