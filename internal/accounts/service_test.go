package accounts

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bokisim/bokisim/internal/model"
)

func TestService_Lookup(t *testing.T) {
	svc := NewService(DefaultChart())

	assert.True(t, svc.Exists(Cash))
	assert.True(t, svc.Exists(RetainedEarnings))
	assert.False(t, svc.Exists("Petty Cash"))

	acct, ok := svc.Get(SalesRevenue)
	require.True(t, ok)
	assert.Equal(t, model.CategoryRevenue, acct.Category)
	assert.Equal(t, model.StatementIncomeStatement, acct.Statement)
}

func TestService_ByCategory(t *testing.T) {
	svc := NewService(DefaultChart())

	expenses := svc.ByCategory(model.CategoryExpense)
	require.NotEmpty(t, expenses)
	for _, a := range expenses {
		assert.Equal(t, model.CategoryExpense, a.Category)
		assert.Equal(t, model.StatementIncomeStatement, a.Statement)
	}

	equity := svc.ByCategory(model.CategoryEquity)
	names := make([]string, 0, len(equity))
	for _, a := range equity {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{ShareCapital, RetainedEarnings}, names)
}

func TestService_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.csv")

	svc := NewService(DefaultChart())
	require.NoError(t, svc.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, loaded.All(), len(DefaultChart()))
	assert.True(t, loaded.Exists(MerchandiseInventory))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestDefaultChart_Consistent(t *testing.T) {
	for _, a := range DefaultChart() {
		assert.True(t, a.Category.Valid(), a.Name)
		assert.True(t, a.Statement.Valid(), a.Name)
		assert.Equal(t, model.StatementFor(a.Category), a.Statement, a.Name)
	}
}
