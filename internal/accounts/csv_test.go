package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bokisim/bokisim/internal/model"
)

func TestReadChart(t *testing.T) {
	input := `name,statement,category,sub_category
Cash,balance_sheet,asset,current
Sales Revenue,income_statement,revenue,
`
	accts, err := ReadChart(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, accts, 2)

	assert.Equal(t, "Cash", accts[0].Name)
	assert.Equal(t, model.CategoryAsset, accts[0].Category)
	assert.Equal(t, model.StatementBalanceSheet, accts[0].Statement)
	assert.Equal(t, "current", accts[0].SubCategory)
	assert.True(t, accts[0].Balance.IsZero())

	assert.Equal(t, "Sales Revenue", accts[1].Name)
	assert.Equal(t, model.CategoryRevenue, accts[1].Category)
	assert.Equal(t, model.StatementIncomeStatement, accts[1].Statement)
}

func TestReadChart_UnknownCategory(t *testing.T) {
	input := `name,statement,category,sub_category
Cash,balance_sheet,treasure,
`
	_, err := ReadChart(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestReadChart_UnknownStatement(t *testing.T) {
	input := `name,statement,category,sub_category
Cash,cash_flow,asset,
`
	_, err := ReadChart(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown statement")
}

func TestWriteChart_RoundTrip(t *testing.T) {
	chart := DefaultChart()

	var buf bytes.Buffer
	require.NoError(t, WriteChart(&buf, chart))

	got, err := ReadChart(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(chart))
	for i := range chart {
		assert.Equal(t, chart[i].Name, got[i].Name)
		assert.Equal(t, chart[i].Category, got[i].Category)
		assert.Equal(t, chart[i].Statement, got[i].Statement)
		assert.Equal(t, chart[i].SubCategory, got[i].SubCategory)
	}
}
