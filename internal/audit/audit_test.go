package audit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:     testTime,
		Player:        "player1",
		Action:        "purchase",
		Item:          "widget",
		QuantityDelta: 50,
		BookValue:     decimal.RequireFromString("2750"),
		TransactionID: "P001-003",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "player1", entries[0].Player)
	assert.Equal(t, int64(50), entries[0].QuantityDelta)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Action = "sale"
	e2.QuantityDelta = -20
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "purchase", entries[0].Action)
	assert.Equal(t, "sale", entries[1].Action)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, got.Timestamp.Equal(original.Timestamp))
	assert.Equal(t, original.Item, got.Item)
	assert.True(t, got.BookValue.Equal(original.BookValue))
	assert.Equal(t, original.TransactionID, got.TransactionID)
}

func TestRead_MissingFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_BadRow(t *testing.T) {
	_, err := UnmarshalEntry([]string{"not-a-time", "p", "a", "i", "1", "2", "id"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"2024-04-01T09:00:00Z", "p", "a", "i", "x", "2", "id"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"short"})
	assert.Error(t, err)
}
