// Package audit keeps an append-only CSV trail of economic events: who
// did what to which item, by how much, and the resulting book value.
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp     time.Time
	Player        string
	Action        string
	Item          string
	QuantityDelta int64
	BookValue     decimal.Decimal
	TransactionID string
}

// Header is the CSV header for audit-log.csv.
const Header = "timestamp,player,action,item,quantity_delta,book_value,transaction_id"

const (
	numFields = 7
	logDir    = "logs"
	logFile   = "logs/audit-log.csv"
	colTime   = 0
	colPlayer = 1
	colAction = 2
	colItem   = 3
	colDelta  = 4
	colValue  = 5
	colTxnID  = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colPlayer] = e.Player
	row[colAction] = e.Action
	row[colItem] = e.Item
	row[colDelta] = strconv.FormatInt(e.QuantityDelta, 10)
	row[colValue] = e.BookValue.String()
	row[colTxnID] = e.TransactionID
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	delta, err := strconv.ParseInt(record[colDelta], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing quantity delta %q: %w", record[colDelta], err)
	}

	value, err := decimal.NewFromString(record[colValue])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing book value %q: %w", record[colValue], err)
	}

	return Entry{
		Timestamp:     ts,
		Player:        record[colPlayer],
		Action:        record[colAction],
		Item:          record[colItem],
		QuantityDelta: delta,
		BookValue:     value,
		TransactionID: record[colTxnID],
	}, nil
}

// Append writes entries to <root>/logs/audit-log.csv, creating the file
// and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/audit-log.csv. Returns an
// empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	var entries []Entry
	for i, rec := range records {
		if i == 0 && rec[colTime] == "timestamp" {
			continue
		}
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
