// Package store persists ledger state to SQLite. Every recorder call runs
// inside a single database transaction so the ledger's
// check-then-apply sequence stays atomic against crash.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/bokisim/bokisim/internal/ledger"
	"github.com/bokisim/bokisim/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	name    TEXT PRIMARY KEY,
	balance TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	period      INTEGER NOT NULL,
	description TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transaction_lines (
	transaction_id TEXT NOT NULL REFERENCES transactions(id),
	line_no        INTEGER NOT NULL,
	account        TEXT NOT NULL,
	amount         TEXT NOT NULL,
	PRIMARY KEY (transaction_id, line_no)
);
CREATE TABLE IF NOT EXISTS period_closes (
	period     INTEGER PRIMARY KEY,
	net_income TEXT NOT NULL,
	closed_at  TEXT NOT NULL
);
`

// Store records ledger activity in a SQLite database. Satisfies
// ledger.Recorder.
type Store struct {
	db *sql.DB
}

var _ ledger.Recorder = (*Store)(nil)

// Open creates or opens a ledger database at path. The journal runs in
// WAL mode with synchronous=FULL: the transaction log is an audit trail
// and safety beats speed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordTransaction persists one executed transaction and the resulting
// balances atomically.
func (s *Store) RecordTransaction(txn model.Transaction, balances map[string]decimal.Decimal) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	if _, err := tx.Exec(
		`INSERT INTO transactions (id, period, description, recorded_at) VALUES (?, ?, ?, ?)`,
		txn.ID, txn.Period, txn.Description, txn.Timestamp.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting transaction %s: %w", txn.ID, err)
	}

	for i, line := range txn.Lines {
		if _, err := tx.Exec(
			`INSERT INTO transaction_lines (transaction_id, line_no, account, amount) VALUES (?, ?, ?, ?)`,
			txn.ID, i, line.Account, line.Amount.String(),
		); err != nil {
			return fmt.Errorf("inserting line %d of %s: %w", i, txn.ID, err)
		}
	}

	if err := upsertBalances(tx, balances); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction %s: %w", txn.ID, err)
	}
	return nil
}

// RecordClose persists the closing result atomically: net income from
// the snapshot's synthetic entry into period_closes, and the post-close
// balances into accounts.
func (s *Store) RecordClose(period int, snapshot, balances map[string]decimal.Decimal) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	netIncome := snapshot[ledger.NetIncomeKey]
	if _, err := tx.Exec(
		`INSERT INTO period_closes (period, net_income, closed_at) VALUES (?, ?, ?)`,
		period, netIncome.String(), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting period close %d: %w", period, err)
	}

	if err := upsertBalances(tx, balances); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing period close %d: %w", period, err)
	}
	return nil
}

func upsertBalances(tx *sql.Tx, balances map[string]decimal.Decimal) error {
	stmt, err := tx.Prepare(
		`INSERT INTO accounts (name, balance) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET balance = excluded.balance`)
	if err != nil {
		return fmt.Errorf("preparing balance upsert: %w", err)
	}
	defer stmt.Close()

	for name, b := range balances {
		if _, err := stmt.Exec(name, b.String()); err != nil {
			return fmt.Errorf("upserting balance for %s: %w", name, err)
		}
	}
	return nil
}

// Balances reads the persisted balances back.
func (s *Store) Balances() (map[string]decimal.Decimal, error) {
	rows, err := s.db.Query(`SELECT name, balance FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("querying balances: %w", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scanning balance row: %w", err)
		}
		b, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing balance for %s: %w", name, err)
		}
		out[name] = b
	}
	return out, rows.Err()
}

// Transactions reads back all persisted transactions for a period, lines
// in recorded order. Ordered by insertion, not by ID text: the formatted
// sequence padding is not a sort key.
func (s *Store) Transactions(period int) ([]model.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT id, description, recorded_at FROM transactions WHERE period = ? ORDER BY rowid`, period)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var recordedAt string
		if err := rows.Scan(&txn.ID, &txn.Description, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}
		txn.Period = period
		txn.Timestamp, err = time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp of %s: %w", txn.ID, err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range txns {
		lines, err := s.transactionLines(txns[i].ID)
		if err != nil {
			return nil, err
		}
		txns[i].Lines = lines
	}
	return txns, nil
}

func (s *Store) transactionLines(txnID string) ([]model.Line, error) {
	rows, err := s.db.Query(
		`SELECT account, amount FROM transaction_lines WHERE transaction_id = ? ORDER BY line_no`, txnID)
	if err != nil {
		return nil, fmt.Errorf("querying lines of %s: %w", txnID, err)
	}
	defer rows.Close()

	var lines []model.Line
	for rows.Next() {
		var line model.Line
		var raw string
		if err := rows.Scan(&line.Account, &raw); err != nil {
			return nil, fmt.Errorf("scanning line row: %w", err)
		}
		line.Amount, err = decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing amount in %s: %w", txnID, err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
