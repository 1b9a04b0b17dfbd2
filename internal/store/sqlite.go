// Package store persists run summaries and their datasets to SQLite as an
// optional second sink next to the CSV output.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/finflow/statement-extractor/internal/models"
	"github.com/finflow/statement-extractor/internal/writer"
)

// Store wraps the SQLite database holding extraction runs.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	source_folder    TEXT NOT NULL,
	documents        INTEGER NOT NULL,
	documents_failed INTEGER NOT NULL,
	pages_skipped    INTEGER NOT NULL,
	records          INTEGER NOT NULL,
	duration_ms      INTEGER NOT NULL,
	created_at       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	run_id         TEXT NOT NULL REFERENCES runs(id),
	booking_date   TEXT,
	value_date     TEXT,
	transaction_id TEXT NOT NULL,
	code           TEXT NOT NULL,
	description    TEXT NOT NULL,
	amount         TEXT,
	type           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_run ON transactions(run_id);
`

// Open opens (and if needed creates) the store at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open store at %s: %w", path, err)
	}
	// One connection avoids SQLite locking issues.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot ping store at %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun stores one run summary and its dataset in a single transaction.
func (s *Store) SaveRun(summary *models.RunSummary, ds models.Dataset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, source_folder, documents, documents_failed, pages_skipped, records, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.SourceFolder, summary.Documents,
		len(summary.DocumentsFailed), len(summary.PagesSkipped),
		summary.Records, summary.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cannot insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO transactions (run_id, booking_date, value_date, transaction_id, code, description, amount, type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, txn := range ds {
		_, err := stmt.Exec(
			summary.RunID,
			nullDate(txn.BookingDate),
			nullDate(txn.ValueDate),
			txn.TransactionID,
			txn.Code,
			txn.Description,
			nullAmount(txn),
			string(txn.Type),
		)
		if err != nil {
			return fmt.Errorf("cannot insert transaction: %w", err)
		}
	}

	return tx.Commit()
}

// CountTransactions returns the number of stored transactions for a run.
func (s *Store) CountTransactions(runID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(writer.DateLayout)
}

func nullAmount(txn models.Transaction) any {
	if !txn.Amount.Valid {
		return nil
	}
	return txn.Amount.Decimal.StringFixed(2)
}
