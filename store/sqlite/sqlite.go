/*
Package sqlite provides a SQLite-backed implementation of
calc.HistoryStore.

PURPOSE:
  The CSV codec is the interchange format; this store backs the server
  deployment, where the history outlives any one session and concurrent
  HTTP requests may read it.

SAVE SEMANTICS:
  Save replaces the persisted history wholesale inside one database
  transaction, mirroring the overwrite contract of the tabular file:
  either the new history is fully written or the old one is untouched.

SCHEMA:
  calculations(position, operation, operand1, operand2, result, timestamp)
  Decimal values are stored as their canonical strings to preserve
  precision; timestamps as RFC 3339 text.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  the single writer.

USAGE:
  store, err := sqlite.New("./data/history.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - calc/store.go: Interface definition
  - store/csv/csv.go: Tabular-file implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/calc-engine/calc"
)

// Store implements calc.HistoryStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path, creating
// parent directories as needed. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculations (
		position  INTEGER PRIMARY KEY,
		operation TEXT NOT NULL,
		operand1  TEXT NOT NULL,
		operand2  TEXT NOT NULL,
		result    TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the persisted history wholesale, atomically.
func (s *Store) Save(ctx context.Context, history []calc.Calculation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM calculations`); err != nil {
		return fmt.Errorf("failed to clear calculations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO calculations (position, operation, operand1, operand2, result, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range history {
		_, err := stmt.ExecContext(ctx, i,
			c.Operation,
			c.Operand1.String(),
			c.Operand2.String(),
			c.Result.String(),
			c.Timestamp.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to insert calculation %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Load returns the persisted history in order.
func (s *Store) Load(ctx context.Context) ([]calc.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT operation, operand1, operand2, result, timestamp
		FROM calculations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer rows.Close()

	var history []calc.Calculation
	for rows.Next() {
		var operation, operand1, operand2, result, timestamp string
		if err := rows.Scan(&operation, &operand1, &operand2, &result, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		c, err := parseCalculation(operation, operand1, operand2, result, timestamp)
		if err != nil {
			return nil, err
		}
		history = append(history, c)
	}
	return history, rows.Err()
}

func parseCalculation(operation, operand1, operand2, result, timestamp string) (calc.Calculation, error) {
	o1, err := decimal.NewFromString(operand1)
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("invalid operand1 %q: %w", operand1, err)
	}
	o2, err := decimal.NewFromString(operand2)
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("invalid operand2 %q: %w", operand2, err)
	}
	res, err := decimal.NewFromString(result)
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("invalid result %q: %w", result, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("invalid timestamp %q: %w", timestamp, err)
	}
	return calc.Calculation{
		Operation: operation,
		Operand1:  o1,
		Operand2:  o2,
		Result:    res,
		Timestamp: ts,
	}, nil
}
