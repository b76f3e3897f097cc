/*
Package csv provides the tabular-file implementation of calc.HistoryStore.

PURPOSE:
  The history file is the calculator's interchange format: a CSV with a
  required header row and the exact columns

    operation, operand1, operand2, result, timestamp

  Operands and result are written in the decimal's canonical string form
  ("5", "2.5"); timestamps are RFC 3339.

SAVE SEMANTICS:
  Save overwrites the target file and creates parent directories if
  absent. The header row is always written, even for an empty history.

LOAD SEMANTICS:
  A missing file is not an error: it yields an empty history. A file with
  only the header row yields an empty history. Any row that cannot be
  parsed into a valid Calculation is an error describing the failure.

SEE ALSO:
  - calc/store.go: Interface definition
  - store/sqlite/sqlite.go: Database-backed implementation
*/
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/calc-engine/calc"
)

// header is the exact column schema, in order.
var header = []string{"operation", "operand1", "operand2", "result", "timestamp"}

// Store persists calculation history to a CSV file.
type Store struct {
	path string
}

// New creates a store writing to the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Save overwrites the history file with the given sequence.
func (s *Store) Save(_ context.Context, history []calc.Calculation) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	defer f.Close()

	w := stdcsv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range history {
		row := []string{
			c.Operation,
			c.Operand1.String(),
			c.Operand2.String(),
			c.Result.String(),
			c.Timestamp.Format(time.RFC3339Nano),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush history file: %w", err)
	}
	return f.Close()
}

// Load reads the history file. A missing file yields (nil, nil).
func (s *Store) Load(_ context.Context) ([]calc.Calculation, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	r := stdcsv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if err := checkHeader(records[0]); err != nil {
		return nil, err
	}

	var history []calc.Calculation
	for i, row := range records[1:] {
		c, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		history = append(history, c)
	}
	return history, nil
}

func checkHeader(row []string) error {
	if len(row) != len(header) {
		return fmt.Errorf("malformed header: expected %d columns, got %d", len(header), len(row))
	}
	for i, col := range header {
		if row[i] != col {
			return fmt.Errorf("malformed header: expected column %q, got %q", col, row[i])
		}
	}
	return nil
}

func parseRow(row []string) (calc.Calculation, error) {
	if len(row) != len(header) {
		return calc.Calculation{}, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}

	operand1, err := decimal.NewFromString(row[1])
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("invalid operand1 %q: %w", row[1], err)
	}
	operand2, err := decimal.NewFromString(row[2])
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("invalid operand2 %q: %w", row[2], err)
	}
	result, err := decimal.NewFromString(row[3])
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("invalid result %q: %w", row[3], err)
	}
	timestamp, err := time.Parse(time.RFC3339Nano, row[4])
	if err != nil {
		return calc.Calculation{}, fmt.Errorf("invalid timestamp %q: %w", row[4], err)
	}

	return calc.Calculation{
		Operation: row[0],
		Operand1:  operand1,
		Operand2:  operand2,
		Result:    result,
		Timestamp: timestamp,
	}, nil
}
