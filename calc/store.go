/*
store.go - Persistence interface for calculation history

PURPOSE:
  Defines the interface between the engine and its persistence backend.
  The primary implementation writes the tabular history file; a SQLite
  implementation exists for the server deployment.

SAVE/LOAD CONTRACT:
  Save: Overwrites the target wholesale with the ordered history,
        creating parent directories/tables as needed.
  Load: Returns the persisted history in order. A missing target is NOT
        an error - it returns an empty history. A row that cannot be
        parsed into a valid Calculation IS an error.

IMPLEMENTATIONS:
  - store/csv:    Tabular file (operation, operand1, operand2, result,
                  timestamp), the interchange format
  - store/sqlite: SQLite table, same replace-all semantics

SEE ALSO:
  - engine.go: SaveHistory / LoadHistory
*/
package calc

import "context"

// HistoryStore persists the ordered calculation history.
type HistoryStore interface {
	// Save overwrites the persisted history with the given sequence.
	Save(ctx context.Context, history []Calculation) error

	// Load returns the persisted history in order. A missing backing
	// file yields (nil, nil).
	Load(ctx context.Context) ([]Calculation, error)
}
