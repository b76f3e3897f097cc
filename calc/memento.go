package calc

import "time"

// =============================================================================
// MEMENTO - Frozen copy of the history at a point in time
// =============================================================================

// Memento captures the entire history sequence at a point in time. Used
// for:
//   - Undo/redo (the engine keeps two stacks of these)
//   - Display ("what did the history look like before that?")
//
// A memento never aliases the live history slice: mutating history after
// a snapshot must not retroactively change it. NewMemento copies on the
// way in and History copies on the way out, so the invariant holds even
// against careless callers.
type Memento struct {
	history []Calculation
	takenAt time.Time
}

// NewMemento snapshots the given history.
func NewMemento(history []Calculation) Memento {
	return Memento{
		history: copyCalculations(history),
		takenAt: time.Now(),
	}
}

// History returns a copy of the snapshotted sequence.
func (m Memento) History() []Calculation {
	return copyCalculations(m.history)
}

// Len returns the number of calculations in the snapshot.
func (m Memento) Len() int { return len(m.history) }

// TakenAt returns when the snapshot was captured.
func (m Memento) TakenAt() time.Time { return m.takenAt }
