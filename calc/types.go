/*
Package calc provides the core calculation engine.

PURPOSE:
  This package contains the types and orchestration for an interactive
  calculator that remembers every computation, supports snapshot-based
  undo/redo, notifies observers after each computation, and persists its
  history through a pluggable store.

KEY CONCEPTS IN THIS FILE (types.go):
  - Calculation: An immutable record of one arithmetic event
  - Operand parsing: Raw string input to decimal.Decimal

DESIGN PRINCIPLES:
  1. Immutability: Calculations are never modified after creation
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Explicit persistence: Nothing is saved unless asked (or an
     auto-save observer is registered)

USAGE:
  op, _ := operations.New("add")
  engine, _ := calc.New(cfg, store)
  engine.SetOperation(op)
  result, err := engine.PerformOperation("2", "3")

SEE ALSO:
  - engine.go: Calculator orchestration
  - memento.go: History snapshots for undo/redo
  - observer.go: Notification sinks
  - store.go: Persistence interface
*/
package calc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALCULATION - One recorded arithmetic event
// =============================================================================

// Calculation records a single computation. It is a value type and is
// never mutated after creation: Result is exactly what the named
// operation produced from the two operands at creation time.
type Calculation struct {
	Operation string
	Operand1  decimal.Decimal
	Operand2  decimal.Decimal
	Result    decimal.Decimal
	Timestamp time.Time
}

// NewCalculation builds a Calculation stamped with the current time.
func NewCalculation(operation string, operand1, operand2, result decimal.Decimal) Calculation {
	return Calculation{
		Operation: operation,
		Operand1:  operand1,
		Operand2:  operand2,
		Result:    result,
		Timestamp: time.Now(),
	}
}

// Equal reports whether two calculations record the same event. Decimal
// values compare by numeric value, timestamps by instant.
func (c Calculation) Equal(other Calculation) bool {
	return c.Operation == other.Operation &&
		c.Operand1.Equal(other.Operand1) &&
		c.Operand2.Equal(other.Operand2) &&
		c.Result.Equal(other.Result) &&
		c.Timestamp.Equal(other.Timestamp)
}

func (c Calculation) String() string {
	return fmt.Sprintf("%s(%s, %s) = %s", c.Operation, c.Operand1, c.Operand2, c.Result)
}

// =============================================================================
// OPERAND PARSING
// =============================================================================

// ParseOperand converts raw user input into a decimal. A non-numeric
// input is a validation failure, not an operational one.
func ParseOperand(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &ValidationError{Message: fmt.Sprintf("Invalid number format: %s", raw)}
	}
	return d, nil
}

// copyCalculations returns a fresh slice so callers can never alias
// engine-owned state.
func copyCalculations(src []Calculation) []Calculation {
	if len(src) == 0 {
		return nil
	}
	dst := make([]Calculation, len(src))
	copy(dst, src)
	return dst
}
