/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Validation errors - Bad operand shape or a strategy domain violation
     (divide by zero, invalid root, ...). Always recoverable; no state
     has been mutated when one is returned.
  2. Operation errors - Orchestration-boundary failures: no strategy
     selected, an unexpected strategy failure, a persistence load failure.
  3. Registry errors - Requested operation name not registered.

USAGE:
  Callers branch on kind with errors.Is / errors.As:

    if errors.Is(err, calc.ErrNoOperationSet) { ... }

    var verr *calc.ValidationError
    if errors.As(err, &verr) { fmt.Println(verr.Message) }

SEE ALSO:
  - engine.go: Where the boundary wrapping happens
  - operations/factory.go: Uses ErrUnknownOperation
*/
package calc

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoOperationSet is returned by PerformOperation before any
	// strategy has been selected.
	ErrNoOperationSet = errors.New("no operation set")

	// ErrUnknownOperation is returned by the operation registry when a
	// name is not registered.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrValidation is the sentinel all validation failures unwrap to.
	ErrValidation = errors.New("validation error")

	// ErrOperation is the sentinel all operational failures unwrap to.
	ErrOperation = errors.New("operation error")
)

// =============================================================================
// STRUCTURED ERRORS - Carry a human-readable reason
// =============================================================================

// ValidationError signals bad input shape or a strategy-specific domain
// violation. No engine state is mutated before one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// OperationError signals an orchestration-layer failure, distinct from a
// simple bad input: no strategy selected, an unexpected strategy failure,
// or a persistence load failure.
type OperationError struct {
	Message string
	Err     error // underlying cause, may be nil
}

func (e *OperationError) Error() string { return e.Message }

func (e *OperationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrOperation
}

// newOperationFailed wraps an unexpected strategy failure so callers
// never need to know the strategy's internal error kinds.
func newOperationFailed(cause error) *OperationError {
	return &OperationError{
		Message: fmt.Sprintf("Operation failed: %v", cause),
		Err:     cause,
	}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsOperation reports whether err is an operational-boundary failure.
func IsOperation(err error) bool {
	var oerr *OperationError
	return errors.As(err, &oerr)
}
