package calc

import "github.com/shopspring/decimal"

// Operation is the pluggable arithmetic strategy. Each implementation
// owns its domain constraints (division forbids a zero divisor, root
// forbids a negative radicand with an even index, ...).
//
// The operations package provides the standard catalog and a name-keyed
// factory. The engine has NO knowledge of specific strategies.
type Operation interface {
	// Name returns the display tag recorded in history (e.g. "Addition").
	Name() string

	// Validate checks the operands against the strategy's domain
	// constraints. A violation is reported as a *ValidationError.
	Validate(operand1, operand2 decimal.Decimal) error

	// Execute computes the result. Operands have already passed Validate.
	Execute(operand1, operand2 decimal.Decimal) (decimal.Decimal, error)
}
