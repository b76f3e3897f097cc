/*
Package operations provides the arithmetic strategy catalog.

PURPOSE:
  Each strategy implements calc.Operation: it validates its two operands
  against its own domain constraints, then computes a decimal result.
  The factory in factory.go maps normalized command names to strategies.

PRECISION:
  All arithmetic stays in decimal (base 10). The only float excursions
  are root extraction and fractional powers, where no exact decimal
  algorithm exists; integer powers stay exact.

DOMAIN CONSTRAINTS:
  Division, Modulus, IntegerDivision, Percentage: non-zero divisor
  Root:  non-zero index; negative radicand only with an odd integer index
  Power: non-negative exponent, bounded by MaxExponent

SEE ALSO:
  - factory.go: Name-keyed construction
  - calc/operation.go: The strategy interface
*/
package operations

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/warp/calc-engine/calc"
)

// DefaultMaxExponent bounds Power to keep results representable.
const DefaultMaxExponent = 1000

var hundred = decimal.NewFromInt(100)

func validationErrorf(format string, args ...any) error {
	return &calc.ValidationError{Message: fmt.Sprintf(format, args...)}
}

// =============================================================================
// BASIC ARITHMETIC
// =============================================================================

// Addition adds two decimals. No domain constraints.
type Addition struct{}

func (Addition) Name() string                            { return "Addition" }
func (Addition) Validate(_, _ decimal.Decimal) error     { return nil }
func (Addition) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	return a.Add(b), nil
}

// Subtraction subtracts the second operand from the first.
type Subtraction struct{}

func (Subtraction) Name() string                        { return "Subtraction" }
func (Subtraction) Validate(_, _ decimal.Decimal) error { return nil }
func (Subtraction) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	return a.Sub(b), nil
}

// Multiplication multiplies two decimals.
type Multiplication struct{}

func (Multiplication) Name() string                        { return "Multiplication" }
func (Multiplication) Validate(_, _ decimal.Decimal) error { return nil }
func (Multiplication) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	return a.Mul(b), nil
}

// Division divides the first operand by the second.
type Division struct{}

func (Division) Name() string { return "Division" }

func (Division) Validate(_, b decimal.Decimal) error {
	if b.IsZero() {
		return validationErrorf("Division by zero is not allowed")
	}
	return nil
}

func (Division) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	return a.Div(b), nil
}

// =============================================================================
// POWER AND ROOT
// =============================================================================

// Power raises the first operand to the second. Exponents are limited to
// [0, MaxExponent]; integer exponents are computed exactly.
type Power struct {
	MaxExponent decimal.Decimal
}

func NewPower() Power {
	return Power{MaxExponent: decimal.NewFromInt(DefaultMaxExponent)}
}

func (Power) Name() string { return "Power" }

func (o Power) Validate(_, b decimal.Decimal) error {
	if b.IsNegative() {
		return validationErrorf("Negative exponents are not supported")
	}
	max := o.MaxExponent
	if max.IsZero() {
		max = decimal.NewFromInt(DefaultMaxExponent)
	}
	if b.GreaterThan(max) {
		return validationErrorf("Exponent exceeds the maximum of %s", max)
	}
	return nil
}

func (o Power) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsInteger() {
		return a.PowInt32(int32(b.IntPart()))
	}
	result := math.Pow(a.InexactFloat64(), b.InexactFloat64())
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return decimal.Zero, fmt.Errorf("power of %s and %s is not a finite number", a, b)
	}
	return decimal.NewFromFloat(result), nil
}

// Root extracts the b-th root of a.
type Root struct{}

func (Root) Name() string { return "Root" }

func (Root) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return validationErrorf("Root index cannot be zero")
	}
	if a.IsNegative() {
		if !b.IsInteger() {
			return validationErrorf("Cannot calculate root of negative number with fractional index")
		}
		if b.IntPart()%2 == 0 {
			return validationErrorf("Cannot calculate root of negative number with even index")
		}
	}
	return nil
}

func (Root) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	// Validate guarantees a negative radicand only pairs with an odd
	// integer index, so extract the root of |a| and restore the sign.
	radicand := a.Abs().InexactFloat64()
	result := math.Pow(radicand, 1/b.InexactFloat64())
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return decimal.Zero, fmt.Errorf("root %s of %s is not a finite number", b, a)
	}
	d := decimal.NewFromFloat(result)
	if a.IsNegative() {
		d = d.Neg()
	}
	return d, nil
}

// =============================================================================
// REMAINDER FAMILY
// =============================================================================

// Modulus computes the remainder of dividing the first operand by the
// second.
type Modulus struct{}

func (Modulus) Name() string { return "Modulus" }

func (Modulus) Validate(_, b decimal.Decimal) error {
	if b.IsZero() {
		return validationErrorf("Modulus by zero is not allowed")
	}
	return nil
}

func (Modulus) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	return a.Mod(b), nil
}

// IntegerDivision divides and truncates toward zero.
type IntegerDivision struct{}

func (IntegerDivision) Name() string { return "IntegerDivision" }

func (IntegerDivision) Validate(_, b decimal.Decimal) error {
	if b.IsZero() {
		return validationErrorf("Division by zero is not allowed")
	}
	return nil
}

func (IntegerDivision) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	quotient, _ := a.QuoRem(b, 0)
	return quotient, nil
}

// =============================================================================
// DERIVED OPERATIONS
// =============================================================================

// Percentage computes what percent the first operand is of the second.
type Percentage struct{}

func (Percentage) Name() string { return "Percentage" }

func (Percentage) Validate(_, b decimal.Decimal) error {
	if b.IsZero() {
		return validationErrorf("Cannot calculate percentage with zero divisor")
	}
	return nil
}

func (Percentage) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	return a.Div(b).Mul(hundred), nil
}

// AbsoluteDifference computes |a - b|.
type AbsoluteDifference struct{}

func (AbsoluteDifference) Name() string                        { return "AbsoluteDifference" }
func (AbsoluteDifference) Validate(_, _ decimal.Decimal) error { return nil }
func (AbsoluteDifference) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	return a.Sub(b).Abs(), nil
}
