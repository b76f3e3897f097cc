/*
factory.go - Name-keyed strategy construction

PURPOSE:
  Maps normalized command names (what the REPL and API accept) to fresh
  strategy instances. Registration is static: the table is populated once
  at startup and never mutated afterwards.

USAGE:
  op, err := operations.New("add")
  if errors.Is(err, calc.ErrUnknownOperation) { ... }

SEE ALSO:
  - operations.go: The strategies themselves
*/
package operations

import (
	"fmt"
	"sort"
	"strings"

	"github.com/warp/calc-engine/calc"
)

// registry maps each normalized name to a constructor. Closed set, fixed
// at startup.
var registry = map[string]func() calc.Operation{
	"add":        func() calc.Operation { return Addition{} },
	"subtract":   func() calc.Operation { return Subtraction{} },
	"multiply":   func() calc.Operation { return Multiplication{} },
	"divide":     func() calc.Operation { return Division{} },
	"power":      func() calc.Operation { return NewPower() },
	"root":       func() calc.Operation { return Root{} },
	"modulus":    func() calc.Operation { return Modulus{} },
	"int_divide": func() calc.Operation { return IntegerDivision{} },
	"percent":    func() calc.Operation { return Percentage{} },
	"abs_diff":   func() calc.Operation { return AbsoluteDifference{} },
}

// New returns a fresh strategy for the given name. Names are
// case-insensitive and surrounding whitespace is ignored.
func New(name string) (calc.Operation, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", calc.ErrUnknownOperation, name)
	}
	return ctor(), nil
}

// Names returns the registered operation names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name resolves to a strategy.
func IsRegistered(name string) bool {
	_, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
