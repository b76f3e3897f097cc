/*
engine.go - Calculator orchestration

PURPOSE:
  The Calculator ties everything together: operand validation, strategy
  execution, history mutation with FIFO eviction, memento stack
  discipline for undo/redo, synchronous observer fan-out, and explicit
  save/load through the history store.

CONTROL FLOW (PerformOperation):
  1. Fail if no strategy selected
  2. Parse both raw operands into decimals
  3. Validate, then execute the strategy; unexpected failures are
     re-wrapped as OperationError at this boundary
  4. Append the Calculation, evict the oldest entry if over capacity,
     push a memento of the resulting history, clear the redo stack,
     notify observers in registration order

STACK DISCIPLINE:
  Every successful compute pushes the post-mutation history snapshot.
  Empty history is the implicit base snapshot: undoing the only
  computation restores an empty history. Undo moves the current top to
  the redo stack and restores the new top; redo mirrors it. A new
  computation invalidates any redo trail.

INITIALIZATION:
  New builds the diagnostic logger first - a failure there is fatal and
  propagates. It then attempts to load persisted history; a failure
  during this load is logged and swallowed so the engine always starts.

SEE ALSO:
  - memento.go: Snapshot type
  - observer.go: Notification sinks
  - store.go: Persistence interface
*/
package calc

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/calc-engine/config"
	"github.com/warp/calc-engine/logging"
)

// Calculator is the calculation engine. One instance per session; it is
// fully synchronous and must not be shared across concurrent callers
// without external serialization.
type Calculator struct {
	cfg    *config.Config
	logger *zap.Logger
	store  HistoryStore

	operation Operation
	history   []Calculation
	undoStack []Memento
	redoStack []Memento
	observers []Observer
}

// New constructs an engine from the given configuration and store. A nil
// cfg uses defaults; a nil store disables persistence.
//
// Logging initialization failure is fatal and propagates. A failure
// loading previously persisted history is logged and swallowed: the
// engine starts with empty history either way.
func New(cfg *config.Config, store HistoryStore) (*Calculator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	decimal.DivisionPrecision = cfg.Precision

	c := &Calculator{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
	c.logger.Info("calculator initialized with configuration",
		zap.Int("max_history_size", cfg.MaxHistorySize),
		zap.Bool("auto_save", cfg.AutoSave),
		zap.String("history_file", cfg.HistoryFile),
	)

	if store != nil {
		if err := c.LoadHistory(context.Background()); err != nil {
			c.logger.Warn("could not load existing history", zap.Error(err))
		}
	}
	return c, nil
}

// Logger exposes the engine's logger so collaborators (REPL, API,
// LoggingObserver) share one diagnostic stream.
func (c *Calculator) Logger() *zap.Logger { return c.logger }

// AutoSaveEnabled reports the configured auto-save toggle.
func (c *Calculator) AutoSaveEnabled() bool { return c.cfg.AutoSave }

// =============================================================================
// STRATEGY SELECTION
// =============================================================================

// SetOperation replaces the currently selected strategy. No validation
// happens at set time.
func (c *Calculator) SetOperation(op Operation) {
	c.operation = op
	if op != nil {
		c.logger.Info("set operation", zap.String("operation", op.Name()))
	}
}

// Operation returns the currently selected strategy, nil if none.
func (c *Calculator) Operation() Operation { return c.operation }

// =============================================================================
// COMPUTATION
// =============================================================================

// PerformOperation validates and executes the selected strategy against
// the raw operands, records the Calculation, and returns its result.
func (c *Calculator) PerformOperation(operand1, operand2 string) (decimal.Decimal, error) {
	if c.operation == nil {
		return decimal.Zero, &OperationError{Message: "No operation set", Err: ErrNoOperationSet}
	}

	a, err := ParseOperand(operand1)
	if err != nil {
		return decimal.Zero, err
	}
	b, err := ParseOperand(operand2)
	if err != nil {
		return decimal.Zero, err
	}

	result, err := c.executeStrategy(a, b)
	if err != nil {
		c.logger.Warn("operation rejected",
			zap.String("operation", c.operation.Name()),
			zap.Error(err),
		)
		return decimal.Zero, err
	}

	calculation := NewCalculation(c.operation.Name(), a, b, result)

	c.history = append(c.history, calculation)
	if excess := len(c.history) - c.cfg.MaxHistorySize; excess > 0 {
		c.history = append([]Calculation(nil), c.history[excess:]...)
	}

	c.undoStack = append(c.undoStack, NewMemento(c.history))
	c.redoStack = nil

	c.notifyObservers(calculation)
	return result, nil
}

// executeStrategy is the boundary that converts all non-validation
// strategy failures - returned errors and panics alike - into a single
// uniform OperationError, so callers never need to know the strategy's
// internal failure kinds.
func (c *Calculator) executeStrategy(a, b decimal.Decimal) (result decimal.Decimal, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newOperationFailed(fmt.Errorf("%v", r))
		}
	}()

	if verr := c.operation.Validate(a, b); verr != nil {
		if IsValidation(verr) {
			return decimal.Zero, verr
		}
		return decimal.Zero, &ValidationError{Message: verr.Error()}
	}

	result, err = c.operation.Execute(a, b)
	if err != nil {
		if IsValidation(err) {
			return decimal.Zero, err
		}
		return decimal.Zero, newOperationFailed(err)
	}
	return result, nil
}

// =============================================================================
// UNDO / REDO
// =============================================================================

// Undo restores the history snapshot preceding the current one. It
// returns false, leaving state unchanged, when there is nothing to undo.
func (c *Calculator) Undo() bool {
	if len(c.undoStack) == 0 {
		return false
	}

	top := c.undoStack[len(c.undoStack)-1]
	c.undoStack = c.undoStack[:len(c.undoStack)-1]
	c.redoStack = append(c.redoStack, top)

	if len(c.undoStack) > 0 {
		c.history = c.undoStack[len(c.undoStack)-1].History()
	} else {
		c.history = nil
	}
	c.logger.Info("undo", zap.Int("history_len", len(c.history)))
	return true
}

// Redo re-applies the most recently undone snapshot. It returns false,
// leaving state unchanged, when there is nothing to redo.
func (c *Calculator) Redo() bool {
	if len(c.redoStack) == 0 {
		return false
	}

	top := c.redoStack[len(c.redoStack)-1]
	c.redoStack = c.redoStack[:len(c.redoStack)-1]
	c.undoStack = append(c.undoStack, top)

	c.history = top.History()
	c.logger.Info("redo", zap.Int("history_len", len(c.history)))
	return true
}

// CanUndo reports whether an undo is available.
func (c *Calculator) CanUndo() bool { return len(c.undoStack) > 0 }

// CanRedo reports whether a redo is available.
func (c *Calculator) CanRedo() bool { return len(c.redoStack) > 0 }

// =============================================================================
// HISTORY ACCESS
// =============================================================================

// History returns an ordered copy of the recorded calculations.
func (c *Calculator) History() []Calculation {
	return copyCalculations(c.history)
}

// ClearHistory empties the history and both stacks unconditionally.
func (c *Calculator) ClearHistory() {
	c.history = nil
	c.undoStack = nil
	c.redoStack = nil
	c.logger.Info("history cleared")
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// SaveHistory writes the ordered history through the store, overwriting
// any previously persisted state.
func (c *Calculator) SaveHistory(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(ctx, c.History()); err != nil {
		return &OperationError{Message: fmt.Sprintf("Failed to save history: %v", err), Err: err}
	}
	c.logger.Info("history saved", zap.Int("entries", len(c.history)))
	return nil
}

// LoadHistory replaces the in-memory history wholesale with the
// persisted one. The undo/redo stacks are left untouched; they are not
// reconstructed from the loaded file. A missing backing file leaves
// history empty without error.
func (c *Calculator) LoadHistory(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	loaded, err := c.store.Load(ctx)
	if err != nil {
		return &OperationError{Message: fmt.Sprintf("Failed to load history: %v", err), Err: err}
	}
	c.history = loaded
	c.logger.Info("history loaded", zap.Int("entries", len(c.history)))
	return nil
}

// =============================================================================
// OBSERVERS
// =============================================================================

// AddObserver registers a notification sink. Observers are notified in
// registration order.
func (c *Calculator) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
}

// RemoveObserver unregisters a sink. Removing an unregistered observer
// is a no-op.
func (c *Calculator) RemoveObserver(o Observer) {
	for i, existing := range c.observers {
		if existing == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return
		}
	}
}

// Observers returns the registered sinks in notification order.
func (c *Calculator) Observers() []Observer {
	out := make([]Observer, len(c.observers))
	copy(out, c.observers)
	return out
}

// notifyObservers fans out synchronously after the computation is
// committed. An observer failure is logged and never rolls back the
// computation.
func (c *Calculator) notifyObservers(calculation Calculation) {
	for _, o := range c.observers {
		if err := o.Notify(calculation); err != nil {
			c.logger.Warn("observer notification failed", zap.Error(err))
		}
	}
}
