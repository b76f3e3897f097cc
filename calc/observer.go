/*
observer.go - Notification sinks invoked after each computation

PURPOSE:
  Observers are notified synchronously, in registration order, after the
  engine has committed a computation to history and the undo stack.

FAILURE POLICY:
  An observer failure is logged and ignored; it never aborts or rolls
  back the triggering computation. The computation is already committed
  when fan-out begins.

STANDARD OBSERVERS:
  LoggingObserver:  One diagnostic log line per computation
  AutoSaveObserver: Persists the full history after each computation

SEE ALSO:
  - engine.go: notifyObservers
*/
package calc

import (
	"context"

	"go.uber.org/zap"
)

// Observer receives the new Calculation after each successful compute.
type Observer interface {
	Notify(calculation Calculation) error
}

// =============================================================================
// LOGGING OBSERVER
// =============================================================================

// LoggingObserver appends a diagnostic log line per computation.
type LoggingObserver struct {
	logger *zap.Logger
}

func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) Notify(calculation Calculation) error {
	o.logger.Info("calculation performed",
		zap.String("operation", calculation.Operation),
		zap.String("operand1", calculation.Operand1.String()),
		zap.String("operand2", calculation.Operand2.String()),
		zap.String("result", calculation.Result.String()),
		zap.Time("timestamp", calculation.Timestamp),
	)
	return nil
}

// =============================================================================
// AUTO-SAVE OBSERVER
// =============================================================================

// HistorySaver is the slice of the engine the auto-save observer needs.
type HistorySaver interface {
	SaveHistory(ctx context.Context) error
	AutoSaveEnabled() bool
}

// AutoSaveObserver triggers an immediate persistence of the full history
// after each computation when auto-save is enabled.
type AutoSaveObserver struct {
	saver HistorySaver
}

func NewAutoSaveObserver(saver HistorySaver) *AutoSaveObserver {
	return &AutoSaveObserver{saver: saver}
}

func (o *AutoSaveObserver) Notify(Calculation) error {
	if !o.saver.AutoSaveEnabled() {
		return nil
	}
	return o.saver.SaveHistory(context.Background())
}
