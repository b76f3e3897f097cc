/*
Package logging builds the calculator's diagnostic logger.

PURPOSE:
  One explicit initialization step with a result/error outcome, performed
  once per engine construction. A failure here is fatal and propagates to
  the caller: there is no safe way to run without diagnostics.

OUTPUT:
  JSON lines appended to the configured log file. The log directory is
  created if absent.

SEE ALSO:
  - config/config.go: LogDir / LogFile
  - calc/engine.go: Calls New during construction
*/
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production logger appending to logFile, creating the
// parent directory if needed.
func New(logFile string) (*zap.Logger, error) {
	dir := filepath.Dir(logFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	// Probe writability up front so a bad path fails construction
	// instead of the first log write.
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}
	f.Close()

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{logFile}
	zcfg.ErrorOutputPaths = []string{logFile}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
