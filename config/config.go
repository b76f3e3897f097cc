/*
Package config defines the calculator configuration surface.

PURPOSE:
  One struct owns every tunable the engine and its collaborators consume:
  where the log and history files live, how large the bounded history may
  grow, whether computations auto-save, and the decimal precision used
  for division.

SOURCES (later wins):
  1. Built-in defaults
  2. Optional YAML file (Load)
  3. CALCULATOR_* environment variables

ENVIRONMENT VARIABLES:
  CALCULATOR_BASE_DIR          Base directory for logs and history
  CALCULATOR_LOG_FILE          Log file path
  CALCULATOR_HISTORY_FILE      History file path
  CALCULATOR_MAX_HISTORY_SIZE  Positive integer
  CALCULATOR_AUTO_SAVE         true/false
  CALCULATOR_PRECISION         Decimal division precision

USAGE:
  cfg, err := config.Load("")        // defaults + env
  cfg, err := config.Load("cfg.yml") // file + env

SEE ALSO:
  - logging/logging.go: Consumes LogFile
  - calc/engine.go: Consumes MaxHistorySize, AutoSave, Precision
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxHistorySize = 100
	DefaultPrecision      = 10

	logFileName     = "calculator.log"
	historyFileName = "calculator_history.csv"
)

// Config holds every setting the calculator consumes.
//
// Thread Safety: safe to read concurrently, not safe to modify after
// creation.
type Config struct {
	// BaseDir anchors the default log and history locations.
	BaseDir string `yaml:"base_dir"`

	// LogDir/LogFile locate the diagnostic log. Empty values are derived
	// from BaseDir.
	LogDir  string `yaml:"log_dir"`
	LogFile string `yaml:"log_file"`

	// HistoryDir/HistoryFile locate the persisted history. Empty values
	// are derived from BaseDir.
	HistoryDir  string `yaml:"history_dir"`
	HistoryFile string `yaml:"history_file"`

	// MaxHistorySize bounds the in-memory history (FIFO eviction).
	MaxHistorySize int `yaml:"max_history_size"`

	// AutoSave persists the full history after every computation when an
	// auto-save observer is registered.
	AutoSave bool `yaml:"auto_save"`

	// Precision is the decimal division precision (number of fractional
	// digits kept by non-terminating divisions).
	Precision int `yaml:"precision"`
}

// defaults returns the built-in settings with the path fields still
// empty. Derivation is deferred so that a later source setting BaseDir
// re-anchors every path not set explicitly.
func defaults() *Config {
	base, err := os.Getwd()
	if err != nil {
		base = "."
	}
	return &Config{
		BaseDir:        base,
		MaxHistorySize: DefaultMaxHistorySize,
		AutoSave:       true,
		Precision:      DefaultPrecision,
	}
}

// Default returns the built-in configuration, anchored at the current
// working directory.
func Default() *Config {
	cfg := defaults()
	cfg.derivePaths()
	return cfg
}

// Load builds a configuration from the optional YAML file at path (empty
// path skips the file), then applies environment overrides. Paths are
// derived only after every source has been applied, so a base_dir from
// the file or environment relocates the log and history files unless
// those are set explicitly.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.derivePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the engine relies on.
func (c *Config) Validate() error {
	if c.MaxHistorySize <= 0 {
		return fmt.Errorf("max_history_size must be positive, got %d", c.MaxHistorySize)
	}
	if c.Precision < 0 {
		return fmt.Errorf("precision must be non-negative, got %d", c.Precision)
	}
	return nil
}

// derivePaths fills any empty path from BaseDir. File paths always win
// over directory paths when both are set.
func (c *Config) derivePaths() {
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.BaseDir, "logs")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.LogDir, logFileName)
	}
	if c.HistoryDir == "" {
		c.HistoryDir = filepath.Join(c.BaseDir, "history")
	}
	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.HistoryDir, historyFileName)
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CALCULATOR_BASE_DIR"); v != "" {
		c.BaseDir = v
		// Re-derive everything under the new base.
		c.LogDir, c.LogFile = "", ""
		c.HistoryDir, c.HistoryFile = "", ""
	}
	if v := os.Getenv("CALCULATOR_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("CALCULATOR_HISTORY_FILE"); v != "" {
		c.HistoryFile = v
	}
	if v := os.Getenv("CALCULATOR_MAX_HISTORY_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CALCULATOR_MAX_HISTORY_SIZE %q: %w", v, err)
		}
		c.MaxHistorySize = n
	}
	if v := os.Getenv("CALCULATOR_AUTO_SAVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CALCULATOR_AUTO_SAVE %q: %w", v, err)
		}
		c.AutoSave = b
	}
	if v := os.Getenv("CALCULATOR_PRECISION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CALCULATOR_PRECISION %q: %w", v, err)
		}
		c.Precision = n
	}
	return nil
}
