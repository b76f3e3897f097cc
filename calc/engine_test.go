package calc_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calc-engine/calc"
	"github.com/warp/calc-engine/config"
	"github.com/warp/calc-engine/operations"
	csvstore "github.com/warp/calc-engine/store/csv"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func testConfig(dir string) *config.Config {
	return &config.Config{
		BaseDir:        dir,
		LogDir:         filepath.Join(dir, "logs"),
		LogFile:        filepath.Join(dir, "logs", "calculator.log"),
		HistoryDir:     filepath.Join(dir, "history"),
		HistoryFile:    filepath.Join(dir, "history", "calculator_history.csv"),
		MaxHistorySize: 100,
		AutoSave:       false,
		Precision:      10,
	}
}

func newTestCalculator(t *testing.T) *calc.Calculator {
	t.Helper()
	cfg := testConfig(t.TempDir())
	engine, err := calc.New(cfg, csvstore.New(cfg.HistoryFile))
	require.NoError(t, err)
	return engine
}

func setOperation(t *testing.T, engine *calc.Calculator, name string) {
	t.Helper()
	op, err := operations.New(name)
	require.NoError(t, err)
	engine.SetOperation(op)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// failingOperation returns a non-validation error from Execute.
type failingOperation struct{}

func (failingOperation) Name() string                        { return "Failing" }
func (failingOperation) Validate(_, _ decimal.Decimal) error { return nil }
func (failingOperation) Execute(_, _ decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("unexpected error")
}

// panickingOperation panics from Execute.
type panickingOperation struct{}

func (panickingOperation) Name() string                        { return "Panicking" }
func (panickingOperation) Validate(_, _ decimal.Decimal) error { return nil }
func (panickingOperation) Execute(_, _ decimal.Decimal) (decimal.Decimal, error) {
	panic("strategy blew up")
}

// recordingObserver captures every notification.
type recordingObserver struct {
	seen []calc.Calculation
}

func (o *recordingObserver) Notify(c calc.Calculation) error {
	o.seen = append(o.seen, c)
	return nil
}

// failingObserver always errors.
type failingObserver struct {
	calls int
}

func (o *failingObserver) Notify(calc.Calculation) error {
	o.calls++
	return fmt.Errorf("observer failure %d", o.calls)
}

// =============================================================================
// INITIALIZATION TESTS
// =============================================================================

func TestNew_StartsEmpty(t *testing.T) {
	engine := newTestCalculator(t)

	assert.Empty(t, engine.History())
	assert.False(t, engine.CanUndo())
	assert.False(t, engine.CanRedo())
	assert.Nil(t, engine.Operation())
}

func TestNew_LoadFailureIsSwallowed(t *testing.T) {
	// GIVEN: A corrupt history file on disk
	cfg := testConfig(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.HistoryDir, 0o755))
	corrupt := "operation,operand1,operand2,result,timestamp\nAddition,not-a-number,3,5,also-bad\n"
	require.NoError(t, os.WriteFile(cfg.HistoryFile, []byte(corrupt), 0o644))

	// WHEN: Constructing the engine
	engine, err := calc.New(cfg, csvstore.New(cfg.HistoryFile))

	// THEN: Construction succeeds with empty history
	require.NoError(t, err)
	assert.Empty(t, engine.History())

	// The same failure IS an error when load is explicit.
	err = engine.LoadHistory(context.Background())
	require.Error(t, err)
	assert.True(t, calc.IsOperation(err))
}

func TestNew_LoggingFailureIsFatal(t *testing.T) {
	// GIVEN: A log file path that cannot be opened (it is a directory)
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.LogFile = dir

	// THEN: Construction fails
	_, err := calc.New(cfg, nil)
	require.Error(t, err)
}

func TestNew_InvalidConfigRejected(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.MaxHistorySize = 0

	_, err := calc.New(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_history_size")
}

// =============================================================================
// COMPUTATION TESTS
// =============================================================================

func TestPerformOperation_Addition(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")

	result, err := engine.PerformOperation("2", "3")
	require.NoError(t, err)
	assert.True(t, result.Equal(dec("5")), "expected 5, got %s", result)

	history := engine.History()
	require.Len(t, history, 1)
	last := history[0]
	assert.Equal(t, "Addition", last.Operation)
	assert.True(t, last.Operand1.Equal(dec("2")))
	assert.True(t, last.Operand2.Equal(dec("3")))
	assert.True(t, last.Result.Equal(dec("5")))
	assert.False(t, last.Timestamp.IsZero())
}

func TestPerformOperation_NonNumericOperand(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")

	_, err := engine.PerformOperation("invalid", "3")
	require.Error(t, err)
	assert.True(t, calc.IsValidation(err))
	assert.Empty(t, engine.History(), "no mutation on validation failure")
}

func TestPerformOperation_NoOperationSet(t *testing.T) {
	engine := newTestCalculator(t)

	_, err := engine.PerformOperation("2", "3")
	require.Error(t, err)
	assert.True(t, calc.IsOperation(err))
	assert.True(t, errors.Is(err, calc.ErrNoOperationSet))
	assert.Contains(t, err.Error(), "No operation set")
}

func TestPerformOperation_DomainViolation(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "divide")

	_, err := engine.PerformOperation("5", "0")
	require.Error(t, err)
	assert.True(t, calc.IsValidation(err))
	assert.Contains(t, err.Error(), "Division by zero is not allowed")
	assert.Empty(t, engine.History())
	assert.False(t, engine.CanUndo())
}

func TestPerformOperation_UnexpectedErrorWrapped(t *testing.T) {
	engine := newTestCalculator(t)
	engine.SetOperation(failingOperation{})

	_, err := engine.PerformOperation("5", "3")
	require.Error(t, err)
	assert.True(t, calc.IsOperation(err))
	assert.Contains(t, err.Error(), "Operation failed: unexpected error")
	assert.Empty(t, engine.History())
}

func TestPerformOperation_PanicWrapped(t *testing.T) {
	engine := newTestCalculator(t)
	engine.SetOperation(panickingOperation{})

	_, err := engine.PerformOperation("5", "3")
	require.Error(t, err)
	assert.True(t, calc.IsOperation(err))
	assert.Contains(t, err.Error(), "Operation failed: strategy blew up")
}

func TestPerformOperation_EvictsOldestBeyondCapacity(t *testing.T) {
	// GIVEN: max_history_size = 2
	cfg := testConfig(t.TempDir())
	cfg.MaxHistorySize = 2
	engine, err := calc.New(cfg, nil)
	require.NoError(t, err)
	setOperation(t, engine, "add")

	// WHEN: Three computations are performed
	for _, pair := range [][2]string{{"1", "1"}, {"2", "2"}, {"3", "3"}} {
		_, err := engine.PerformOperation(pair[0], pair[1])
		require.NoError(t, err)
	}

	// THEN: Only the two most recent remain, in chronological order
	history := engine.History()
	require.Len(t, history, 2)
	assert.True(t, history[0].Operand1.Equal(dec("2")))
	assert.True(t, history[0].Result.Equal(dec("4")))
	assert.True(t, history[1].Operand1.Equal(dec("3")))
	assert.True(t, history[1].Result.Equal(dec("6")))
}

func TestHistory_ReturnsCopy(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")
	_, err := engine.PerformOperation("2", "3")
	require.NoError(t, err)

	history := engine.History()
	history[0].Operation = "Tampered"

	assert.Equal(t, "Addition", engine.History()[0].Operation)
}

// =============================================================================
// UNDO / REDO TESTS
// =============================================================================

func TestUndo_RestoresPreComputationSnapshot(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")
	_, err := engine.PerformOperation("2", "3")
	require.NoError(t, err)

	assert.True(t, engine.Undo())
	assert.Empty(t, engine.History())
}

func TestRedo_RestoresUndoneCalculation(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")
	_, err := engine.PerformOperation("2", "3")
	require.NoError(t, err)

	require.True(t, engine.Undo())
	assert.True(t, engine.Redo())

	history := engine.History()
	require.Len(t, history, 1)
	assert.Equal(t, "Addition", history[0].Operation)
	assert.True(t, history[0].Result.Equal(dec("5")))
}

func TestUndoRedo_EmptyStacks(t *testing.T) {
	engine := newTestCalculator(t)

	assert.False(t, engine.Undo())
	assert.False(t, engine.Redo())
}

func TestUndo_WalksBackThroughSnapshots(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")
	_, err := engine.PerformOperation("1", "1")
	require.NoError(t, err)
	_, err = engine.PerformOperation("2", "2")
	require.NoError(t, err)

	require.True(t, engine.Undo())
	require.Len(t, engine.History(), 1)
	assert.True(t, engine.History()[0].Result.Equal(dec("2")))

	require.True(t, engine.Undo())
	assert.Empty(t, engine.History())
	assert.False(t, engine.Undo())

	require.True(t, engine.Redo())
	require.Len(t, engine.History(), 1)
	require.True(t, engine.Redo())
	assert.Len(t, engine.History(), 2)
}

func TestPerformOperation_ClearsRedoTrail(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")
	_, err := engine.PerformOperation("1", "1")
	require.NoError(t, err)
	require.True(t, engine.Undo())
	require.True(t, engine.CanRedo())

	// A new computation invalidates the redo trail.
	_, err = engine.PerformOperation("2", "2")
	require.NoError(t, err)
	assert.False(t, engine.CanRedo())
	assert.False(t, engine.Redo())
}

func TestClearHistory_EmptiesEverything(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")
	_, err := engine.PerformOperation("2", "3")
	require.NoError(t, err)
	require.True(t, engine.Undo())

	engine.ClearHistory()

	assert.Empty(t, engine.History())
	assert.False(t, engine.CanUndo())
	assert.False(t, engine.CanRedo())
}

// =============================================================================
// OBSERVER TESTS
// =============================================================================

func TestObservers_NotifiedInRegistrationOrder(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")

	first := &recordingObserver{}
	second := &recordingObserver{}
	engine.AddObserver(first)
	engine.AddObserver(second)

	_, err := engine.PerformOperation("2", "3")
	require.NoError(t, err)

	require.Len(t, first.seen, 1)
	require.Len(t, second.seen, 1)
	assert.True(t, first.seen[0].Result.Equal(dec("5")))
}

func TestRemoveObserver(t *testing.T) {
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")

	observer := &recordingObserver{}
	engine.AddObserver(observer)
	engine.RemoveObserver(observer)

	_, err := engine.PerformOperation("2", "3")
	require.NoError(t, err)
	assert.Empty(t, observer.seen)
}

func TestRemoveObserver_UnregisteredIsNoOp(t *testing.T) {
	engine := newTestCalculator(t)
	engine.RemoveObserver(&recordingObserver{})
	assert.Empty(t, engine.Observers())
}

func TestPerformOperation_ObserverFailureDoesNotAbort(t *testing.T) {
	// GIVEN: A failing observer registered before a recording one
	engine := newTestCalculator(t)
	setOperation(t, engine, "add")

	failing := &failingObserver{}
	recording := &recordingObserver{}
	engine.AddObserver(failing)
	engine.AddObserver(recording)

	// WHEN: A computation is performed
	result, err := engine.PerformOperation("2", "3")

	// THEN: The computation succeeds, stays committed, and later
	// observers are still notified
	require.NoError(t, err)
	assert.True(t, result.Equal(dec("5")))
	assert.Len(t, engine.History(), 1)
	assert.Equal(t, 1, failing.calls)
	assert.Len(t, recording.seen, 1)
}

func TestAutoSaveObserver_PersistsAfterComputation(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.AutoSave = true
	store := csvstore.New(cfg.HistoryFile)
	engine, err := calc.New(cfg, store)
	require.NoError(t, err)
	engine.AddObserver(calc.NewAutoSaveObserver(engine))
	setOperation(t, engine, "add")

	_, err = engine.PerformOperation("2", "3")
	require.NoError(t, err)

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, loaded[0].Result.Equal(dec("5")))
}

func TestAutoSaveObserver_DisabledByConfig(t *testing.T) {
	cfg := testConfig(t.TempDir()) // AutoSave: false
	store := csvstore.New(cfg.HistoryFile)
	engine, err := calc.New(cfg, store)
	require.NoError(t, err)
	engine.AddObserver(calc.NewAutoSaveObserver(engine))
	setOperation(t, engine, "add")

	_, err = engine.PerformOperation("2", "3")
	require.NoError(t, err)

	_, statErr := os.Stat(cfg.HistoryFile)
	assert.True(t, os.IsNotExist(statErr), "history file must not be written")
}

// =============================================================================
// PERSISTENCE TESTS
// =============================================================================

func TestSaveLoad_RoundTripOnFreshEngine(t *testing.T) {
	// GIVEN: An engine with two recorded computations, saved to disk
	cfg := testConfig(t.TempDir())
	engine, err := calc.New(cfg, csvstore.New(cfg.HistoryFile))
	require.NoError(t, err)
	setOperation(t, engine, "add")
	_, err = engine.PerformOperation("2", "3")
	require.NoError(t, err)
	setOperation(t, engine, "divide")
	_, err = engine.PerformOperation("5", "2")
	require.NoError(t, err)
	require.NoError(t, engine.SaveHistory(context.Background()))

	// WHEN: A fresh engine starts against the same configuration
	fresh, err := calc.New(cfg, csvstore.New(cfg.HistoryFile))
	require.NoError(t, err)

	// THEN: It reproduces an equal ordered sequence
	original := engine.History()
	loaded := fresh.History()
	require.Len(t, loaded, len(original))
	for i := range original {
		assert.True(t, original[i].Equal(loaded[i]),
			"calculation %d: expected %s, got %s", i, original[i], loaded[i])
	}
}

func TestLoadHistory_ReplacesWholesaleLeavesStacks(t *testing.T) {
	cfg := testConfig(t.TempDir())
	store := csvstore.New(cfg.HistoryFile)
	engine, err := calc.New(cfg, store)
	require.NoError(t, err)
	setOperation(t, engine, "add")

	_, err = engine.PerformOperation("1", "1")
	require.NoError(t, err)
	require.NoError(t, engine.SaveHistory(context.Background()))

	_, err = engine.PerformOperation("2", "2")
	require.NoError(t, err)

	// Load replaces in-memory history with the single saved entry...
	require.NoError(t, engine.LoadHistory(context.Background()))
	require.Len(t, engine.History(), 1)

	// ...but the undo stack still reflects both computations.
	require.True(t, engine.Undo())
	assert.Len(t, engine.History(), 1)
	require.True(t, engine.Undo())
	assert.Empty(t, engine.History())
}

func TestLoadHistory_MissingFileLeavesHistoryEmpty(t *testing.T) {
	engine := newTestCalculator(t)
	require.NoError(t, engine.LoadHistory(context.Background()))
	assert.Empty(t, engine.History())
}
