/*
handlers.go - HTTP API handlers for the calculation engine

PURPOSE:
  Exposes the calculator engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates to the engine.

ENDPOINTS:
  POST   /api/calculate     Perform a named operation on two operands
  GET    /api/history       Ordered calculation history
  DELETE /api/history       Clear history and both stacks
  POST   /api/undo          Undo the latest computation
  POST   /api/redo          Redo the latest undone computation
  POST   /api/history/save  Persist history through the store
  POST   /api/history/load  Replace in-memory history from the store
  GET    /api/operations    Registered operation names
  GET    /health            Liveness probe

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (bad operands, domain violations),
         unknown operation names
  - 409: Operational failures (no operation set is impossible here -
         the handler sets the strategy per request - so 409 covers
         persistence failures surfaced as OperationError)
  - 500: Everything else

CONCURRENCY:
  The engine is single-threaded by contract, so the handler serializes
  all engine access behind one mutex: one HTTP call completes before the
  next touches the engine.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/warp/calc-engine/calc"
	"github.com/warp/calc-engine/operations"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu     sync.Mutex
	engine *calc.Calculator
}

// NewHandler creates a new handler around the given engine.
func NewHandler(engine *calc.Calculator) *Handler {
	return &Handler{engine: engine}
}

// =============================================================================
// CALCULATION ENDPOINTS
// =============================================================================

// Calculate resolves the named strategy, performs the operation, and
// returns the recorded calculation.
// POST /api/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	op, err := operations.New(req.Operation)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown operation", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.engine.SetOperation(op)
	result, err := h.engine.PerformOperation(req.Operand1, req.Operand2)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	history := h.engine.History()
	writeJSON(w, http.StatusOK, CalculateResponse{
		Result:      result.String(),
		Calculation: toCalculationDTO(history[len(history)-1]),
	})
}

// GetHistory returns the ordered calculation history.
// GET /api/history
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, toCalculationDTOs(h.engine.History()))
}

// ClearHistory empties history and both stacks.
// DELETE /api/history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

// Undo restores the previous history snapshot.
// POST /api/undo
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	applied := h.engine.Undo()
	writeJSON(w, http.StatusOK, UndoRedoResponse{
		Applied: applied,
		History: toCalculationDTOs(h.engine.History()),
	})
}

// Redo re-applies the most recently undone snapshot.
// POST /api/redo
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	applied := h.engine.Redo()
	writeJSON(w, http.StatusOK, UndoRedoResponse{
		Applied: applied,
		History: toCalculationDTOs(h.engine.History()),
	})
}

// =============================================================================
// PERSISTENCE ENDPOINTS
// =============================================================================

// SaveHistory persists the history through the configured store.
// POST /api/history/save
func (h *Handler) SaveHistory(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.engine.SaveHistory(r.Context()); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadHistory replaces the in-memory history from the store.
// POST /api/history/load
func (h *Handler) LoadHistory(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.engine.LoadHistory(r.Context()); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCalculationDTOs(h.engine.History()))
}

// =============================================================================
// METADATA ENDPOINTS
// =============================================================================

// ListOperations returns the registered operation names.
// GET /api/operations
func (h *Handler) ListOperations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OperationsResponse{Operations: operations.Names()})
}

// Health is the liveness probe.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case calc.IsValidation(err):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case calc.IsOperation(err):
		writeError(w, http.StatusConflict, "Operation failed", err)
	case errors.Is(err, calc.ErrUnknownOperation):
		writeError(w, http.StatusBadRequest, "Unknown operation", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
