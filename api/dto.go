/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's decimal-valued domain model from the external contract:
  operands and results travel as canonical decimal strings so clients
  never see binary-float artifacts.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/calc-engine/calc"
)

// CalculateRequest is the body for POST /api/calculate.
type CalculateRequest struct {
	Operation string `json:"operation"`
	Operand1  string `json:"operand1"`
	Operand2  string `json:"operand2"`
}

// CalculationDTO represents one recorded calculation.
type CalculationDTO struct {
	Operation string `json:"operation"`
	Operand1  string `json:"operand1"`
	Operand2  string `json:"operand2"`
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
}

// CalculateResponse is the response for POST /api/calculate.
type CalculateResponse struct {
	Result      string         `json:"result"`
	Calculation CalculationDTO `json:"calculation"`
}

// UndoRedoResponse reports whether an undo/redo changed anything.
type UndoRedoResponse struct {
	Applied bool             `json:"applied"`
	History []CalculationDTO `json:"history"`
}

// OperationsResponse lists the registered operation names.
type OperationsResponse struct {
	Operations []string `json:"operations"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toCalculationDTO(c calc.Calculation) CalculationDTO {
	return CalculationDTO{
		Operation: c.Operation,
		Operand1:  c.Operand1.String(),
		Operand2:  c.Operand2.String(),
		Result:    c.Result.String(),
		Timestamp: c.Timestamp.Format(time.RFC3339Nano),
	}
}

func toCalculationDTOs(history []calc.Calculation) []CalculationDTO {
	dtos := make([]CalculationDTO, len(history))
	for i, c := range history {
		dtos[i] = toCalculationDTO(c)
	}
	return dtos
}
