package response

import (
	"time"

	"github.com/google/uuid"
)

type TaskResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	CompletedToday bool      `json:"completed_today"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChecklistResponse struct {
	Date    string          `json:"date"`
	Tasks   []TaskResponse  `json:"tasks"`
	Summary SummaryResponse `json:"summary"`
}

type SummaryResponse struct {
	Date           string `json:"date"`
	CompletedToday int    `json:"completed_today"`
	TotalTasks     int    `json:"total_tasks"`
}

type ToggleResponse struct {
	ID             uuid.UUID `json:"id"`
	CompletedToday bool      `json:"completed_today"`
}

type EditStateResponse struct {
	ID     uuid.UUID `json:"id"`
	Buffer string    `json:"buffer"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
