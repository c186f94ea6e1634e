package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	. "daycheck/internal/adapter/http/helper"
	. "daycheck/internal/adapter/http/validation"
	"daycheck/internal/adapter/http/confirm"
	"daycheck/internal/core/model/request"
	"daycheck/internal/core/model/response"
	"daycheck/internal/core/port"
	"daycheck/internal/core/service"
	"daycheck/internal/core/util"
	"daycheck/pkg/config"
	. "daycheck/pkg/tracing"
)

type ChecklistHandler struct {
	svc    port.ChecklistService
	Logger *config.LokiLogger

	// Metrics is optional; nil when no Prometheus registry is running.
	Metrics *AppMetrics
}

func NewChecklistHandler(svc port.ChecklistService, logger *config.LokiLogger) *ChecklistHandler {
	return &ChecklistHandler{
		svc:    svc,
		Logger: logger,
	}
}

func (h *ChecklistHandler) recordOperation(c *gin.Context, operation string) {
	if h.Metrics == nil {
		return
	}

	h.Metrics.RecordChecklistOperation(c.Request.Context(), operation)
	h.Metrics.SetChecklistGauges(h.svc.CompletedTodayCount(), h.svc.TotalTasksCount())
}

// GetChecklist returns every task in insertion order with its done-today flag
// plus the summary counts.
func (h *ChecklistHandler) GetChecklist(c *gin.Context) {
	_, span := CreateChildSpan(c.Request.Context(), "handler.checklist.GetChecklist", []attribute.KeyValue{
		attribute.String("handler.operation", "GetChecklist"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	tasks := h.svc.Tasks()

	items := make([]response.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, response.TaskResponse{
			ID:             task.ID,
			Title:          task.Title,
			CompletedToday: h.svc.IsCompletedToday(task.ID),
			CreatedAt:      task.CreatedAt,
		})
	}

	resp := response.ChecklistResponse{
		Date:  h.svc.SessionDate(),
		Tasks: items,
		Summary: response.SummaryResponse{
			Date:           h.svc.SessionDate(),
			CompletedToday: h.svc.CompletedTodayCount(),
			TotalTasks:     h.svc.TotalTasksCount(),
		},
	}

	span.SetAttributes(
		attribute.Int("checklist.tasks", len(items)),
		attribute.Int("checklist.completed_today", resp.Summary.CompletedToday),
	)

	c.JSON(http.StatusOK, resp)
}

func (h *ChecklistHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, response.SummaryResponse{
		Date:           h.svc.SessionDate(),
		CompletedToday: h.svc.CompletedTodayCount(),
		TotalTasks:     h.svc.TotalTasksCount(),
	})
}

// AddTask creates a task from the submitted title. A blank title is a silent
// no-op answered with 204, matching the form's behavior of just ignoring it.
func (h *ChecklistHandler) AddTask(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.AddTaskRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	task, err := h.svc.AddTask(ctx, params.Title)

	if err != nil {
		h.Logger.ErrorWithTrace(ctx, "Failed to add task", zap.Error(err))
		SendInternalError(c, "Error adding task")
		return
	}

	if task == nil {
		c.Status(http.StatusNoContent)
		return
	}

	slog.Info("Task#add", "id", task.ID, "title", task.Title)

	h.recordOperation(c, "add_task")

	SendSuccess(c, http.StatusCreated, response.TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		CompletedToday: false,
		CreatedAt:      task.CreatedAt,
	})
}

// BeginEdit opens the edit buffer for one task and returns its current title
// so the client can prefill the input.
func (h *ChecklistHandler) BeginEdit(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	if !h.svc.BeginEdit(id) {
		SendNotFoundError(c, "Task not found")
		return
	}

	editID, buffer, _ := h.svc.EditBuffer()

	SendSuccess(c, http.StatusOK, response.EditStateResponse{
		ID:     editID,
		Buffer: buffer,
	})
}

// CommitEdit applies the edited title. Blank input and commits for a task not
// in edit mode are no-ops answered with 204.
func (h *ChecklistHandler) CommitEdit(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	params, err := util.ParamsToMap[request.EditTaskRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	task, err := h.svc.CommitEdit(ctx, id, params.Title)

	if err != nil {
		h.Logger.ErrorWithTrace(ctx, "Failed to commit edit",
			zap.Error(err),
			zap.String("task_id", id.String()),
		)
		SendInternalError(c, "Error editing task")
		return
	}

	if task == nil {
		c.Status(http.StatusNoContent)
		return
	}

	h.recordOperation(c, "edit_task")

	SendSuccess(c, http.StatusOK, response.TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		CompletedToday: h.svc.IsCompletedToday(task.ID),
		CreatedAt:      task.CreatedAt,
	})
}

func (h *ChecklistHandler) CancelEdit(c *gin.Context) {
	h.svc.CancelEdit()
	c.Status(http.StatusNoContent)
}

// DeleteTask removes a task and its completions after an explicit yes from
// the request. A declined confirmation is a no-op.
func (h *ChecklistHandler) DeleteTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	params, _ := util.ParamsToMap[request.ConfirmRequest](c)

	ctx := confirm.WithAnswer(c.Request.Context(), params.Confirmed)

	deleted, err := h.svc.DeleteTask(ctx, id)

	if errors.Is(err, service.ErrTaskNotFound) {
		SendNotFoundError(c, "Task not found")
		return
	}

	if err != nil {
		h.Logger.ErrorWithTrace(ctx, "Failed to delete task",
			zap.Error(err),
			zap.String("task_id", id.String()),
		)
		SendInternalError(c, "Error deleting task")
		return
	}

	if !deleted {
		c.Status(http.StatusNoContent)
		return
	}

	h.recordOperation(c, "delete_task")

	SendSuccess(c, http.StatusOK, nil, "Task deleted")
}

func (h *ChecklistHandler) ToggleCompletion(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	completed, err := h.svc.ToggleCompletion(ctx, id)

	if errors.Is(err, service.ErrTaskNotFound) {
		SendNotFoundError(c, "Task not found")
		return
	}

	if err != nil {
		h.Logger.ErrorWithTrace(ctx, "Failed to toggle completion",
			zap.Error(err),
			zap.String("task_id", id.String()),
		)
		SendInternalError(c, "Error toggling completion")
		return
	}

	h.recordOperation(c, "toggle_completion")

	c.JSON(http.StatusOK, response.ToggleResponse{
		ID:             id,
		CompletedToday: completed,
	})
}

// ResetToday clears today's completions after confirmation, leaving the task
// list untouched.
func (h *ChecklistHandler) ResetToday(c *gin.Context) {
	params, _ := util.ParamsToMap[request.ConfirmRequest](c)

	ctx := confirm.WithAnswer(c.Request.Context(), params.Confirmed)

	reset, err := h.svc.ResetTodayCompletions(ctx)

	if err != nil {
		h.Logger.ErrorWithTrace(ctx, "Failed to reset completions", zap.Error(err))
		SendInternalError(c, "Error resetting completions")
		return
	}

	if !reset {
		c.Status(http.StatusNoContent)
		return
	}

	h.recordOperation(c, "reset_today")

	c.JSON(http.StatusOK, response.SummaryResponse{
		Date:           h.svc.SessionDate(),
		CompletedToday: h.svc.CompletedTodayCount(),
		TotalTasks:     h.svc.TotalTasksCount(),
	})
}

func parseTaskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("uuid"))

	if err != nil {
		SendBadRequestError(c, "uuid", "Invalid task id")
		return uuid.Nil, false
	}

	return id, true
}
