package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a user-defined checklist item. Completion evidence lives in
// CompletionRecord, keyed per calendar day, never on the task itself.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title" validate:"required,max=255"`
	CreatedAt time.Time `json:"created_at"`

	// Archived is reserved. No operation reads or sets it past false.
	Archived bool `json:"archived"`
}

// CompletionRecord marks a task as done on a calendar date. TaskID is a weak
// reference: records for a deleted task are pruned on delete, not owned.
type CompletionRecord struct {
	TaskID uuid.UUID `json:"task_id"`
	Date   string    `json:"date"`
}

// NewTask builds a task from raw user input. Returns false when the trimmed
// title is empty, which callers treat as a silent no-op.
func NewTask(title string, now time.Time) (Task, bool) {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return Task{}, false
	}

	return Task{
		ID:        uuid.New(),
		Title:     trimmed,
		CreatedAt: now,
		Archived:  false,
	}, true
}

func (t *Task) Rename(title string) bool {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return false
	}

	t.Title = trimmed
	return true
}

func (c *CompletionRecord) Matches(taskID uuid.UUID, date string) bool {
	return c.TaskID == taskID && c.Date == date
}

func (c *CompletionRecord) BelongsTo(taskID uuid.UUID) bool {
	return c.TaskID == taskID
}
