package port

import (
	"context"

	"github.com/google/uuid"

	"daycheck/internal/core/domain"
)

type ChecklistService interface {
	Tasks() []domain.Task
	SessionDate() string

	AddTask(ctx context.Context, title string) (*domain.Task, error)

	BeginEdit(id uuid.UUID) bool
	CommitEdit(ctx context.Context, id uuid.UUID, title string) (*domain.Task, error)
	CancelEdit()
	EditBuffer() (uuid.UUID, string, bool)

	DeleteTask(ctx context.Context, id uuid.UUID) (bool, error)
	ToggleCompletion(ctx context.Context, id uuid.UUID) (bool, error)
	ResetTodayCompletions(ctx context.Context) (bool, error)

	IsCompletedToday(id uuid.UUID) bool
	CompletedTodayCount() int
	TotalTasksCount() int
}
