package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"daycheck/internal/core/domain"
	"daycheck/internal/core/port"
	tel "daycheck/internal/core/telemetry"
)

var ErrTaskNotFound = errors.New("task not found")

const (
	actionDeleteTask = "delete_task"
	actionResetToday = "reset_today_completions"
)

// ChecklistService holds the in-memory checklist for one session and mirrors
// every mutation into the repository. The session date is computed once at
// hydration and never refreshed, so a session spanning midnight keeps counting
// against the day it was loaded on.
type ChecklistService struct {
	repo      port.ChecklistRepository
	clock     port.Clock
	confirm   port.Confirmer
	telemetry port.Telemetry

	mu          sync.Mutex
	sessionDate string
	tasks       []domain.Task
	completions []domain.CompletionRecord

	// Edit buffer state. Exclusive: at most one task editable at a time.
	editing    bool
	editID     uuid.UUID
	editBuffer string
}

// NewChecklistService hydrates the checklist from the repository, applying the
// day-rollover rule: persisted completions survive only when the stored
// last-completion date equals the session date.
func NewChecklistService(ctx context.Context, repo port.ChecklistRepository, clock port.Clock, confirm port.Confirmer, telemetry port.Telemetry) (*ChecklistService, error) {
	if clock == nil {
		clock = SystemClock()
	}

	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	s := &ChecklistService{
		repo:        repo,
		clock:       clock,
		confirm:     confirm,
		telemetry:   telemetry,
		sessionDate: FormatDate(clock.Now()),
	}

	if err := s.hydrate(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *ChecklistService) hydrate(ctx context.Context) error {
	tasks, err := s.repo.LoadTasks(ctx)

	if err != nil {
		return err
	}

	s.tasks = tasks

	lastDate, err := s.repo.LoadLastCompletionDate(ctx)

	if err != nil {
		return err
	}

	records, found, err := s.repo.LoadCompletions(ctx)

	if err != nil {
		return err
	}

	if found && lastDate == s.sessionDate {
		s.completions = records
	} else {
		// Day rollover: completions never carry over across a date change.
		s.completions = []domain.CompletionRecord{}

		if err := s.repo.SaveCompletions(ctx, s.completions); err != nil {
			return err
		}
	}

	if err := s.repo.SaveLastCompletionDate(ctx, s.sessionDate); err != nil {
		return err
	}

	slog.Info("Checklist hydrated",
		"session_date", s.sessionDate,
		"tasks", len(s.tasks),
		"completions", len(s.completions))

	return nil
}

func (s *ChecklistService) SessionDate() string {
	return s.sessionDate
}

func (s *ChecklistService) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]domain.Task, len(s.tasks))
	copy(tasks, s.tasks)

	return tasks
}

// AddTask appends a task with a fresh id and the trimmed title. A blank or
// whitespace-only title is a silent no-op returning (nil, nil).
func (s *ChecklistService) AddTask(ctx context.Context, title string) (*domain.Task, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "checklist", "AddTask", nil)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := domain.NewTask(title, s.clock.Now())

	if !ok {
		return nil, nil
	}

	s.tasks = append(s.tasks, task)

	if err := s.repo.SaveTasks(ctx, s.tasks); err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		s.telemetry.RecordError(ctx, "AddTask", err, nil)
		return nil, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "task_added", "task", task.ID.String(), map[string]interface{}{
		"title": task.Title,
	})

	return &task, nil
}

// BeginEdit captures the task's current title into the edit buffer. Starting
// a new edit abandons any prior uncommitted one.
func (s *ChecklistService) BeginEdit(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.findTask(id)

	if task == nil {
		return false
	}

	s.editing = true
	s.editID = id
	s.editBuffer = task.Title

	return true
}

// CommitEdit replaces the edited task's title with the trimmed input and
// clears edit mode. Blank input is a no-op that leaves edit mode active.
// Commits against a task that is not in edit mode are ignored.
func (s *ChecklistService) CommitEdit(ctx context.Context, id uuid.UUID, title string) (*domain.Task, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "checklist", "CommitEdit", map[string]interface{}{
		"task.id": id.String(),
	})
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editing || s.editID != id {
		return nil, nil
	}

	task := s.findTask(id)

	if task == nil {
		s.clearEdit()
		return nil, nil
	}

	if !task.Rename(title) {
		return nil, nil
	}

	s.clearEdit()

	if err := s.repo.SaveTasks(ctx, s.tasks); err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		s.telemetry.RecordError(ctx, "CommitEdit", err, nil)
		return nil, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "task_edited", "task", task.ID.String(), map[string]interface{}{
		"title": task.Title,
	})

	updated := *task
	return &updated, nil
}

// CancelEdit discards the buffer without touching the task.
func (s *ChecklistService) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearEdit()
}

// EditBuffer exposes the pending edit state for presentation.
func (s *ChecklistService) EditBuffer() (uuid.UUID, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.editID, s.editBuffer, s.editing
}

// DeleteTask removes the task and every completion record referencing it.
// Declined confirmation is a no-op.
func (s *ChecklistService) DeleteTask(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "checklist", "DeleteTask", map[string]interface{}{
		"task.id": id.String(),
	})
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findTask(id) == nil {
		return false, ErrTaskNotFound
	}

	if !s.confirm.Confirm(ctx, actionDeleteTask) {
		return false, nil
	}

	kept := s.tasks[:0]
	for _, task := range s.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	s.tasks = kept

	records := s.completions[:0]
	for _, record := range s.completions {
		if !record.BelongsTo(id) {
			records = append(records, record)
		}
	}
	s.completions = records

	if s.editing && s.editID == id {
		s.clearEdit()
	}

	if err := s.repo.SaveTasks(ctx, s.tasks); err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		s.telemetry.RecordError(ctx, "DeleteTask", err, nil)
		return false, err
	}

	if err := s.repo.SaveCompletions(ctx, s.completions); err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		s.telemetry.RecordError(ctx, "DeleteTask", err, nil)
		return false, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "task_deleted", "task", id.String(), nil)

	return true, nil
}

// ToggleCompletion flips the task's done state for the session date. Toggling
// twice restores the original state; the (task, date) pair is never duplicated.
func (s *ChecklistService) ToggleCompletion(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "checklist", "ToggleCompletion", map[string]interface{}{
		"task.id": id.String(),
	})
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findTask(id) == nil {
		return false, ErrTaskNotFound
	}

	removed := false
	records := s.completions[:0]
	for _, record := range s.completions {
		if record.Matches(id, s.sessionDate) {
			removed = true
			continue
		}
		records = append(records, record)
	}
	s.completions = records

	if !removed {
		s.completions = append(s.completions, domain.CompletionRecord{
			TaskID: id,
			Date:   s.sessionDate,
		})
	}

	if err := s.repo.SaveCompletions(ctx, s.completions); err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		s.telemetry.RecordError(ctx, "ToggleCompletion", err, nil)
		return false, err
	}

	completed := !removed

	s.telemetry.RecordBusinessEvent(ctx, "completion_toggled", "task", id.String(), map[string]interface{}{
		"completed": completed,
		"date":      s.sessionDate,
	})

	return completed, nil
}

// ResetTodayCompletions drops every completion record dated today. Records
// from other dates are left alone. Declined confirmation is a no-op.
func (s *ChecklistService) ResetTodayCompletions(ctx context.Context) (bool, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "checklist", "ResetTodayCompletions", nil)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.confirm.Confirm(ctx, actionResetToday) {
		return false, nil
	}

	records := s.completions[:0]
	for _, record := range s.completions {
		if record.Date != s.sessionDate {
			records = append(records, record)
		}
	}
	s.completions = records

	if err := s.repo.SaveCompletions(ctx, s.completions); err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		s.telemetry.RecordError(ctx, "ResetTodayCompletions", err, nil)
		return false, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "completions_reset", "completion", s.sessionDate, nil)

	return true, nil
}

func (s *ChecklistService) IsCompletedToday(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isCompletedToday(id)
}

// CompletedTodayCount is recomputed from the completion list on every call,
// never cached.
func (s *ChecklistService) CompletedTodayCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.completions {
		if record.Date == s.sessionDate {
			count++
		}
	}

	return count
}

func (s *ChecklistService) TotalTasksCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tasks)
}

func (s *ChecklistService) findTask(id uuid.UUID) *domain.Task {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i]
		}
	}

	return nil
}

func (s *ChecklistService) isCompletedToday(id uuid.UUID) bool {
	for _, record := range s.completions {
		if record.Matches(id, s.sessionDate) {
			return true
		}
	}

	return false
}

func (s *ChecklistService) clearEdit() {
	s.editing = false
	s.editID = uuid.Nil
	s.editBuffer = ""
}
