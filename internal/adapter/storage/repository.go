package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"daycheck/internal/core/domain"
	"daycheck/internal/core/port"
	tel "daycheck/internal/core/telemetry"
	"daycheck/internal/core/util"
)

// Key names for the three persisted entries. Application-private; nothing
// else writes under the daycheck prefix.
const (
	KeyTasks              = "daycheck:tasks"
	KeyCompletions        = "daycheck:completions"
	KeyLastCompletionDate = "daycheck:last_completion_date"
)

// ChecklistRepository persists the checklist as three independent KV entries.
// Saves always rewrite the whole entry.
type ChecklistRepository struct {
	kv        port.KVStore
	telemetry port.Telemetry
}

func NewChecklistRepository(kv port.KVStore, telemetry port.Telemetry) port.ChecklistRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &ChecklistRepository{
		kv:        kv,
		telemetry: telemetry,
	}
}

func (r *ChecklistRepository) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "LoadTasks", "checklist", map[string]interface{}{
		"kv.key": KeyTasks,
	})
	defer span.End()

	startTime := time.Now()

	raw, err := r.kv.Get(ctx, KeyTasks)
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "LoadTasks", "checklist", time.Since(startTime), err)
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	// Absent entry reads as an empty list.
	if raw == nil {
		span.SetStatus("ok", "")
		r.telemetry.RecordRepositoryOperation(ctx, "LoadTasks", "checklist", time.Since(startTime), nil)
		return []domain.Task{}, nil
	}

	tasks, err := util.Deserialize[[]domain.Task](raw)
	if err != nil {
		// Corrupt data must not wedge the load path. Treat as empty, loudly.
		slog.Error("Discarding malformed task list", "error", err, "key", KeyTasks)
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "LoadTasks", "checklist", time.Since(startTime), err)
		return []domain.Task{}, nil
	}

	span.SetAttributes(map[string]interface{}{
		"checklist.tasks": len(tasks),
	})
	span.SetStatus("ok", "")
	r.telemetry.RecordRepositoryOperation(ctx, "LoadTasks", "checklist", time.Since(startTime), nil)

	return tasks, nil
}

func (r *ChecklistRepository) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "SaveTasks", "checklist", map[string]interface{}{
		"kv.key":          KeyTasks,
		"checklist.tasks": len(tasks),
	})
	defer span.End()

	startTime := time.Now()

	if tasks == nil {
		tasks = []domain.Task{}
	}

	raw, err := util.Serialize(tasks)
	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "SaveTasks", "checklist", time.Since(startTime), err)
		return fmt.Errorf("serialize tasks: %w", err)
	}

	if err := r.kv.Set(ctx, KeyTasks, raw); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "SaveTasks", "checklist", time.Since(startTime), err)
		return fmt.Errorf("save tasks: %w", err)
	}

	span.SetStatus("ok", "")
	r.telemetry.RecordRepositoryOperation(ctx, "SaveTasks", "checklist", time.Since(startTime), nil)

	return nil
}

func (r *ChecklistRepository) LoadCompletions(ctx context.Context) ([]domain.CompletionRecord, bool, error) {
	raw, err := r.kv.Get(ctx, KeyCompletions)
	if err != nil {
		return nil, false, fmt.Errorf("load completions: %w", err)
	}

	if raw == nil {
		return []domain.CompletionRecord{}, false, nil
	}

	records, err := util.Deserialize[[]domain.CompletionRecord](raw)
	if err != nil {
		slog.Error("Discarding malformed completion list", "error", err, "key", KeyCompletions)
		return []domain.CompletionRecord{}, false, nil
	}

	if records == nil {
		records = []domain.CompletionRecord{}
	}

	return records, true, nil
}

func (r *ChecklistRepository) SaveCompletions(ctx context.Context, records []domain.CompletionRecord) error {
	if records == nil {
		records = []domain.CompletionRecord{}
	}

	raw, err := util.Serialize(records)
	if err != nil {
		return fmt.Errorf("serialize completions: %w", err)
	}

	if err := r.kv.Set(ctx, KeyCompletions, raw); err != nil {
		return fmt.Errorf("save completions: %w", err)
	}

	return nil
}

func (r *ChecklistRepository) LoadLastCompletionDate(ctx context.Context) (string, error) {
	raw, err := r.kv.Get(ctx, KeyLastCompletionDate)
	if err != nil {
		return "", fmt.Errorf("load last completion date: %w", err)
	}

	return string(raw), nil
}

func (r *ChecklistRepository) SaveLastCompletionDate(ctx context.Context, date string) error {
	if err := r.kv.Set(ctx, KeyLastCompletionDate, []byte(date)); err != nil {
		return fmt.Errorf("save last completion date: %w", err)
	}

	return nil
}
