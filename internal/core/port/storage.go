package port

import (
	"context"

	"daycheck/internal/core/domain"
)

// KVStore is the persistent key-value store behind the checklist. Get returns
// ErrKeyNotFound via the adapter's sentinel when the key has never been
// written; adapters map their backend's miss condition onto (nil, nil).
type KVStore interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// ChecklistRepository mirrors the in-memory checklist into three independent
// KV entries: the task list, the completion list and the last-completion date.
// Every save rewrites the full entry, no deltas.
type ChecklistRepository interface {
	LoadTasks(ctx context.Context) ([]domain.Task, error)
	SaveTasks(ctx context.Context, tasks []domain.Task) error

	// LoadCompletions reports found=false when no completion entry exists,
	// which the day-rollover rule treats differently from an empty list.
	LoadCompletions(ctx context.Context) (records []domain.CompletionRecord, found bool, err error)
	SaveCompletions(ctx context.Context, records []domain.CompletionRecord) error

	LoadLastCompletionDate(ctx context.Context) (string, error)
	SaveLastCompletionDate(ctx context.Context, date string) error
}
