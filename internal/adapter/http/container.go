package http

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"daycheck/internal/adapter/http/confirm"
	"daycheck/internal/adapter/http/handler"
	"daycheck/internal/adapter/storage"
	"daycheck/internal/adapter/storage/memory"
	"daycheck/internal/adapter/storage/postgres"
	"daycheck/internal/adapter/storage/redis"
	"daycheck/internal/adapter/storage/sqlite"
	"daycheck/internal/core/port"
	"daycheck/internal/core/service"
	"daycheck/internal/core/telemetry"
	"daycheck/pkg/config"
)

type Container struct {
	KV   port.KVStore
	Repo port.ChecklistRepository

	ChecklistService port.ChecklistService

	ChecklistHandler *handler.ChecklistHandler
}

// NewContainer wires the storage backend selected by the config into the
// checklist service and its handler. Hydration runs here, so the session date
// is frozen at startup.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *config.LokiLogger) (*Container, error) {
	kv, err := newKVStore(ctx, cfg)

	if err != nil {
		return nil, fmt.Errorf("container: storage backend %q: %w", cfg.StorageBackend, err)
	}

	probe := telemetry.NewOTELProbe(slog.Default())

	repo := storage.NewChecklistRepository(kv, probe)

	svc, err := service.NewChecklistService(ctx, repo, service.SystemClock(), confirm.NewRequestConfirmer(), probe)

	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("container: hydrate checklist: %w", err)
	}

	checklistHandler := handler.NewChecklistHandler(svc, logger)

	return &Container{
		KV:   kv,
		Repo: repo,

		ChecklistService: svc,

		ChecklistHandler: checklistHandler,
	}, nil
}

func newKVStore(ctx context.Context, cfg *config.AppConfig) (port.KVStore, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		return memory.NewKVStore(), nil

	case config.StoragePostgres:
		db, err := postgres.NewDB(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewKVStore(db), nil

	case config.StorageRedis:
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		return redis.NewKVStore(ctx, addr)

	case config.StorageSQLite:
		db, err := sqlite.NewDB()
		if err != nil {
			return nil, err
		}
		return sqlite.NewKVStore(db), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
