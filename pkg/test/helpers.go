package test

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"daycheck/internal/adapter/http/confirm"
	"daycheck/internal/adapter/storage"
	"daycheck/internal/adapter/storage/memory"
	"daycheck/internal/adapter/storage/sqlite"
	"daycheck/internal/core/port"
	"daycheck/internal/core/service"
	"daycheck/internal/core/telemetry"
)

// FrozenClock pins Now to a fixed instant so the session date is
// deterministic in tests.
type FrozenClock struct {
	Instant time.Time
}

func (c FrozenClock) Now() time.Time {
	return c.Instant
}

func ClockAt(date string) FrozenClock {
	instant, err := time.Parse(service.DateLayout, date)

	if err != nil {
		log.Fatal("Invalid test date:", err)
	}

	return FrozenClock{Instant: instant.Add(9 * time.Hour)}
}

// findProjectRoot finds the project root directory by looking for go.mod
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Fallback to current working directory
	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

func InitTestDB() *sqlite.DB {
	db, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	// A pooled :memory: handle gives every connection its own empty
	// database; pin the pool to one connection so migrations and the
	// tests see the same database (matches production db.go).
	db.SetMaxOpenConns(1)

	projectRoot := findProjectRoot()
	migrationsPath := filepath.Join(projectRoot, "db", "migrations")
	sqlite.RunMigrations(db, migrationsPath)

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &sqlite.DB{
		DB:           db,
		QueryBuilder: &queryBuilder,
	}
}

func CleanDB(t *testing.T, db *sql.DB) {
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' and name not in ('sqlite_sequence', 'schema_migrations')")
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}
	defer rows.Close()

	// Collect the names and close the cursor before issuing the DELETEs:
	// with a single-connection pool, Exec while rows is open deadlocks.
	var tables []string
	for rows.Next() {
		var table string

		if err := rows.Scan(&table); err != nil {
			t.Fatalf("Failed to scan table name: %v", err)
		}
		tables = append(tables, strings.TrimSpace(table))
	}

	if err := rows.Err(); err != nil {
		t.Fatalf("Error iterating over rows: %v", err)
	}
	rows.Close()

	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// NewMemoryRepository returns a repository backed by the in-memory KV store,
// suitable for service tests that do not care about the SQL layer.
func NewMemoryRepository() (port.ChecklistRepository, port.KVStore) {
	kv := memory.NewKVStore()
	repo := storage.NewChecklistRepository(kv, telemetry.NewNoOpProbe())

	return repo, kv
}

// NewChecklistService hydrates a service over the given repository with a
// frozen clock and an always-yes confirmer.
func NewChecklistService(t *testing.T, repo port.ChecklistRepository, clock port.Clock) *service.ChecklistService {
	return NewChecklistServiceWithConfirmer(t, repo, clock, confirm.StaticConfirmer{Answer: true})
}

// NewChecklistServiceWithConfirmer hydrates a service with an explicit
// confirmer. Handler tests pass the request confirmer so the confirmed flag
// on the request body is honored.
func NewChecklistServiceWithConfirmer(t *testing.T, repo port.ChecklistRepository, clock port.Clock, confirmer port.Confirmer) *service.ChecklistService {
	svc, err := service.NewChecklistService(
		context.Background(),
		repo,
		clock,
		confirmer,
		telemetry.NewNoOpProbe(),
	)

	if err != nil {
		t.Fatalf("Failed to hydrate checklist service: %v", err)
	}

	return svc
}
