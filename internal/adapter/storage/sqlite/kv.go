package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"daycheck/internal/core/port"
)

// KVStore maps the key-value port onto a kv_entries table. Each entry is a
// single row keyed by name; Set rewrites the row wholesale.
type KVStore struct {
	db *DB
}

func NewKVStore(db *DB) port.KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query := s.db.QueryBuilder.Insert("kv_entries").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert for %q: %w", key, err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	return nil
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := s.db.QueryBuilder.Select("value").
		From("kv_entries").
		Where(sq.Eq{"key": key}).
		Limit(1)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select for %q: %w", key, err)
	}

	var value []byte
	err = s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}

	return value, nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	query := s.db.QueryBuilder.Delete("kv_entries").
		Where(sq.Eq{"key": key})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build delete for %q: %w", key, err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}

	return nil
}

func (s *KVStore) Close() error {
	return s.db.DB.Close()
}
