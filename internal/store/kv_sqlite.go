package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
)

const kvTable = "kv_entries"

// sqliteKeyValueStore persists every key as one row of kv_entries.
type sqliteKeyValueStore struct {
	db     *DB
	logger *logger.Logger
}

// NewSQLiteKeyValueStore returns a [KeyValueStore] over an already migrated
// connection.
func NewSQLiteKeyValueStore(db *DB, logger *logger.Logger) KeyValueStore {
	logger.Debug().Msg("creating sqlite key-value store")
	return &sqliteKeyValueStore{
		db:     db,
		logger: logger,
	}
}

func (s *sqliteKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := sq.Select("entry_value").
		From(kvTable).
		Where(sq.Eq{"entry_key": key}).
		ToSql()
	if err != nil {
		return "", false, storageError("get", key, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err))
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sqliteKeyValueStore.Get").Msg("error selecting value")
		return "", false, storageError("get", key, fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	return value, true, nil
}

func (s *sqliteKeyValueStore) Set(ctx context.Context, key, value string) error {
	query, args, err := sq.Insert(kvTable).
		Columns("entry_key", "entry_value", "updated_at").
		Values(key, value, sq.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return storageError("set", key, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err))
	}

	if _, err = s.db.execWithRetry(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sqliteKeyValueStore.Set").Msg("error upserting value")
		return storageError("set", key, fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	return nil
}

func (s *sqliteKeyValueStore) Remove(ctx context.Context, key string) error {
	query, args, err := sq.Delete(kvTable).
		Where(sq.Eq{"entry_key": key}).
		ToSql()
	if err != nil {
		return storageError("remove", key, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err))
	}

	if _, err = s.db.execWithRetry(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sqliteKeyValueStore.Remove").Msg("error deleting value")
		return storageError("remove", key, fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	return nil
}

// ListKeys matches the prefix with substr rather than LIKE, which is case
// insensitive in SQLite and treats % and _ as wildcards.
func (s *sqliteKeyValueStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	query, args, err := sq.Select("entry_key").
		From(kvTable).
		Where(sq.Expr("substr(entry_key, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)).
		OrderBy("entry_key").
		ToSql()
	if err != nil {
		return nil, storageError("list", prefix, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sqliteKeyValueStore.ListKeys").Msg("error listing keys")
		return nil, storageError("list", prefix, fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, storageError("list", prefix, fmt.Errorf("%w: %w", ErrScanningRows, err))
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		return nil, storageError("list", prefix, fmt.Errorf("%w: %w", ErrScanningRows, err))
	}

	return keys, nil
}
