package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/migrations"
)

// DB wraps the SQLite connection used by the "sqlite" driver.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Write attempts on a locked database, with a linear backoff between them.
const (
	execAttempts = 3
	execBackoff  = 50 * time.Millisecond
)

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// execWithRetry runs a write statement, repeating it while the database
// reports lock contention.
func (db *DB) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	classifier := db.errorClassificator
	if classifier == nil {
		classifier = NewSQLiteErrorClassifier()
	}

	var (
		res sql.Result
		err error
	)
	for attempt := 1; attempt <= execAttempts; attempt++ {
		res, err = db.ExecContext(ctx, query, args...)
		if err == nil || classifier.Classify(err) != Retryable || attempt == execAttempts {
			return res, err
		}

		db.logger.Debug().Err(err).Int("attempt", attempt).Msg("database is locked, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * execBackoff):
		}
	}
	return res, err
}
