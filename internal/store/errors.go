package store

import (
	"errors"
	"fmt"
)

// ErrStorage is matched by every *StorageError via [errors.Is].
var ErrStorage = errors.New("storage error")

// ErrUnknownDriver is returned by [NewStorages] for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown storage driver")

// ErrNilClient is returned by backends constructed without a connection.
var ErrNilClient = errors.New("storage client is nil")

// ErrCorruptedRecord is wrapped when a persisted value cannot be decoded.
var ErrCorruptedRecord = errors.New("corrupted record")

// Low-level database operation errors. These are wrapped by the SQLite
// backend when a SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query with
	// squirrel fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE
	// or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")
)

// StorageError reports a failed read or write of the underlying key-value
// store. When a mutation returns a StorageError the in-memory view of the
// queue or cache is unchanged.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true for every StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func storageError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Key: key, Err: err}
}
