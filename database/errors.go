package database

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound means a mutation affected zero rows or a lookup matched
	// nothing the caller required to exist.
	ErrNotFound = errors.New("database: not found")

	// ErrConflict means an insert hit a unique constraint, or a paired
	// write affected an unexpected number of rows.
	ErrConflict = errors.New("database: conflict")
)

// isUniqueViolation recognizes duplicate-key failures from both supported
// drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	return false
}
