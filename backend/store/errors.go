package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports that a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate reports a uniqueness conflict, e.g. an email that
	// is already registered.
	ErrDuplicate = errors.New("already exists")
)

// wrapErr classifies a driver error. Missing rows and uniqueness
// conflicts map to the sentinels; anything else is a persistence
// failure wrapped with the failing operation.
func wrapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return ErrDuplicate
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
