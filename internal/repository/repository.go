// Package repository persists profiles, posts and content plans in
// PostgreSQL through sqlx.
package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is a unique-key violation, e.g. a second profile for a user.
	ErrConflict = errors.New("already exists")
)

const (
	uniqueViolation = "23505"
	// invalidText is raised when an id is not a valid uuid, so no such row can exist.
	invalidText = "22P02"
)

// mapError turns driver errors into package sentinels.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return ErrConflict
		case invalidText:
			return ErrNotFound
		}
	}
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
