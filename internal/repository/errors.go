package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrCapacityExceeded means the count-then-insert transaction found the
	// event full. Recoverable and user-facing, not a system fault.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrEventInactive means the event exists but is no longer bookable.
	ErrEventInactive = errors.New("event not active")

	// ErrOpenSessionExists means the client already has an attendance log
	// without a check-out.
	ErrOpenSessionExists = errors.New("open attendance session exists")

	// ErrAlreadyClosed means the attendance log was checked out earlier.
	ErrAlreadyClosed = errors.New("attendance log already closed")
)

// IsUniqueViolation reports whether err is a unique-constraint violation on
// the named index. Postgres reports SQLSTATE 23505 with the constraint name;
// the SQLite path used by local dev and tests only gives us the message text.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
