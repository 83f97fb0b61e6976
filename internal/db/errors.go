package db

import (
	"errors"

	"github.com/kailas-cloud/autoindex/internal/domain"
)

// ErrNoRows signals an empty result where at least one row was expected.
var ErrNoRows = errors.New("db: no rows")

// Op constants name gateway operations for error context.
const (
	OpPing  = "PING"
	OpQuery = "QUERY"
	OpExec  = "EXEC"
)

// Error wraps an underlying error with the operation name and, when known,
// the server's SQLSTATE code.
type Error struct {
	Op   string
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return e.Op + " (" + e.Code + "): " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every failed EXEC match domain.ErrStatementFailed.
func (e *Error) Is(target error) bool {
	return e.Op == OpExec && target == domain.ErrStatementFailed
}
