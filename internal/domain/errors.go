package domain

import (
	"errors"
)

var (
	// ErrInvalidIdentifier signals a project, collection or field name that cannot be
	// embedded into DDL safely.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrStatementFailed signals that the engine rejected a DDL statement.
	ErrStatementFailed = errors.New("statement execution failed")
	// ErrInvalidSchema signals a malformed schema-evolution notification.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrAutoIndexDisabled signals that automatic indexing is switched off.
	ErrAutoIndexDisabled = errors.New("auto indexing disabled")
	// ErrNoSubscribers signals a notification published with no handler installed.
	ErrNoSubscribers = errors.New("no subscribers")
)
