package db

import (
	"context"
	"time"
)

// Gateway is the relational executor facade combining all sub-interfaces.
type Gateway interface {
	Pinger
	Querier
	Executor
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Querier runs raw queries and returns every row as a slice of column values.
type Querier interface {
	QueryRows(ctx context.Context, sql string) ([][]any, error)
}

// Executor runs raw statements that return no rows (DDL, DML).
type Executor interface {
	Exec(ctx context.Context, sql string) error
}
