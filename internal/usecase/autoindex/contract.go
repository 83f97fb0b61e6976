package autoindex

import "context"

// Executor runs a single DDL statement synchronously.
type Executor interface {
	Exec(ctx context.Context, sql string) error
}
