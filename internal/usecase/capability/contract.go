package capability

import "context"

// Querier runs the version query.
type Querier interface {
	QueryRows(ctx context.Context, sql string) ([][]any, error)
}
