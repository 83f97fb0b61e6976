// Package index derives auto index names and renders CREATE INDEX statements.
package index

import (
	"github.com/kailas-cloud/autoindex/internal/domain/collection/field"
)

// Method is a PostgreSQL index access method.
type Method string

const (
	// BRIN is the compact block-range index, suited to the append-ordered event-time column.
	BRIN Method = "BRIN"
	// BTree is the balanced-tree index used for everything else.
	BTree Method = "BTREE"
)

// Description returns the storage-neutral name of the method.
func (m Method) Description() string {
	if m == BRIN {
		return "range-compact"
	}
	return "balanced-tree"
}

// Spec identifies one auto index. It is derived, never stored.
type Spec struct {
	Project    string
	Collection string
	Field      field.Field
	Name       string
	Method     Method
}
