package database

import (
	"context"

	"github.com/Konsultn-Engineering/edgesql/schema"
)

// ResultSets is a forward-only, single-pass stream over the result sets
// produced by one executed command. It starts positioned on the first
// result set.
type ResultSets interface {
	// Columns describes the current result set.
	Columns() []schema.Column
	// Next advances to the next row of the current result set.
	Next() bool
	// Values returns the current row. The slice is owned by the caller.
	Values() ([]any, error)
	// TableName reports the base table of the current result set, or ""
	// when the driver cannot tell. Call it after the rows are drained.
	TableName(ctx context.Context) (string, error)
	// NextResultSet moves to the next result set, reporting whether one
	// exists.
	NextResultSet() bool
	Err() error
	Close() error
}
