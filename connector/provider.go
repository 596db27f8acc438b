package connector

import (
	"context"

	"github.com/Konsultn-Engineering/edgesql/database"
	"github.com/Konsultn-Engineering/edgesql/dialect"
	"github.com/Konsultn-Engineering/edgesql/query"
)

// Provider opens connections for one dialect.
type Provider interface {
	Dialect() dialect.Dialect
	// Connect returns a connection owned exclusively by the caller.
	Connect(ctx context.Context, cfg Config) (Connection, error)
	// Close releases every driver handle the provider keeps.
	Close() error
}

// Connection is a single database connection, used by one invocation and
// closed when it ends.
type Connection interface {
	// Query runs a row-returning command: Select, Fallback or
	// StoredProcedure.
	Query(ctx context.Context, cmd query.Command, params query.Params) (database.ResultSets, error)
	// Exec runs a Mutation and reports the affected row count.
	Exec(ctx context.Context, cmd query.Command, params query.Params) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
