// Package edgesql compiles a SQL statement into a reusable query function.
// Each call of the function binds fresh named parameters, runs the statement
// on a connection of its own and returns rows, named result sets or an
// affected-row count in a portable form.
package edgesql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/edgesql/cache"
	"github.com/Konsultn-Engineering/edgesql/connector"
	"github.com/Konsultn-Engineering/edgesql/engine"
	"github.com/Konsultn-Engineering/edgesql/logging"
	"github.com/Konsultn-Engineering/edgesql/query"
	"github.com/Konsultn-Engineering/edgesql/result"

	_ "github.com/Konsultn-Engineering/edgesql/providers/mysql"
	_ "github.com/Konsultn-Engineering/edgesql/providers/postgres"
	_ "github.com/Konsultn-Engineering/edgesql/providers/sqlite"
	_ "github.com/Konsultn-Engineering/edgesql/providers/sqlserver"
)

// EnvConnectionString names the environment variable holding the default
// connection string.
const EnvConnectionString = "EDGE_SQL_CONNECTION_STRING"

// ErrConfig is wrapped by every error Compile returns.
var ErrConfig = errors.New("edgesql: invalid configuration")

// Config is the compile-time configuration of a query function.
type Config struct {
	// Source is the SQL text. Required.
	Source string
	// ConnectionString selects the database and its dialect. When empty,
	// EDGE_SQL_CONNECTION_STRING is used.
	ConnectionString string
	// CommandTimeout bounds execution. Zero leaves it to the driver.
	CommandTimeout time.Duration
	// Policy defaults to query.Extended.
	Policy query.Policy
	// Pool applies to the driver pool kept for ConnectionString. The first
	// function compiled for a connection string decides it.
	Pool connector.PoolConfig
}

// Func is a compiled query function. It is safe for concurrent use.
type Func func(ctx context.Context, params query.Params) (result.Output, error)

// Outcome is the result of an asynchronous invocation.
type Outcome struct {
	Output result.Output
	Err    error
}

// Async invokes f in a new goroutine. The channel receives exactly one
// Outcome and is then closed.
func (f Func) Async(ctx context.Context, params query.Params) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		out, err := f(ctx, params)
		ch <- Outcome{Output: out, Err: err}
	}()
	return ch
}

type options struct {
	logger *slog.Logger
	cache  *cache.Compiled
	getenv func(string) string
}

// Option customizes Compile.
type Option func(*options)

// WithLogger sets the logger used for compile and invocation records.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithCache reuses compiled queries across Compile calls with the same
// configuration. The logger is not part of the cache key: a function served
// from the cache logs to the logger given when it was first compiled, and
// WithLogger on later calls has no effect for it.
func WithCache(c *cache.Compiled) Option {
	return func(o *options) { o.cache = c }
}

// WithEnv replaces os.Getenv for reading EDGE_SQL_CONNECTION_STRING.
func WithEnv(getenv func(string) string) Option {
	return func(o *options) { o.getenv = getenv }
}

// Compile validates cfg, classifies the source once and returns the query
// function. All errors wrap ErrConfig.
func Compile(cfg Config, opts ...Option) (Func, error) {
	o := options{getenv: os.Getenv}
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.OrDiscard(o.logger)

	if strings.TrimSpace(cfg.Source) == "" {
		return nil, fmt.Errorf("%w: source is required", ErrConfig)
	}
	if cfg.ConnectionString == "" {
		cfg.ConnectionString = o.getenv(EnvConnectionString)
	}
	if strings.TrimSpace(cfg.ConnectionString) == "" {
		return nil, fmt.Errorf("%w: no connection string; set ConnectionString or %s", ErrConfig, EnvConnectionString)
	}
	if cfg.CommandTimeout < 0 {
		return nil, fmt.Errorf("%w: negative command timeout %s", ErrConfig, cfg.CommandTimeout)
	}

	compile := func() (*engine.Query, error) {
		dialect, provider, err := connector.Resolve(cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		cmd, err := query.Parse(cfg.Source, cfg.Policy)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		log.Debug("compiled query", "kind", cmd.Kind.String(), "dialect", dialect)
		conn := connector.Config{DSN: cfg.ConnectionString, Pool: cfg.Pool}
		return engine.New(cmd, cfg.Policy, dialect, provider, conn, cfg.CommandTimeout, o.logger), nil
	}

	var (
		q   *engine.Query
		err error
	)
	if o.cache != nil {
		q, err = o.cache.GetOrCompile(cache.Key{
			Source:           cfg.Source,
			ConnectionString: cfg.ConnectionString,
			Timeout:          cfg.CommandTimeout,
			Policy:           cfg.Policy,
		}, compile)
	} else {
		q, err = compile()
	}
	if err != nil {
		return nil, err
	}
	return q.Run, nil
}

// Close releases the driver pools of every provider. Query functions keep
// working afterwards; pools are reopened on demand.
func Close() error {
	return connector.Shutdown()
}
