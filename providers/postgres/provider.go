package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Konsultn-Engineering/edgesql/connector"
	"github.com/Konsultn-Engineering/edgesql/database"
	"github.com/Konsultn-Engineering/edgesql/dialect"
	"github.com/Konsultn-Engineering/edgesql/query"
)

type Provider struct {
	pools *connector.Handles[*pgxpool.Pool]
}

func init() {
	connector.Register(dialect.NamePostgres, New())
}

func New() *Provider {
	return &Provider{pools: connector.NewHandles(func(p *pgxpool.Pool) error {
		p.Close()
		return nil
	})}
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

// Connect acquires one connection from the pool kept for cfg.DSN.
func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	pool, err := p.pools.Get(cfg.DSN, func() (*pgxpool.Pool, error) {
		poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, err
		}

		settings := cfg.Pool.WithDefaults()
		poolCfg.MaxConns = int32(settings.MaxOpen)
		poolCfg.MaxConnLifetime = settings.MaxLifetime
		poolCfg.MaxConnIdleTime = settings.MaxIdleTime

		return pgxpool.NewWithConfig(context.Background(), poolCfg)
	})
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &connection{conn: conn}, nil
}

func (p *Provider) Close() error {
	return p.pools.CloseAll()
}

type connection struct {
	conn *pgxpool.Conn
}

// Query runs cmd. Procedures are called as set-returning functions with
// named notation. Commands without parameters use the simple protocol,
// which accepts multi-statement batches and yields one result per
// statement.
func (c *connection) Query(ctx context.Context, cmd query.Command, params query.Params) (database.ResultSets, error) {
	text := cmd.Text
	if cmd.Kind == query.StoredProcedure {
		var err error
		text, err = dialect.Postgres{}.ProcedureCall(cmd.Procedure, params)
		if err != nil {
			return nil, err
		}
	}

	pc := c.conn.Conn()
	if len(params) == 0 {
		results, err := pc.PgConn().Exec(ctx, text).ReadAll()
		if err != nil {
			return nil, err
		}
		return database.NewPgResults(results, pc.TypeMap(), database.ResolveTableName(pc)), nil
	}

	rows, err := c.conn.Query(ctx, text, args(params)...)
	if err != nil {
		return nil, err
	}
	return database.NewPgxRows(rows, pc.TypeMap(), database.ResolveTableName(pc)), nil
}

func (c *connection) Exec(ctx context.Context, cmd query.Command, params query.Params) (int64, error) {
	tag, err := c.conn.Exec(ctx, cmd.Text, args(params)...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *connection) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close returns the connection to the pool.
func (c *connection) Close() error {
	c.conn.Release()
	return nil
}

func args(params query.Params) []any {
	if len(params) == 0 {
		return nil
	}
	return []any{pgx.NamedArgs(params)}
}
