package connector

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/edgesql/database"
	"github.com/Konsultn-Engineering/edgesql/query"
)

// BindFunc turns a command and its parameters into driver text and
// arguments. It may consult conn, for example to read a procedure
// signature.
type BindFunc func(ctx context.Context, conn *sql.Conn, cmd query.Command, params query.Params) (string, []any, error)

// OpenDB opens a database/sql handle with the pool settings applied.
// No connection is made until one is requested.
func OpenDB(driverName, dsn string, pool PoolConfig) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return ApplyPool(db, pool), nil
}

// ApplyPool configures db's pool from pool, with defaults for unset fields.
func ApplyPool(db *sql.DB, pool PoolConfig) *sql.DB {
	pool = pool.WithDefaults()
	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxLifetime(pool.MaxLifetime)
	db.SetConnMaxIdleTime(pool.MaxIdleTime)
	return db
}

// SQLConn is a Connection over a single *sql.Conn.
type SQLConn struct {
	conn *sql.Conn
	bind BindFunc
}

// ConnectSQL takes one connection from db.
func ConnectSQL(ctx context.Context, db *sql.DB, bind BindFunc) (*SQLConn, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &SQLConn{conn: conn, bind: bind}, nil
}

func (c *SQLConn) Query(ctx context.Context, cmd query.Command, params query.Params) (database.ResultSets, error) {
	text, args, err := c.bind(ctx, c.conn, cmd, params)
	if err != nil {
		return nil, err
	}
	rows, err := c.conn.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, err
	}
	return database.NewSqlRows(rows), nil
}

func (c *SQLConn) Exec(ctx context.Context, cmd query.Command, params query.Params) (int64, error) {
	text, args, err := c.bind(ctx, c.conn, cmd, params)
	if err != nil {
		return 0, err
	}
	res, err := c.conn.ExecContext(ctx, text, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *SQLConn) Ping(ctx context.Context) error { return c.conn.PingContext(ctx) }

// Close returns the connection to the driver pool.
func (c *SQLConn) Close() error { return c.conn.Close() }

// BindNamed passes parameters as sql.Named arguments and the command text
// unchanged.
func BindNamed(_ context.Context, _ *sql.Conn, cmd query.Command, params query.Params) (string, []any, error) {
	return cmd.Text, params.Named(), nil
}

var _ Connection = (*SQLConn)(nil)
