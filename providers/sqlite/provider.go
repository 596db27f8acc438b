package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Konsultn-Engineering/edgesql/connector"
	"github.com/Konsultn-Engineering/edgesql/dialect"
	"github.com/Konsultn-Engineering/edgesql/query"
)

// ErrProcedures is returned for exec commands; SQLite has no stored
// procedures.
var ErrProcedures = errors.New("sqlite: stored procedures are not supported")

type Provider struct {
	dbs *connector.Handles[*sql.DB]
}

func init() {
	connector.Register(dialect.NameSQLite, New())
}

func New() *Provider {
	return &Provider{dbs: connector.NewHandles(func(db *sql.DB) error { return db.Close() })}
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewSQLiteDialect()
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	dsn := DSN(cfg.DSN)
	db, err := p.dbs.Get(dsn, func() (*sql.DB, error) {
		return connector.OpenDB("sqlite", dsn, cfg.Pool)
	})
	if err != nil {
		return nil, err
	}
	return connector.ConnectSQL(ctx, db, bind)
}

func (p *Provider) Close() error {
	return p.dbs.CloseAll()
}

func bind(ctx context.Context, conn *sql.Conn, cmd query.Command, params query.Params) (string, []any, error) {
	if cmd.Kind == query.StoredProcedure {
		return "", nil, ErrProcedures
	}
	return connector.BindNamed(ctx, conn, cmd, params)
}

// DSN converts sqlite:// and sqlite: connection strings to the path or
// file: URI the driver expects.
func DSN(connStr string) string {
	s := strings.TrimSpace(connStr)
	for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite3:", "sqlite:"} {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			return s[len(prefix):]
		}
	}
	return s
}
