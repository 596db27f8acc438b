package sqlserver

import (
	"context"
	"database/sql"
	"strings"

	mssql "github.com/denisenkom/go-mssqldb"

	"github.com/Konsultn-Engineering/edgesql/connector"
	"github.com/Konsultn-Engineering/edgesql/dialect"
	"github.com/Konsultn-Engineering/edgesql/query"
)

type Provider struct {
	dbs *connector.Handles[*sql.DB]
}

func init() {
	connector.Register(dialect.NameSQLServer, New())
}

func New() *Provider {
	return &Provider{dbs: connector.NewHandles(func(db *sql.DB) error { return db.Close() })}
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewSQLServerDialect()
}

// Connect accepts sqlserver:// and mssql:// URLs as well as keyword
// connection strings.
func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	dsn := DSN(cfg.DSN)
	db, err := p.dbs.Get(dsn, func() (*sql.DB, error) {
		c, err := mssql.NewConnector(dsn)
		if err != nil {
			return nil, err
		}
		return connector.ApplyPool(sql.OpenDB(c), cfg.Pool), nil
	})
	if err != nil {
		return nil, err
	}
	return connector.ConnectSQL(ctx, db, bind)
}

func (p *Provider) Close() error {
	return p.dbs.CloseAll()
}

// bind sends procedures as RPC calls: the driver treats a bare procedure
// name with arguments as a stored procedure invocation.
func bind(ctx context.Context, conn *sql.Conn, cmd query.Command, params query.Params) (string, []any, error) {
	if cmd.Kind == query.StoredProcedure {
		return cmd.Procedure, params.Named(), nil
	}
	return connector.BindNamed(ctx, conn, cmd, params)
}

// DSN rewrites the mssql:// scheme to sqlserver://.
func DSN(connStr string) string {
	s := strings.TrimSpace(connStr)
	const alias = "mssql://"
	if len(s) >= len(alias) && strings.EqualFold(s[:len(alias)], alias) {
		return "sqlserver://" + s[len(alias):]
	}
	return s
}
