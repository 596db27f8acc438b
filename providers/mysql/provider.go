package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/Konsultn-Engineering/edgesql/connector"
	"github.com/Konsultn-Engineering/edgesql/dialect"
	"github.com/Konsultn-Engineering/edgesql/query"
)

type Provider struct {
	dbs *connector.Handles[*sql.DB]
}

func init() {
	connector.Register(dialect.NameMySQL, New())
}

func New() *Provider {
	return &Provider{dbs: connector.NewHandles(func(db *sql.DB) error { return db.Close() })}
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewMySQLDialect()
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	mcfg, err := Config(cfg.DSN)
	if err != nil {
		return nil, err
	}
	dsn := mcfg.FormatDSN()
	db, err := p.dbs.Get(dsn, func() (*sql.DB, error) {
		c, err := mysql.NewConnector(mcfg)
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

// Config converts a mysql:// URL into driver configuration. Query
// parameters are driver options; parseTime defaults to true. Strings in
// the driver's native DSN format are parsed as they are.
func Config(connStr string) (*mysql.Config, error) {
	s := strings.TrimSpace(connStr)
	const scheme = "mysql://"
	if len(s) < len(scheme) || !strings.EqualFold(s[:len(scheme)], scheme) {
		return mysql.ParseDSN(s)
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("mysql: parse connection string: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = net.JoinHostPort(u.Hostname(), "3306")
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true

	if u.RawQuery == "" {
		return cfg, nil
	}
	// Let the driver interpret the options by reparsing its own format.
	return mysql.ParseDSN(cfg.FormatDSN() + "&" + u.RawQuery)
}

func bind(ctx context.Context, conn *sql.Conn, cmd query.Command, params query.Params) (string, []any, error) {
	d := dialect.MySQL{}
	if cmd.Kind != query.StoredProcedure {
		text, args := dialect.Positional(d, cmd.Text, params)
		return text, args, nil
	}

	formals, err := procedureParams(ctx, conn, cmd.Procedure)
	if err != nil {
		return "", nil, err
	}
	if err := checkArgs(formals, params); err != nil {
		return "", nil, err
	}
	return d.ProcedureCall(cmd.Procedure, formals), procedureArgs(formals, params), nil
}

// procedureArgs orders the supplied values by the procedure's IN and
// INOUT parameters.
func procedureArgs(formals []dialect.ProcedureParam, params query.Params) []any {
	byName := make(map[string]any, len(params))
	for name, v := range params {
		byName[strings.ToLower(name)] = v
	}
	var args []any
	for _, f := range formals {
		if strings.EqualFold(f.Mode, "OUT") {
			continue
		}
		args = append(args, byName[strings.ToLower(f.Name)])
	}
	return args
}

// checkArgs requires a value for every IN and INOUT parameter and rejects
// values the procedure does not declare.
func checkArgs(formals []dialect.ProcedureParam, params query.Params) error {
	declared := make(map[string]bool, len(formals))
	for _, f := range formals {
		declared[strings.ToLower(f.Name)] = true
	}
	supplied := make(map[string]bool, len(params))
	for _, name := range params.Names() {
		if !declared[strings.ToLower(name)] {
			return &query.BindError{Name: name, Err: fmt.Errorf("procedure has no such parameter")}
		}
		supplied[strings.ToLower(name)] = true
	}
	for _, f := range formals {
		if !strings.EqualFold(f.Mode, "OUT") && !supplied[strings.ToLower(f.Name)] {
			return &query.BindError{Name: f.Name, Err: fmt.Errorf("missing value for procedure parameter")}
		}
	}
	return nil
}

const paramsQuery = `SELECT PARAMETER_NAME, PARAMETER_MODE
FROM information_schema.PARAMETERS
WHERE SPECIFIC_SCHEMA = COALESCE(?, DATABASE())
  AND SPECIFIC_NAME = ?
  AND ROUTINE_TYPE = 'PROCEDURE'
  AND PARAMETER_MODE IS NOT NULL
ORDER BY ORDINAL_POSITION`

// procedureParams reads the formal parameter list of a procedure, which
// may be schema qualified.
func procedureParams(ctx context.Context, conn *sql.Conn, name string) ([]dialect.ProcedureParam, error) {
	var schema any
	proc := strings.ReplaceAll(name, "`", "")
	if s, p, ok := strings.Cut(proc, "."); ok {
		schema, proc = s, p
	}

	rows, err := conn.QueryContext(ctx, paramsQuery, schema, proc)
	if err != nil {
		return nil, fmt.Errorf("mysql: read parameters of %s: %w", name, err)
	}
	defer rows.Close()

	var formals []dialect.ProcedureParam
	for rows.Next() {
		var f dialect.ProcedureParam
		if err := rows.Scan(&f.Name, &f.Mode); err != nil {
			return nil, err
		}
		formals = append(formals, f)
	}
	return formals, rows.Err()
}
