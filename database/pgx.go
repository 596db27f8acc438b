package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Konsultn-Engineering/edgesql/schema"
)

// TableResolver maps a PostgreSQL table OID to the table name.
type TableResolver func(ctx context.Context, oid uint32) (string, error)

// PgxRows implements ResultSets for pgx.Rows. The extended protocol yields
// exactly one result set per command; batches go through PgResults.
type PgxRows struct {
	rows    pgx.Rows
	cols    []schema.Column
	oid     uint32
	resolve TableResolver
}

// NewPgxRows wraps rows. typeMap names the column types; resolve may be
// nil, in which case no table names are reported.
func NewPgxRows(rows pgx.Rows, typeMap *pgtype.Map, resolve TableResolver) *PgxRows {
	cols, oid := pgColumns(rows.FieldDescriptions(), typeMap)
	return &PgxRows{rows: rows, cols: cols, oid: oid, resolve: resolve}
}

// pgColumns describes fields and returns the first nonzero table OID.
func pgColumns(fields []pgconn.FieldDescription, typeMap *pgtype.Map) ([]schema.Column, uint32) {
	cols := make([]schema.Column, len(fields))
	var oid uint32
	for i, fd := range fields {
		col := schema.Column{Name: fd.Name, Kind: schema.KindOfOID(fd.DataTypeOID)}
		if typeMap != nil {
			if t, ok := typeMap.TypeForOID(fd.DataTypeOID); ok {
				col.DatabaseType = schema.NewColumn(fd.Name, t.Name).DatabaseType
			}
		}
		cols[i] = col
		if oid == 0 && fd.TableOID != 0 {
			oid = fd.TableOID
		}
	}
	return cols, oid
}

func (p *PgxRows) Columns() []schema.Column { return p.cols }

// Next prepares the next result row for reading.
func (p *PgxRows) Next() bool { return p.rows.Next() }

// Values returns the decoded values for the current row.
func (p *PgxRows) Values() ([]any, error) { return p.rows.Values() }

// TableName resolves the table of the first column that has one. The rows
// are closed first so the connection is free for the lookup.
func (p *PgxRows) TableName(ctx context.Context) (string, error) {
	if p.oid == 0 || p.resolve == nil {
		return "", nil
	}
	p.rows.Close()
	if err := p.rows.Err(); err != nil {
		return "", err
	}
	return p.resolve(ctx, p.oid)
}

func (p *PgxRows) NextResultSet() bool { return false }

func (p *PgxRows) Err() error { return p.rows.Err() }

// Close closes the rows iterator.
func (p *PgxRows) Close() error { p.rows.Close(); return nil }

// ResolveTableName looks the OID up in pg_class on conn.
func ResolveTableName(conn *pgx.Conn) TableResolver {
	return func(ctx context.Context, oid uint32) (string, error) {
		var name string
		err := conn.QueryRow(ctx, "SELECT relname FROM pg_catalog.pg_class WHERE oid = $1", oid).Scan(&name)
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return name, err
	}
}

// Assert that PgxRows implements the ResultSets interface.
var _ ResultSets = (*PgxRows)(nil)
