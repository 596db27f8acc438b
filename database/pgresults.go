package database

import (
	"bytes"
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Konsultn-Engineering/edgesql/schema"
)

// PgResults implements ResultSets over the results of a simple-protocol
// batch, one set per statement. The batch has been read in full, so the
// connection is free for table name lookups.
type PgResults struct {
	results []*pgconn.Result
	typeMap *pgtype.Map
	resolve TableResolver

	idx  int
	row  int
	cols []schema.Column
	oid  uint32
	err  error
}

// NewPgResults positions on the first result. A nil typeMap uses the
// default pgtype registrations; resolve may be nil.
func NewPgResults(results []*pgconn.Result, typeMap *pgtype.Map, resolve TableResolver) *PgResults {
	if typeMap == nil {
		typeMap = pgtype.NewMap()
	}
	p := &PgResults{results: results, typeMap: typeMap, resolve: resolve, idx: -1}
	p.NextResultSet()
	return p
}

func (p *PgResults) current() *pgconn.Result {
	if p.idx < 0 || p.idx >= len(p.results) {
		return nil
	}
	return p.results[p.idx]
}

func (p *PgResults) Columns() []schema.Column { return p.cols }

func (p *PgResults) Next() bool {
	r := p.current()
	if r == nil || p.err != nil {
		return false
	}
	p.row++
	return p.row < len(r.Rows)
}

// Values decodes the current row. Values of types the map does not know
// are returned as strings in text format and as bytes in binary format.
func (p *PgResults) Values() ([]any, error) {
	r := p.current()
	raw := r.Rows[p.row]
	vals := make([]any, len(raw))
	for i, src := range raw {
		if src == nil || i >= len(r.FieldDescriptions) {
			continue
		}
		fd := r.FieldDescriptions[i]
		if t, ok := p.typeMap.TypeForOID(fd.DataTypeOID); ok {
			v, err := t.Codec.DecodeValue(p.typeMap, fd.DataTypeOID, fd.Format, src)
			if err != nil {
				return nil, err
			}
			vals[i] = v
			continue
		}
		if fd.Format == pgtype.TextFormatCode {
			vals[i] = string(src)
		} else {
			vals[i] = bytes.Clone(src)
		}
	}
	return vals, nil
}

func (p *PgResults) TableName(ctx context.Context) (string, error) {
	if p.oid == 0 || p.resolve == nil {
		return "", nil
	}
	return p.resolve(ctx, p.oid)
}

// NextResultSet advances to the next statement's result. A statement that
// failed stops the stream and is reported by Err.
func (p *PgResults) NextResultSet() bool {
	if p.err != nil {
		return false
	}
	p.idx++
	p.row = -1
	p.cols, p.oid = nil, 0
	r := p.current()
	if r == nil {
		return false
	}
	if r.Err != nil {
		p.err = r.Err
		return false
	}
	p.cols, p.oid = pgColumns(r.FieldDescriptions, p.typeMap)
	return true
}

func (p *PgResults) Err() error { return p.err }

func (p *PgResults) Close() error { return nil }

var _ ResultSets = (*PgResults)(nil)
