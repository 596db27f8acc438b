package database

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/edgesql/schema"
)

// SqlRows implements ResultSets for *sql.Rows.
type SqlRows struct {
	rows *sql.Rows
	cols []schema.Column
	buf  *ScanBuffers
	err  error
}

// NewSqlRows wraps rows positioned on their first result set.
func NewSqlRows(rows *sql.Rows) *SqlRows {
	s := &SqlRows{rows: rows, buf: scanPool.Get().(*ScanBuffers)}
	s.loadColumns()
	return s
}

func (s *SqlRows) loadColumns() {
	types, err := s.rows.ColumnTypes()
	if err != nil {
		s.err = err
		s.cols = nil
		return
	}
	s.cols = make([]schema.Column, len(types))
	for i, ct := range types {
		s.cols[i] = schema.NewColumn(ct.Name(), ct.DatabaseTypeName())
	}
}

// Columns returns the columns of the current result set.
func (s *SqlRows) Columns() []schema.Column { return s.cols }

// Next prepares the next result row for reading.
func (s *SqlRows) Next() bool {
	if s.err != nil {
		return false
	}
	return s.rows.Next()
}

// Values scans the current row.
func (s *SqlRows) Values() ([]any, error) {
	s.buf.Prepare(len(s.cols))
	if err := s.rows.Scan(s.buf.ptrs...); err != nil {
		return nil, err
	}
	return s.buf.Snapshot(), nil
}

// TableName is always empty: database/sql exposes no base table metadata.
func (s *SqlRows) TableName(context.Context) (string, error) { return "", nil }

// NextResultSet advances to the next result set.
func (s *SqlRows) NextResultSet() bool {
	if s.err != nil || !s.rows.NextResultSet() {
		return false
	}
	s.loadColumns()
	return s.err == nil
}

func (s *SqlRows) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.rows.Err()
}

// Close closes the rows iterator.
func (s *SqlRows) Close() error {
	if s.buf != nil {
		s.buf.Reset()
		scanPool.Put(s.buf)
		s.buf = nil
	}
	return s.rows.Close()
}

// Assert that SqlRows implements the ResultSets interface.
var _ ResultSets = (*SqlRows)(nil)
