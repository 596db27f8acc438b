package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Konsultn-Engineering/edgesql/connector"
	"github.com/Konsultn-Engineering/edgesql/database"
	"github.com/Konsultn-Engineering/edgesql/dialect"
	"github.com/Konsultn-Engineering/edgesql/query"
	"github.com/Konsultn-Engineering/edgesql/schema"
)

type fakeSet struct {
	table string
	cols  []schema.Column
	rows  [][]any
}

func intSet(table string, vals ...int64) fakeSet {
	s := fakeSet{table: table, cols: []schema.Column{schema.NewColumn("id", "BIGINT")}}
	for _, v := range vals {
		s.rows = append(s.rows, []any{v})
	}
	return s
}

// fakeRows replays scripted result sets.
type fakeRows struct {
	sets     []fakeSet
	set, row int
	closed   bool
	tableErr error
	lookups  int
}

func newFakeRows(sets ...fakeSet) *fakeRows { return &fakeRows{sets: sets} }

func (f *fakeRows) Columns() []schema.Column {
	if f.set >= len(f.sets) {
		return nil
	}
	return f.sets[f.set].cols
}

func (f *fakeRows) Next() bool {
	if f.set >= len(f.sets) || f.row >= len(f.sets[f.set].rows) {
		return false
	}
	f.row++
	return true
}

func (f *fakeRows) Values() ([]any, error) {
	return f.sets[f.set].rows[f.row-1], nil
}

func (f *fakeRows) TableName(context.Context) (string, error) {
	f.lookups++
	if f.tableErr != nil {
		return "", f.tableErr
	}
	return f.sets[f.set].table, nil
}

func (f *fakeRows) NextResultSet() bool {
	if f.set+1 >= len(f.sets) {
		return false
	}
	f.set++
	f.row = 0
	return true
}

func (f *fakeRows) Err() error { return nil }

func (f *fakeRows) Close() error {
	f.closed = true
	return nil
}

var _ database.ResultSets = (*fakeRows)(nil)

// fakeProvider hands out fakeConns and records them.
type fakeProvider struct {
	connectErr error
	query      func(ctx context.Context, cmd query.Command, params query.Params) (database.ResultSets, error)
	exec       func(ctx context.Context, cmd query.Command, params query.Params) (int64, error)

	mu    sync.Mutex
	conns []*fakeConn
}

func (p *fakeProvider) Dialect() dialect.Dialect { return dialect.NewSQLServerDialect() }

func (p *fakeProvider) Connect(ctx context.Context, _ connector.Config) (connector.Connection, error) {
	if p.connectErr != nil {
		return nil, p.connectErr
	}
	c := &fakeConn{p: p}
	p.mu.Lock()
	p.conns = append(p.conns, c)
	p.mu.Unlock()
	return c, nil
}

func (p *fakeProvider) Close() error { return nil }

func (p *fakeProvider) openConns() (opened, closed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.conns {
		opened++
		if c.closed.Load() {
			closed++
		}
	}
	return opened, closed
}

type fakeConn struct {
	p      *fakeProvider
	closed atomic.Bool
}

func (c *fakeConn) Query(ctx context.Context, cmd query.Command, params query.Params) (database.ResultSets, error) {
	if c.p.query == nil {
		return nil, errors.New("no query script")
	}
	return c.p.query(ctx, cmd, params)
}

func (c *fakeConn) Exec(ctx context.Context, cmd query.Command, params query.Params) (int64, error) {
	if c.p.exec == nil {
		return 0, errors.New("no exec script")
	}
	return c.p.exec(ctx, cmd, params)
}

func (c *fakeConn) Ping(context.Context) error { return nil }

func (c *fakeConn) Close() error {
	c.closed.Store(true)
	return nil
}
