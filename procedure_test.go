package edgesql

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/edgesql/connector"
	"github.com/Konsultn-Engineering/edgesql/database"
	"github.com/Konsultn-Engineering/edgesql/dialect"
	"github.com/Konsultn-Engineering/edgesql/query"
	"github.com/Konsultn-Engineering/edgesql/schema"
)

// scriptedProvider answers every query with the same result sets, each a
// single "id" column from a named table.
type scriptedProvider struct {
	tables []string
	last   query.Command
}

func (p *scriptedProvider) Dialect() dialect.Dialect { return dialect.NewSQLServerDialect() }

func (p *scriptedProvider) Connect(context.Context, connector.Config) (connector.Connection, error) {
	return &scriptedConn{p: p}, nil
}

func (p *scriptedProvider) Close() error { return nil }

type scriptedConn struct{ p *scriptedProvider }

func (c *scriptedConn) Query(_ context.Context, cmd query.Command, _ query.Params) (database.ResultSets, error) {
	c.p.last = cmd
	return &scriptedRows{tables: c.p.tables}, nil
}

func (c *scriptedConn) Exec(context.Context, query.Command, query.Params) (int64, error) {
	return 0, errors.New("not scripted")
}

func (c *scriptedConn) Ping(context.Context) error { return nil }
func (c *scriptedConn) Close() error               { return nil }

type scriptedRows struct {
	tables []string
	set    int
	read   bool
}

func (r *scriptedRows) Columns() []schema.Column {
	return []schema.Column{schema.NewColumn("id", "INT")}
}

func (r *scriptedRows) Next() bool {
	if r.read {
		return false
	}
	r.read = true
	return true
}

func (r *scriptedRows) Values() ([]any, error) { return []any{int64(r.set + 1)}, nil }

func (r *scriptedRows) TableName(context.Context) (string, error) { return r.tables[r.set], nil }

func (r *scriptedRows) NextResultSet() bool {
	if r.set+1 >= len(r.tables) {
		return false
	}
	r.set++
	r.read = false
	return true
}

func (r *scriptedRows) Err() error   { return nil }
func (r *scriptedRows) Close() error { return nil }

func TestProcedureWithRepeatedResultSets(t *testing.T) {
	p := &scriptedProvider{tables: []string{"Orders", "Orders"}}
	connector.Register("scripted", p)

	f, err := Compile(Config{Source: "exec   MyProc ", ConnectionString: "scripted://test"}, WithEnv(noEnv))
	require.NoError(t, err)

	out, err := f(context.Background(), query.Params{"customer": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Orders":[{"id":1}],"Orders-1":[{"id":2}]}`, toJSON(t, out))
	assert.Equal(t, query.StoredProcedure, p.last.Kind)
	assert.Equal(t, "MyProc", p.last.Procedure)
}

func TestSingleNamedResultIsUnwrapped(t *testing.T) {
	connector.Register("scripted-one", &scriptedProvider{tables: []string{"Orders"}})

	f, err := Compile(Config{Source: "select id from Orders", ConnectionString: "scripted-one://test"}, WithEnv(noEnv))
	require.NoError(t, err)

	out, err := f(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, toJSON(t, out))
}
