package edgesql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/edgesql/cache"
	"github.com/Konsultn-Engineering/edgesql/engine"
	"github.com/Konsultn-Engineering/edgesql/logging"
	"github.com/Konsultn-Engineering/edgesql/providers/sqlite"
	"github.com/Konsultn-Engineering/edgesql/query"
	"github.com/Konsultn-Engineering/edgesql/result"
)

func noEnv(string) string { return "" }

func tempDB(t *testing.T) string {
	t.Helper()
	return "sqlite://" + filepath.Join(t.TempDir(), "edgesql.db")
}

func mustCompile(t *testing.T, connStr, source string) Func {
	t.Helper()
	f, err := Compile(Config{Source: source, ConnectionString: connStr}, WithEnv(noEnv))
	require.NoError(t, err)
	return f
}

func toJSON(t *testing.T, out result.Output) string {
	t.Helper()
	b, err := json.Marshal(out)
	require.NoError(t, err)
	return string(b)
}

func TestSelectLiteral(t *testing.T) {
	f := mustCompile(t, tempDB(t), "select 1 as x")

	out, err := f(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"x":1}]`, toJSON(t, out))
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	db := tempDB(t)

	_, err := mustCompile(t, db, "create table items (id integer primary key, name text, data blob, price real)")(ctx, nil)
	require.NoError(t, err)

	insert := mustCompile(t, db, "insert into items (name, data, price) values (@name, @data, @price)")
	out, err := insert(ctx, query.Params{"@name": "widget", "data": []byte("hi"), "price": 2.5})
	require.NoError(t, err)
	n, ok := out.RowsAffected()
	require.True(t, ok)
	assert.Equal(t, int64(1), n)

	out, err = insert(ctx, query.Params{"name": nil, "data": nil, "price": nil})
	require.NoError(t, err)
	n, _ = out.RowsAffected()
	assert.Equal(t, int64(1), n)

	sel := mustCompile(t, db, "select id, name, data, price from items order by id")
	out, err = sel(ctx, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1,"name":"widget","data":"aGk=","price":2.5},
		{"id":2,"name":null,"data":null,"price":null}
	]`, toJSON(t, out))

	// Null parameters bind SQL NULL rather than being dropped.
	byName := mustCompile(t, db, "select count(*) as n from items where name is @name")
	out, err = byName(ctx, query.Params{"name": nil})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"n":1}]`, toJSON(t, out))

	del := mustCompile(t, db, "delete from items where id > @id")
	out, err = del(ctx, query.Params{"id": 100})
	require.NoError(t, err)
	n, ok = out.RowsAffected()
	require.True(t, ok)
	assert.Zero(t, n)
}

func TestMutationWithReturningYieldsCount(t *testing.T) {
	ctx := context.Background()
	db := tempDB(t)

	_, err := mustCompile(t, db, "create table items (id integer primary key, name text)")(ctx, nil)
	require.NoError(t, err)

	insert := mustCompile(t, db, "insert into items (name) values ('a'), ('b') returning id")
	out, err := insert(ctx, nil)
	require.NoError(t, err)
	n, ok := out.RowsAffected()
	require.True(t, ok)
	_, isRows := out.Rows()
	assert.False(t, isRows)
	// modernc counts no changes when the RETURNING rows are not read.
	assert.Zero(t, n)

	out, err = mustCompile(t, db, "select count(*) as n from items")(ctx, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"n":2}]`, toJSON(t, out))
}

func TestCompileIsIdempotent(t *testing.T) {
	db := tempDB(t)
	a := mustCompile(t, db, "select 1 as x, 'a' as y")
	b := mustCompile(t, db, "select 1 as x, 'a' as y")

	outA, err := a(context.Background(), nil)
	require.NoError(t, err)
	outB, err := b(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, toJSON(t, outA), toJSON(t, outB))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing source", Config{ConnectionString: "sqlite:x.db"}},
		{"blank source", Config{Source: " \n ", ConnectionString: "sqlite:x.db"}},
		{"missing connection string", Config{Source: "select 1"}},
		{"unknown dialect", Config{Source: "select 1", ConnectionString: "oracle://host/db"}},
		{"negative timeout", Config{Source: "select 1", ConnectionString: "sqlite:x.db", CommandTimeout: -time.Second}},
		{"classic rejects fallback", Config{Source: "with x as (select 1) select * from x", ConnectionString: "sqlite:x.db", Policy: query.Classic}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.cfg, WithEnv(noEnv))
			assert.ErrorIs(t, err, ErrConfig)
			assert.Nil(t, f)
		})
	}
}

func TestConnectionStringFromEnvironment(t *testing.T) {
	db := tempDB(t)
	env := func(key string) string {
		if key == EnvConnectionString {
			return db
		}
		return ""
	}

	f, err := Compile(Config{Source: "select 2 as x"}, WithEnv(env))
	require.NoError(t, err)
	out, err := f(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"x":2}]`, toJSON(t, out))

	t.Setenv(EnvConnectionString, db)
	_, err = Compile(Config{Source: "select 2 as x"})
	assert.NoError(t, err)
}

func TestStoredProcedureOnSQLite(t *testing.T) {
	f := mustCompile(t, tempDB(t), "exec MyProc")

	_, err := f(context.Background(), nil)
	var e *engine.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, engine.StageExecute, e.Stage)
	assert.Equal(t, query.StoredProcedure, e.Kind)
	assert.ErrorIs(t, err, sqlite.ErrProcedures)
}

func TestExecutionErrorIsVerbatim(t *testing.T) {
	f := mustCompile(t, tempDB(t), "select * from missing_table")

	_, err := f(context.Background(), nil)
	var e *engine.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, engine.StageExecute, e.Stage)
	assert.Contains(t, err.Error(), "missing_table")
}

func TestAsync(t *testing.T) {
	f := mustCompile(t, tempDB(t), "select @v as v")

	oc := <-f.Async(context.Background(), query.Params{"v": "hello"})
	require.NoError(t, oc.Err)
	assert.JSONEq(t, `[{"v":"hello"}]`, toJSON(t, oc.Output))
}

func TestCompileWithCache(t *testing.T) {
	c := cache.NewCompiled(8)
	cfg := Config{Source: "select 1 as x", ConnectionString: tempDB(t)}

	_, err := Compile(cfg, WithCache(c), WithEnv(noEnv))
	require.NoError(t, err)
	_, err = Compile(cfg, WithCache(c), WithEnv(noEnv))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = Compile(Config{Source: "select 1 as x", ConnectionString: "oracle://x"}, WithCache(c), WithEnv(noEnv))
	assert.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, 1, c.Len())
}

func TestCachedFunctionKeepsFirstLogger(t *testing.T) {
	newLogger := func(buf *bytes.Buffer) Option {
		log, err := logging.New(logging.Config{Level: logging.LevelDebug, Format: "json", Output: buf})
		require.NoError(t, err)
		return WithLogger(log)
	}
	c := cache.NewCompiled(8)
	cfg := Config{Source: "select 1 as x", ConnectionString: tempDB(t)}

	var first, second bytes.Buffer
	_, err := Compile(cfg, WithCache(c), WithEnv(noEnv), newLogger(&first))
	require.NoError(t, err)
	f, err := Compile(cfg, WithCache(c), WithEnv(noEnv), newLogger(&second))
	require.NoError(t, err)

	_, err = f(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, first.String(), `"msg":"invocation complete"`)
	assert.NotContains(t, second.String(), "invocation")
}

func TestClassicPolicyReturnsFirstResultOnly(t *testing.T) {
	f, err := Compile(Config{
		Source:           "select 1 as x",
		ConnectionString: tempDB(t),
		Policy:           query.Classic,
	}, WithEnv(noEnv))
	require.NoError(t, err)

	out, err := f(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"x":1}]`, toJSON(t, out))
}
