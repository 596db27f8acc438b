package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/edgesql/engine"
	"github.com/Konsultn-Engineering/edgesql/query"
)

func TestKey(t *testing.T) {
	base := Key{Source: "select 1", ConnectionString: "sqlite:a.db"}

	same := base
	assert.Equal(t, base.Fingerprint(), same.Fingerprint())
	assert.Equal(t, base.String(), same.String())

	variants := []Key{
		{Source: "select 2", ConnectionString: "sqlite:a.db"},
		{Source: "select 1", ConnectionString: "sqlite:b.db"},
		{Source: "select 1", ConnectionString: "sqlite:a.db", Timeout: time.Second},
		{Source: "select 1", ConnectionString: "sqlite:a.db", Policy: query.Classic},
	}
	for _, v := range variants {
		assert.NotEqual(t, base.String(), v.String())
		assert.NotEqual(t, base.Fingerprint(), v.Fingerprint())
	}
}

func TestGetOrCompile(t *testing.T) {
	c := NewCompiled(2)
	key := Key{Source: "select 1", ConnectionString: "sqlite:a.db"}

	calls := 0
	compile := func() (*engine.Query, error) {
		calls++
		return &engine.Query{}, nil
	}

	first, err := c.GetOrCompile(key, compile)
	require.NoError(t, err)
	second, err := c.GetOrCompile(key, compile)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Same(t, first, got)

	_, err = c.GetOrCompile(Key{Source: "bad"}, func() (*engine.Query, error) {
		return nil, errors.New("compile failed")
	})
	assert.EqualError(t, err, "compile failed")
	assert.Equal(t, 1, c.Len())
}

func TestEviction(t *testing.T) {
	c := NewCompiled(1)
	a := Key{Source: "select 1"}
	b := Key{Source: "select 2"}

	_, err := c.GetOrCompile(a, func() (*engine.Query, error) { return &engine.Query{}, nil })
	require.NoError(t, err)
	_, err = c.GetOrCompile(b, func() (*engine.Query, error) { return &engine.Query{}, nil })
	require.NoError(t, err)

	_, ok := c.Get(a)
	assert.False(t, ok)
	_, ok = c.Get(b)
	assert.True(t, ok)

	c.Purge()
	assert.Zero(t, c.Len())
}
