package edgesql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/edgesql/query"
)

func TestConfigFromMap(t *testing.T) {
	cfg, err := ConfigFromMap(map[string]any{
		"source":           "select 1",
		"connectionString": "sqlite:x.db",
		"commandTimeout":   30,
		"mode":             "classic",
		"unrelated":        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "select 1", cfg.Source)
	assert.Equal(t, "sqlite:x.db", cfg.ConnectionString)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.Equal(t, query.Classic, cfg.Policy)

	// Numbers decoded from JSON arrive as float64.
	cfg, err = ConfigFromMap(map[string]any{"source": "select 1", "commandTimeout": float64(5)})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.CommandTimeout)
	assert.Equal(t, query.Extended, cfg.Policy)
}

func TestConfigFromMapErrors(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
	}{
		{"source not a string", map[string]any{"source": 42}},
		{"connection string not a string", map[string]any{"source": "select 1", "connectionString": []byte("x")}},
		{"timeout as text", map[string]any{"source": "select 1", "commandTimeout": "30"}},
		{"fractional timeout", map[string]any{"source": "select 1", "commandTimeout": 1.5}},
		{"unknown mode", map[string]any{"source": "select 1", "mode": "strict"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConfigFromMap(tt.m)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestCompileMap(t *testing.T) {
	f, err := CompileMap(map[string]any{
		"source":           "select 'ok' as status",
		"connectionString": tempDB(t),
	}, WithEnv(noEnv))
	require.NoError(t, err)

	out, err := f(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"status":"ok"}]`, toJSON(t, out))

	_, err = CompileMap(map[string]any{}, WithEnv(noEnv))
	assert.ErrorIs(t, err, ErrConfig)
}
