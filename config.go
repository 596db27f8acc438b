package edgesql

import (
	"fmt"
	"math"
	"time"

	"github.com/Konsultn-Engineering/edgesql/query"
)

// Keys of the host configuration map accepted by CompileMap.
const (
	KeySource           = "source"
	KeyConnectionString = "connectionString"
	KeyCommandTimeout   = "commandTimeout"
	KeyMode             = "mode"
)

// ConfigFromMap reads a host configuration map. commandTimeout is a whole
// number of seconds; mode is "classic" or "extended". Unknown keys are
// ignored.
func ConfigFromMap(m map[string]any) (Config, error) {
	var cfg Config
	var err error

	if cfg.Source, err = stringKey(m, KeySource); err != nil {
		return Config{}, err
	}
	if cfg.ConnectionString, err = stringKey(m, KeyConnectionString); err != nil {
		return Config{}, err
	}

	if v, ok := m[KeyCommandTimeout]; ok && v != nil {
		secs, ok := seconds(v)
		if !ok {
			return Config{}, fmt.Errorf("%w: %s must be a whole number of seconds, got %T", ErrConfig, KeyCommandTimeout, v)
		}
		cfg.CommandTimeout = time.Duration(secs) * time.Second
	}

	mode, err := stringKey(m, KeyMode)
	if err != nil {
		return Config{}, err
	}
	if cfg.Policy, err = query.PolicyByName(mode); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return cfg, nil
}

// CompileMap is Compile for a host configuration map.
func CompileMap(m map[string]any, opts ...Option) (Func, error) {
	cfg, err := ConfigFromMap(m)
	if err != nil {
		return nil, err
	}
	return Compile(cfg, opts...)
}

func stringKey(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrConfig, key, v)
	}
	return s, nil
}

func seconds(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}
