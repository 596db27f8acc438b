package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/edgesql/query"
)

// ParseParams builds invocation parameters from name=value pairs, names
// bound to NULL, and an optional JSON object. Pair values become int64,
// float64 or bool when they parse as one, else string. Digit strings with
// leading zeros such as "007" stay strings.
func ParseParams(pairs, nulls []string, jsonObject string) (query.Params, error) {
	params := query.Params{}

	if strings.TrimSpace(jsonObject) != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(jsonObject)))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse JSON parameters: %w", err)
		}
		for name, v := range raw {
			params[name] = fromJSON(v)
		}
	}

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("parameter %q: want name=value", pair)
		}
		params[strings.TrimSpace(name)] = typed(value)
	}

	for _, name := range nulls {
		params[strings.TrimSpace(name)] = nil
	}

	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}

func typed(s string) any {
	if leadingZero(s) {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// fromJSON narrows json.Number to int64 or float64. Nested values are
// passed as JSON text.
func fromJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		return string(b)
	}
	return v
}

// leadingZero reports numbers like "007" or "-01.5" whose zeros would be
// lost by parsing.
func leadingZero(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}
