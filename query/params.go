package query

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Params are the named values bound to one invocation. Keys may carry a
// leading '@'; it is not part of the name.
type Params map[string]any

// BindError reports a parameter that could not be bound.
type BindError struct {
	Name string
	Err  error
}

func (e *BindError) Error() string {
	if e.Name == "" {
		return "bind parameters: " + e.Err.Error()
	}
	return fmt.Sprintf("bind parameter %q: %v", e.Name, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// Normalize strips '@' prefixes. Two keys naming the same parameter are a
// BindError. A nil receiver yields nil.
func (p Params) Normalize() (Params, error) {
	if p == nil {
		return nil, nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		name := strings.TrimPrefix(k, "@")
		if name == "" {
			return nil, &BindError{Name: k, Err: fmt.Errorf("empty parameter name")}
		}
		if _, dup := out[name]; dup {
			return nil, &BindError{Name: name, Err: fmt.Errorf("parameter supplied more than once")}
		}
		out[name] = v
	}
	return out, nil
}

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Named returns database/sql named arguments in name order. A nil value
// binds SQL NULL.
func (p Params) Named() []any {
	if len(p) == 0 {
		return nil
	}
	args := make([]any, 0, len(p))
	for _, name := range p.Names() {
		args = append(args, sql.Named(name, p[name]))
	}
	return args
}
