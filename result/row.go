package result

import (
	"bytes"
	"encoding/json"
)

// Row is an ordered column-name to Value mapping.
//
// Setting an existing name replaces the value in place; the column keeps the
// position of its first occurrence.
type Row struct {
	keys []string
	vals map[string]Value
}

// NewRow creates an empty row sized for n columns.
func NewRow(n int) *Row {
	return &Row{
		keys: make([]string, 0, n),
		vals: make(map[string]Value, n),
	}
}

// Set assigns the value for a column name.
func (r *Row) Set(name string, v Value) {
	if _, ok := r.vals[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.vals[name] = v
}

// Get returns the value for a column name.
func (r *Row) Get(name string) (Value, bool) {
	v, ok := r.vals[name]
	return v, ok
}

// Keys returns the column names in order. The slice must not be modified.
func (r *Row) Keys() []string { return r.keys }

// Len returns the number of distinct columns.
func (r *Row) Len() int { return len(r.keys) }

// Map returns the row as a plain map of native values.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		m[k] = r.vals[k].Interface()
	}
	return m
}

// MarshalJSON writes the row as an object with keys in column order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := r.vals[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Set is an ordered sequence of rows from one result set.
type Set []*Row

// MarshalJSON encodes a nil set as an empty array.
func (s Set) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]*Row(s))
}
