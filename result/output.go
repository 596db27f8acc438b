package result

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tables maps result names to their sets, preserving the order in which
// the result sets were produced.
type Tables struct {
	names []string
	sets  map[string]Set
}

// NewTables creates an empty mapping.
func NewTables() *Tables {
	return &Tables{sets: make(map[string]Set)}
}

// Add stores a set under name. It reports false if the name is taken.
func (t *Tables) Add(name string, s Set) bool {
	if _, ok := t.sets[name]; ok {
		return false
	}
	t.names = append(t.names, name)
	t.sets[name] = s
	return true
}

// Has reports whether name is already used.
func (t *Tables) Has(name string) bool {
	_, ok := t.sets[name]
	return ok
}

// Get returns the set stored under name.
func (t *Tables) Get(name string) (Set, bool) {
	s, ok := t.sets[name]
	return s, ok
}

// Names returns the result names in production order.
func (t *Tables) Names() []string { return t.names }

// Len returns the number of named results.
func (t *Tables) Len() int { return len(t.names) }

// MarshalJSON writes the mapping as an object with keys in production order.
func (t *Tables) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range t.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		sb, err := t.sets[name].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(sb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Shape tells which variant an Output holds.
type Shape uint8

const (
	ShapeRows Shape = iota
	ShapeTables
	ShapeCount
)

func (s Shape) String() string {
	switch s {
	case ShapeRows:
		return "rows"
	case ShapeTables:
		return "tables"
	case ShapeCount:
		return "count"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// Output is the value returned by one invocation: a single row set, a
// mapping of named row sets, or an affected-row count.
type Output struct {
	shape  Shape
	rows   Set
	tables *Tables
	count  int64
}

// RowsOutput wraps a single result set.
func RowsOutput(s Set) Output { return Output{shape: ShapeRows, rows: s} }

// TablesOutput wraps several named result sets.
func TablesOutput(t *Tables) Output { return Output{shape: ShapeTables, tables: t} }

// CountOutput wraps an affected-row count.
func CountOutput(n int64) Output { return Output{shape: ShapeCount, count: n} }

func (o Output) Shape() Shape { return o.shape }

// Rows returns the single result set.
func (o Output) Rows() (Set, bool) { return o.rows, o.shape == ShapeRows }

// Tables returns the named result sets.
func (o Output) Tables() (*Tables, bool) { return o.tables, o.shape == ShapeTables }

// RowsAffected returns the affected-row count of a non-query command.
func (o Output) RowsAffected() (int64, bool) { return o.count, o.shape == ShapeCount }

// MarshalJSON encodes whichever variant the output holds.
func (o Output) MarshalJSON() ([]byte, error) {
	switch o.shape {
	case ShapeTables:
		return o.tables.MarshalJSON()
	case ShapeCount:
		return json.Marshal(o.count)
	default:
		return o.rows.MarshalJSON()
	}
}
