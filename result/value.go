package result

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which member of the portable value model a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	// KindOther carries a driver value that was passed through unchanged.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "other"
	}
}

// Value is a single portable field value.
//
// Int values keep their native width (int32 after small-integer widening,
// int64 otherwise) so callers can observe the coercion that produced them.
type Value struct {
	kind Kind
	v    any
}

// Null is the portable null.
var Null = Value{kind: KindNull}

// Int32 creates an integer value backed by an int32.
func Int32(i int32) Value { return Value{kind: KindInt, v: i} }

// Int64 creates an integer value backed by an int64.
func Int64(i int64) Value { return Value{kind: KindInt, v: i} }

// Float creates a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, v: f} }

// String creates a text value.
func String(s string) Value { return Value{kind: KindString, v: s} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, v: b} }

// Other wraps a native value that has no portable representation.
func Other(v any) Value {
	if v == nil {
		return Null
	}
	return Value{kind: KindOther, v: v}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns the underlying Go value, nil for Null.
func (v Value) Interface() any { return v.v }

// Int returns the integer widened to int64. ok is false for non-integers.
func (v Value) Int() (int64, bool) {
	switch i := v.v.(type) {
	case int32:
		return int64(i), true
	case int64:
		return i, true
	case int16:
		return int64(i), true
	case uint16:
		return int64(i), true
	}
	return 0, false
}

// Float returns the float payload.
func (v Value) Float() (float64, bool) {
	f, ok := v.v.(float64)
	return f, ok && v.kind == KindFloat
}

// Str returns the text payload.
func (v Value) Str() (string, bool) {
	s, ok := v.v.(string)
	return s, ok && v.kind == KindString
}

// Bool returns the boolean payload.
func (v Value) Bool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok && v.kind == KindBool
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "null"
	}
	return fmt.Sprint(v.v)
}

// MarshalJSON encodes the payload directly; Other values use their own
// JSON encoding.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNull {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}
