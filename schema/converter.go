package schema

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Konsultn-Engineering/edgesql/result"
)

// CursorPlaceholder replaces nested cursor values, which cannot be
// materialized into a row.
const CursorPlaceholder = "<IDataReader>"

// Coercer maps driver values to the portable value model.
//
// With Narrow set, 16-bit integers and fixed-point decimals are passed
// through unchanged instead of being widened to int32 and float64.
type Coercer struct {
	Narrow bool
}

// Coerce converts one field. The column kind decides first; the Go type of
// the value decides when the kind is not conclusive.
func (c Coercer) Coerce(col Column, v any) result.Value {
	if v == nil {
		return result.Null
	}

	switch col.Kind {
	case KindBinary:
		if b, ok := v.([]byte); ok {
			return encodeBinary(b)
		}
	case KindString, KindJSON:
		if b, ok := v.([]byte); ok {
			return result.String(string(b))
		}
	case KindUUID:
		if s, ok := uuidText(col, v); ok {
			return result.String(s)
		}
	case KindTemporal:
		return temporalText(v)
	case KindCursor:
		return result.String(CursorPlaceholder)
	case KindDecimal:
		return c.decimal(v)
	case KindSmallInt:
		if !c.Narrow {
			if i, ok := v.(int64); ok && i >= math.MinInt32 && i <= math.MaxInt32 {
				return result.Int32(int32(i))
			}
		}
	}

	return c.byValue(v)
}

func (c Coercer) byValue(v any) result.Value {
	switch x := v.(type) {
	case int16:
		if c.Narrow {
			return result.Other(x)
		}
		return result.Int32(int32(x))
	case uint16:
		if c.Narrow {
			return result.Other(x)
		}
		return result.Int32(int32(x))
	case int8:
		return result.Int64(int64(x))
	case uint8:
		return result.Int64(int64(x))
	case int32:
		return result.Int32(x)
	case uint32:
		return result.Int64(int64(x))
	case int:
		return result.Int64(int64(x))
	case int64:
		return result.Int64(x)
	case uint:
		if uint64(x) > math.MaxInt64 {
			return result.Other(x)
		}
		return result.Int64(int64(x))
	case uint64:
		if x > math.MaxInt64 {
			return result.Other(x)
		}
		return result.Int64(int64(x))
	case float32:
		return result.Float(float64(x))
	case float64:
		return result.Float(x)
	case bool:
		return result.Bool(x)
	case string:
		return result.String(x)
	case []byte:
		return encodeBinary(x)
	case []rune:
		return encodeBinary([]byte(string(x)))
	case time.Time:
		return result.String(x.String())
	case uuid.UUID:
		return result.String(x.String())
	case [16]byte:
		return result.String(uuid.UUID(x).String())
	case mssql.UniqueIdentifier:
		return result.String(x.String())
	case pgtype.Numeric:
		if c.Narrow {
			return result.Other(x)
		}
		return numericValue(x)
	}
	return result.Other(v)
}

func (c Coercer) decimal(v any) result.Value {
	if c.Narrow {
		// Drivers that speak text hand decimals over as digits; keep them.
		if b, ok := v.([]byte); ok {
			return result.String(string(b))
		}
		return c.byValue(v)
	}

	switch x := v.(type) {
	case pgtype.Numeric:
		return numericValue(x)
	case []byte:
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return result.Float(f)
		}
		return result.String(string(x))
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return result.Float(f)
		}
		return result.String(x)
	case int64:
		return result.Float(float64(x))
	}
	return c.byValue(v)
}

func numericValue(n pgtype.Numeric) result.Value {
	if !n.Valid {
		return result.Null
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return result.Other(n)
	}
	return result.Float(f.Float64)
}

func encodeBinary(b []byte) result.Value {
	return result.String(base64.StdEncoding.EncodeToString(b))
}

func uuidText(col Column, v any) (string, bool) {
	switch x := v.(type) {
	case []byte:
		if len(x) != 16 {
			return string(x), utf8.Valid(x)
		}
		if col.DatabaseType == "UNIQUEIDENTIFIER" {
			var id mssql.UniqueIdentifier
			if err := id.Scan(x); err != nil {
				return "", false
			}
			return id.String(), true
		}
		id, err := uuid.FromBytes(x)
		if err != nil {
			return "", false
		}
		return id.String(), true
	case string:
		return x, true
	}
	return "", false
}

func temporalText(v any) result.Value {
	switch x := v.(type) {
	case time.Time:
		return result.String(x.String())
	case string:
		return result.String(x)
	case []byte:
		if utf8.Valid(x) {
			return result.String(string(x))
		}
		return encodeBinary(x)
	case pgtype.Time:
		if !x.Valid {
			return result.Null
		}
		d := time.Duration(x.Microseconds) * time.Microsecond
		return result.String(time.Time{}.Add(d).Format("15:04:05.999999"))
	case fmt.Stringer:
		return result.String(x.String())
	}
	return result.String(fmt.Sprint(v))
}
