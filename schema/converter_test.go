package schema

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"

	"github.com/Konsultn-Engineering/edgesql/result"
)

func TestCoerce(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	tests := []struct {
		name  string
		col   Column
		value any
		want  result.Value
	}{
		{"null", NewColumn("a", "INT"), nil, result.Null},
		{"smallint column widened", NewColumn("a", "SMALLINT"), int64(7), result.Int32(7)},
		{"int16 value widened", Column{Name: "a"}, int16(-3), result.Int32(-3)},
		{"uint16 value widened", Column{Name: "a"}, uint16(65000), result.Int32(65000)},
		{"bigint stays int64", NewColumn("a", "BIGINT"), int64(1 << 40), result.Int64(1 << 40)},
		{"decimal text", NewColumn("a", "DECIMAL(10,2)"), []byte("12.50"), result.Float(12.5)},
		{"decimal string", NewColumn("a", "NUMERIC"), "0.25", result.Float(0.25)},
		{"binary column", NewColumn("a", "VARBINARY"), []byte{1, 2}, result.String("AQI=")},
		{"unknown column bytes", Column{Name: "a"}, []byte{1, 2}, result.String("AQI=")},
		{"char array", Column{Name: "a"}, []rune("hi"), result.String("aGk=")},
		{"text column bytes", NewColumn("a", "VARCHAR"), []byte("hello"), result.String("hello")},
		{"time value", Column{Name: "a"}, ts, result.String(ts.String())},
		{"temporal column text", NewColumn("a", "DATETIME"), []byte("2024-03-01 12:30:00"), result.String("2024-03-01 12:30:00")},
		{"uuid value", Column{Name: "a"}, id, result.String(id.String())},
		{"uuid array", Column{Name: "a"}, [16]byte(id), result.String(id.String())},
		{"uuid column bytes", NewColumn("a", "UUID"), id[:], result.String(id.String())},
		{"cursor", NewColumn("a", "REFCURSOR"), "<unnamed portal 1>", result.String(CursorPlaceholder)},
		{"bool", NewColumn("a", "BIT"), true, result.Bool(true)},
		{"float", Column{Name: "a"}, float32(1.5), result.Float(1.5)},
		{"string", Column{Name: "a"}, "x", result.String("x")},
		{"huge uint64 passes through", Column{Name: "a"}, uint64(1 << 63), result.Other(uint64(1 << 63))},
		{"other passes through", Column{Name: "a"}, []string{"a"}, result.Other([]string{"a"})},
	}

	c := Coercer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Coerce(tt.col, tt.value))
		})
	}
}

func TestCoerceNarrow(t *testing.T) {
	c := Coercer{Narrow: true}

	assert.Equal(t, result.Int64(7), c.Coerce(NewColumn("a", "SMALLINT"), int64(7)))
	assert.Equal(t, result.Other(int16(7)), c.Coerce(Column{Name: "a"}, int16(7)))
	assert.Equal(t, result.String("12.50"), c.Coerce(NewColumn("a", "DECIMAL"), []byte("12.50")))

	n := pgtype.Numeric{Int: big.NewInt(125), Exp: -1, Valid: true}
	assert.Equal(t, result.Other(n), c.Coerce(Column{Name: "a", Kind: KindDecimal}, n))

	// Binary and temporal handling do not depend on the policy.
	assert.Equal(t, result.String("AQI="), c.Coerce(Column{Name: "a"}, []byte{1, 2}))
}

func TestCoerceNumeric(t *testing.T) {
	c := Coercer{}
	col := Column{Name: "a", Kind: KindOfOID(pgtype.NumericOID)}

	n := pgtype.Numeric{Int: big.NewInt(125), Exp: -1, Valid: true}
	assert.Equal(t, result.Float(12.5), c.Coerce(col, n))
	assert.Equal(t, result.Null, c.Coerce(col, pgtype.Numeric{}))
}

func TestCoercePgTime(t *testing.T) {
	c := Coercer{}
	col := Column{Name: "a", Kind: KindOfOID(pgtype.TimeOID)}
	v := pgtype.Time{Microseconds: int64((13*time.Hour + 5*time.Minute) / time.Microsecond), Valid: true}
	assert.Equal(t, result.String("13:05:00"), c.Coerce(col, v))
}
