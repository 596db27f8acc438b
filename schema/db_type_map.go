package schema

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// PostgreSQL OIDs without a pgtype constant.
const (
	moneyOID     = 790
	timetzOID    = 1266
	refcursorOID = 1790
)

// DBTypeMap maps driver-reported database type names to column kinds.
// Names are matched upper-cased, with any length/precision suffix removed.
var DBTypeMap = map[string]Kind{
	// ===================
	// STANDARD SQL TYPES
	// ===================

	// Character types
	"CHAR":              KindString,
	"VARCHAR":           KindString,
	"TEXT":              KindString,
	"CLOB":              KindString,
	"NCHAR":             KindString,
	"NVARCHAR":          KindString,
	"NTEXT":             KindString,
	"CHARACTER":         KindString,
	"CHARACTER VARYING": KindString,
	"TINYTEXT":          KindString,
	"MEDIUMTEXT":        KindString,
	"LONGTEXT":          KindString,
	"ENUM":              KindString,
	"SET":               KindString,
	"XML":               KindString,
	"SYSNAME":           KindString,

	// Numeric types - Integers
	"SMALLINT":  KindSmallInt,
	"INT2":      KindSmallInt,
	"TINYINT":   KindInteger,
	"MEDIUMINT": KindInteger,
	"INT":       KindInteger,
	"INT4":      KindInteger,
	"INTEGER":   KindInteger,
	"BIGINT":    KindInteger,
	"INT8":      KindInteger,
	"SERIAL":    KindInteger,
	"BIGSERIAL": KindInteger,
	"YEAR":      KindInteger,

	// Numeric types - Unsigned integers
	"UNSIGNED TINYINT":   KindInteger,
	"UNSIGNED SMALLINT":  KindSmallInt,
	"UNSIGNED MEDIUMINT": KindInteger,
	"UNSIGNED INT":       KindInteger,
	"UNSIGNED BIGINT":    KindInteger,

	// Numeric types - Fixed point
	"NUMERIC":    KindDecimal,
	"DECIMAL":    KindDecimal,
	"DEC":        KindDecimal,
	"FIXED":      KindDecimal,
	"NUMBER":     KindDecimal,
	"MONEY":      KindDecimal,
	"SMALLMONEY": KindDecimal,

	// Numeric types - Floating point
	"REAL":             KindFloat,
	"FLOAT":            KindFloat,
	"FLOAT4":           KindFloat,
	"FLOAT8":           KindFloat,
	"DOUBLE":           KindFloat,
	"DOUBLE PRECISION": KindFloat,

	// Boolean
	"BOOLEAN": KindBool,
	"BOOL":    KindBool,
	"BIT":     KindBool,

	// Date and Time
	"DATE":           KindTemporal,
	"TIME":           KindTemporal,
	"DATETIME":       KindTemporal,
	"DATETIME2":      KindTemporal,
	"SMALLDATETIME":  KindTemporal,
	"DATETIMEOFFSET": KindTemporal,
	"TIMESTAMP":      KindTemporal,
	"TIMESTAMPTZ":    KindTemporal,
	"TIMETZ":         KindTemporal,

	// Binary types
	"BINARY":     KindBinary,
	"VARBINARY":  KindBinary,
	"BLOB":       KindBinary,
	"TINYBLOB":   KindBinary,
	"MEDIUMBLOB": KindBinary,
	"LONGBLOB":   KindBinary,
	"BYTEA":      KindBinary,
	"IMAGE":      KindBinary,
	"ROWVERSION": KindBinary,
	"GEOMETRY":   KindBinary,

	// Identifiers
	"UUID":             KindUUID,
	"UNIQUEIDENTIFIER": KindUUID,

	// Documents
	"JSON":  KindJSON,
	"JSONB": KindJSON,

	// Cursors
	"REFCURSOR": KindCursor,
	"CURSOR":    KindCursor,
}

// KindOf classifies a database type name. Length and precision suffixes
// such as VARCHAR(20) or DECIMAL(10,2) are ignored.
func KindOf(databaseType string) Kind {
	name := strings.ToUpper(strings.TrimSpace(databaseType))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if k, ok := DBTypeMap[name]; ok {
		return k
	}
	return KindUnknown
}

// KindOfOID classifies a PostgreSQL type OID.
func KindOfOID(oid uint32) Kind {
	switch oid {
	case pgtype.Int2OID:
		return KindSmallInt
	case pgtype.Int4OID, pgtype.Int8OID:
		return KindInteger
	case pgtype.NumericOID, moneyOID:
		return KindDecimal
	case pgtype.Float4OID, pgtype.Float8OID:
		return KindFloat
	case pgtype.BoolOID:
		return KindBool
	case pgtype.ByteaOID:
		return KindBinary
	case pgtype.UUIDOID:
		return KindUUID
	case pgtype.DateOID, pgtype.TimeOID, timetzOID, pgtype.TimestampOID, pgtype.TimestamptzOID:
		return KindTemporal
	case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID, pgtype.NameOID:
		return KindString
	case pgtype.JSONOID, pgtype.JSONBOID:
		return KindJSON
	case refcursorOID:
		return KindCursor
	}
	return KindUnknown
}
