package schema

import "strings"

// Kind is the coercion-relevant classification of a result column.
type Kind uint8

const (
	// KindUnknown means the driver reported nothing useful; coercion falls
	// back to the Go type of each value.
	KindUnknown Kind = iota
	KindString
	KindSmallInt
	KindInteger
	KindDecimal
	KindFloat
	KindBool
	KindBinary
	KindUUID
	KindTemporal
	KindCursor
	KindJSON
)

var kindNames = [...]string{
	KindUnknown:  "unknown",
	KindString:   "string",
	KindSmallInt: "smallint",
	KindInteger:  "integer",
	KindDecimal:  "decimal",
	KindFloat:    "float",
	KindBool:     "bool",
	KindBinary:   "binary",
	KindUUID:     "uuid",
	KindTemporal: "temporal",
	KindCursor:   "cursor",
	KindJSON:     "json",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Column describes one column of a result set.
type Column struct {
	Name string
	// DatabaseType is the driver-reported type name, upper-cased.
	DatabaseType string
	Kind         Kind
}

// NewColumn builds a column from a driver type name.
func NewColumn(name, databaseType string) Column {
	dt := strings.ToUpper(strings.TrimSpace(databaseType))
	return Column{Name: name, DatabaseType: dt, Kind: KindOf(dt)}
}
