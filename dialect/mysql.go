package dialect

import (
	"strconv"
	"strings"
)

type MySQL struct{}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

func (m MySQL) Name() string { return NameMySQL }

func (m MySQL) Placeholder(n int) string {
	return "?"
}

// ProcedureParam is one formal parameter of a stored procedure.
type ProcedureParam struct {
	Name string
	// Mode is IN, OUT or INOUT.
	Mode string
}

// ProcedureCall renders CALL with one placeholder per IN/INOUT parameter
// and a session variable for each OUT parameter.
func (m MySQL) ProcedureCall(name string, formals []ProcedureParam) string {
	var b strings.Builder
	b.WriteString("CALL ")
	b.WriteString(name)
	b.WriteByte('(')
	for i, f := range formals {
		if i > 0 {
			b.WriteString(", ")
		}
		if strings.EqualFold(f.Mode, "OUT") {
			b.WriteString("@_edgesql_out")
			b.WriteString(strconv.Itoa(i + 1))
			continue
		}
		b.WriteByte('?')
	}
	b.WriteByte(')')
	return b.String()
}
