package dialect

import (
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/edgesql/query"
)

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (p Postgres) Name() string { return NamePostgres }

func (p Postgres) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ProcedureCall renders a set-returning function call using named notation,
// with each argument referenced as an @name placeholder for pgx named
// arguments. The procedure name is used verbatim so schema-qualified names
// work.
func (p Postgres) ProcedureCall(name string, params query.Params) (string, error) {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(name)
	b.WriteByte('(')
	for i, param := range params.Names() {
		if !IsIdentifier(param) {
			return "", &query.BindError{Name: param, Err: fmt.Errorf("not a valid parameter name")}
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.QuoteIdentifier(param))
		b.WriteString(" => @")
		b.WriteString(param)
	}
	b.WriteByte(')')
	return b.String(), nil
}
