package dialect

import "regexp"

// Dialect identifies a database family.
type Dialect interface {
	Name() string
}

// Positioned is a Dialect whose driver binds positional placeholders only.
type Positioned interface {
	Dialect
	Placeholder(n int) string
}

// Dialect names, also used as provider registry keys.
const (
	NamePostgres  = "postgres"
	NameMySQL     = "mysql"
	NameSQLServer = "sqlserver"
	NameSQLite    = "sqlite"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether name can be used as a bare parameter name.
func IsIdentifier(name string) bool {
	return identRe.MatchString(name)
}
