package connector

import (
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/edgesql/dialect"
)

var schemeAliases = map[string]string{
	"sqlserver":  dialect.NameSQLServer,
	"mssql":      dialect.NameSQLServer,
	"postgres":   dialect.NamePostgres,
	"postgresql": dialect.NamePostgres,
	"mysql":      dialect.NameMySQL,
	"sqlite":     dialect.NameSQLite,
	"sqlite3":    dialect.NameSQLite,
	"file":       dialect.NameSQLite,
}

// DialectOf infers the dialect of a connection string from its URL scheme.
// Keyword strings such as "Server=host;Database=db" are SQL Server. Schemes
// of registered providers are returned as they are.
func DialectOf(connStr string) (string, error) {
	s := strings.TrimSpace(connStr)
	if s == "" {
		return "", fmt.Errorf("%w: empty connection string", ErrUnknownDialect)
	}

	if scheme, ok := schemeOf(s); ok {
		if name, ok := schemeAliases[scheme]; ok {
			return name, nil
		}
		if _, ok := Lookup(scheme); ok {
			return scheme, nil
		}
		return "", fmt.Errorf("%w: scheme %q", ErrUnknownDialect, scheme)
	}

	if isKeywordString(s) {
		return dialect.NameSQLServer, nil
	}
	return "", fmt.Errorf("%w: unrecognized connection string", ErrUnknownDialect)
}

// schemeOf returns the lower-cased URL scheme of s, if it has one.
func schemeOf(s string) (string, bool) {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return "", false
	}
	scheme := s[:i]
	for j := 0; j < len(scheme); j++ {
		c := scheme[j]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return "", false
		}
	}
	return strings.ToLower(scheme), true
}

// isKeywordString reports whether s is a list of key=value pairs separated
// by semicolons.
func isKeywordString(s string) bool {
	pairs := 0
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, _, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return false
		}
		pairs++
	}
	return pairs > 0
}
