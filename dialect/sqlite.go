package dialect

type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return &SQLite{}
}

func (s SQLite) Name() string { return NameSQLite }
