package dialect

// SQLServer needs no procedure-call rendering: the driver sends a bare
// procedure name as an RPC request with named parameters.
type SQLServer struct{}

func NewSQLServerDialect() Dialect {
	return &SQLServer{}
}

func (s SQLServer) Name() string { return NameSQLServer }
