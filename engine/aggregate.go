package engine

import (
	"context"
	"strconv"

	"github.com/Konsultn-Engineering/edgesql/database"
	"github.com/Konsultn-Engineering/edgesql/query"
	"github.com/Konsultn-Engineering/edgesql/result"
	"github.com/Konsultn-Engineering/edgesql/schema"
)

// DefaultResultName names result sets whose base table is unknown.
const DefaultResultName = "result"

// Aggregate reads every result set in rs, in order, into an Output. One
// named result is returned as a Set; several as Tables. Result sets with no
// columns (statements that produce no rows) are skipped.
func Aggregate(ctx context.Context, rs database.ResultSets, policy query.Policy) (result.Output, error) {
	coercer := schema.Coercer{Narrow: policy.NarrowCoercion}

	if policy.FirstResultOnly {
		set, err := drain(rs, coercer)
		if err != nil {
			return result.Output{}, err
		}
		return result.RowsOutput(set), nil
	}

	tables := result.NewTables()
	names := newNamer(tables)
	var last result.Set
	for {
		if len(rs.Columns()) > 0 {
			set, err := drain(rs, coercer)
			if err != nil {
				return result.Output{}, err
			}
			table, err := rs.TableName(ctx)
			if err != nil {
				return result.Output{}, err
			}
			names.add(table, set)
			last = set
		}
		if !rs.NextResultSet() {
			break
		}
	}
	if err := rs.Err(); err != nil {
		return result.Output{}, err
	}

	switch tables.Len() {
	case 0:
		return result.RowsOutput(result.Set{}), nil
	case 1:
		return result.RowsOutput(last), nil
	default:
		return result.TablesOutput(tables), nil
	}
}

func drain(rs database.ResultSets, coercer schema.Coercer) (result.Set, error) {
	cols := rs.Columns()
	set := result.Set{}
	for rs.Next() {
		vals, err := rs.Values()
		if err != nil {
			return nil, err
		}
		row := result.NewRow(len(cols))
		for i, col := range cols {
			if i >= len(vals) {
				break
			}
			row.Set(col.Name, coercer.Coerce(col, vals[i]))
		}
		set = append(set, row)
	}
	return set, rs.Err()
}

// namer assigns result names. The first result from a table keeps the bare
// name; later ones get "name-N" from a per-name counter that skips keys
// already in use.
type namer struct {
	tables *result.Tables
	counts map[string]int
}

func newNamer(tables *result.Tables) *namer {
	return &namer{tables: tables, counts: make(map[string]int)}
}

func (n *namer) add(table string, set result.Set) string {
	if table == "" {
		table = DefaultResultName
	}
	name := table
	for !n.tables.Add(name, set) {
		n.counts[table]++
		name = table + "-" + strconv.Itoa(n.counts[table])
	}
	return name
}
