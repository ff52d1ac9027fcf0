package db

import (
	"fmt"
	"strings"
)

// UpdateBuilder accumulates (column, placeholder, value) triples for a
// partial UPDATE. Values are always bound parameters; column names come from
// compile-time enumerated field lists, never from request payloads.
type UpdateBuilder struct {
	table string
	sets  []string
	args  []interface{}
}

func NewUpdateBuilder(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set adds a parameterized assignment.
func (b *UpdateBuilder) Set(column string, value interface{}) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// SetRaw adds an assignment with a literal SQL expression (e.g. NOW()).
// The expression must never contain request data.
func (b *UpdateBuilder) SetRaw(column, expr string) {
	b.sets = append(b.sets, fmt.Sprintf("%s = %s", column, expr))
}

// Empty reports whether no assignments have been added.
func (b *UpdateBuilder) Empty() bool {
	return len(b.args) == 0
}

// Build renders the statement with a WHERE clause on idColumn and returns it
// with the bound argument list, id last.
func (b *UpdateBuilder) Build(idColumn string, id interface{}) (string, []interface{}) {
	args := append(b.args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		b.table, strings.Join(b.sets, ", "), idColumn, len(args))
	return sql, args
}
