package utils

import (
	"fmt"
	"strings"
)

func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereClause renders "WHERE a AND b", or "" for no clauses.
func WhereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return "WHERE " + JoinWithAnd(clauses)
}

// EscapeLike escapes LIKE/ILIKE wildcards so the term matches literally.
func EscapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// ArgList accumulates positional query arguments.
type ArgList struct {
	args []any
}

// Add appends v and returns its placeholder ($1, $2, ...).
func (a *ArgList) Add(v any) string {
	a.args = append(a.args, v)
	return fmt.Sprintf("$%d", len(a.args))
}

func (a *ArgList) Values() []any {
	return a.args
}
