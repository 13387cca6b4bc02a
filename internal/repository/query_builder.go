package repository

import "github.com/doug-martin/goqu/v9/exp"

// QueryBuilder collects optional filters and renders them against a
// concrete select, where column names may be table qualified.
type QueryBuilder interface {
	// AddCondition filters on column = value.
	AddCondition(key string, value interface{})
	// AddRange filters on from <= column < to.
	AddRange(key string, from, to interface{})
	// AddAnyOf matches rows where at least one of the columns equals value.
	AddAnyOf(keys []string, value interface{})
	Build(aliases map[string]string) []exp.Expression
}
