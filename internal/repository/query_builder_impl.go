package repository

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type conditionKind int

const (
	conditionEq conditionKind = iota
	conditionRange
	conditionAnyOf
)

type condition struct {
	kind  conditionKind
	keys  []string
	value interface{}
	to    interface{}
}

type queryBuilderImpl struct {
	conditions []condition
}

func NewQueryBuilder() QueryBuilder {
	return &queryBuilderImpl{}
}

func (q *queryBuilderImpl) AddCondition(key string, value interface{}) {
	q.conditions = append(q.conditions, condition{kind: conditionEq, keys: []string{key}, value: value})
}

func (q *queryBuilderImpl) AddRange(key string, from, to interface{}) {
	q.conditions = append(q.conditions, condition{kind: conditionRange, keys: []string{key}, value: from, to: to})
}

func (q *queryBuilderImpl) AddAnyOf(keys []string, value interface{}) {
	if len(keys) == 0 {
		return
	}
	q.conditions = append(q.conditions, condition{kind: conditionAnyOf, keys: keys, value: value})
}

// Build renders the conditions in the order they were added. Keys missing
// from aliases are used as is.
func (q *queryBuilderImpl) Build(aliases map[string]string) []exp.Expression {
	column := func(key string) exp.IdentifierExpression {
		if alias, ok := aliases[key]; ok {
			return goqu.I(alias)
		}
		return goqu.I(key)
	}

	expressions := make([]exp.Expression, 0, len(q.conditions))
	for _, c := range q.conditions {
		switch c.kind {
		case conditionEq:
			expressions = append(expressions, column(c.keys[0]).Eq(c.value))
		case conditionRange:
			expressions = append(expressions, goqu.And(
				column(c.keys[0]).Gte(c.value),
				column(c.keys[0]).Lt(c.to),
			))
		case conditionAnyOf:
			alternatives := make([]exp.Expression, 0, len(c.keys))
			for _, key := range c.keys {
				alternatives = append(alternatives, column(key).Eq(c.value))
			}
			expressions = append(expressions, goqu.Or(alternatives...))
		}
	}
	return expressions
}
