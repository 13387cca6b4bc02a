package repository

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderWhere(t *testing.T, qb QueryBuilder, aliases map[string]string) string {
	t.Helper()
	sql, _, err := goqu.Dialect("postgres").
		From(goqu.T("transfers").As("t")).
		Where(qb.Build(aliases)...).
		ToSQL()
	require.NoError(t, err)
	return sql
}

func TestBuildAppliesAliases(t *testing.T) {
	qb := NewQueryBuilder()
	qb.AddCondition("product_id", int64(7))

	sql := renderWhere(t, qb, map[string]string{"product_id": "t.product_id"})

	assert.Equal(t, `SELECT * FROM "transfers" AS "t" WHERE ("t"."product_id" = 7)`, sql)
}

func TestBuildRangeAndAnyOf(t *testing.T) {
	qb := NewQueryBuilder()
	qb.AddRange("ts", "2024-05-01", "2024-06-01")
	qb.AddAnyOf([]string{"from_wh", "to_wh"}, "Raktár")

	sql := renderWhere(t, qb, map[string]string{"ts": "t.ts", "from_wh": "t.from_wh", "to_wh": "t.to_wh"})

	assert.Contains(t, sql, `("t"."ts" >= '2024-05-01')`)
	assert.Contains(t, sql, `("t"."ts" < '2024-06-01')`)
	assert.Contains(t, sql, `(("t"."from_wh" = 'Raktár') OR ("t"."to_wh" = 'Raktár'))`)
}

func TestBuildEmpty(t *testing.T) {
	qb := NewQueryBuilder()
	qb.AddAnyOf(nil, "ignored")
	assert.Empty(t, qb.Build(nil))
	assert.Equal(t, `SELECT * FROM "transfers" AS "t"`, renderWhere(t, qb, nil))
}
