package querybuilder

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles parameterized SQL with `?` placeholders; callers
// rebind for their driver.
type QueryBuilder interface {
	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder
	And(clause string, args ...interface{}) QueryBuilder
	Or(clause string, args ...interface{}) QueryBuilder
	OrderBy(col string, asc bool) QueryBuilder

	Insert(cols ...string) QueryBuilder
	Into(table string) QueryBuilder
	Values(values ...interface{}) QueryBuilder
	OnConflict(cols ...string) QueryBuilder
	DoUpdate(cols ...string) QueryBuilder

	Build() (string, []interface{})
}

type queryBuilder struct {
	schema     string
	table      string
	cols       []string
	conditions []Condition
	orderBy    []string
	values     []interface{}
	isInsert   bool
	onConflict []string
	setCols    []string
}

func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{schema: schema}
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Insert(cols ...string) QueryBuilder {
	q.cols = cols
	q.isInsert = true
	return q
}

func (q *queryBuilder) Into(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Values(values ...interface{}) QueryBuilder {
	q.values = append(q.values, values...)
	return q
}

func (q *queryBuilder) OnConflict(cols ...string) QueryBuilder {
	q.onConflict = cols
	return q
}

func (q *queryBuilder) DoUpdate(cols ...string) QueryBuilder {
	q.setCols = cols
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, Condition{condType: CondTypeAnd, clause: clause, args: args})
	return q
}

func (q *queryBuilder) And(clause string, args ...interface{}) QueryBuilder {
	return q.Where(clause, args...)
}

func (q *queryBuilder) Or(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, Condition{condType: CondTypeOr, clause: clause, args: args})
	return q
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, dir))
	return q
}

func (q *queryBuilder) qualifiedTable() string {
	if q.schema != "" {
		return fmt.Sprintf("%s.%s", q.schema, q.table)
	}
	return q.table
}

func (q *queryBuilder) Build() (string, []interface{}) {
	if q.isInsert {
		return q.buildInsert()
	}
	return q.buildSelect()
}

func (q *queryBuilder) buildSelect() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(q.cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(q.qualifiedTable())

	for i, cond := range q.conditions {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(fmt.Sprintf(" %s ", cond.condType.ToString()))
		}
		sb.WriteString(cond.clause)
		args = append(args, cond.args...)
	}

	if len(q.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(q.orderBy, ", "))
	}

	return sb.String(), args
}

func (q *queryBuilder) buildInsert() (string, []interface{}) {
	var sb strings.Builder

	placeholders := make([]string, len(q.cols))
	for i := range q.cols {
		placeholders[i] = "?"
	}

	sb.WriteString("INSERT INTO ")
	sb.WriteString(q.qualifiedTable())
	sb.WriteString(" (")
	sb.WriteString(strings.Join(q.cols, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(placeholders, ", "))
	sb.WriteString(")")

	if len(q.onConflict) > 0 {
		sb.WriteString(" ON CONFLICT (")
		sb.WriteString(strings.Join(q.onConflict, ", "))
		sb.WriteString(")")
		if len(q.setCols) == 0 {
			sb.WriteString(" DO NOTHING")
		} else {
			sets := make([]string, len(q.setCols))
			for i, col := range q.setCols {
				sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
			}
			sb.WriteString(" DO UPDATE SET ")
			sb.WriteString(strings.Join(sets, ", "))
		}
	}

	return sb.String(), q.values
}
