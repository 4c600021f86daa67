// Package query builds SensorThings OData-style query options
// ($filter, $expand, $select, $top, $orderby) in a fluent manner.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Expression is a $filter fragment that can serialize itself to OData text.
type Expression interface {
	String() string
}

type comparison struct {
	path  string
	op    string
	value any
}

func (c comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.path, c.op, literal(c.value))
}

type logical struct {
	op   string
	args []Expression
}

func (l logical) String() string {
	parts := make([]string, 0, len(l.args))
	for _, arg := range l.args {
		if arg == nil {
			continue
		}
		parts = append(parts, arg.String())
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, " "+l.op+" ") + ")"
}

type negation struct {
	arg Expression
}

func (n negation) String() string {
	if n.arg == nil {
		return ""
	}
	return "not (" + n.arg.String() + ")"
}

// Eq builds an equality comparison, e.g. Eq("properties/trial_id", "t01").
func Eq(path string, value any) Expression { return comparison{path, "eq", value} }

// Ne builds an inequality comparison.
func Ne(path string, value any) Expression { return comparison{path, "ne", value} }

// Gt builds a greater-than comparison.
func Gt(path string, value any) Expression { return comparison{path, "gt", value} }

// Ge builds a greater-or-equal comparison.
func Ge(path string, value any) Expression { return comparison{path, "ge", value} }

// Lt builds a less-than comparison.
func Lt(path string, value any) Expression { return comparison{path, "lt", value} }

// Le builds a less-or-equal comparison.
func Le(path string, value any) Expression { return comparison{path, "le", value} }

// And combines expressions with logical AND.
func And(exprs ...Expression) Expression { return logical{"and", exprs} }

// Or combines expressions with logical OR.
func Or(exprs ...Expression) Expression { return logical{"or", exprs} }

// Not negates an expression.
func Not(expr Expression) Expression { return negation{expr} }

func literal(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return "'" + strings.ReplaceAll(v.String(), "'", "''") + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Query accumulates OData query options in a fluent manner.
type Query struct {
	filter  Expression
	expand  []string
	selects []string
	orderBy string
	top     int
	skip    int
	count   bool
}

// New returns an empty Query instance.
func New() *Query {
	return &Query{}
}

// Filter sets the expression if none exists or ANDs it with the current one.
func (q *Query) Filter(expr Expression) *Query {
	if expr == nil {
		return q
	}
	if q.filter == nil {
		q.filter = expr
		return q
	}
	q.filter = And(q.filter, expr)
	return q
}

// Expand adds navigation properties to inline, e.g. Expand("Locations").
func (q *Query) Expand(paths ...string) *Query {
	for _, p := range paths {
		if p != "" {
			q.expand = append(q.expand, p)
		}
	}
	return q
}

// Select restricts the returned entity fields.
func (q *Query) Select(fields ...string) *Query {
	for _, f := range fields {
		if f != "" {
			q.selects = append(q.selects, f)
		}
	}
	return q
}

// OrderBy sets the sort clause, e.g. OrderBy("name asc").
func (q *Query) OrderBy(clause string) *Query {
	q.orderBy = clause
	return q
}

// Top sets the requested page size.
func (q *Query) Top(n int) *Query {
	if n > 0 {
		q.top = n
	}
	return q
}

// Skip sets the number of entities to skip.
func (q *Query) Skip(n int) *Query {
	if n > 0 {
		q.skip = n
	}
	return q
}

// Count requests the @iot.count annotation in responses.
func (q *Query) Count() *Query {
	q.count = true
	return q
}

// Values serializes the query into URL parameters. A nil Query is valid
// and serializes to nothing.
func (q *Query) Values() url.Values {
	if q == nil {
		return nil
	}
	values := url.Values{}
	if q.filter != nil {
		if text := q.filter.String(); text != "" {
			values.Set("$filter", text)
		}
	}
	if len(q.expand) > 0 {
		values.Set("$expand", strings.Join(q.expand, ","))
	}
	if len(q.selects) > 0 {
		values.Set("$select", strings.Join(q.selects, ","))
	}
	if q.orderBy != "" {
		values.Set("$orderby", q.orderBy)
	}
	if q.top > 0 {
		values.Set("$top", strconv.Itoa(q.top))
	}
	if q.skip > 0 {
		values.Set("$skip", strconv.Itoa(q.skip))
	}
	if q.count {
		values.Set("$count", "true")
	}
	return values
}
