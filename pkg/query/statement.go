package query

import (
	"errors"
	"strings"
)

// ErrNoColumns is returned when an INSERT or UPDATE would touch no column.
var ErrNoColumns = errors.New("query: no columns")

// Projection is one output column of a SELECT.
type Projection struct {
	Column string
	Alias  string // defaults to Column

	// Coalesce renders NULL text as ''.
	Coalesce bool

	// OrNow renders a NULL date as the current timestamp.
	OrNow bool
}

func (p Projection) expr(d Dialect) string {
	e := d.QuoteIdentifier(p.Column)
	switch {
	case p.OrNow:
		e = d.OrNow(e)
	case p.Coalesce:
		e = "COALESCE(" + e + ", '')"
	}
	alias := p.Alias
	if alias == "" {
		alias = p.Column
	}
	return e + " AS " + d.QuoteIdentifier(alias)
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool

	// OrNow sorts NULL dates as if they were the current timestamp.
	OrNow bool
}

func (o Order) expr(d Dialect) string {
	e := d.QuoteIdentifier(o.Column)
	if o.OrNow {
		e = d.OrNow(e)
	}
	if o.Desc {
		return e + " DESC"
	}
	return e + " ASC"
}

// Search is an optional-predicate SELECT over one table.
type Search struct {
	Table      string
	Projection []Projection // empty selects every column
	Filters    []Filter
	Order      []Order
	Limit      int // 0 means no limit
}

// Build renders the search for d.
func (s Search) Build(d Dialect) Statement {
	b := NewBuilder(d)
	b.Write("SELECT ", d.Top(s.Limit))

	if len(s.Projection) == 0 {
		b.Write("*")
	} else {
		cols := make([]string, len(s.Projection))
		for i, p := range s.Projection {
			cols[i] = p.expr(d)
		}
		b.Write(strings.Join(cols, ", "))
	}

	b.Write(" FROM ", d.Table(s.Table))

	var preds []string
	for _, f := range s.Filters {
		if pred := f.Predicate(b); pred != "" {
			preds = append(preds, pred)
		}
	}
	if len(preds) > 0 {
		b.Write(" WHERE ", strings.Join(preds, " AND "))
	}

	if len(s.Order) > 0 {
		terms := make([]string, len(s.Order))
		for i, o := range s.Order {
			terms[i] = o.expr(d)
		}
		b.Write(" ORDER BY ", strings.Join(terms, ", "))
	}

	b.Write(d.Limit(s.Limit))
	return b.Statement()
}

// Recent selects the latest limit rows of table.
func Recent(d Dialect, table string, projection []Projection, order []Order, limit int) Statement {
	return Search{Table: table, Projection: projection, Order: order, Limit: limit}.Build(d)
}

// GetByID selects the row whose primary key equals id.
func GetByID(d Dialect, table, pk string, id any) Statement {
	b := NewBuilder(d)
	b.Write("SELECT * FROM ", d.Table(table), " WHERE ").Ident(pk).Write(" = ", b.Bind(id))
	return b.Statement()
}

// Insert writes one row. columns and values are parallel.
func Insert(d Dialect, table string, columns []string, values []any) (Statement, error) {
	if len(columns) == 0 || len(columns) != len(values) {
		return Statement{}, ErrNoColumns
	}

	b := NewBuilder(d)
	b.Write("INSERT INTO ", d.Table(table), " (")
	for i, c := range columns {
		if i > 0 {
			b.Write(", ")
		}
		b.Ident(c)
	}
	b.Write(") VALUES (")
	for i, v := range values {
		if i > 0 {
			b.Write(", ")
		}
		b.Write(b.Bind(v))
	}
	b.Write(")")
	return b.Statement(), nil
}

// Update sets exactly columns on the row keyed by id.
func Update(d Dialect, table, pk string, id any, columns []string, values []any) (Statement, error) {
	if len(columns) == 0 || len(columns) != len(values) {
		return Statement{}, ErrNoColumns
	}

	b := NewBuilder(d)
	b.Write("UPDATE ", d.Table(table), " SET ")
	for i, c := range columns {
		if i > 0 {
			b.Write(", ")
		}
		b.Ident(c).Write(" = ", b.Bind(values[i]))
	}
	b.Write(" WHERE ").Ident(pk).Write(" = ", b.Bind(id))
	return b.Statement(), nil
}

// Delete removes the row keyed by id.
func Delete(d Dialect, table, pk string, id any) Statement {
	b := NewBuilder(d)
	b.Write("DELETE FROM ", d.Table(table), " WHERE ").Ident(pk).Write(" = ", b.Bind(id))
	return b.Statement()
}
