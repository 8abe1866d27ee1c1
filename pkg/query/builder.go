package query

import (
	"database/sql"
	"strconv"
	"strings"
)

// Statement is a ready-to-execute SQL statement. For named dialects Args
// holds sql.NamedArg values; for positional dialects it holds one plain value
// per placeholder, in order.
type Statement struct {
	SQL  string
	Args []any
}

// String returns the SQL text, for logging.
func (s Statement) String() string { return s.SQL }

// Param is a value bound to a Builder. It can be referenced repeatedly.
type Param struct {
	name string
}

// Builder accumulates SQL text and its parameter bindings.
type Builder struct {
	d     Dialect
	sql   strings.Builder
	names []string
	vals  map[string]any
	args  []any
}

// NewBuilder returns an empty builder for d.
func NewBuilder(d Dialect) *Builder {
	return &Builder{d: d, vals: make(map[string]any)}
}

// Dialect returns the dialect the builder writes for.
func (b *Builder) Dialect() Dialect { return b.d }

// Write appends raw SQL.
func (b *Builder) Write(parts ...string) *Builder {
	for _, p := range parts {
		b.sql.WriteString(p)
	}
	return b
}

// Ident appends a quoted identifier.
func (b *Builder) Ident(name string) *Builder {
	b.sql.WriteString(b.d.QuoteIdentifier(name))
	return b
}

// Param binds v under a fresh name.
func (b *Builder) Param(v any) Param {
	name := "p" + strconv.Itoa(len(b.names)+1)
	b.names = append(b.names, name)
	b.vals[name] = v
	return Param{name: name}
}

// Ref returns the placeholder text for one reference to p. Positional
// dialects get a new argument for every reference.
func (b *Builder) Ref(p Param) string {
	if b.d.Positional() {
		b.args = append(b.args, b.vals[p.name])
		return b.d.Placeholder(p.name, len(b.args))
	}
	return b.d.Placeholder(p.name, 0)
}

// Bind is Param followed by a single Ref.
func (b *Builder) Bind(v any) string {
	return b.Ref(b.Param(v))
}

// Statement returns the accumulated statement.
func (b *Builder) Statement() Statement {
	st := Statement{SQL: b.sql.String()}
	if b.d.Positional() {
		st.Args = append([]any(nil), b.args...)
		return st
	}
	st.Args = make([]any, 0, len(b.names))
	for _, name := range b.names {
		st.Args = append(st.Args, sql.Named(name, b.vals[name]))
	}
	return st
}
