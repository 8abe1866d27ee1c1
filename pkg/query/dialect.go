package query

import (
	"fmt"
	"strings"
)

// Dialect hides the syntax differences between the supported databases.
type Dialect interface {
	// Name returns the database type: "mssql", "sqlite", "postgres", "mysql".
	Name() string

	// QuoteIdentifier quotes a column or table name.
	QuoteIdentifier(name string) string

	// Table returns the quoted, schema-qualified table name.
	Table(name string) string

	// Positional reports whether every parameter reference needs its own argument.
	Positional() bool

	// Placeholder renders the reference to a parameter. position is the
	// 1-based argument index and is only meaningful for positional dialects.
	Placeholder(name string, position int) string

	// TextParam wraps a placeholder compared against text.
	TextParam(placeholder string) string

	// Concat joins string expressions.
	Concat(parts ...string) string

	// Top returns the row limit written right after SELECT ("" if unsupported).
	Top(n int) string

	// Limit returns the row limit appended to the statement ("" if unsupported).
	Limit(n int) string

	// OrNow substitutes the current timestamp for a NULL expression.
	OrNow(expr string) string
}

// MSSQLDialect is the MS SQL Server syntax: [brackets], TOP (n), "+" concatenation.
type MSSQLDialect struct {
	schema     string
	positional bool
}

// NewMSSQL returns the MS SQL Server dialect with named @parameters
// (go-mssqldb). An empty schema defaults to "dbo".
func NewMSSQL(schema string) *MSSQLDialect {
	if schema == "" {
		schema = "dbo"
	}
	return &MSSQLDialect{schema: schema}
}

// NewMSSQLODBC returns the MS SQL Server dialect with positional "?"
// parameters, as required by ODBC.
func NewMSSQLODBC(schema string) *MSSQLDialect {
	d := NewMSSQL(schema)
	d.positional = true
	return d
}

func (d *MSSQLDialect) Name() string { return "mssql" }

// QuoteIdentifier квотирует идентификатор для SQL Server
func (d *MSSQLDialect) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d *MSSQLDialect) Table(name string) string {
	return d.QuoteIdentifier(d.schema) + "." + d.QuoteIdentifier(name)
}

func (d *MSSQLDialect) Positional() bool { return d.positional }

func (d *MSSQLDialect) Placeholder(name string, _ int) string {
	if d.positional {
		return "?"
	}
	return "@" + name
}

func (d *MSSQLDialect) TextParam(placeholder string) string { return placeholder }

func (d *MSSQLDialect) Concat(parts ...string) string {
	return strings.Join(parts, " + ")
}

func (d *MSSQLDialect) Top(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("TOP (%d) ", n)
}

func (d *MSSQLDialect) Limit(int) string { return "" }

func (d *MSSQLDialect) OrNow(expr string) string {
	return "ISNULL(" + expr + ", GETDATE())"
}

// StandardDialect covers SQLite, PostgreSQL and MySQL, which share
// LIMIT n and differ only in quoting, parameters and concatenation.
type StandardDialect struct {
	dbType     string // "sqlite", "postgres", "mysql"
	schema     string // "" для SQLite/MySQL
	quoteChar  string // '`' для MySQL, '"' для PostgreSQL/SQLite
	positional bool
}

// NewSQLite returns the SQLite dialect with named :parameters (modernc.org/sqlite).
func NewSQLite() *StandardDialect {
	return &StandardDialect{dbType: "sqlite", quoteChar: `"`}
}

// NewPostgres returns the PostgreSQL dialect with positional $n parameters.
func NewPostgres(schema string) *StandardDialect {
	return &StandardDialect{dbType: "postgres", schema: schema, quoteChar: `"`, positional: true}
}

// NewMySQL returns the MySQL dialect with positional "?" parameters.
func NewMySQL() *StandardDialect {
	return &StandardDialect{dbType: "mysql", quoteChar: "`", positional: true}
}

func (d *StandardDialect) Name() string { return d.dbType }

func (d *StandardDialect) QuoteIdentifier(name string) string {
	return d.quoteChar + strings.ReplaceAll(name, d.quoteChar, d.quoteChar+d.quoteChar) + d.quoteChar
}

func (d *StandardDialect) Table(name string) string {
	if d.schema == "" {
		return d.QuoteIdentifier(name)
	}
	return d.QuoteIdentifier(d.schema) + "." + d.QuoteIdentifier(name)
}

func (d *StandardDialect) Positional() bool { return d.positional }

func (d *StandardDialect) Placeholder(name string, position int) string {
	switch d.dbType {
	case "postgres":
		return fmt.Sprintf("$%d", position)
	case "mysql":
		return "?"
	default:
		return ":" + name
	}
}

// TextParam casts PostgreSQL parameters: the server cannot infer the type of
// a parameter compared against a literal or passed to ||.
func (d *StandardDialect) TextParam(placeholder string) string {
	if d.dbType == "postgres" {
		return "CAST(" + placeholder + " AS TEXT)"
	}
	return placeholder
}

func (d *StandardDialect) Concat(parts ...string) string {
	if d.dbType == "mysql" {
		return "CONCAT(" + strings.Join(parts, ", ") + ")"
	}
	return strings.Join(parts, " || ")
}

func (d *StandardDialect) Top(int) string { return "" }

func (d *StandardDialect) Limit(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", n)
}

func (d *StandardDialect) OrNow(expr string) string {
	if d.dbType == "mysql" {
		return "COALESCE(" + expr + ", NOW())"
	}
	return "COALESCE(" + expr + ", CURRENT_TIMESTAMP)"
}
