package query

import "strings"

// CreateTable renders a CREATE TABLE that does nothing when the table
// already exists. columns are complete column definitions, identifiers
// already quoted.
func CreateTable(d Dialect, table string, columns []string) Statement {
	body := " (" + strings.Join(columns, ", ") + ")"

	if d.Name() == "mssql" {
		// SQL Server 2014 has no IF NOT EXISTS for tables
		name := strings.NewReplacer("[", "", "]", "").Replace(d.Table(table))
		return Statement{SQL: "IF OBJECT_ID(N'" + strings.ReplaceAll(name, "'", "''") + "', N'U') IS NULL CREATE TABLE " +
			d.Table(table) + body}
	}
	return Statement{SQL: "CREATE TABLE IF NOT EXISTS " + d.Table(table) + body}
}
