// Package query builds the SQL statements the repositories execute.
//
// Statements are assembled by a Builder that owns both the SQL text and the
// parameter bindings, so values never reach the SQL string itself. Two
// binding styles are supported through the Dialect:
//
//   - named (MS SQL Server via go-mssqldb, SQLite): every value is bound once
//     as sql.Named and may be referenced any number of times;
//   - positional (PostgreSQL, MySQL, ODBC): every reference to a value is
//     expanded into its own argument.
//
// # Optional predicates
//
// Search filters follow the "(param = '' OR column = param)" shape: binding
// an empty value disables the predicate at execution time, so a search with
// every filter blank returns every row in the default order.
//
//	stmt := query.Search{
//	    Table: "Estorno",
//	    Filters: []query.Filter{
//	        query.Exact("AG", ag),
//	        query.Contains("NOME_CLIENTE", cliente),
//	    },
//	    Order: []query.Order{{Column: "DATA_ENT", Desc: true}},
//	}.Build(query.NewMSSQL("dbo"))
package query
