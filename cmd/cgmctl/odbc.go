//go:build odbc

package main

// ODBC требует cgo и unixODBC: go build -tags odbc
import _ "github.com/ruslano69/cgm-backoffice/pkg/adapters/odbc"
