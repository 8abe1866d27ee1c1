// Package odbc registers MS SQL Server reached through an ODBC data source
// under the "odbc" type. ODBC only understands positional "?" parameters, so
// statements are built with the positional MS SQL dialect.
//
// The driver needs cgo and unixODBC; it is compiled in with the "odbc" build
// tag. Connection strings can be built without it.
package odbc

import (
	"fmt"
	"strings"
)

// DefaultDriver is the ODBC driver used when a connection is described by
// host rather than by DSN.
const DefaultDriver = "ODBC Driver 18 for SQL Server"

// Params describe an ODBC connection. When DSN is set it names a data source
// configured in the ODBC manager and the host fields are ignored.
type Params struct {
	DSN       string
	Driver    string
	Host      string
	Database  string
	User      string
	Password  string
	TrustCert bool
	Timeout   int // login timeout, seconds
}

// ConnString builds the ODBC connection string:
//
//	DSN=CGM;TrustServerCertificate=yes;LoginTimeout=5
//	Driver={ODBC Driver 18 for SQL Server};Server=host;Database=db;UID=u;PWD=p;TrustServerCertificate=yes;LoginTimeout=5
func ConnString(p Params) string {
	var parts []string
	if p.DSN != "" {
		parts = append(parts, "DSN="+p.DSN)
	} else {
		driver := p.Driver
		if driver == "" {
			driver = DefaultDriver
		}
		parts = append(parts,
			"Driver={"+driver+"}",
			"Server="+p.Host,
			"Database="+p.Database,
		)
		if p.User != "" {
			parts = append(parts, "UID="+p.User, "PWD="+quote(p.Password))
		} else {
			parts = append(parts, "Trusted_Connection=yes")
		}
	}

	trust := "no"
	if p.TrustCert {
		trust = "yes"
	}
	parts = append(parts, "TrustServerCertificate="+trust)
	if p.Timeout > 0 {
		parts = append(parts, fmt.Sprintf("LoginTimeout=%d", p.Timeout))
	}
	return strings.Join(parts, ";")
}

// quote wraps values containing ';' or '}' in braces as ODBC requires.
func quote(v string) string {
	if !strings.ContainsAny(v, ";{}") {
		return v
	}
	return "{" + strings.ReplaceAll(v, "}", "}}") + "}"
}
