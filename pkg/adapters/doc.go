// Package adapters provides the connection/session layer: a pooled
// Provider per database, opened through a registry of drivers.
//
// # Drivers
//
//   - mssql    - MS SQL Server through github.com/denisenkom/go-mssqldb (production)
//   - odbc     - MS SQL Server through an ODBC DSN (github.com/alexbrainman/odbc)
//   - sqlite   - modernc.org/sqlite (development, tests)
//   - postgres - github.com/jackc/pgx/v5
//   - mysql    - github.com/go-sql-driver/mysql
//
// Every driver registers itself in init(); import the ones you need for
// their side effect and call New with a Config.
//
// # Pool policy
//
// The shared implementation in package base sizes the database/sql pool
// from Config, recycles connections after Config.ConnMaxLifetime, opens the
// pool and runs a "SELECT 1" health check under the retry policy, and runs
// every statement under a circuit breaker with Config.Timeout applied.
//
// Providers hold no other state: there is no statement cache and no write
// buffering, and concurrent updates to the same row are ordered by the
// database alone.
package adapters
