// Package sqlite registers modernc.org/sqlite under the "sqlite" type. It is
// used for local development and for the integration tests of the
// repositories.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/adapters/base"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

const driverSqlite = "sqlite"

// AdapterType идентификатор SQLite адаптера
const AdapterType = "sqlite"

// Регистрация адаптера в глобальной фабрике
func init() {
	adapters.Register(AdapterType, Open)
}

// Open opens a provider for cfg.DSN (a file path or "file:" URI).
//
// Every ":memory:" connection is a separate database, so tests use a file in
// t.TempDir() instead.
func Open(ctx context.Context, cfg adapters.Config) (adapters.Provider, error) {
	p, err := base.Open(ctx, cfg, query.NewSQLite(), func() (*sql.DB, error) {
		return sql.Open(driverSqlite, cfg.DSN)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
