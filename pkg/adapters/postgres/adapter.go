// Package postgres registers PostgreSQL (pgx) under the "postgres" type.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/adapters/base"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

// AdapterType идентификатор PostgreSQL адаптера
const AdapterType = "postgres"

func init() {
	adapters.Register(AdapterType, Open)
}

// Open opens a pooled provider for cfg. cfg.Schema qualifies table names;
// empty relies on the connection's search_path.
func Open(ctx context.Context, cfg adapters.Config) (adapters.Provider, error) {
	// Парсим connection string до открытия пула, чтобы ошибка не ретраилась
	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	p, err := base.Open(ctx, cfg, query.NewPostgres(cfg.Schema), func() (*sql.DB, error) {
		return stdlib.OpenDB(*connCfg), nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
