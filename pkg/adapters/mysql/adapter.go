// Package mysql registers MySQL under the "mysql" type.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/adapters/base"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

// AdapterType идентификатор MySQL адаптера
const AdapterType = "mysql"

func init() {
	adapters.Register(AdapterType, Open)
}

// Open opens a pooled provider for cfg. DATE/DATETIME columns are always
// scanned as time.Time regardless of the parseTime DSN option.
func Open(ctx context.Context, cfg adapters.Config) (adapters.Provider, error) {
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	mc.ParseTime = true

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	p, err := base.Open(ctx, cfg, query.NewMySQL(), func() (*sql.DB, error) {
		return sql.OpenDB(connector), nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
