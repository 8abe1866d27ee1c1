//go:build odbc

package odbc

import (
	"context"
	"database/sql"

	_ "github.com/alexbrainman/odbc" // ODBC driver

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/adapters/base"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

// AdapterType идентификатор ODBC адаптера
const AdapterType = "odbc"

func init() {
	adapters.Register(AdapterType, Open)
}

// Open opens a pooled provider for cfg. cfg.DSN is an ODBC connection
// string, see ConnString.
func Open(ctx context.Context, cfg adapters.Config) (adapters.Provider, error) {
	p, err := base.Open(ctx, cfg, query.NewMSSQLODBC(cfg.Schema), func() (*sql.DB, error) {
		return sql.Open("odbc", cfg.DSN)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
