//go:build !production

package main

import (
	"flag"

	"github.com/ruslano69/cgm-backoffice/internal/infra"
)

// devSQLite подменяет базу локальным файлом SQLite.
// В продакшен-сборке (go build -tags production) флаг отсутствует в бинаре.
var devSQLite = flag.String("dev-sqlite", "", "[DEV ONLY] Use a local SQLite file instead of the configured database; tables are created on start")

// applyDevFlags переопределяет конфигурацию dev-флагами
func applyDevFlags(cfg *infra.Config) error {
	if *devSQLite == "" {
		return nil
	}
	cfg.Database = infra.DatabaseConfig{
		Type:         "sqlite",
		Database:     *devSQLite,
		CreateTables: true,
	}
	cfg.Resilience.CircuitBreaker.Name = ""
	return cfg.Validate()
}
