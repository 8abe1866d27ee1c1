package main

// Регистрация адаптеров в глобальной фабрике
import (
	_ "github.com/ruslano69/cgm-backoffice/pkg/adapters/mssql"
	_ "github.com/ruslano69/cgm-backoffice/pkg/adapters/mysql"
	_ "github.com/ruslano69/cgm-backoffice/pkg/adapters/postgres"
	_ "github.com/ruslano69/cgm-backoffice/pkg/adapters/sqlite"
)
