package main

import (
	"fmt"
	"strings"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/entities"
)

const version = "1.0.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("cgmctl version %s\n", version)
	fmt.Println("CGM back office - tariff exception records")
	fmt.Printf("Database types: %s\n", strings.Join(adapters.GetRegisteredTypes(), ", "))
}

// PrintShortHelp prints the command and option summary
func PrintShortHelp() {
	fmt.Println("Usage: cgmctl [command] --entity <name> [options]")
	fmt.Println()
	fmt.Println("Commands: --ping --init-db --recent --search --get --update --delete")
	fmt.Println("          --import --export --history --prune-history --create-config")
	fmt.Println("Options:  --where --set --allowed --limit --format --output --sheet")
	fmt.Println("          --profile --config --stats")
	fmt.Printf("Entities: %s\n", strings.Join(entities.Names(), ", "))
	fmt.Println()
	fmt.Println("Run 'cgmctl --help' for details.")
}

// PrintHelp prints comprehensive help information
func PrintHelp() {
	fmt.Println("cgmctl - CGM back office command line")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  cgmctl [command] --entity <name> [options]")
	fmt.Println()

	fmt.Println("ENTITIES:")
	for _, e := range entities.All() {
		fmt.Printf("  %-10s %s (%s)\n", e.Name, e.Title, e.Table)
	}
	fmt.Println()

	fmt.Println("COMMANDS:")
	fmt.Println()

	fmt.Println("  Database:")
	fmt.Println("    --ping                     Check the database connection")
	fmt.Println("    --init-db                  Create missing entity tables")
	fmt.Println("    --create-config            Write config.yaml with the current settings")
	fmt.Println()

	fmt.Println("  Records:")
	fmt.Println("    --recent                   List the latest records")
	fmt.Println("    --search <profile>         Search with a profile: search, cadastro, consulta")
	fmt.Println("    --get <id>                 Show one record")
	fmt.Println("    --update <id>              Update the fields given with --set")
	fmt.Println("    --delete <ids>             Delete records (comma-separated ids)")
	fmt.Println("    --history                  Show the latest actions")
	fmt.Println("    --prune-history <days>     Remove database history older than <days>")
	fmt.Println()

	fmt.Println("  Files:")
	fmt.Println("    --import <file>            Import a CSV or XLSX file")
	fmt.Println("    --export                   Export to XLSX")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println()
	fmt.Println("    --entity <name>            Entity to work on")
	fmt.Println("    --where NAME=VALUE         Search criterion (repeatable)")
	fmt.Println("    --set KEY=VALUE            Field assignment, form key or column (repeatable)")
	fmt.Println("    --allowed <columns>        Columns --update may write")
	fmt.Println("    --limit <n>                Rows for --recent and --history")
	fmt.Println("    --format <table|json>      Output format (default: table)")
	fmt.Println("    --output <file>            XLSX output file (default: <entity>.xlsx)")
	fmt.Println("    --sheet <name>             Excel sheet name")
	fmt.Println("    --profile <name>           Search profile for --export (default: cadastro)")
	fmt.Println("    --config <file>            Configuration file")
	fmt.Println("    --stats                    Print operation counters on exit")
	fmt.Println()

	fmt.Println("ENVIRONMENT:")
	fmt.Println("    MSSQL_DSN, MSSQL_DRIVER, MSSQL_TRUST_CERT, MSSQL_TIMEOUT")
	fmt.Println("    MSSQL_HOST, MSSQL_DB, MSSQL_USER, MSSQL_PASSWORD")
	fmt.Println("    CGM_DB_TYPE, CGM_DB_URL, CGM_DB_SCHEMA, CGM_CREATE_TABLES")
	fmt.Println("    CGM_USER, CGM_LOG_LEVEL, CGM_AUDIT_FILE, CGM_REDIS_ADDR, CGM_METRICS")
	fmt.Println("    A .env file in the working directory is loaded first.")
	fmt.Println()

	fmt.Println("EXAMPLES:")
	fmt.Println("  cgmctl --ping")
	fmt.Println("  cgmctl --recent --entity multas --limit 10")
	fmt.Println("  cgmctl --search cadastro --entity lar --where ag=0001 --where cli=acme")
	fmt.Println("  cgmctl --search consulta --entity estorno --where de=01/01/2024 --where ate=31/01/2024")
	fmt.Println("  cgmctl --update 42 --entity multas --set VALOR_TARIFA=1.234,56 --set NEG_ESP=sim")
	fmt.Println("  cgmctl --delete 3,4,5 --entity alcada")
	fmt.Println("  cgmctl --import isencoes.csv --entity multas")
	fmt.Println("  cgmctl --export --entity lar --profile consulta --output lar.xlsx")
}
