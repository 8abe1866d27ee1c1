package main

import (
	"flag"
	"strings"
)

// pairList collects a repeatable NAME=VALUE flag
type pairList []string

func (p *pairList) String() string {
	return strings.Join(*p, " ")
}

func (p *pairList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// Flags holds all command-line flags
type Flags struct {
	// Commands
	Ping         *bool
	InitDB       *bool
	Recent       *bool
	Search       *string // profile name
	Get          *int64
	Update       *int64
	Delete       *string // comma-separated ids
	Import       *string
	Export       *bool
	History      *bool
	PruneHistory *int // days
	CreateConfig *bool

	// Record options
	Entity  *string
	Where   pairList
	Set     pairList
	Allowed *string
	Limit   *int
	Format  *string

	// File options
	Output  *string
	Sheet   *string
	Profile *string

	// Options
	Config *string
	Stats  *bool

	// Misc
	Version   *bool
	Help      *bool
	ShortHelp *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	f := &Flags{}

	// Commands
	f.Ping = flag.Bool("ping", false, "Check the database connection")
	f.InitDB = flag.Bool("init-db", false, "Create missing entity tables")
	f.Recent = flag.Bool("recent", false, "List the latest records of --entity")
	f.Search = flag.String("search", "", "Run a search profile of --entity (search, cadastro, consulta)")
	f.Get = flag.Int64("get", 0, "Show one record of --entity by id")
	f.Update = flag.Int64("update", 0, "Update one record of --entity by id (use with --set)")
	f.Delete = flag.String("delete", "", "Delete records of --entity (comma-separated ids)")
	f.Import = flag.String("import", "", "Import a CSV or XLSX file into --entity (file path)")
	f.Export = flag.Bool("export", false, "Export --entity to XLSX (use --profile and --where to filter)")
	f.History = flag.Bool("history", false, "Show the latest actions on --entity")
	f.PruneHistory = flag.Int("prune-history", 0, "Remove database history entries older than N days")
	f.CreateConfig = flag.Bool("create-config", false, "Create sample config file")

	// Record options
	f.Entity = flag.String("entity", "", "Entity name")
	flag.Var(&f.Where, "where", "Search criterion NAME=VALUE (repeatable)")
	flag.Var(&f.Set, "set", "Field assignment KEY=VALUE for --update (repeatable)")
	f.Allowed = flag.String("allowed", "", "Columns --update may write (comma-separated, default: all mapped)")
	f.Limit = flag.Int("limit", 0, "Number of rows for --recent and --history")
	f.Format = flag.String("format", "table", "Output format: table, json")

	// File options
	f.Output = flag.String("output", "", "Output file path (default: <entity>.xlsx)")
	f.Sheet = flag.String("sheet", "", "Excel sheet name (default: first sheet on import, table name on export)")
	f.Profile = flag.String("profile", "", "Search profile for --export (default: cadastro)")

	// Options
	f.Config = flag.String("config", "", "Configuration file path (default: environment only)")
	f.Stats = flag.Bool("stats", false, "Print operation counters on exit")

	// Misc
	f.Version = flag.Bool("version", false, "Show version information")
	f.Help = flag.Bool("help", false, "Show detailed help with examples")
	f.ShortHelp = flag.Bool("h", false, "Show brief help (commands and options)")

	flag.Parse()

	return f
}

// needsEntity reports whether the chosen command works on one entity
func (f *Flags) needsEntity() bool {
	return *f.Recent || *f.Search != "" || *f.Get != 0 || *f.Update != 0 ||
		*f.Delete != "" || *f.Import != "" || *f.Export || *f.History
}

// commandWasSpecified checks if any command was specified
func (f *Flags) commandWasSpecified() bool {
	return *f.Ping || *f.InitDB || *f.PruneHistory != 0 || f.needsEntity()
}

// splitList splits a comma-separated flag value, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
