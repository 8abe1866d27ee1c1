package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/cgm-backoffice/cmd/cgmctl/commands"
	"github.com/ruslano69/cgm-backoffice/internal/infra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Parse flags
	flags := ParseFlags()

	// Handle version
	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}

	// Handle help
	if *flags.Help {
		PrintHelp()
		os.Exit(0)
	}
	if *flags.ShortHelp {
		PrintShortHelp()
		os.Exit(0)
	}

	// Load configuration
	config, err := infra.Load(*flags.Config)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	if err := applyDevFlags(config); err != nil {
		fatal("Invalid dev flags: %v", err)
	}
	infra.ConfigureLogging(config.Log, os.Stderr)

	// Handle config creation
	if *flags.CreateConfig {
		createConfig(config, *flags.Output)
		return
	}

	// If no command was specified, show help
	if !flags.commandWasSpecified() {
		PrintShortHelp()
		os.Exit(1)
	}
	if flags.needsEntity() && *flags.Entity == "" {
		fatal("--entity is required")
	}

	reg := prometheus.NewRegistry()
	app, err := infra.Setup(ctx, config, reg)
	if err != nil {
		fatal("Failed to connect: %v", err)
	}

	cmdErr := route(ctx, os.Stdout, app, flags)

	if err := app.Close(); err != nil {
		log.Warn().Err(err).Msg("close failed")
	}
	if *flags.Stats {
		printStats(os.Stderr, reg)
	}

	// Handle errors
	if cmdErr != nil {
		fatal("Command failed: %v", cmdErr)
	}
}

// route dispatches the chosen command
func route(ctx context.Context, w io.Writer, app *infra.App, flags *Flags) error {
	if *flags.Ping {
		return commands.Ping(ctx, w, app.Provider)
	}
	if *flags.InitDB {
		return commands.InitDB(ctx, w, app.Repositories)
	}
	if *flags.PruneHistory != 0 {
		return commands.PruneHistory(ctx, w, app.Provider, app.Config.Audit.Database.Table, *flags.PruneHistory)
	}

	repo, err := app.Repositories.Get(*flags.Entity)
	if err != nil {
		return err
	}

	switch {
	case *flags.Recent:
		return commands.Recent(ctx, w, repo, *flags.Limit, *flags.Format)
	case *flags.Search != "":
		return commands.Search(ctx, w, repo, *flags.Search, flags.Where, *flags.Format)
	case *flags.Get != 0:
		return commands.Get(ctx, w, repo, *flags.Get, *flags.Format)
	case *flags.Update != 0:
		return commands.Update(ctx, w, repo, *flags.Update, flags.Set, splitList(*flags.Allowed))
	case *flags.Delete != "":
		ids, err := commands.ParseIDs(*flags.Delete)
		if err != nil {
			return err
		}
		return commands.Delete(ctx, w, repo, ids)
	case *flags.Import != "":
		return commands.Import(ctx, w, repo, commands.ImportOptions{
			FilePath:  *flags.Import,
			SheetName: *flags.Sheet,
		})
	case *flags.Export:
		return commands.Export(ctx, w, repo, commands.ExportOptions{
			OutputFile: *flags.Output,
			SheetName:  *flags.Sheet,
			Profile:    *flags.Profile,
			Criteria:   flags.Where,
		})
	case *flags.History:
		return commands.History(ctx, w, repo, *flags.Limit)
	}
	return nil
}

// createConfig writes the effective configuration as a starting point
func createConfig(config *infra.Config, output string) {
	if output == "" {
		output = "config.yaml"
	}
	if err := infra.SaveConfig(output, config); err != nil {
		fatal("Failed to save config: %v", err)
	}

	fmt.Printf("✓ Created %s config: %s\n", config.Database.Type, output)
	fmt.Println("Edit the file with your database credentials and run:")
	fmt.Printf("  cgmctl --ping --config %s\n", output)
}

// printStats prints the operation counters gathered during the run
func printStats(w io.Writer, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		log.Warn().Err(err).Msg("failed to gather metrics")
		return
	}

	var lines []string
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), "_operations_total") {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("  %-50s %.0f", strings.Join(labels, " "), m.GetCounter().GetValue()))
		}
	}
	if len(lines) == 0 {
		return
	}
	sort.Strings(lines)

	fmt.Fprintln(w, "Operations:")
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

// fatal prints error and exits
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
