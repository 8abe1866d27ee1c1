package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ruslano69/cgm-backoffice/pkg/audit"
	"github.com/ruslano69/cgm-backoffice/pkg/importer"
	"github.com/ruslano69/cgm-backoffice/pkg/repository"
	"github.com/ruslano69/cgm-backoffice/pkg/xlsx"
)

// ImportOptions holds options for mass import
type ImportOptions struct {
	FilePath  string
	SheetName string
}

// Import loads a CSV or XLSX file into the entity.
func Import(ctx context.Context, w io.Writer, repo *repository.Repository, opts ImportOptions) error {
	fmt.Fprintf(w, "Importing '%s' into %s...\n", opts.FilePath, repo.Entity().Table)
	fmt.Fprintf(w, "Expected columns: %v\n", importer.Columns(repo.Entity().Mapping))

	start := time.Now()
	res, err := importer.ImportFile(ctx, repo, repo.Entity().Mapping, opts.FilePath, opts.SheetName)
	repo.RecordTransfer(ctx, audit.ActionImport, res.Inserted, len(res.Failed) == 0, start, err)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(w, "✓ Inserted %d of %d row(s)\n", res.Inserted, res.Rows)
	for _, f := range res.Failed {
		fmt.Fprintf(w, "✗ line %d: %v\n", f.Item, f.Err)
	}
	return nil
}

// ExportOptions holds options for XLSX export
type ExportOptions struct {
	OutputFile string
	SheetName  string
	Profile    string
	Criteria   []string
}

// Export writes the records of a search profile to an XLSX file. Without a
// profile the full register profile is used.
func Export(ctx context.Context, w io.Writer, repo *repository.Repository, opts ExportOptions) error {
	e := repo.Entity()
	values, err := ParsePairs(opts.Criteria)
	if err != nil {
		return err
	}
	start := time.Now()

	profile := opts.Profile
	if profile == "" {
		profile = "cadastro"
	}
	p, err := e.Profile(profile)
	if err != nil {
		return err
	}
	rows, err := repo.Search(ctx, profile, values)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	cols := xlsx.ColumnsFor(e)
	if len(p.Projection) > 0 {
		cols = xlsx.ProjectionColumns(e, p.Projection)
	}

	out := opts.OutputFile
	if out == "" {
		out = e.Name + ".xlsx"
	}
	sheet := opts.SheetName
	if sheet == "" {
		sheet = e.Table
	}

	records := make([]map[string]any, len(rows))
	for i, r := range rows {
		records[i] = r
	}
	err = xlsx.ExportFile(out, sheet, cols, records)
	repo.RecordTransfer(ctx, audit.ActionExport, len(records), true, start, err)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(w, "✓ Export complete!\n")
	fmt.Fprintf(w, "✓ XLSX file: %s\n", out)
	fmt.Fprintf(w, "✓ Rows: %d\n", len(rows))
	return nil
}
