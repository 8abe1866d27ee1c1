package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ruslano69/cgm-backoffice/pkg/repository"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// printRecords writes records in display form. Columns follow first,
// then the remaining keys of the first record in sorted order.
func printRecords(w io.Writer, repo *repository.Repository, rows []repository.Record, format string, first ...string) error {
	display := make([]map[string]string, len(rows))
	for i, r := range rows {
		display[i] = repo.Display(r)
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(display)
	}

	if len(display) == 0 {
		fmt.Fprintln(w, "No records found")
		return nil
	}

	cols := columnOrder(display[0], first)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	for _, d := range display {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i] = d[c]
		}
		fmt.Fprintln(tw, strings.Join(vals, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d record(s)\n", len(display))
	return nil
}

func columnOrder(d map[string]string, first []string) []string {
	seen := make(map[string]bool, len(d))
	var cols []string
	for _, c := range first {
		if _, ok := d[c]; ok && !seen[c] {
			cols = append(cols, c)
			seen[c] = true
		}
	}
	var rest []string
	for c := range d {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(cols, rest...)
}
