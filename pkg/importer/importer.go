// Package importer loads CSV and XLSX files into an entity, one insert per
// row, with the same best-effort semantics as batch deletes.
//
// Files carry the entity's mapped fields in mapping order. A header row is
// optional and, when present, is only skipped: column position decides the
// field, not the header text.
package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ruslano69/cgm-backoffice/pkg/batch"
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/xlsx"
)

var (
	// ErrNoRows - файл не содержит строк данных
	ErrNoRows = errors.New("importer: no data rows")

	// ErrUnsupportedFormat - расширение файла не поддерживается
	ErrUnsupportedFormat = errors.New("importer: unsupported file format")

	// ErrTooManyColumns - в строке больше колонок, чем полей у сущности
	ErrTooManyColumns = errors.New("importer: more columns than mapped fields")
)

// Inserter writes one record keyed by tagged field keys.
type Inserter interface {
	Insert(ctx context.Context, values map[fieldmap.Key]any) error
}

// Result summarizes an import. Failed items are 1-based line numbers in the
// file, header included.
type Result struct {
	Rows     int
	Inserted int
	Failed   []batch.Failure[int]
}

// Columns returns the expected column order: the form keys of m.
func Columns(m *fieldmap.Mapping) []string {
	fields := m.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.FormKey
	}
	return out
}

// IsHeader reports whether every non-blank cell of row names a field of m,
// by form key or column.
func IsHeader(m *fieldmap.Mapping, row []string) bool {
	named := 0
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if _, ok := m.Lookup(m.Tag(cell)); !ok {
			return false
		}
		named++
	}
	return named > 0
}

// Import inserts rows through ins. Rows that fail are reported and the rest
// are still inserted; nothing is rolled back.
func Import(ctx context.Context, ins Inserter, m *fieldmap.Mapping, rows [][]string) (Result, error) {
	first := 0
	if len(rows) > 0 && IsHeader(m, rows[0]) {
		first = 1
	}
	if len(rows) <= first {
		return Result{}, ErrNoRows
	}

	fields := m.Fields()
	lines := make([]int, 0, len(rows)-first)
	for i := first; i < len(rows); i++ {
		lines = append(lines, i+1)
	}

	res := batch.Run(ctx, "import", lines, func(ctx context.Context, line int) (bool, error) {
		row := rows[line-1]
		if len(row) > len(fields) {
			return false, fmt.Errorf("%w: %d > %d", ErrTooManyColumns, len(row), len(fields))
		}
		values := make(map[fieldmap.Key]any, len(row))
		for i, cell := range row {
			values[fieldmap.FormKey(fields[i].FormKey)] = cell
		}
		if err := ins.Insert(ctx, values); err != nil {
			return false, err
		}
		return true, nil
	})

	log.Info().Int("rows", res.Requested).Int("inserted", res.Succeeded).
		Int("failed", len(res.Failed)).Msg("import finished")
	return Result{Rows: res.Requested, Inserted: res.Succeeded, Failed: res.Failed}, nil
}

// ReadCSV reads comma- or semicolon-separated rows. The separator is the one
// that occurs more often in the first line; a UTF-8 BOM is dropped.
func ReadCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}

	head, _ := br.Peek(4096)
	firstLine, _, _ := bytes.Cut(head, []byte("\n"))

	cr := csv.NewReader(br)
	cr.Comma = DetectComma(string(firstLine))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// DetectComma picks ';' when it outnumbers ',' in line.
func DetectComma(line string) rune {
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

// ReadFile reads a .csv or .xlsx file. sheet applies to workbooks only;
// empty selects the first sheet.
func ReadFile(path, sheet string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		return xlsx.ReadFile(path, sheet)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ImportFile is ReadFile followed by Import.
func ImportFile(ctx context.Context, ins Inserter, m *fieldmap.Mapping, path, sheet string) (Result, error) {
	rows, err := ReadFile(path, sheet)
	if err != nil {
		return Result{}, err
	}
	return Import(ctx, ins, m, rows)
}
