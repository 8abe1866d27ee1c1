// Package xlsx converts repository records to Excel workbooks and reads
// workbook rows back as text for imports.
package xlsx

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/cgm-backoffice/pkg/coerce"
	"github.com/ruslano69/cgm-backoffice/pkg/entities"
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

const defaultSheet = "Sheet1"

// Column is one exported column: Key is the record key it reads, Header the
// text of the header cell.
type Column struct {
	Key    string
	Header string
	Type   fieldmap.Type
}

// ColumnsFor lists the primary key followed by every mapped field of e,
// headed by form key. It matches records returned by GetByID and by the
// profiles built on the full projection.
func ColumnsFor(e entities.Entity) []Column {
	cols := []Column{{Key: e.PrimaryKey, Header: e.PrimaryKey, Type: fieldmap.TypeInteger}}
	for _, f := range e.Mapping.Fields() {
		cols = append(cols, Column{Key: f.Column, Header: f.FormKey, Type: f.Type})
	}
	return cols
}

// ProjectionColumns lists the columns of a search projection. Aliased
// columns are keyed and headed by alias, others by column and form key.
func ProjectionColumns(e entities.Entity, projection []query.Projection) []Column {
	cols := make([]Column, len(projection))
	for i, p := range projection {
		c := Column{Key: p.Column, Header: p.Column, Type: fieldmap.TypeText}
		if f, ok := e.Mapping.Field(p.Column); ok {
			c.Header, c.Type = f.FormKey, f.Type
		}
		if p.Column == e.PrimaryKey {
			c.Type = fieldmap.TypeInteger
		}
		if p.Alias != "" {
			c.Key, c.Header = p.Alias, p.Alias
		}
		cols[i] = c
	}
	return cols
}

// Export writes rows as one sheet to w. Dates, amounts and integers are
// stored as native Excel values; flags as Sim/Não. A value that does not fit
// its column type is written as text.
//
// Example:
//
//	err := xlsx.Export(w, "Multas", xlsx.ColumnsFor(entities.Multas), rows)
func Export(w io.Writer, sheetName string, cols []Column, rows []map[string]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = defaultSheet
	}
	if sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
	}

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	for c, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheetName, cell, col.Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		f.SetCellStyle(sheetName, cell, cell, st.header)
	}

	for r, row := range rows {
		for c, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			v, style := cellValue(col.Type, row[col.Key], st)
			if v == nil {
				continue
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
			if style != 0 {
				f.SetCellStyle(sheetName, cell, cell, style)
			}
		}
	}

	if len(cols) > 0 {
		last, _ := excelize.ColumnNumberToName(len(cols))
		f.SetColWidth(sheetName, "A", last, 15)
		f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportFile is Export to a file.
func ExportFile(filePath, sheetName string, cols []Column, rows []map[string]any) error {
	w, err := createFile(filePath)
	if err != nil {
		return err
	}
	if err := Export(w, sheetName, cols, rows); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

type styles struct {
	header, date, currency, integer int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return st, fmt.Errorf("failed to create style: %w", err)
	}

	dateFmt, moneyFmt := "dd/mm/yyyy", "#,##0.00"
	if st.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt}); err != nil {
		return st, fmt.Errorf("failed to create style: %w", err)
	}
	if st.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt}); err != nil {
		return st, fmt.Errorf("failed to create style: %w", err)
	}
	if st.integer, err = f.NewStyle(&excelize.Style{NumFmt: 1}); err != nil {
		return st, fmt.Errorf("failed to create style: %w", err)
	}
	return st, nil
}

// cellValue converts a stored value to what excelize should write. A nil
// result leaves the cell empty.
func cellValue(kind fieldmap.Type, v any, st styles) (any, int) {
	if coerce.Blank(v) {
		return nil, 0
	}

	switch kind {
	case fieldmap.TypeDate:
		if t, ok := coerce.Value(kind, v); ok {
			return t, st.date
		}
	case fieldmap.TypeCurrency:
		if d, ok := coerce.Value(kind, v); ok {
			return d.(decimal.Decimal).InexactFloat64(), st.currency
		}
	case fieldmap.TypeInteger:
		if n, ok := coerce.Value(kind, v); ok {
			return n, st.integer
		}
	case fieldmap.TypeFlag:
		return coerce.Display(kind, v), 0
	}
	return coerce.Display(fieldmap.TypeText, v), 0
}
