package xlsx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadRows returns every row of the sheet as displayed text, the way a user
// sees it in Excel: dates come back as dd/mm/yyyy when the cell is formatted
// so. Trailing empty cells are trimmed by excelize; empty rows are skipped.
// An empty sheetName reads the first sheet.
func ReadRows(r io.Reader, sheetName string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	out := rows[:0]
	for _, row := range rows {
		if !emptyRow(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

// ReadFile is ReadRows on a file.
func ReadFile(filePath, sheetName string) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return ReadRows(f, sheetName)
}

func emptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func createFile(filePath string) (*os.File, error) {
	w, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return w, nil
}
