package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/xlsx"
)

var testMap = fieldmap.MustNew(
	fieldmap.Field{FormKey: "AGÊNCIA", Column: "AG"},
	fieldmap.Field{FormKey: "CLIENTE", Column: "NOME_CLIENTE"},
	fieldmap.Field{FormKey: "DATA", Column: "DATA_ENT", Type: fieldmap.TypeDate},
	fieldmap.Field{FormKey: "VALOR", Column: "VALOR", Type: fieldmap.TypeCurrency},
)

type recorder struct {
	rows   []map[fieldmap.Key]any
	failOn string
}

func (r *recorder) Insert(_ context.Context, values map[fieldmap.Key]any) error {
	if values[fieldmap.FormKey("CLIENTE")] == r.failOn {
		return errors.New("constraint violation")
	}
	r.rows = append(r.rows, values)
	return nil
}

func TestReadCSV_Separators(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{"semicolon", "0001;ACME, LTDA;15/03/2024;1.234,56\n", [][]string{{"0001", "ACME, LTDA", "15/03/2024", "1.234,56"}}},
		{"comma", "0001,ACME,15/03/2024,\"1,234.56\"\n", [][]string{{"0001", "ACME", "15/03/2024", "1,234.56"}}},
		{"bom and ragged rows", "\ufeffAG;CLIENTE\n0001;ACME;15/03/2024\n", [][]string{{"AG", "CLIENTE"}, {"0001", "ACME", "15/03/2024"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCSV(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("ReadCSV() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if strings.Join(got[i], "|") != strings.Join(tt.want[i], "|") {
					t.Errorf("row %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIsHeader(t *testing.T) {
	tests := []struct {
		row  []string
		want bool
	}{
		{[]string{"AGÊNCIA", "CLIENTE", "DATA", "VALOR"}, true},
		{[]string{"AG", "NOME_CLIENTE"}, true},
		{[]string{" AG ", "", "DATA"}, true},
		{[]string{"0001", "ACME"}, false},
		{[]string{"AG", "BOLETO"}, false},
		{[]string{"", " "}, false},
	}
	for _, tt := range tests {
		if got := IsHeader(testMap, tt.row); got != tt.want {
			t.Errorf("IsHeader(%q) = %v, want %v", tt.row, got, tt.want)
		}
	}
}

func TestImport_OrderPrevailsOverHeader(t *testing.T) {
	rec := &recorder{}
	rows := [][]string{
		{"CLIENTE", "AGÊNCIA"}, // header in the wrong order is still only skipped
		{"0001", "ACME"},
	}

	res, err := Import(context.Background(), rec, testMap, rows)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Rows != 1 || res.Inserted != 1 {
		t.Fatalf("Result = %+v", res)
	}
	if rec.rows[0][fieldmap.FormKey("AGÊNCIA")] != "0001" || rec.rows[0][fieldmap.FormKey("CLIENTE")] != "ACME" {
		t.Errorf("inserted %v", rec.rows[0])
	}
}

func TestImport_BestEffort(t *testing.T) {
	rec := &recorder{failOn: "RUIM"}
	rows := [][]string{
		{"0001", "BOM", "15/03/2024"},
		{"0002", "RUIM"},
		{"0003", "LONGA", "", "1,00", "extra"},
		{"0004", "OUTRO"},
	}

	res, err := Import(context.Background(), rec, testMap, rows)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Rows != 4 || res.Inserted != 2 || len(res.Failed) != 2 {
		t.Fatalf("Result = %+v", res)
	}
	if res.Failed[0].Item != 2 || res.Failed[1].Item != 3 {
		t.Errorf("failed lines = %d, %d, want 2, 3", res.Failed[0].Item, res.Failed[1].Item)
	}
	if !errors.Is(res.Failed[1].Err, ErrTooManyColumns) {
		t.Errorf("line 3 error = %v", res.Failed[1].Err)
	}
}

func TestImport_NoRows(t *testing.T) {
	if _, err := Import(context.Background(), &recorder{}, testMap, [][]string{{"AG", "CLIENTE"}}); !errors.Is(err, ErrNoRows) {
		t.Errorf("header only: error = %v", err)
	}
	if _, err := Import(context.Background(), &recorder{}, testMap, nil); !errors.Is(err, ErrNoRows) {
		t.Errorf("empty: error = %v", err)
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "estornos.csv")
	if err := os.WriteFile(csvPath, []byte("AG;CLIENTE\n0001;ACME\n0002;Padaria\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	xlsxPath := filepath.Join(dir, "estornos.xlsx")
	cols := []xlsx.Column{{Key: "ag", Header: "AGÊNCIA"}, {Key: "cli", Header: "CLIENTE"}}
	if err := xlsx.ExportFile(xlsxPath, "", cols, []map[string]any{{"ag": "0003", "cli": "Mercado"}}); err != nil {
		t.Fatal(err)
	}

	for path, want := range map[string]int{csvPath: 2, xlsxPath: 1} {
		rec := &recorder{}
		res, err := ImportFile(context.Background(), rec, testMap, path, "")
		if err != nil {
			t.Fatalf("%s: ImportFile() error = %v", filepath.Base(path), err)
		}
		if res.Inserted != want {
			t.Errorf("%s: inserted %d, want %d", filepath.Base(path), res.Inserted, want)
		}
	}

	if _, err := ImportFile(context.Background(), &recorder{}, testMap, filepath.Join(dir, "old.xls"), ""); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf(".xls: error = %v", err)
	}
}

func TestColumns(t *testing.T) {
	if got := strings.Join(Columns(testMap), ","); got != "AGÊNCIA,CLIENTE,DATA,VALOR" {
		t.Errorf("Columns() = %s", got)
	}
}
