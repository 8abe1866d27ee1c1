package xlsx

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruslano69/cgm-backoffice/pkg/entities"
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
)

func TestExportAndReadRows(t *testing.T) {
	cols := []Column{
		{Key: "Id", Header: "Id", Type: fieldmap.TypeInteger},
		{Key: "CLIENTE", Header: "CLIENTE"},
		{Key: "DATA_NEG", Header: "DATA_NEG", Type: fieldmap.TypeDate},
		{Key: "VALOR_TARIFA", Header: "VALOR_TARIFA", Type: fieldmap.TypeCurrency},
		{Key: "NEG_ESP", Header: "NEG_ESP", Type: fieldmap.TypeFlag},
	}
	rows := []map[string]any{
		{
			"Id":           int64(1),
			"CLIENTE":      "ACME LTDA",
			"DATA_NEG":     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			"VALOR_TARIFA": decimal.RequireFromString("1234.56"),
			"NEG_ESP":      int64(1),
		},
		{
			"Id":       int64(2),
			"CLIENTE":  "Padaria",
			"DATA_NEG": nil,
			"NEG_ESP":  int64(0),
		},
	}

	var buf bytes.Buffer
	if err := Export(&buf, "Multas", cols, rows); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	got, err := ReadRows(bytes.NewReader(buf.Bytes()), "Multas")
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}

	header := []string{"Id", "CLIENTE", "DATA_NEG", "VALOR_TARIFA", "NEG_ESP"}
	for i, h := range header {
		if got[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, got[0][i], h)
		}
	}

	want := []string{"1", "ACME LTDA", "15/03/2024", "1,234.56", "Sim"}
	for i, v := range want {
		if got[1][i] != v {
			t.Errorf("row 1 col %d = %q, want %q", i, got[1][i], v)
		}
	}
	if got[2][2] != "" || got[2][3] != "" {
		t.Errorf("NULL values exported as %q, %q", got[2][2], got[2][3])
	}
	if got[2][4] != "Não" {
		t.Errorf("flag 0 exported as %q", got[2][4])
	}
}

func TestReadRows_FirstSheetAndEmptyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.xlsx")
	rows := []map[string]any{{"a": "x"}, {"a": ""}, {"a": "y"}}
	if err := ExportFile(path, "", []Column{{Key: "a", Header: "A"}}, rows); err != nil {
		t.Fatalf("ExportFile() error = %v", err)
	}

	got, err := ReadFile(path, "")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %v, want header and 2 rows", got)
	}
	if got[2][0] != "y" {
		t.Errorf("last row = %v", got[2])
	}
}

func TestReadRows_NotAWorkbook(t *testing.T) {
	if _, err := ReadRows(bytes.NewReader([]byte("AG;CC\n1;2\n")), ""); err == nil {
		t.Fatal("expected error for CSV content")
	}
}

func TestColumnsFor(t *testing.T) {
	cols := ColumnsFor(entities.Estorno)
	if cols[0].Key != "Id" {
		t.Errorf("first column = %+v, want primary key", cols[0])
	}
	if len(cols) != entities.Estorno.Mapping.Len()+1 {
		t.Errorf("got %d columns", len(cols))
	}
	for _, c := range cols[1:] {
		if c.Header == "CLIENTE" && c.Key != "NOME_CLIENTE" {
			t.Errorf("CLIENTE reads %s", c.Key)
		}
	}
}

func TestProjectionColumns(t *testing.T) {
	p, err := entities.Multas.Profile(entities.ProfileCadastro)
	if err != nil {
		t.Fatal(err)
	}
	cols := ProjectionColumns(entities.Multas, p.Projection)
	if cols[0].Key != "id" || cols[0].Type != fieldmap.TypeInteger {
		t.Errorf("primary key column = %+v", cols[0])
	}
	for _, c := range cols {
		if c.Key == "AUTORIZACAO" && c.Header != "AUTORIZAÇÃO" {
			t.Errorf("AUTORIZACAO headed %q, want form key", c.Header)
		}
		if c.Key == "VALOR_TARIFA" && c.Type != fieldmap.TypeCurrency {
			t.Errorf("VALOR_TARIFA type = %s", c.Type)
		}
	}

	search, _ := entities.Multas.Profile(entities.ProfileSearch)
	cols = ProjectionColumns(entities.Multas, search.Projection)
	if cols[0].Key != "Cliente" || cols[0].Header != "Cliente" {
		t.Errorf("aliased column = %+v", cols[0])
	}
}
