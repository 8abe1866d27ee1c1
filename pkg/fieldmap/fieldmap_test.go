package fieldmap

import (
	"errors"
	"testing"
)

func testMapping(t *testing.T) *Mapping {
	t.Helper()
	m, err := New(
		Field{FormKey: "Nome_Cli", Column: "NOME_CLIENTE", Type: TypeText},
		Field{FormKey: "Data_Neg", Column: "DATA_NEG", Type: TypeDate},
		Field{FormKey: "Vlr_Auto", Column: "VALOR_REQUERIDO", Type: TypeCurrency},
		Field{FormKey: "CNPJ", Column: "CNPJ"},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestResolve_FormKeyAndColumn(t *testing.T) {
	m := testMapping(t)

	if got := m.Resolve("Nome_Cli"); got != "NOME_CLIENTE" {
		t.Errorf("Resolve(Nome_Cli) = %q, want NOME_CLIENTE", got)
	}
	if got := m.Resolve("NOME_CLIENTE"); got != "NOME_CLIENTE" {
		t.Errorf("Resolve(NOME_CLIENTE) = %q, want NOME_CLIENTE", got)
	}
	if got := m.Resolve("UNKNOWN"); got != "UNKNOWN" {
		t.Errorf("Resolve(UNKNOWN) = %q, want pass-through", got)
	}
}

func TestNew_DefaultsToText(t *testing.T) {
	m := testMapping(t)
	f, ok := m.Field("CNPJ")
	if !ok {
		t.Fatal("CNPJ not found")
	}
	if f.Type != TypeText {
		t.Errorf("type = %q, want text", f.Type)
	}
}

func TestNew_RejectsDuplicates(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		want   error
	}{
		{
			name: "form key",
			fields: []Field{
				{FormKey: "A", Column: "COL_A"},
				{FormKey: "A", Column: "COL_B"},
			},
			want: ErrDuplicateFormKey,
		},
		{
			name: "column",
			fields: []Field{
				{FormKey: "A", Column: "COL"},
				{FormKey: "B", Column: "COL"},
			},
			want: ErrDuplicateColumn,
		},
		{
			name:   "empty column",
			fields: []Field{{FormKey: "A"}},
			want:   ErrInvalidField,
		},
		{
			name:   "unknown type",
			fields: []Field{{FormKey: "A", Column: "A", Type: "money"}},
			want:   ErrInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fields...)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTagAndLookup(t *testing.T) {
	m := testMapping(t)

	k := m.Tag("Data_Neg")
	if !k.IsFormKey() {
		t.Fatalf("Tag(Data_Neg) = %v, want form key", k)
	}
	f, ok := m.Lookup(k)
	if !ok || f.Column != "DATA_NEG" {
		t.Errorf("Lookup(%v) = %+v, %v", k, f, ok)
	}

	k = m.Tag("VALOR_REQUERIDO")
	if !k.IsColumn() {
		t.Fatalf("Tag(VALOR_REQUERIDO) = %v, want column", k)
	}
	if f, ok := m.Lookup(k); !ok || f.Type != TypeCurrency {
		t.Errorf("Lookup(%v) = %+v, %v", k, f, ok)
	}

	// A column name is not accepted where a form key was declared, and vice versa.
	if _, ok := m.Lookup(FormKey("NOME_CLIENTE")); ok {
		t.Error("Lookup(FormKey(NOME_CLIENTE)) should fail")
	}
	if _, ok := m.Lookup(Column("Nome_Cli")); ok {
		t.Error("Lookup(Column(Nome_Cli)) should fail")
	}
	if _, ok := m.Lookup(Key{}); ok {
		t.Error("zero Key should match nothing")
	}
}

func TestInvert(t *testing.T) {
	m := testMapping(t)
	inv := m.Invert()

	if inv["NOME_CLIENTE"] != "Nome_Cli" {
		t.Errorf("Invert()[NOME_CLIENTE] = %q", inv["NOME_CLIENTE"])
	}
	if len(inv) != m.Len() {
		t.Errorf("len(Invert()) = %d, want %d", len(inv), m.Len())
	}
}

func TestColumnSet(t *testing.T) {
	m := testMapping(t)

	set := m.ColumnSet(FormKey("Nome_Cli"), Column("CNPJ"), Column("NOPE"))
	if got := set.Sorted(); len(got) != 2 || got[0] != "CNPJ" || got[1] != "NOME_CLIENTE" {
		t.Errorf("ColumnSet = %v", got)
	}

	var unrestricted ColumnSet
	if !unrestricted.Allows("ANY") {
		t.Error("nil ColumnSet must allow everything")
	}
	if m.ColumnSet().Allows("CNPJ") {
		t.Error("empty ColumnSet must allow nothing")
	}
}
