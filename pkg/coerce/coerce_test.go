package coerce

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
)

func TestDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		raw    string
		want   time.Time
		wantOK bool
	}{
		{"15/03/2024", day(2024, 3, 15), true},
		{"15/03/24", day(2024, 3, 15), true},
		{"5/3/2024", day(2024, 3, 5), true},
		{"01/01/99", day(1999, 1, 1), true},
		{"2024-03-15", day(2024, 3, 15), true},
		{" 2024-03-15 ", day(2024, 3, 15), true},
		{"2024-03-15 10:20:30", day(2024, 3, 15), true},
		{"2024-03-15T00:00:00Z", day(2024, 3, 15), true},
		{"31/13/2024", time.Time{}, false},
		{"31/02/2024", time.Time{}, false},
		{"", time.Time{}, false},
		{"ontem", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Date(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("Date(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Date(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDate_RoundTrip(t *testing.T) {
	start := time.Date(1999, 12, 25, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i += 7 {
		d := start.AddDate(0, 0, i)
		for _, layout := range []string{"02/01/2006", "02/01/06", "2/1/2006"} {
			raw := d.Format(layout)
			got, ok := Date(raw)
			if !ok || !got.Equal(d) {
				t.Fatalf("Date(%q) = %v, %v; want %v", raw, got, ok, d)
			}
		}
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"1.234,56", "1234.56", true},
		{"1234.56", "1234.56", true},
		{"1234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"R$ 1.234.567,89", "1234567.89", true},
		{"-10,5", "-10.5", true},
		{"42", "42", true},
		{"", "", false},
		{"   ", "", false},
		{"abc", "", false},
		{"1,2,3", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Currency(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("Currency(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Currency(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFlag(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"Sim", 1, true},
		{"S", 1, true},
		{"yes", 1, true},
		{"TRUE", 1, true},
		{"1", 1, true},
		{"N", 0, true},
		{"não", 0, true},
		{"NÃO", 0, true},
		{"nao", 0, true},
		{"false", 0, true},
		{"0", 0, true},
		{"7", 1, true},
		{"-2", 1, true},
		{"00", 0, true},
		{"talvez", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Flag(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Flag(%q) = %d, %v; want %d, %v", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestInteger(t *testing.T) {
	if n, ok := Integer("30"); !ok || n != 30 {
		t.Errorf("Integer(30) = %d, %v", n, ok)
	}
	if n, ok := Integer("1.000,00"); !ok || n != 1000 {
		t.Errorf("Integer(1.000,00) = %d, %v", n, ok)
	}
	if _, ok := Integer("1,5"); ok {
		t.Error("Integer(1,5) should be absent")
	}
	if _, ok := Integer("dez"); ok {
		t.Error("Integer(dez) should be absent")
	}
}

func TestValue(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		kind   fieldmap.Type
		in     any
		want   any
		wantOK bool
	}{
		{"nil", fieldmap.TypeText, nil, nil, false},
		{"blank", fieldmap.TypeText, "   ", nil, false},
		{"text trimmed", fieldmap.TypeText, "  ACME  ", "ACME", true},
		{"free text verbatim", fieldmap.TypeFreeText, "  linha 1\nlinha 2 ", "  linha 1\nlinha 2 ", true},
		{"date string", fieldmap.TypeDate, "15/03/2024", date, true},
		{"date time", fieldmap.TypeDate, date.Add(13 * time.Hour), date, true},
		{"date invalid", fieldmap.TypeDate, "31/13/2024", nil, false},
		{"integer string", fieldmap.TypeInteger, "12", int64(12), true},
		{"integer float", fieldmap.TypeInteger, 12.0, int64(12), true},
		{"flag string", fieldmap.TypeFlag, "sim", 1, true},
		{"flag bool", fieldmap.TypeFlag, false, 0, true},
		{"flag bad", fieldmap.TypeFlag, "talvez", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Value(tt.kind, tt.in)
			if ok != tt.wantOK {
				t.Fatalf("Value(%s, %v) ok = %v, want %v", tt.kind, tt.in, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if gt, isTime := got.(time.Time); isTime {
				if !gt.Equal(tt.want.(time.Time)) {
					t.Errorf("Value() = %v, want %v", got, tt.want)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Value() = %#v, want %#v", got, tt.want)
			}
		})
	}

	got, ok := Value(fieldmap.TypeCurrency, "1.234,56")
	if !ok || !got.(decimal.Decimal).Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("Value(currency) = %v, %v", got, ok)
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		kind fieldmap.Type
		in   any
		want string
	}{
		{"nil", fieldmap.TypeText, nil, ""},
		{"date", fieldmap.TypeDate, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "05/03/2024"},
		{"date string", fieldmap.TypeDate, "2024-03-05 00:00:00+00:00", "05/03/2024"},
		{"currency float", fieldmap.TypeCurrency, 1234567.5, "1.234.567,50"},
		{"currency bytes", fieldmap.TypeCurrency, []byte("1234.5600"), "1.234,56"},
		{"currency negative", fieldmap.TypeCurrency, "-999.9", "-999,90"},
		{"currency small", fieldmap.TypeCurrency, int64(12), "12,00"},
		{"integer", fieldmap.TypeInteger, int64(30), "30"},
		{"flag", fieldmap.TypeFlag, int64(1), "Sim"},
		{"flag off", fieldmap.TypeFlag, int64(0), "Não"},
		{"text", fieldmap.TypeText, "ACME", "ACME"},
		{"unparseable date kept", fieldmap.TypeDate, "sem data", "sem data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Display(tt.kind, tt.in); got != tt.want {
				t.Errorf("Display(%s, %v) = %q, want %q", tt.kind, tt.in, got, tt.want)
			}
		})
	}
}

func TestDisplay_RoundTripsThroughCoercion(t *testing.T) {
	d := decimal.RequireFromString("98765.43")
	back, ok := Currency(FormatCurrency(d))
	if !ok || !back.Equal(d) {
		t.Errorf("Currency(FormatCurrency(%s)) = %s, %v", d, back, ok)
	}

	f, ok := Flag(FormatFlag(0))
	if !ok || f != 0 {
		t.Errorf("Flag(FormatFlag(0)) = %d, %v", f, ok)
	}
}
