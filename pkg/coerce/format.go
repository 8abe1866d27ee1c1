package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
)

// DisplayDateLayout is the day/month/year form dates are exchanged in.
const DisplayDateLayout = "02/01/2006"

// FormatDate renders t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayDateLayout)
}

// FormatCurrency renders d with two decimals, "." thousands separators and
// "," as decimal point: 1234.5 -> "1.234,50".
func FormatCurrency(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "," + frac
}

// FormatFlag renders a 0/1 flag as "Sim"/"Não".
func FormatFlag(f int) string {
	if f != 0 {
		return "Sim"
	}
	return "Não"
}

// Display turns a value read from storage into the display-ready string the
// UI consumes. Values that do not fit kind are rendered as they are.
func Display(kind fieldmap.Type, v any) string {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if v == nil {
		return ""
	}

	switch kind {
	case fieldmap.TypeDate:
		switch x := v.(type) {
		case time.Time:
			return FormatDate(x)
		case string:
			if t, ok := Date(x); ok {
				return FormatDate(t)
			}
		}
	case fieldmap.TypeCurrency:
		if d, ok := toDecimal(v); ok {
			return FormatCurrency(d.(decimal.Decimal))
		}
	case fieldmap.TypeInteger:
		if n, ok := toInteger(v); ok {
			return strconv.FormatInt(n.(int64), 10)
		}
	case fieldmap.TypeFlag:
		if f, ok := toFlag(v); ok {
			return FormatFlag(f.(int))
		}
	}

	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return FormatDate(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
