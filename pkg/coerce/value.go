package coerce

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
)

// Value coerces v to the canonical value of kind. Strings go through Date,
// Currency, Integer or Flag; values that are already typed (time.Time,
// decimal.Decimal, numbers, bool) are accepted as they are.
//
// Canonical results:
//
//	date      time.Time (midnight UTC)
//	currency  decimal.Decimal
//	integer   int64
//	flag      int (0 or 1)
//	text      trimmed string
//	free_text string as given
func Value(kind fieldmap.Type, v any) (any, bool) {
	if p, ok := v.(*string); ok {
		if p == nil {
			return nil, false
		}
		v = *p
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if Blank(v) {
		return nil, false
	}

	switch kind {
	case fieldmap.TypeDate:
		return toDate(v)
	case fieldmap.TypeCurrency:
		return toDecimal(v)
	case fieldmap.TypeInteger:
		return toInteger(v)
	case fieldmap.TypeFlag:
		return toFlag(v)
	case fieldmap.TypeFreeText:
		if s, ok := v.(string); ok {
			return s, true
		}
		return fmt.Sprint(v), true
	default:
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s), true
		}
		return fmt.Sprint(v), true
	}
}

func toDate(v any) (any, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return nil, false
		}
		return dateOnly(x), true
	case string:
		if t, ok := Date(x); ok {
			return t, true
		}
	}
	return nil, false
}

func toDecimal(v any) (any, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		return decimal.NewFromFloat32(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt32(x), true
	case int64:
		return decimal.NewFromInt(x), true
	case string:
		if d, ok := Currency(x); ok {
			return d, true
		}
	}
	return nil, false
}

func toInteger(v any) (any, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil, false
		}
		return int64(x), true
	case decimal.Decimal:
		if !x.IsInteger() {
			return nil, false
		}
		return x.IntPart(), true
	case string:
		if n, ok := Integer(x); ok {
			return n, true
		}
	}
	return nil, false
}

func toFlag(v any) (any, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return nonzero(int64(x)), true
	case int64:
		return nonzero(x), true
	case float64:
		return nonzero(int64(x)), true
	case string:
		if f, ok := Flag(x); ok {
			return f, true
		}
	}
	return nil, false
}

func nonzero(n int64) int {
	if n != 0 {
		return 1
	}
	return 0
}
