// Package coerce normalizes raw locale-formatted input into canonical
// dates, decimals and 0/1 flags.
//
// Every function here is pure and total: input that cannot be understood
// yields ok == false ("absent") instead of an error. Callers decide what
// absence means; the write paths never store it over an existing value.
package coerce

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order; the first success wins.
// Single-digit day and month are accepted, as operators type "5/3/2024".
var dateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2006-1-2",
}

// storageLayouts are timestamps echoed back by the drivers. They are tried
// only after the user-facing layouts failed.
var storageLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

var (
	affirmative = map[string]struct{}{"s": {}, "sim": {}, "y": {}, "yes": {}, "1": {}, "true": {}}
	negative    = map[string]struct{}{"n": {}, "nao": {}, "não": {}, "no": {}, "0": {}, "false": {}}
)

// Date parses dd/mm/yyyy, dd/mm/yy or yyyy-mm-dd and returns midnight UTC of
// that calendar day. Two-digit years follow the usual pivot: 69-99 -> 19xx,
// 00-68 -> 20xx.
//
// Examples:
//   - "15/03/2024" -> 2024-03-15
//   - "15/03/24"   -> 2024-03-15
//   - "2024-03-15" -> 2024-03-15
//   - "31/13/2024" -> absent
func Date(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	for _, layout := range storageLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Currency parses a locale-formatted amount.
//
// When both "," and "." appear, the one occurring last is the decimal point
// and the other is a thousands separator. A lone "," is the decimal point.
// A currency symbol and blanks are ignored.
//
// Examples:
//   - "1.234,56"    -> 1234.56
//   - "1,234.56"    -> 1234.56
//   - "1234,56"     -> 1234.56
//   - "R$ 1.234,56" -> 1234.56
//   - "abc", ""     -> absent
func Currency(raw string) (decimal.Decimal, bool) {
	s := normalizeNumber(raw)
	if s == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// normalizeNumber rewrites a locale number into the form decimal and strconv
// accept. It returns "" when nothing numeric is left.
func normalizeNumber(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return ""
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}

// Integer parses a whole number written in either locale ("1.000" is read as
// 1, "1.000,00" as 1000). Fractional values are absent.
func Integer(raw string) (int64, bool) {
	d, ok := Currency(raw)
	if !ok || !d.IsInteger() {
		return 0, false
	}
	return d.IntPart(), true
}

// Flag maps free-form yes/no tokens to 1/0. Any other integer token maps to
// 1 when nonzero. Everything else is absent.
//
// Examples:
//   - "Sim", "Y", "true" -> 1
//   - "N", "não", "0"    -> 0
//   - "7"                -> 1
//   - "talvez"           -> absent
func Flag(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	if _, ok := affirmative[s]; ok {
		return 1, true
	}
	if _, ok := negative[s]; ok {
		return 0, true
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if n != 0 {
		return 1, true
	}
	return 0, true
}

// Blank reports whether v carries no value: nil, or a string that is empty
// after trimming.
func Blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case *string:
		return x == nil || strings.TrimSpace(*x) == ""
	case []byte:
		return strings.TrimSpace(string(x)) == ""
	}
	return false
}
