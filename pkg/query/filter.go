package query

import (
	"strings"
	"time"
	"unicode"

	"github.com/ruslano69/cgm-backoffice/pkg/coerce"
)

// Filter writes one search predicate. An empty result means the filter adds
// no constraint.
type Filter interface {
	Predicate(b *Builder) string
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(b *Builder) string

func (f FilterFunc) Predicate(b *Builder) string { return f(b) }

// Exact matches column = value, or everything when value is blank:
//
//	(@p1 = '' OR [AG] = @p1)
func Exact(column, value string) Filter {
	return FilterFunc(func(b *Builder) string {
		d := b.Dialect()
		p := b.Param(strings.TrimSpace(value))
		return "(" + d.TextParam(b.Ref(p)) + " = '' OR " +
			d.QuoteIdentifier(column) + " = " + d.TextParam(b.Ref(p)) + ")"
	})
}

// Contains matches a case-insensitive substring, or everything when value
// is blank:
//
//	(@p1 = '' OR UPPER([CLIENTE]) LIKE UPPER('%' + @p1 + '%'))
func Contains(column, value string) Filter {
	return FilterFunc(func(b *Builder) string {
		d := b.Dialect()
		p := b.Param(strings.TrimSpace(value))
		blank := d.TextParam(b.Ref(p)) + " = ''"
		pattern := d.Concat("'%'", d.TextParam(b.Ref(p)), "'%'")
		return "(" + blank + " OR UPPER(" +
			d.QuoteIdentifier(column) + ") LIKE UPPER(" + pattern + "))"
	})
}

// Prefix matches values starting with value, or everything when value is blank:
//
//	(@p1 = '' OR [AGENCIA] LIKE @p1 + '%')
func Prefix(column, value string) Filter {
	return FilterFunc(func(b *Builder) string {
		d := b.Dialect()
		p := b.Param(strings.TrimSpace(value))
		return "(" + d.TextParam(b.Ref(p)) + " = '' OR " +
			d.QuoteIdentifier(column) + " LIKE " + d.Concat(d.TextParam(b.Ref(p)), "'%'") + ")"
	})
}

// DateRange restricts column to the calendar days [from, to]. Bounds are
// day/month/year text; a blank or unparseable bound is unconstrained.
func DateRange(column, from, to string) Filter {
	return FilterFunc(func(b *Builder) string {
		col := b.Dialect().QuoteIdentifier(column)
		var preds []string
		if t, ok := coerce.Date(from); ok {
			preds = append(preds, col+" >= "+b.Bind(t))
		}
		if t, ok := coerce.Date(to); ok {
			preds = append(preds, col+" < "+b.Bind(t.Add(24*time.Hour)))
		}
		if len(preds) == 0 {
			return ""
		}
		return "(" + strings.Join(preds, " AND ") + ")"
	})
}

// Digits strips everything but digits: "12.345.678/0001-90" -> "12345678000190".
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
