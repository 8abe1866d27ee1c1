// Package fieldmap associates UI-facing field keys with storage column names
// and the semantic type each column is coerced to before it reaches storage.
package fieldmap

import (
	"errors"
	"fmt"
)

// Type is the semantic type of a mapped column.
type Type string

const (
	TypeText     Type = "text"      // short text, trimmed
	TypeDate     Type = "date"      // dd/mm/yyyy at the boundary, native date in storage
	TypeCurrency Type = "currency"  // locale text at the boundary, decimal in storage
	TypeInteger  Type = "integer"   // whole numbers (quantities, deadlines in days)
	TypeFlag     Type = "flag"      // free-form yes/no tokens, 0/1 in storage
	TypeFreeText Type = "free_text" // observations, stored verbatim
)

// Valid reports whether t is one of the known semantic types.
func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeDate, TypeCurrency, TypeInteger, TypeFlag, TypeFreeText:
		return true
	}
	return false
}

var (
	// ErrDuplicateFormKey - form key declared twice in one mapping
	ErrDuplicateFormKey = errors.New("duplicate form key")

	// ErrDuplicateColumn - column declared twice in one mapping
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrInvalidField - empty name or unknown semantic type
	ErrInvalidField = errors.New("invalid field")
)

// Field is one (form key, column, semantic type) triple.
type Field struct {
	FormKey string
	Column  string
	Type    Type
}

// Mapping is the ordered, immutable field mapping of one entity.
// Build it once at startup with New or MustNew.
type Mapping struct {
	fields   []Field
	byForm   map[string]int
	byColumn map[string]int
}

// New validates fields and builds a Mapping.
// Form keys and column names must each be unique within the mapping.
func New(fields ...Field) (*Mapping, error) {
	m := &Mapping{
		fields:   make([]Field, 0, len(fields)),
		byForm:   make(map[string]int, len(fields)),
		byColumn: make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		if f.FormKey == "" || f.Column == "" {
			return nil, fmt.Errorf("%w: empty name in %+v", ErrInvalidField, f)
		}
		if f.Type == "" {
			f.Type = TypeText
		}
		if !f.Type.Valid() {
			return nil, fmt.Errorf("%w: %s has unknown type %q", ErrInvalidField, f.Column, f.Type)
		}
		if _, ok := m.byForm[f.FormKey]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFormKey, f.FormKey)
		}
		if _, ok := m.byColumn[f.Column]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, f.Column)
		}

		m.byForm[f.FormKey] = len(m.fields)
		m.byColumn[f.Column] = len(m.fields)
		m.fields = append(m.fields, f)
	}

	return m, nil
}

// MustNew is New for static declarations; it panics on an invalid mapping.
func MustNew(fields ...Field) *Mapping {
	m, err := New(fields...)
	if err != nil {
		panic(fmt.Sprintf("fieldmap: %v", err))
	}
	return m
}

// Len returns the number of fields.
func (m *Mapping) Len() int {
	return len(m.fields)
}

// Fields returns the fields in declaration order.
func (m *Mapping) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// Columns returns the column names in declaration order.
func (m *Mapping) Columns() []string {
	out := make([]string, len(m.fields))
	for i, f := range m.fields {
		out[i] = f.Column
	}
	return out
}

// Resolve returns the column for a form key; any other key is returned
// unchanged, on the assumption that it already is a column name.
//
//	m.Resolve("Nome_Cli")     // "NOME_CLIENTE"
//	m.Resolve("NOME_CLIENTE") // "NOME_CLIENTE"
func (m *Mapping) Resolve(key string) string {
	if i, ok := m.byForm[key]; ok {
		return m.fields[i].Column
	}
	return key
}

// Tag classifies a raw key submitted by a caller. A declared form key wins;
// everything else is treated as a column name and checked later by Lookup.
func (m *Mapping) Tag(raw string) Key {
	if _, ok := m.byForm[raw]; ok {
		return FormKey(raw)
	}
	return Column(raw)
}

// TagAll tags every key of a string-keyed payload.
func (m *Mapping) TagAll(values map[string]any) map[Key]any {
	out := make(map[Key]any, len(values))
	for k, v := range values {
		out[m.Tag(k)] = v
	}
	return out
}

// Lookup returns the field a tagged key refers to.
func (m *Mapping) Lookup(k Key) (Field, bool) {
	var (
		i  int
		ok bool
	)
	switch k.kind {
	case kindForm:
		i, ok = m.byForm[k.name]
	case kindColumn:
		i, ok = m.byColumn[k.name]
	}
	if !ok {
		return Field{}, false
	}
	return m.fields[i], true
}

// Field returns the field declared for column.
func (m *Mapping) Field(column string) (Field, bool) {
	return m.Lookup(Column(column))
}

// Invert returns column -> form key.
func (m *Mapping) Invert() map[string]string {
	out := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		out[f.Column] = f.FormKey
	}
	return out
}

// ColumnSet resolves keys to a set of columns. Keys that match no field are
// skipped. The result is never nil, so an empty key list admits nothing.
func (m *Mapping) ColumnSet(keys ...Key) ColumnSet {
	set := make(ColumnSet, len(keys))
	for _, k := range keys {
		if f, ok := m.Lookup(k); ok {
			set[f.Column] = struct{}{}
		}
	}
	return set
}
