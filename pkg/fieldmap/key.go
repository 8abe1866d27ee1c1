package fieldmap

import "sort"

type keyKind uint8

const (
	kindForm keyKind = iota + 1
	kindColumn
)

// Key names a field either by its form key or by its storage column.
// The zero Key matches nothing.
type Key struct {
	kind keyKind
	name string
}

// FormKey tags name as a UI form key.
func FormKey(name string) Key {
	return Key{kind: kindForm, name: name}
}

// Column tags name as a storage column name.
func Column(name string) Key {
	return Key{kind: kindColumn, name: name}
}

// Name returns the untagged name.
func (k Key) Name() string {
	return k.name
}

// IsFormKey reports whether k was tagged as a form key.
func (k Key) IsFormKey() bool {
	return k.kind == kindForm
}

// IsColumn reports whether k was tagged as a column name.
func (k Key) IsColumn() bool {
	return k.kind == kindColumn
}

func (k Key) String() string {
	switch k.kind {
	case kindForm:
		return "form:" + k.name
	case kindColumn:
		return "column:" + k.name
	}
	return "<none>"
}

// ColumnSet is a set of column names. A nil ColumnSet means "unrestricted";
// a non-nil empty one admits nothing.
type ColumnSet map[string]struct{}

// Columns builds a ColumnSet from plain column names.
func Columns(names ...string) ColumnSet {
	set := make(ColumnSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Allows reports whether column may be written.
func (s ColumnSet) Allows(column string) bool {
	if s == nil {
		return true
	}
	_, ok := s[column]
	return ok
}

// Sorted returns the set members in lexical order.
func (s ColumnSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
