// Package entities declares the tariff-exception record types handled by the
// back office. An Entity is pure data: table, key, field mapping, recent-list
// projection and search profiles. All behavior lives in pkg/repository.
package entities

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

var (
	// ErrUnknownEntity - имя сущности не зарегистрировано
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrUnknownProfile - профиль поиска не объявлен у сущности
	ErrUnknownProfile = errors.New("unknown search profile")

	// ErrUnknownCriterion - критерий не объявлен в профиле поиска
	ErrUnknownCriterion = errors.New("unknown search criterion")
)

// Standard profile names.
const (
	ProfileSearch   = "search"   // quick lookup from the entity's landing page
	ProfileCadastro = "cadastro" // register screen: agency, account, client, tariff
	ProfileConsulta = "consulta" // consult screen
)

// Match selects how a criterion constrains its column.
type Match int

const (
	MatchExact Match = iota
	MatchContains
	MatchPrefix
	MatchSince // date column on or after the value
	MatchUntil // date column on or before the value
)

func (m Match) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchContains:
		return "contains"
	case MatchPrefix:
		return "prefix"
	case MatchSince:
		return "since"
	case MatchUntil:
		return "until"
	}
	return fmt.Sprintf("Match(%d)", int(m))
}

// Criterion is one named search input.
type Criterion struct {
	Name   string
	Column string
	Match  Match

	// Normalize rewrites the raw input before binding, e.g. query.Digits.
	Normalize func(string) string
}

// Filter builds the predicate for value.
func (c Criterion) Filter(value string) query.Filter {
	if c.Normalize != nil {
		value = c.Normalize(value)
	}
	switch c.Match {
	case MatchContains:
		return query.Contains(c.Column, value)
	case MatchPrefix:
		return query.Prefix(c.Column, value)
	case MatchSince:
		return query.DateRange(c.Column, value, "")
	case MatchUntil:
		return query.DateRange(c.Column, "", value)
	default:
		return query.Exact(c.Column, value)
	}
}

// Profile is a named search screen: the columns it shows and the criteria it
// accepts.
type Profile struct {
	Name       string
	Projection []query.Projection
	Criteria   []Criterion
}

// Filters builds one filter per declared criterion, in declaration order.
// Missing criteria are bound as blank and constrain nothing; names not
// declared by the profile are rejected.
func (p Profile) Filters(values map[string]string) ([]query.Filter, error) {
	known := make(map[string]struct{}, len(p.Criteria))
	for _, c := range p.Criteria {
		known[c.Name] = struct{}{}
	}
	for name := range values {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: %s (profile %s)", ErrUnknownCriterion, name, p.Name)
		}
	}

	filters := make([]query.Filter, len(p.Criteria))
	for i, c := range p.Criteria {
		filters[i] = c.Filter(values[c.Name])
	}
	return filters, nil
}

// CriterionNames lists the accepted criteria in declaration order.
func (p Profile) CriterionNames() []string {
	out := make([]string, len(p.Criteria))
	for i, c := range p.Criteria {
		out[i] = c.Name
	}
	return out
}

// Entity describes one record type.
type Entity struct {
	Name       string // registry key, lower case
	Title      string
	Table      string
	PrimaryKey string
	DateColumn string // most-recent-first ordering

	Mapping *fieldmap.Mapping

	// Stamps are timestamp columns filled by storage on insert. They can be
	// read and ordered by but are never written.
	Stamps []string

	RecentProjection []query.Projection
	RecentOrder      []query.Order

	// SearchOrder defaults to DateColumn descending.
	SearchOrder []query.Order

	Profiles []Profile
}

// Profile returns the search profile called name.
func (e Entity) Profile(name string) (Profile, error) {
	for _, p := range e.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s (entity %s)", ErrUnknownProfile, name, e.Name)
}

// Order returns the search ordering.
func (e Entity) Order() []query.Order {
	if len(e.SearchOrder) > 0 {
		return e.SearchOrder
	}
	return []query.Order{{Column: e.DateColumn, Desc: true}}
}

// Validate checks that every column referenced by projections, orders and
// criteria is the primary key, a stamp or a mapped column.
func (e Entity) Validate() error {
	if e.Name == "" || e.Table == "" || e.PrimaryKey == "" || e.Mapping == nil {
		return fmt.Errorf("entity %q: name, table, primary key and mapping are required", e.Name)
	}

	known := map[string]bool{e.PrimaryKey: true}
	for _, c := range e.Mapping.Columns() {
		known[c] = true
	}
	for _, c := range e.Stamps {
		known[c] = true
	}

	var missing []string
	check := func(where, col string) {
		if !known[col] {
			missing = append(missing, where+":"+col)
		}
	}

	check("date", e.DateColumn)
	for _, p := range e.RecentProjection {
		check("recent", p.Column)
	}
	for _, o := range e.RecentOrder {
		check("recent order", o.Column)
	}
	for _, o := range e.Order() {
		check("order", o.Column)
	}
	for _, prof := range e.Profiles {
		for _, p := range prof.Projection {
			check(prof.Name, p.Column)
		}
		for _, c := range prof.Criteria {
			check(prof.Name, c.Column)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("entity %s: unknown columns %s", e.Name, strings.Join(missing, ", "))
	}
	return nil
}

// ========== Registry ==========

var registry = map[string]Entity{}

func register(e Entity) {
	if err := e.Validate(); err != nil {
		panic(err)
	}
	if _, ok := registry[e.Name]; ok {
		panic("entities: duplicate entity " + e.Name)
	}
	registry[e.Name] = e
}

// Lookup returns the entity registered as name (case-insensitive).
func Lookup(name string) (Entity, error) {
	e, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entity{}, fmt.Errorf("%w: %s (available: %s)", ErrUnknownEntity, name, strings.Join(Names(), ", "))
	}
	return e, nil
}

// Names returns the registered entity names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All returns every registered entity, sorted by name.
func All() []Entity {
	names := Names()
	out := make([]Entity, len(names))
	for i, n := range names {
		out[i] = registry[n]
	}
	return out
}

// fullProjection selects the primary key as "id" followed by every mapped
// column in mapping order.
func fullProjection(pk string, m *fieldmap.Mapping) []query.Projection {
	out := []query.Projection{{Column: pk, Alias: "id"}}
	for _, c := range m.Columns() {
		out = append(out, query.Projection{Column: c})
	}
	return out
}

// text is a COALESCE(column, '') projection.
func text(column, alias string) query.Projection {
	return query.Projection{Column: column, Alias: alias, Coalesce: true}
}

// dateOrNow is a projection of a date column that shows today when NULL.
func dateOrNow(column, alias string) query.Projection {
	return query.Projection{Column: column, Alias: alias, OrNow: true}
}

func exact(name, column string) Criterion {
	return Criterion{Name: name, Column: column, Match: MatchExact}
}

func contains(name, column string) Criterion {
	return Criterion{Name: name, Column: column, Match: MatchContains}
}

// registerCriteria are the register-screen inputs shared by the tariff
// tables: agency and account exact, client contains, tariff exact.
func registerCriteria(ag, cc, cli, tar string) []Criterion {
	return []Criterion{
		exact("ag", ag),
		exact("cc", cc),
		contains("cli", cli),
		exact("tar", tar),
	}
}

// period adds the "de"/"ate" date criteria over column.
func period(column string) []Criterion {
	return []Criterion{
		{Name: "de", Column: column, Match: MatchSince},
		{Name: "ate", Column: column, Match: MatchUntil},
	}
}
