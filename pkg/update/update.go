// Package update applies partial updates to a single record.
//
// A candidate set of field changes goes through a fixed pipeline before any
// statement is built: every key is resolved through the entity's field
// mapping, columns outside the allowed set are dropped, blank values are
// dropped (an update never overwrites stored data with emptiness), and the
// survivors are coerced according to their semantic type. Whatever is left
// is written with one UPDATE keyed by the record id.
package update

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/ruslano69/cgm-backoffice/pkg/coerce"
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

// ErrUnknownField is returned when a candidate key matches no field of the
// mapping. Nothing is executed in that case.
var ErrUnknownField = errors.New("update: unknown field")

// Reason explains why a candidate field was left out of the statement.
type Reason string

const (
	ReasonNotAllowed  Reason = "not_allowed"
	ReasonBlank       Reason = "blank"
	ReasonUnparseable Reason = "unparseable"
	ReasonDuplicate   Reason = "duplicate"
)

// Request is one partial update.
type Request struct {
	ID        int64
	Candidate map[fieldmap.Key]any

	// Allowed restricts the columns that may be written. nil means every
	// mapped column.
	Allowed fieldmap.ColumnSet
}

// Assignment is one column that will be written, with its canonical value.
type Assignment struct {
	Column string
	Value  any
}

// Dropped is a candidate field that will not be written.
type Dropped struct {
	Key    fieldmap.Key
	Column string
	Reason Reason
}

// Plan is the outcome of resolving, filtering and coercing a candidate.
type Plan struct {
	Set     []Assignment
	Dropped []Dropped
}

// Empty reports whether the plan writes nothing.
func (p Plan) Empty() bool { return len(p.Set) == 0 }

// Columns returns the written columns in mapping order.
func (p Plan) Columns() []string {
	cols := make([]string, len(p.Set))
	for i, a := range p.Set {
		cols[i] = a.Column
	}
	return cols
}

// Values returns the canonical values, parallel to Columns.
func (p Plan) Values() []any {
	vals := make([]any, len(p.Set))
	for i, a := range p.Set {
		vals[i] = a.Value
	}
	return vals
}

// NewPlan resolves req against m. Assignments follow the mapping's field
// order. When a field is addressed both by form key and by column name the
// form key wins.
//
// A key that matches no field is an ErrUnknownField when req.Allowed is nil;
// with an allowed set it is dropped as not allowed.
func NewPlan(m *fieldmap.Mapping, req Request) (Plan, error) {
	var plan Plan
	if len(req.Candidate) == 0 {
		return plan, nil
	}

	var unknown []fieldmap.Key
	for k := range req.Candidate {
		if _, ok := m.Lookup(k); !ok {
			if req.Allowed == nil {
				return Plan{}, fmt.Errorf("%w: %s", ErrUnknownField, k)
			}
			unknown = append(unknown, k)
		}
	}
	// an unmapped key can never be in the allowed set
	sort.Slice(unknown, func(i, j int) bool { return unknown[i].String() < unknown[j].String() })
	for _, k := range unknown {
		plan.Dropped = append(plan.Dropped, Dropped{Key: k, Column: k.Name(), Reason: ReasonNotAllowed})
	}

	for _, f := range m.Fields() {
		fk, ck := fieldmap.FormKey(f.FormKey), fieldmap.Column(f.Column)
		v, hasForm := req.Candidate[fk]
		key := fk
		if !hasForm {
			var hasCol bool
			if v, hasCol = req.Candidate[ck]; !hasCol {
				continue
			}
			key = ck
		} else if _, dup := req.Candidate[ck]; dup {
			plan.Dropped = append(plan.Dropped, Dropped{Key: ck, Column: f.Column, Reason: ReasonDuplicate})
		}

		switch {
		case !req.Allowed.Allows(f.Column):
			plan.Dropped = append(plan.Dropped, Dropped{Key: key, Column: f.Column, Reason: ReasonNotAllowed})
		case coerce.Blank(v):
			plan.Dropped = append(plan.Dropped, Dropped{Key: key, Column: f.Column, Reason: ReasonBlank})
		default:
			cv, ok := coerce.Value(f.Type, v)
			if !ok {
				plan.Dropped = append(plan.Dropped, Dropped{Key: key, Column: f.Column, Reason: ReasonUnparseable})
				continue
			}
			plan.Set = append(plan.Set, Assignment{Column: f.Column, Value: cv})
		}
	}
	return plan, nil
}

// Executor runs a write statement and reports the affected row count.
type Executor interface {
	Exec(ctx context.Context, st query.Statement) (int64, error)
	Dialect() query.Dialect
}

// Target identifies the table an Engine writes to.
type Target struct {
	Table      string
	PrimaryKey string
	Mapping    *fieldmap.Mapping
}

// Engine applies partial updates through an Executor.
type Engine struct {
	exec Executor
}

// NewEngine creates an Engine.
func NewEngine(exec Executor) *Engine {
	return &Engine{exec: exec}
}

// Apply plans req and, if anything survives, executes one UPDATE.
//
// It returns false with a nil error when there is nothing to write; a
// storage failure is returned as an error and must be reported by the
// caller.
func (e *Engine) Apply(ctx context.Context, t Target, req Request) (bool, error) {
	plan, err := NewPlan(t.Mapping, req)
	if err != nil {
		return false, err
	}
	return e.Execute(ctx, t, req.ID, plan)
}

// Execute writes a plan built by NewPlan to the record id with one UPDATE.
// An empty plan issues nothing and returns false.
func (e *Engine) Execute(ctx context.Context, t Target, id int64, plan Plan) (bool, error) {
	for _, d := range plan.Dropped {
		log.Debug().Str("table", t.Table).Int64("id", id).
			Str("key", d.Key.String()).Str("reason", string(d.Reason)).
			Msg("update field dropped")
	}
	if plan.Empty() {
		return false, nil
	}

	st, err := query.Update(e.exec.Dialect(), t.Table, t.PrimaryKey, id, plan.Columns(), plan.Values())
	if err != nil {
		return false, err
	}

	n, err := e.exec.Exec(ctx, st)
	if err != nil {
		return false, fmt.Errorf("update %s id=%d: %w", t.Table, id, err)
	}

	log.Debug().Str("table", t.Table).Int64("id", id).
		Strs("columns", plan.Columns()).Int64("rows", n).
		Msg("record updated")
	return true, nil
}
