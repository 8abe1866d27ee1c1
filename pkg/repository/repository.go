// Package repository is the generic data-access facade over one entity.
//
// A Repository is parameterized entirely by an entities.Entity; the five
// tariff-exception record types share this single implementation. Keys
// arriving from the UI must already be tagged (fieldmap.Mapping.Tag) before
// they reach Insert or Update.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/audit"
	"github.com/ruslano69/cgm-backoffice/pkg/batch"
	"github.com/ruslano69/cgm-backoffice/pkg/coerce"
	"github.com/ruslano69/cgm-backoffice/pkg/entities"
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/metrics"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
	"github.com/ruslano69/cgm-backoffice/pkg/update"
)

// DefaultRecentLimit is used by Recent when limit is not positive.
const DefaultRecentLimit = 20

// Record is one row as read from storage, keyed by column or alias.
type Record map[string]any

// Option configures a Repository.
type Option func(*Repository)

// WithAudit records every mutating call in l.
func WithAudit(l audit.Logger) Option {
	return func(r *Repository) { r.audit = l }
}

// WithUser sets the user written to the action history.
func WithUser(user string) Option {
	return func(r *Repository) { r.user = user }
}

// WithMetrics instruments every call.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Repository) { r.metrics = m }
}

// Repository reads and writes one entity through a shared Provider.
// It holds no connection of its own and is safe for concurrent use.
type Repository struct {
	p       adapters.Provider
	e       entities.Entity
	updates *update.Engine
	audit   audit.Logger
	user    string
	metrics *metrics.Metrics
}

// New creates the repository of e on p.
func New(p adapters.Provider, e entities.Entity, opts ...Option) *Repository {
	r := &Repository{
		p:       p,
		e:       e,
		updates: update.NewEngine(p),
		audit:   audit.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Entity returns the entity served.
func (r *Repository) Entity() entities.Entity { return r.e }

// Insert writes one record. Every mapped column is written: values are
// coerced by semantic type, and missing, blank or unparseable values become
// NULL. A form key wins over the column name of the same field.
func (r *Repository) Insert(ctx context.Context, values map[fieldmap.Key]any) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(r.e.Name, "insert", metrics.Status(true, err), start)
	}()

	for k := range values {
		if _, ok := r.e.Mapping.Lookup(k); !ok {
			return fmt.Errorf("%w: %s", update.ErrUnknownField, k)
		}
	}

	fields := r.e.Mapping.Fields()
	cols := make([]string, len(fields))
	vals := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
		v, ok := values[fieldmap.FormKey(f.FormKey)]
		if !ok {
			v = values[fieldmap.Column(f.Column)]
		}
		if cv, ok := coerce.Value(f.Type, v); ok {
			vals[i] = cv
		}
	}

	st, err := query.Insert(r.p.Dialect(), r.e.Table, cols, vals)
	if err != nil {
		return err
	}
	_, err = r.p.Exec(ctx, st)
	r.record(ctx, audit.NewEntry(audit.ActionInsert, r.e.Name, r.e.Table).WithRows(1), start, err)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", r.e.Table, err)
	}
	return nil
}

// Recent returns the latest limit records in the entity's recent-list
// projection.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	st := query.Recent(r.p.Dialect(), r.e.Table, r.e.RecentProjection, r.e.RecentOrder, limit)
	return r.fetch(ctx, "recent", st)
}

// Search runs a named profile. Criteria absent from the map are blank and do
// not constrain the result.
func (r *Repository) Search(ctx context.Context, profile string, criteria map[string]string) ([]Record, error) {
	p, err := r.e.Profile(profile)
	if err != nil {
		return nil, err
	}
	filters, err := p.Filters(criteria)
	if err != nil {
		return nil, err
	}
	return r.SearchCriteria(ctx, query.Search{Projection: p.Projection, Filters: filters})
}

// SearchCriteria runs an ad hoc search. Table and Order default to the
// entity's.
func (r *Repository) SearchCriteria(ctx context.Context, s query.Search) ([]Record, error) {
	if s.Table == "" {
		s.Table = r.e.Table
	}
	if len(s.Order) == 0 {
		s.Order = r.e.Order()
	}
	return r.fetch(ctx, "search", s.Build(r.p.Dialect()))
}

// GetByID returns every column of the record, or false when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id int64) (Record, bool, error) {
	rows, err := r.fetch(ctx, "get", query.GetByID(r.p.Dialect(), r.e.Table, r.e.PrimaryKey, id))
	if err != nil || len(rows) == 0 {
		return nil, false, err
	}
	return rows[0], true, nil
}

// Update applies a partial update. It returns false with a nil error when
// nothing survived filtering; see package update.
func (r *Repository) Update(ctx context.Context, req update.Request) (applied bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(r.e.Name, "update", metrics.Status(applied, err), start)
	}()

	plan, err := update.NewPlan(r.e.Mapping, req)
	if err != nil {
		return false, err
	}

	applied, err = r.updates.Execute(ctx, r.target(), req.ID, plan)

	entry := audit.NewEntry(audit.ActionUpdate, r.e.Name, r.e.Table).
		WithRecord(req.ID).WithColumns(plan.Columns())
	if !applied && err == nil {
		entry.WithStatus(audit.StatusNoop)
	}
	r.record(ctx, entry, start, err)
	return applied, err
}

// Delete removes one record. It returns false when the id does not exist.
func (r *Repository) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(r.e.Name, "delete", metrics.Status(deleted, err), start)
	}()

	n, err := r.p.Exec(ctx, query.Delete(r.p.Dialect(), r.e.Table, r.e.PrimaryKey, id))

	entry := audit.NewEntry(audit.ActionDelete, r.e.Name, r.e.Table).WithRecord(id).WithRows(n)
	if n == 0 && err == nil {
		entry.WithStatus(audit.StatusNoop)
	}
	r.record(ctx, entry, start, err)

	if err != nil {
		return false, fmt.Errorf("delete %s id=%d: %w", r.e.Table, id, err)
	}
	return n > 0, nil
}

// DeleteMany deletes ids one at a time, in order. A missing id or a failed
// delete is not counted and does not stop the run; nothing is rolled back.
func (r *Repository) DeleteMany(ctx context.Context, ids []int64) batch.DeleteResult {
	start := time.Now()
	res := batch.DeleteMany(ctx, ids, r.Delete)

	r.metrics.ObserveBatch(r.e.Name, "delete_many", len(ids))
	r.metrics.Observe(r.e.Name, "delete_many", metrics.StatusOK, start)

	entry := audit.NewEntry(audit.ActionDeleteMany, r.e.Name, r.e.Table).WithRows(int64(res.Succeeded))
	if !res.Complete() {
		entry.WithStatus(audit.StatusPartial)
	}
	r.record(ctx, entry, start, nil)
	return res
}

// RecordTransfer adds one summary entry for a file import or export that
// moved rows records. complete is false when some rows were rejected.
func (r *Repository) RecordTransfer(ctx context.Context, action audit.Action, rows int, complete bool, start time.Time, err error) {
	r.metrics.ObserveBatch(r.e.Name, string(action), rows)
	r.metrics.Observe(r.e.Name, string(action), metrics.Status(true, err), start)

	entry := audit.NewEntry(action, r.e.Name, r.e.Table).WithRows(int64(rows))
	if !complete {
		entry.WithStatus(audit.StatusPartial)
	}
	r.record(ctx, entry, start, err)
}

// History returns the latest actions on this entity, when the audit logger
// can be read back.
func (r *Repository) History(ctx context.Context, limit int) ([]*audit.Entry, error) {
	h, ok := r.audit.(audit.Historian)
	if !ok {
		return nil, audit.ErrNoHistory
	}
	return h.History(ctx, audit.Query{Entity: r.e.Name, Limit: limit})
}

// Display renders rec for the UI: mapped columns are keyed by form key and
// formatted by semantic type; other columns (id, aliases) keep their name
// and are rendered as text.
func (r *Repository) Display(rec Record) map[string]string {
	formKeys := r.e.Mapping.Invert()
	out := make(map[string]string, len(rec))
	for col, v := range rec {
		formKey, ok := formKeys[col]
		if !ok {
			out[col] = coerce.Display(fieldmap.TypeText, v)
			continue
		}
		f, _ := r.e.Mapping.Lookup(fieldmap.FormKey(formKey))
		out[formKey] = coerce.Display(f.Type, v)
	}
	return out
}

func (r *Repository) target() update.Target {
	return update.Target{Table: r.e.Table, PrimaryKey: r.e.PrimaryKey, Mapping: r.e.Mapping}
}

func (r *Repository) fetch(ctx context.Context, op string, st query.Statement) (rows []Record, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe(r.e.Name, op, metrics.Status(true, err), start)
	}()

	raw, err := r.p.FetchAll(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, r.e.Table, err)
	}
	rows = make([]Record, len(raw))
	for i, row := range raw {
		rows[i] = Record(row)
	}
	return rows, nil
}

// record appends entry to the action history. Audit failures are logged and
// never fail the operation.
func (r *Repository) record(ctx context.Context, entry *audit.Entry, start time.Time, err error) {
	entry.WithUser(r.user).WithDuration(time.Since(start)).WithError(err)
	if aerr := r.audit.Log(ctx, entry); aerr != nil {
		log.Warn().Err(aerr).Str("entity", r.e.Name).Str("action", string(entry.Action)).
			Msg("failed to record action")
	}
}
