package update

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

type recorder struct {
	stmts []query.Statement
	rows  int64
	err   error
}

func (r *recorder) Exec(_ context.Context, st query.Statement) (int64, error) {
	r.stmts = append(r.stmts, st)
	return r.rows, r.err
}

func (r *recorder) Dialect() query.Dialect { return query.NewMSSQL("dbo") }

func testTarget() Target {
	return Target{
		Table:      "Multas",
		PrimaryKey: "Id",
		Mapping: fieldmap.MustNew(
			fieldmap.Field{FormKey: "Data_Neg", Column: "DATA_NEG", Type: fieldmap.TypeDate},
			fieldmap.Field{FormKey: "Cliente", Column: "CLIENTE"},
			fieldmap.Field{FormKey: "Vlr_Auto", Column: "VALOR_AUTORIZADO", Type: fieldmap.TypeCurrency},
			fieldmap.Field{FormKey: "NEG_ESP", Column: "NEG_ESP", Type: fieldmap.TypeFlag},
			fieldmap.Field{FormKey: "X", Column: "X"},
			fieldmap.Field{FormKey: "Y", Column: "Y"},
		),
	}
}

func TestApply_EmptyCandidate(t *testing.T) {
	rec := &recorder{rows: 1}
	ok, err := NewEngine(rec).Apply(context.Background(), testTarget(), Request{ID: 1})
	if err != nil || ok {
		t.Fatalf("Apply() = %v, %v; want false, nil", ok, err)
	}
	if len(rec.stmts) != 0 {
		t.Errorf("issued %d statements, want 0", len(rec.stmts))
	}
}

func TestApply_AllowedColumns(t *testing.T) {
	rec := &recorder{rows: 1}
	req := Request{
		ID: 9,
		Candidate: map[fieldmap.Key]any{
			fieldmap.FormKey("X"): "1",
			fieldmap.FormKey("Y"): "2",
		},
		Allowed: fieldmap.Columns("X"),
	}

	ok, err := NewEngine(rec).Apply(context.Background(), testTarget(), req)
	if err != nil || !ok {
		t.Fatalf("Apply() = %v, %v; want true, nil", ok, err)
	}
	if len(rec.stmts) != 1 {
		t.Fatalf("issued %d statements, want 1", len(rec.stmts))
	}

	st := rec.stmts[0]
	if want := "UPDATE [dbo].[Multas] SET [X] = @p1 WHERE [Id] = @p2"; st.SQL != want {
		t.Errorf("SQL = %s, want %s", st.SQL, want)
	}
	wantArgs := []any{sql.Named("p1", "1"), sql.Named("p2", int64(9))}
	if !reflect.DeepEqual(st.Args, wantArgs) {
		t.Errorf("Args = %v, want %v", st.Args, wantArgs)
	}
}

func TestPlan_NeverWritesBlank(t *testing.T) {
	blank := "   "
	tests := []struct {
		name      string
		candidate map[fieldmap.Key]any
		allowed   fieldmap.ColumnSet
	}{
		{"empty string", map[fieldmap.Key]any{fieldmap.FormKey("Cliente"): ""}, nil},
		{"spaces", map[fieldmap.Key]any{fieldmap.FormKey("Cliente"): "  \t"}, nil},
		{"nil", map[fieldmap.Key]any{fieldmap.FormKey("Cliente"): nil}, nil},
		{"blank pointer", map[fieldmap.Key]any{fieldmap.FormKey("Cliente"): &blank}, nil},
		{"blank even if allowed", map[fieldmap.Key]any{fieldmap.Column("CLIENTE"): " "}, fieldmap.Columns("CLIENTE")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewPlan(testTarget().Mapping, Request{ID: 1, Candidate: tt.candidate, Allowed: tt.allowed})
			if err != nil {
				t.Fatalf("NewPlan() error = %v", err)
			}
			if !plan.Empty() {
				t.Errorf("plan writes %v, want nothing", plan.Columns())
			}
			if len(plan.Dropped) != 1 || plan.Dropped[0].Reason != ReasonBlank {
				t.Errorf("Dropped = %+v, want one blank", plan.Dropped)
			}

			rec := &recorder{}
			ok, err := NewEngine(rec).Apply(context.Background(), testTarget(), Request{ID: 1, Candidate: tt.candidate, Allowed: tt.allowed})
			if ok || err != nil || len(rec.stmts) != 0 {
				t.Errorf("Apply() = %v, %v with %d statements", ok, err, len(rec.stmts))
			}
		})
	}
}

func TestPlan_CoercesBySemanticType(t *testing.T) {
	req := Request{
		ID: 3,
		Candidate: map[fieldmap.Key]any{
			fieldmap.FormKey("Vlr_Auto"): "1.234,56",
			fieldmap.Column("DATA_NEG"):  "15/03/2024",
			fieldmap.FormKey("NEG_ESP"):  "Sim",
			fieldmap.FormKey("Cliente"):  "  ACME  ",
		},
	}

	plan, err := NewPlan(testTarget().Mapping, req)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	if got, want := plan.Columns(), []string{"DATA_NEG", "CLIENTE", "VALOR_AUTORIZADO", "NEG_ESP"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Columns() = %v, want %v", got, want)
	}

	vals := plan.Values()
	if d := vals[0].(time.Time); !d.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DATA_NEG = %v", d)
	}
	if vals[1] != "ACME" {
		t.Errorf("CLIENTE = %q", vals[1])
	}
	if d := vals[2].(decimal.Decimal); !d.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("VALOR_AUTORIZADO = %s", d)
	}
	if vals[3] != 1 {
		t.Errorf("NEG_ESP = %v", vals[3])
	}
}

func TestPlan_UnparseableIsDroppedNotNulled(t *testing.T) {
	req := Request{
		ID: 3,
		Candidate: map[fieldmap.Key]any{
			fieldmap.FormKey("Data_Neg"): "31/13/2024",
			fieldmap.FormKey("NEG_ESP"):  "talvez",
		},
	}

	plan, err := NewPlan(testTarget().Mapping, req)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	if !plan.Empty() {
		t.Errorf("plan writes %v, want nothing", plan.Columns())
	}
	for _, d := range plan.Dropped {
		if d.Reason != ReasonUnparseable {
			t.Errorf("%s dropped as %s, want unparseable", d.Key, d.Reason)
		}
	}
}

func TestPlan_FormKeyWinsOverColumn(t *testing.T) {
	req := Request{
		ID: 3,
		Candidate: map[fieldmap.Key]any{
			fieldmap.FormKey("Cliente"): "from form",
			fieldmap.Column("CLIENTE"):  "from column",
		},
	}

	plan, err := NewPlan(testTarget().Mapping, req)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	if len(plan.Set) != 1 || plan.Set[0].Value != "from form" {
		t.Errorf("Set = %+v", plan.Set)
	}
	if len(plan.Dropped) != 1 || plan.Dropped[0].Reason != ReasonDuplicate {
		t.Errorf("Dropped = %+v", plan.Dropped)
	}
}

func TestApply_UnknownFieldExecutesNothing(t *testing.T) {
	rec := &recorder{rows: 1}
	req := Request{
		ID: 1,
		Candidate: map[fieldmap.Key]any{
			fieldmap.FormKey("Cliente"): "ACME",
			fieldmap.Column("NOPE"):     "x",
		},
	}

	_, err := NewEngine(rec).Apply(context.Background(), testTarget(), req)
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("Apply() error = %v, want ErrUnknownField", err)
	}
	if len(rec.stmts) != 0 {
		t.Errorf("issued %d statements, want 0", len(rec.stmts))
	}
}

func TestApply_UnmappedKeyOutsideAllowedIsDropped(t *testing.T) {
	m := fieldmap.MustNew(fieldmap.Field{FormKey: "X", Column: "X"})
	target := Target{Table: "T", PrimaryKey: "Id", Mapping: m}
	req := Request{
		ID:        3,
		Candidate: m.TagAll(map[string]any{"X": "1", "Y": "2"}),
		Allowed:   fieldmap.Columns("X"),
	}

	plan, err := NewPlan(m, req)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	if !reflect.DeepEqual(plan.Columns(), []string{"X"}) {
		t.Errorf("Columns() = %v, want [X]", plan.Columns())
	}
	wantDropped := []Dropped{{Key: fieldmap.Column("Y"), Column: "Y", Reason: ReasonNotAllowed}}
	if !reflect.DeepEqual(plan.Dropped, wantDropped) {
		t.Errorf("Dropped = %+v, want %+v", plan.Dropped, wantDropped)
	}

	rec := &recorder{rows: 1}
	ok, err := NewEngine(rec).Apply(context.Background(), target, req)
	if err != nil || !ok {
		t.Fatalf("Apply() = %v, %v; want true, nil", ok, err)
	}
	if want := "UPDATE [dbo].[T] SET [X] = @p1 WHERE [Id] = @p2"; len(rec.stmts) != 1 || rec.stmts[0].SQL != want {
		t.Errorf("statements = %v, want one %s", rec.stmts, want)
	}
}

func TestExecute_WritesGivenPlan(t *testing.T) {
	target := testTarget()
	plan, err := NewPlan(target.Mapping, Request{
		ID:        4,
		Candidate: map[fieldmap.Key]any{fieldmap.FormKey("Cliente"): " ACME "},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	rec := &recorder{rows: 1}
	ok, err := NewEngine(rec).Execute(context.Background(), target, 4, plan)
	if err != nil || !ok {
		t.Fatalf("Execute() = %v, %v; want true, nil", ok, err)
	}
	if want := "UPDATE [dbo].[Multas] SET [CLIENTE] = @p1 WHERE [Id] = @p2"; rec.stmts[0].SQL != want {
		t.Errorf("SQL = %s, want %s", rec.stmts[0].SQL, want)
	}

	ok, err = NewEngine(rec).Execute(context.Background(), target, 4, Plan{})
	if err != nil || ok {
		t.Errorf("Execute(empty plan) = %v, %v; want false, nil", ok, err)
	}
	if len(rec.stmts) != 1 {
		t.Errorf("issued %d statements, want 1", len(rec.stmts))
	}
}

func TestApply_StorageFailureSurfaces(t *testing.T) {
	boom := errors.New("connection reset")
	rec := &recorder{err: boom}
	req := Request{ID: 1, Candidate: map[fieldmap.Key]any{fieldmap.FormKey("Cliente"): "ACME"}}

	ok, err := NewEngine(rec).Apply(context.Background(), testTarget(), req)
	if ok || !errors.Is(err, boom) {
		t.Errorf("Apply() = %v, %v; want false, %v", ok, err, boom)
	}
}

func TestApply_Idempotent(t *testing.T) {
	rec := &recorder{rows: 1}
	req := Request{ID: 5, Candidate: map[fieldmap.Key]any{fieldmap.FormKey("Vlr_Auto"): "10,00"}}
	eng := NewEngine(rec)

	for i := 0; i < 2; i++ {
		if ok, err := eng.Apply(context.Background(), testTarget(), req); !ok || err != nil {
			t.Fatalf("Apply() #%d = %v, %v", i, ok, err)
		}
	}
	if !reflect.DeepEqual(rec.stmts[0], rec.stmts[1]) {
		t.Errorf("repeated apply produced different statements:\n%v\n%v", rec.stmts[0], rec.stmts[1])
	}
}
