package audit_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	_ "github.com/ruslano69/cgm-backoffice/pkg/adapters/sqlite"
	"github.com/ruslano69/cgm-backoffice/pkg/audit"
	"github.com/ruslano69/cgm-backoffice/pkg/retry"
)

func openProvider(t *testing.T) adapters.Provider {
	t.Helper()
	cfg := adapters.DefaultConfig("sqlite", filepath.Join(t.TempDir(), "audit.db"))
	cfg.Retry = retry.Attempts(1, 0)
	p, err := adapters.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestDatabaseAppender(t *testing.T) {
	ctx := context.Background()
	p := openProvider(t)

	da, err := audit.NewDatabaseAppender(ctx, p, audit.DatabaseAppenderConfig{AutoCreateTable: true})
	if err != nil {
		t.Fatalf("NewDatabaseAppender() error = %v", err)
	}
	// second call must tolerate the existing table
	if _, err := audit.NewDatabaseAppender(ctx, p, audit.DatabaseAppenderConfig{AutoCreateTable: true}); err != nil {
		t.Fatalf("NewDatabaseAppender() twice: %v", err)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 4; i++ {
		e := audit.NewEntry(audit.ActionUpdate, "alcada", "alcada_sup").
			WithUser("ana").WithRecord(int64(i)).WithRows(1).
			WithColumns([]string{"STATUS", "PRAZO"})
		e.Timestamp = base.Add(time.Duration(i) * time.Hour)
		if err := da.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	other := audit.NewEntry(audit.ActionDelete, "lar", "Lar").WithRecord(9)
	other.Timestamp = base
	if err := da.Append(ctx, other); err != nil {
		t.Fatal(err)
	}

	got, err := da.History(ctx, audit.Query{Entity: "alcada", Limit: 3})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].RecordID != 4 || got[2].RecordID != 2 {
		t.Errorf("order = %d..%d, want newest first 4..2", got[0].RecordID, got[2].RecordID)
	}
	if got[0].User != "ana" || len(got[0].Columns) != 2 || got[0].Action != audit.ActionUpdate {
		t.Errorf("entry = %+v", got[0])
	}
	if !got[0].Timestamp.Equal(base.Add(4 * time.Hour)) {
		t.Errorf("Timestamp = %v", got[0].Timestamp)
	}

	byRecord, err := da.History(ctx, audit.Query{RecordID: 9})
	if err != nil {
		t.Fatal(err)
	}
	if len(byRecord) != 1 || byRecord[0].Entity != "lar" {
		t.Errorf("History(record 9) = %+v", byRecord)
	}

	n, err := da.DeleteOlderThan(ctx, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("DeleteOlderThan() error = %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
}
