package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New("", reg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.Observe("multas", "update", StatusOK, time.Now())
	m.Observe("multas", "update", StatusOK, time.Now())
	m.Observe("multas", "update", StatusNoop, time.Now())

	if got := testutil.ToFloat64(m.operations.WithLabelValues("multas", "update", StatusOK)); got != 2 {
		t.Errorf("ok counter = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}

	expected := `
# HELP cgm_repository_operations_total Total number of repository operations
# TYPE cgm_repository_operations_total counter
cgm_repository_operations_total{entity="multas",operation="update",status="noop"} 1
cgm_repository_operations_total{entity="multas",operation="update",status="ok"} 2
`
	if err := testutil.CollectAndCompare(m.operations, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New("cgm", reg); err != nil {
		t.Fatal(err)
	}
	if _, err := New("cgm", reg); err == nil {
		t.Error("expected AlreadyRegisteredError")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Observe("lar", "insert", StatusOK, time.Now())
	m.ObserveBatch("lar", "delete_many", 3)
	m.SetBreakerState("mssql", 2)
}

func TestBreakerAndBatch(t *testing.T) {
	m, err := New("t", nil)
	if err != nil {
		t.Fatal(err)
	}
	m.SetBreakerState("mssql", 2)
	if got := testutil.ToFloat64(m.breaker.WithLabelValues("mssql")); got != 2 {
		t.Errorf("breaker = %v, want 2", got)
	}
	m.ObserveBatch("pacote", "import", 120)
	if got := testutil.CollectAndCount(m.batchSize); got != 1 {
		t.Errorf("batch series = %d", got)
	}
}

func TestStatus(t *testing.T) {
	if Status(true, nil) != StatusOK || Status(false, nil) != StatusNoop || Status(true, errors.New("x")) != StatusError {
		t.Error("Status mapping wrong")
	}
}
