package mssql

import (
	"context"
	"os"
	"testing"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
)

func TestParseServerVersion(t *testing.T) {
	tests := []struct {
		in   string
		want int
		name string
	}{
		{"11.0.2100.60", 11, "SQL Server 2012"},
		{"15.0.2000.5", 15, "SQL Server 2019"},
		{"16.0.1000.6", 16, "SQL Server 2022"},
		{"garbage", 0, "SQL Server (v0)"},
	}
	for _, tt := range tests {
		got := parseServerVersion(tt.in)
		if got != tt.want {
			t.Errorf("parseServerVersion(%q) = %d, want %d", tt.in, got, tt.want)
		}
		if n := versionName(got); n != tt.name {
			t.Errorf("versionName(%d) = %q, want %q", got, n, tt.name)
		}
	}
}

func TestRegistered(t *testing.T) {
	if !adapters.IsRegistered(AdapterType) {
		t.Fatalf("%s not registered", AdapterType)
	}
}

// Runs only against a live server: CGM_TEST_MSSQL_DSN=sqlserver://...
func TestOpen_LiveServer(t *testing.T) {
	dsn := os.Getenv("CGM_TEST_MSSQL_DSN")
	if dsn == "" {
		t.Skip("CGM_TEST_MSSQL_DSN not set")
	}

	ctx := context.Background()
	cfg := adapters.DefaultConfig(AdapterType, dsn)
	cfg.Retry.MaxAttempts = 1

	p, err := adapters.New(ctx, cfg)
	if err != nil {
		t.Skipf("MS SQL Server not available: %v", err)
	}
	defer p.Close()

	version, err := ServerVersion(ctx, p)
	if err != nil {
		t.Fatalf("ServerVersion() error = %v", err)
	}
	t.Logf("connected to %s", version)
}
