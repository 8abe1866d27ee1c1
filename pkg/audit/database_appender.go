package audit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

// DefaultTable is the audit table used when none is configured.
const DefaultTable = "cgm_audit"

var auditColumns = []string{
	"id", "ts", "user_name", "action", "entity", "table_name", "record_id",
	"status", "rows_affected", "columns", "duration_ms", "error_message",
}

// DatabaseAppender stores entries in an audit table of the same database
// the repositories use.
type DatabaseAppender struct {
	p     adapters.Provider
	table string
}

// DatabaseAppenderConfig - конфигурация database appender
type DatabaseAppenderConfig struct {
	// TableName - имя таблицы для аудита
	TableName string `yaml:"table" koanf:"table"`

	// AutoCreateTable - автоматически создать таблицу если не существует
	AutoCreateTable bool `yaml:"auto_create" koanf:"auto_create"`
}

// NewDatabaseAppender - создать database appender
func NewDatabaseAppender(ctx context.Context, p adapters.Provider, config DatabaseAppenderConfig) (*DatabaseAppender, error) {
	if p == nil {
		return nil, fmt.Errorf("database provider is required")
	}
	if config.TableName == "" {
		config.TableName = DefaultTable
	}

	da := &DatabaseAppender{p: p, table: config.TableName}
	if config.AutoCreateTable {
		if _, err := p.Exec(ctx, query.Statement{SQL: da.createTableSQL()}); err != nil {
			return nil, fmt.Errorf("failed to create audit table: %w", err)
		}
	}
	return da, nil
}

func (da *DatabaseAppender) createTableSQL() string {
	d := da.p.Dialect()
	q := d.QuoteIdentifier

	text, longText, ts := "VARCHAR(255)", "TEXT", "TIMESTAMP"
	if d.Name() == "mssql" {
		text, longText, ts = "NVARCHAR(255)", "NVARCHAR(MAX)", "DATETIME2"
	}

	cols := []string{
		q("id") + " VARCHAR(36) NOT NULL PRIMARY KEY",
		q("ts") + " " + ts + " NOT NULL",
		q("user_name") + " " + text,
		q("action") + " VARCHAR(20) NOT NULL",
		q("entity") + " VARCHAR(50) NOT NULL",
		q("table_name") + " VARCHAR(128)",
		q("record_id") + " BIGINT",
		q("status") + " VARCHAR(20) NOT NULL",
		q("rows_affected") + " BIGINT",
		q("columns") + " " + longText,
		q("duration_ms") + " BIGINT",
		q("error_message") + " " + longText,
	}
	return query.CreateTable(d, da.table, cols).SQL
}

// Append - записать entry в базу данных
func (da *DatabaseAppender) Append(ctx context.Context, entry *Entry) error {
	st, err := query.Insert(da.p.Dialect(), da.table, auditColumns, []any{
		entry.ID,
		entry.Timestamp.UTC(),
		entry.User,
		string(entry.Action),
		entry.Entity,
		entry.Table,
		entry.RecordID,
		string(entry.Status),
		entry.Rows,
		strings.Join(entry.Columns, ","),
		entry.Duration.Milliseconds(),
		entry.Error,
	})
	if err != nil {
		return err
	}
	if _, err := da.p.Exec(ctx, st); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// History - запросить audit entries из базы, новые первыми
func (da *DatabaseAppender) History(ctx context.Context, q Query) ([]*Entry, error) {
	search := query.Search{
		Table: da.table,
		Filters: []query.Filter{
			equal("entity", q.Entity),
			equal("action", string(q.Action)),
			equal("user_name", q.User),
			equal("record_id", q.RecordID),
			timeBound("ts", ">=", q.Since),
			timeBound("ts", "<=", q.Until),
		},
		Order: []query.Order{{Column: "ts", Desc: true}},
		Limit: q.limit(),
	}

	rows, err := da.p.FetchAll(ctx, search.Build(da.p.Dialect()))
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}

	out := make([]*Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, entryFromRow(r))
	}
	return out, nil
}

// DeleteOlderThan - удалить старые audit entries
func (da *DatabaseAppender) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	b := query.NewBuilder(da.p.Dialect())
	b.Write("DELETE FROM ", da.p.Dialect().Table(da.table), " WHERE ").Ident("ts").Write(" < ", b.Bind(before.UTC()))

	n, err := da.p.Exec(ctx, b.Statement())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old entries: %w", err)
	}
	return n, nil
}

// Close does nothing: the provider belongs to the caller.
func (da *DatabaseAppender) Close() error {
	return nil
}

// equal constrains column only when v is not the zero value, so the
// parameter keeps the column's own type.
func equal[T comparable](column string, v T) query.Filter {
	return query.FilterFunc(func(b *query.Builder) string {
		var zero T
		if v == zero {
			return ""
		}
		return b.Dialect().QuoteIdentifier(column) + " = " + b.Bind(v)
	})
}

func timeBound(column, op string, t time.Time) query.Filter {
	return query.FilterFunc(func(b *query.Builder) string {
		if t.IsZero() {
			return ""
		}
		return b.Dialect().QuoteIdentifier(column) + " " + op + " " + b.Bind(t.UTC())
	})
}

func entryFromRow(r map[string]any) *Entry {
	e := &Entry{
		ID:        asString(r["id"]),
		Timestamp: asTime(r["ts"]),
		User:      asString(r["user_name"]),
		Action:    Action(asString(r["action"])),
		Entity:    asString(r["entity"]),
		Table:     asString(r["table_name"]),
		RecordID:  asInt(r["record_id"]),
		Status:    Status(asString(r["status"])),
		Rows:      asInt(r["rows_affected"]),
		Duration:  time.Duration(asInt(r["duration_ms"])) * time.Millisecond,
		Error:     asString(r["error_message"]),
	}
	if cols := asString(r["columns"]); cols != "" {
		e.Columns = strings.Split(cols, ",")
	}
	return e
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

func asInt(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case float64:
		return int64(x)
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	}
	return 0
}

// storage drivers hand timestamps back either as time.Time or as text
var tsLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func asTime(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x.UTC()
	case string:
		for _, layout := range tsLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}
