package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action - тип действия над записью
type Action string

const (
	ActionInsert     Action = "insert"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionDeleteMany Action = "delete_many"
	ActionImport     Action = "import"
	ActionExport     Action = "export"
)

// Status - статус выполнения действия
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusPartial Status = "partial" // batch with some items not applied
	StatusNoop    Status = "noop"    // nothing to write
)

// Entry is one line of the action history: who did what to which record,
// and how it ended.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	User      string        `json:"user,omitempty"`
	Action    Action        `json:"action"`
	Entity    string        `json:"entity"`
	Table     string        `json:"table,omitempty"`
	RecordID  int64         `json:"record_id,omitempty"`
	Status    Status        `json:"status"`
	Rows      int64         `json:"rows,omitempty"`
	Columns   []string      `json:"columns,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// NewEntry creates a successful entry stamped now (UTC).
func NewEntry(action Action, entity, table string) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Entity:    entity,
		Table:     table,
		Status:    StatusSuccess,
	}
}

// WithUser - установить пользователя
func (e *Entry) WithUser(user string) *Entry {
	e.User = user
	return e
}

// WithRecord sets the primary key of the affected record.
func (e *Entry) WithRecord(id int64) *Entry {
	e.RecordID = id
	return e
}

// WithRows - установить количество записей
func (e *Entry) WithRows(n int64) *Entry {
	e.Rows = n
	return e
}

// WithColumns records the columns written.
func (e *Entry) WithColumns(columns []string) *Entry {
	e.Columns = columns
	return e
}

// WithDuration - установить длительность
func (e *Entry) WithDuration(d time.Duration) *Entry {
	e.Duration = d
	return e
}

// WithStatus overrides the status.
func (e *Entry) WithStatus(s Status) *Entry {
	e.Status = s
	return e
}

// WithError marks the entry failed. A nil err changes nothing.
func (e *Entry) WithError(err error) *Entry {
	if err != nil {
		e.Error = err.Error()
		e.Status = StatusFailure
	}
	return e
}

// ToJSON - преобразовать в JSON
func (e *Entry) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// String renders the entry the way the history dialog lists it.
func (e *Entry) String() string {
	target := e.Entity
	if e.RecordID != 0 {
		target = fmt.Sprintf("%s#%d", e.Entity, e.RecordID)
	}
	s := fmt.Sprintf("%s %s %s %s %s",
		e.Timestamp.Local().Format("02/01/2006 15:04:05"),
		orDash(e.User), e.Action, target, e.Status)
	if e.Rows != 0 {
		s += fmt.Sprintf(" rows=%d", e.Rows)
	}
	if e.Error != "" {
		s += " err=" + e.Error
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Query selects history entries. Zero fields do not constrain.
type Query struct {
	Entity   string
	Action   Action
	User     string
	RecordID int64
	Since    time.Time
	Until    time.Time

	// Limit caps the result; 0 means DefaultHistoryLimit.
	Limit int
}

// DefaultHistoryLimit is the number of entries returned when Query.Limit is 0.
const DefaultHistoryLimit = 100

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultHistoryLimit
	}
	return q.Limit
}

// Match reports whether e satisfies q.
func (q Query) Match(e *Entry) bool {
	switch {
	case q.Entity != "" && e.Entity != q.Entity:
		return false
	case q.Action != "" && e.Action != q.Action:
		return false
	case q.User != "" && e.User != q.User:
		return false
	case q.RecordID != 0 && e.RecordID != q.RecordID:
		return false
	case !q.Since.IsZero() && e.Timestamp.Before(q.Since):
		return false
	case !q.Until.IsZero() && e.Timestamp.After(q.Until):
		return false
	}
	return true
}
