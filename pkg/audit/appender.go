package audit

import (
	"context"
	"errors"
)

// ErrNoHistory is returned by History when no appender can be read back.
var ErrNoHistory = errors.New("audit: no readable appender")

// Appender - интерфейс для записи audit логов
type Appender interface {
	// Append - записать audit entry
	Append(ctx context.Context, entry *Entry) error

	// Close - закрыть appender
	Close() error
}

// Historian is an Appender whose entries can be read back, newest first.
type Historian interface {
	History(ctx context.Context, q Query) ([]*Entry, error)
}

// MultiAppender - запись в несколько appenders
type MultiAppender struct {
	appenders []Appender
}

// NewMultiAppender - создать multi appender
func NewMultiAppender(appenders ...Appender) *MultiAppender {
	return &MultiAppender{appenders: appenders}
}

// Append writes to every appender; one failing does not stop the others.
func (ma *MultiAppender) Append(ctx context.Context, entry *Entry) error {
	var errs []error
	for _, a := range ma.appenders {
		if err := a.Append(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// History reads from the first appender that supports it.
func (ma *MultiAppender) History(ctx context.Context, q Query) ([]*Entry, error) {
	for _, a := range ma.appenders {
		if h, ok := a.(Historian); ok {
			return h.History(ctx, q)
		}
	}
	return nil, ErrNoHistory
}

// Close - закрыть все appenders
func (ma *MultiAppender) Close() error {
	var errs []error
	for _, a := range ma.appenders {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
