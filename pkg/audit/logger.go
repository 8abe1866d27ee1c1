package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Logger records actions. Implementations must be safe for concurrent use.
type Logger interface {
	Log(ctx context.Context, entry *Entry) error
	Close() error
}

// AuditLogger fans entries out to its appenders, synchronously or through a
// buffered channel.
type AuditLogger struct {
	appenders    []Appender
	config       LoggerConfig
	entryChannel chan *Entry
	wg           sync.WaitGroup
	mu           sync.RWMutex
	closed       bool
}

// LoggerConfig - конфигурация логгера
type LoggerConfig struct {
	// AsyncMode - асинхронная запись в appenders
	AsyncMode bool `yaml:"async" koanf:"async"`

	// BufferSize - размер буфера для асинхронного режима
	BufferSize int `yaml:"buffer_size" koanf:"buffer_size"`

	// DefaultUser - пользователь по умолчанию (если не указан в entry)
	DefaultUser string `yaml:"default_user" koanf:"default_user"`

	// OnError is called when an appender fails. Defaults to a zerolog warning.
	OnError func(error) `yaml:"-" koanf:"-"`
}

// DefaultConfig - асинхронный режим с буфером на 1000 записей
func DefaultConfig() LoggerConfig {
	return LoggerConfig{AsyncMode: true, BufferSize: 1000}
}

// SyncConfig - конфигурация для синхронного режима
func SyncConfig() LoggerConfig {
	return LoggerConfig{}
}

// NewLogger - создать новый audit logger
func NewLogger(config LoggerConfig, appenders ...Appender) *AuditLogger {
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.OnError == nil {
		config.OnError = func(err error) {
			log.Warn().Err(err).Msg("audit append failed")
		}
	}

	l := &AuditLogger{appenders: appenders, config: config}
	if config.AsyncMode {
		l.entryChannel = make(chan *Entry, config.BufferSize)
		l.wg.Add(1)
		go l.processEntries()
	}
	return l
}

// Log records entry. In async mode it returns as soon as the entry is
// queued, and writes synchronously when the buffer is full.
func (l *AuditLogger) Log(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	if entry.User == "" {
		entry.User = l.config.DefaultUser
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return fmt.Errorf("logger is closed")
	}

	if l.entryChannel != nil {
		select {
		case l.entryChannel <- entry:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Буфер переполнен, записываем синхронно
		}
	}
	return l.writeEntry(ctx, entry)
}

// writeEntry - записать entry во все appenders
func (l *AuditLogger) writeEntry(ctx context.Context, entry *Entry) error {
	var errs []error
	for _, a := range l.appenders {
		if err := a.Append(ctx, entry); err != nil {
			errs = append(errs, err)
			l.config.OnError(fmt.Errorf("appender failed: %w", err))
		}
	}
	return errors.Join(errs...)
}

// processEntries drains the channel until Close closes it.
func (l *AuditLogger) processEntries() {
	defer l.wg.Done()
	for entry := range l.entryChannel {
		l.writeEntry(context.Background(), entry)
	}
}

// History reads from the first appender that supports it.
func (l *AuditLogger) History(ctx context.Context, q Query) ([]*Entry, error) {
	return NewMultiAppender(l.appenders...).History(ctx, q)
}

// Flush flushes every appender that buffers.
func (l *AuditLogger) Flush() error {
	var errs []error
	for _, a := range l.appenders {
		if f, ok := a.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close writes out queued entries, then closes every appender. It is safe
// to call more than once.
func (l *AuditLogger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	if l.entryChannel != nil {
		close(l.entryChannel)
	}
	l.mu.Unlock()

	l.wg.Wait()

	flushErr := l.Flush()
	return errors.Join(flushErr, NewMultiAppender(l.appenders...).Close())
}

// NullLogger - пустой logger (для тестов)
type NullLogger struct{}

// NewNullLogger - создать null logger
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (NullLogger) Log(context.Context, *Entry) error { return nil }

func (NullLogger) Close() error { return nil }
