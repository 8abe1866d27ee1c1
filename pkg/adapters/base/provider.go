// Package base is the database/sql implementation shared by every driver in
// pkg/adapters. Drivers only decide how the *sql.DB is opened and which
// dialect statements are built for.
package base

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
	"github.com/ruslano69/cgm-backoffice/pkg/resilience"
	"github.com/ruslano69/cgm-backoffice/pkg/retry"
)

// Compile-time check: SQLProvider должен реализовывать интерфейс adapters.Provider
var _ adapters.Provider = (*SQLProvider)(nil)

// Opener creates the (not yet connected) *sql.DB.
type Opener func() (*sql.DB, error)

// SQLProvider is a pooled adapters.Provider on top of database/sql.
type SQLProvider struct {
	db      *sql.DB
	dialect query.Dialect
	cfg     adapters.Config
	breaker *resilience.CircuitBreaker
	closed  atomic.Bool
}

// Open opens the pool, configures it from cfg and runs the health check.
// Opening and the health check are retried according to cfg.Retry.
func Open(ctx context.Context, cfg adapters.Config, dialect query.Dialect, open Opener) (*SQLProvider, error) {
	retryCfg := cfg.Retry
	retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		log.Warn().Err(err).Str("db", cfg.Type).Int("attempt", attempt).
			Dur("delay", delay).Msg("database not ready, retrying")
	}
	retryer, err := retry.NewRetryer(retryCfg)
	if err != nil {
		return nil, err
	}

	breakerCfg := cfg.Breaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = cfg.Type
	}
	if breakerCfg.IsFailure == nil {
		breakerCfg.IsFailure = ConnectionFailure
	}
	notify := breakerCfg.OnStateChange
	breakerCfg.OnStateChange = func(name string, from, to resilience.State) {
		log.Warn().Str("breaker", name).Stringer("from", from).Stringer("to", to).
			Msg("circuit breaker state changed")
		if notify != nil {
			notify(name, from, to)
		}
	}
	breaker, err := resilience.New(breakerCfg)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	err = retryer.Do(ctx, func(ctx context.Context) error {
		conn, err := open()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		configurePool(conn, cfg)

		if err := healthCheck(ctx, conn); err != nil {
			conn.Close()
			return err
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("db", cfg.Type).Str("dialect", dialect.Name()).
		Int("max_conns", cfg.MaxConns).Msg("database connected")

	return &SQLProvider{db: db, dialect: dialect, cfg: cfg, breaker: breaker}, nil
}

// ConnectionFailure reports whether err means the database itself is
// unreachable. Statement errors (constraints, triggers, syntax) are answered
// by a live server and do not count against the circuit breaker.
func ConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

func configurePool(db *sql.DB, cfg adapters.Config) {
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func healthCheck(ctx context.Context, db *sql.DB) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func (p *SQLProvider) Dialect() query.Dialect { return p.dialect }

func (p *SQLProvider) Type() string { return p.cfg.Type }

// Ping runs the health check.
func (p *SQLProvider) Ping(ctx context.Context) error {
	if p.closed.Load() {
		return adapters.ErrNotConnected
	}
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return healthCheck(ctx, p.db)
}

// Close closes the pool. It is safe to call more than once.
func (p *SQLProvider) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.db.Close()
}

// Exec implements adapters.Provider.
func (p *SQLProvider) Exec(ctx context.Context, st query.Statement) (int64, error) {
	if p.closed.Load() {
		return 0, adapters.ErrNotConnected
	}
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	var affected int64
	start := time.Now()
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		res, err := p.db.ExecContext(ctx, st.SQL, st.Args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	p.logStatement(st, start, err)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}
	return affected, nil
}

// FetchAll implements adapters.Provider.
func (p *SQLProvider) FetchAll(ctx context.Context, st query.Statement) ([]map[string]any, error) {
	if p.closed.Load() {
		return nil, adapters.ErrNotConnected
	}
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	var out []map[string]any
	start := time.Now()
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		rows, err := p.db.QueryContext(ctx, st.SQL, st.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out, err = scanRows(rows)
		return err
	})
	p.logStatement(st, start, err)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return out, nil
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = vals[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (p *SQLProvider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.cfg.Timeout)
}

func (p *SQLProvider) logStatement(st query.Statement, start time.Time, err error) {
	elapsed := time.Since(start)
	switch {
	case err != nil:
		log.Error().Err(err).Str("db", p.cfg.Type).Str("sql", st.SQL).Dur("elapsed", elapsed).Msg("statement failed")
	case p.cfg.SlowQuery > 0 && elapsed > p.cfg.SlowQuery:
		log.Warn().Str("db", p.cfg.Type).Str("sql", st.SQL).Dur("elapsed", elapsed).Msg("slow statement")
	default:
		log.Debug().Str("db", p.cfg.Type).Str("sql", st.SQL).Dur("elapsed", elapsed).Msg("statement")
	}
}
