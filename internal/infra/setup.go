package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/audit"
	"github.com/ruslano69/cgm-backoffice/pkg/metrics"
	"github.com/ruslano69/cgm-backoffice/pkg/repository"
	"github.com/ruslano69/cgm-backoffice/pkg/resilience"
)

// App is the wired data-access layer. Close it once.
type App struct {
	Config       *Config
	Provider     adapters.Provider
	Repositories *repository.Set
	Audit        *audit.AuditLogger
	Metrics      *metrics.Metrics
}

// Setup opens the pool, builds the action history and creates one
// repository per entity. Metrics are registered on reg when enabled; a nil
// reg keeps them unregistered.
func Setup(ctx context.Context, cfg *Config, reg prometheus.Registerer) (*App, error) {
	app := &App{Config: cfg}

	if cfg.Metrics.Enabled {
		m, err := metrics.New(cfg.Metrics.Namespace, reg)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		app.Metrics = m
	}

	ac := cfg.AdapterConfig()
	ac.Breaker.OnStateChange = func(name string, _, to resilience.State) {
		app.Metrics.SetBreakerState(name, int(to))
	}

	p, err := adapters.New(ctx, ac)
	if err != nil {
		return nil, err
	}
	app.Provider = p
	app.Metrics.SetBreakerState(ac.Breaker.Name, int(resilience.StateClosed))

	logger, err := newAuditLogger(ctx, cfg, p)
	if err != nil {
		p.Close()
		return nil, err
	}
	app.Audit = logger

	app.Repositories = repository.NewSet(p,
		repository.WithAudit(logger),
		repository.WithUser(cfg.User),
		repository.WithMetrics(app.Metrics))

	if cfg.Database.CreateTables {
		if err := app.Repositories.CreateTables(ctx); err != nil {
			app.Close()
			return nil, err
		}
	}

	log.Info().Str("db", p.Type()).Str("user", cfg.User).
		Strs("entities", repositoryNames(app.Repositories)).
		Msg("data access ready")
	return app, nil
}

func newAuditLogger(ctx context.Context, cfg *Config, p adapters.Provider) (*audit.AuditLogger, error) {
	lc := audit.SyncConfig()
	if cfg.Audit.Async {
		lc = audit.DefaultConfig()
	}
	lc.DefaultUser = cfg.User

	if !cfg.Audit.Enabled {
		return audit.NewLogger(lc), nil
	}

	var appenders []audit.Appender
	closeAll := func() {
		audit.NewMultiAppender(appenders...).Close()
	}

	if cfg.Audit.Database.Enabled {
		da, err := audit.NewDatabaseAppender(ctx, p, audit.DatabaseAppenderConfig{
			TableName:       cfg.Audit.Database.Table,
			AutoCreateTable: true,
		})
		if err != nil {
			return nil, err
		}
		appenders = append(appenders, da)
	}
	if cfg.Audit.Redis.Address != "" {
		appenders = append(appenders, audit.NewRedisAppender(cfg.Audit.Redis))
	}
	if cfg.Audit.File.FilePath != "" {
		fa, err := audit.NewFileAppender(cfg.Audit.File)
		if err != nil {
			closeAll()
			return nil, err
		}
		appenders = append(appenders, fa)
	}

	return audit.NewLogger(lc, appenders...), nil
}

func repositoryNames(s *repository.Set) []string {
	var names []string
	for _, r := range s.All() {
		names = append(names, r.Entity().Name)
	}
	return names
}

// Close drains the action history and closes the pool.
func (a *App) Close() error {
	var errs []error
	if a.Audit != nil {
		errs = append(errs, a.Audit.Close())
	}
	if a.Provider != nil {
		errs = append(errs, a.Provider.Close())
	}
	return errors.Join(errs...)
}
