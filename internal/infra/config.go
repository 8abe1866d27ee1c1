// Package infra loads the configuration and wires the data-access layer:
// the connection pool, the repositories of every entity, the action
// history appenders and the metrics.
package infra

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/adapters/odbc"
	"github.com/ruslano69/cgm-backoffice/pkg/audit"
	"github.com/ruslano69/cgm-backoffice/pkg/coerce"
	"github.com/ruslano69/cgm-backoffice/pkg/resilience"
	"github.com/ruslano69/cgm-backoffice/pkg/retry"
)

// DefaultUser is recorded in the action history when no user is configured
// and the OS does not name one.
const DefaultUser = "operador"

// Config represents the main configuration structure
type Config struct {
	Database   DatabaseConfig   `yaml:"database" koanf:"database"`
	Resilience ResilienceConfig `yaml:"resilience,omitempty" koanf:"resilience"`
	Audit      AuditConfig      `yaml:"audit,omitempty" koanf:"audit"`
	Metrics    MetricsConfig    `yaml:"metrics,omitempty" koanf:"metrics"`
	Log        LogConfig        `yaml:"log,omitempty" koanf:"log"`

	// User is written to the action history.
	User string `yaml:"user,omitempty" koanf:"user"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Type string `yaml:"type" koanf:"type" validate:"required,oneof=mssql odbc sqlite postgres mysql"`

	// DSN is a complete connection string. When set, the fields below are
	// ignored.
	DSN string `yaml:"dsn,omitempty" koanf:"dsn"`

	DataSource  string `yaml:"data_source,omitempty" koanf:"data_source"` // ODBC data source name
	Driver      string `yaml:"driver,omitempty" koanf:"driver"`           // ODBC driver
	Host        string `yaml:"host,omitempty" koanf:"host"`
	Port        int    `yaml:"port,omitempty" koanf:"port" validate:"gte=0,lte=65535"`
	Database    string `yaml:"database" koanf:"database"` // database name or SQLite file
	User        string `yaml:"user,omitempty" koanf:"user"`
	Password    string `yaml:"password,omitempty" koanf:"password"`
	Schema      string `yaml:"schema,omitempty" koanf:"schema"`
	WindowsAuth bool   `yaml:"windows_auth,omitempty" koanf:"windows_auth"`
	TrustCert   bool   `yaml:"trust_cert" koanf:"trust_cert"`
	SSLMode     string `yaml:"sslmode,omitempty" koanf:"sslmode"`

	// LoginTimeout is in seconds.
	LoginTimeout int `yaml:"login_timeout" koanf:"login_timeout" validate:"gte=0"`

	QueryTimeout    time.Duration `yaml:"query_timeout" koanf:"query_timeout"`
	SlowQuery       time.Duration `yaml:"slow_query" koanf:"slow_query"`
	MaxConns        int           `yaml:"max_conns" koanf:"max_conns" validate:"gte=0"`
	MinConns        int           `yaml:"min_conns" koanf:"min_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" koanf:"conn_max_lifetime"`

	// CreateTables creates missing entity tables at startup (local
	// databases only).
	CreateTables bool `yaml:"create_tables,omitempty" koanf:"create_tables"`
}

// ResilienceConfig contains circuit breaker and retry settings
type ResilienceConfig struct {
	CircuitBreaker resilience.Config `yaml:"circuit_breaker" koanf:"circuit_breaker"`
	Retry          retry.Config      `yaml:"retry" koanf:"retry"`
}

// AuditConfig selects where the action history goes. Every configured
// appender receives every entry; history is read from the first readable
// one, in the order database, redis, file.
type AuditConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
	Async   bool `yaml:"async" koanf:"async"`

	Database DatabaseAuditConfig       `yaml:"database,omitempty" koanf:"database"`
	Redis    audit.RedisAppenderConfig `yaml:"redis,omitempty" koanf:"redis"`
	File     audit.FileAppenderConfig  `yaml:"file,omitempty" koanf:"file"`
}

// DatabaseAuditConfig keeps the history in a table of the main database.
type DatabaseAuditConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Table   string `yaml:"table,omitempty" koanf:"table"`
}

// MetricsConfig for Prometheus instrumentation
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" koanf:"enabled"`
	Namespace string `yaml:"namespace,omitempty" koanf:"namespace"`
}

// LogConfig for the global zerolog logger
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Pretty bool   `yaml:"pretty" koanf:"pretty"`
}

// DefaultConfig returns the settings of the legacy deployment: MS SQL
// Server through ODBC on localhost, database BancoCGM.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type:            "odbc",
			Driver:          odbc.DefaultDriver,
			Host:            "localhost",
			Database:        "BancoCGM",
			TrustCert:       true,
			LoginTimeout:    5,
			QueryTimeout:    30 * time.Second,
			SlowQuery:       2 * time.Second,
			MaxConns:        10,
			MinConns:        2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Resilience: ResilienceConfig{
			CircuitBreaker: resilience.DefaultConfig(""),
			Retry:          retry.DefaultConfig(),
		},
		Audit: AuditConfig{
			Enabled:  true,
			Async:    true,
			Database: DatabaseAuditConfig{Enabled: true, Table: audit.DefaultTable},
		},
		Metrics: MetricsConfig{Enabled: true, Namespace: "cgm"},
		Log:     LogConfig{Level: "info", Pretty: true},
	}
}

// envKeys maps the supported environment variables to config keys. The
// MSSQL_* names are the ones existing deployments already set.
var envKeys = map[string]string{
	"MSSQL_DSN":        "database.data_source",
	"MSSQL_DRIVER":     "database.driver",
	"MSSQL_TRUST_CERT": "database.trust_cert",
	"MSSQL_TIMEOUT":    "database.login_timeout",
	"MSSQL_HOST":       "database.host",
	"MSSQL_DB":         "database.database",
	"MSSQL_USER":       "database.user",
	"MSSQL_PASSWORD":   "database.password",

	"CGM_DB_TYPE":       "database.type",
	"CGM_DB_URL":        "database.dsn",
	"CGM_DB_SCHEMA":     "database.schema",
	"CGM_CREATE_TABLES": "database.create_tables",
	"CGM_USER":          "user",
	"CGM_LOG_LEVEL":     "log.level",
	"CGM_AUDIT_FILE":    "audit.file.path",
	"CGM_REDIS_ADDR":    "audit.redis.address",
	"CGM_METRICS":       "metrics.enabled",
}

// boolKeys accept the free-form yes/no tokens of the legacy environment.
var boolKeys = map[string]bool{
	"database.trust_cert":    true,
	"database.create_tables": true,
	"metrics.enabled":        true,
}

// Load builds the configuration: defaults, then the YAML file (if path is
// not empty), then a .env file in the working directory, then environment
// variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// .env не обязателен; переменные окружения процесса имеют приоритет
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.User == "" {
		cfg.User = osUser()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	k := koanf.New(".")
	err := k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		key, ok := envKeys[name]
		if !ok {
			return "", nil
		}
		if boolKeys[key] {
			flag, ok := coerce.Flag(value)
			if !ok {
				return "", nil
			}
			return key, strconv.FormatBool(flag == 1)
		}
		return key, value
	}), nil)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("failed to apply environment: %w", err)
	}
	return nil
}

func osUser() string {
	for _, name := range []string{"USERNAME", "USER"} {
		if u := strings.TrimSpace(os.Getenv(name)); u != "" {
			return u
		}
	}
	return DefaultUser
}

// Validate checks struct tags and the settings that depend on each other.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Database.BuildDSN() == "" {
		return fmt.Errorf("invalid config: database %s needs dsn or connection fields", c.Database.Type)
	}
	if err := c.Resilience.Retry.Validate(); err != nil {
		return fmt.Errorf("invalid retry config: %w", err)
	}
	if c.Resilience.CircuitBreaker.Name == "" {
		c.Resilience.CircuitBreaker.Name = c.Database.Type
	}
	if err := c.Resilience.CircuitBreaker.Validate(); err != nil {
		return fmt.Errorf("invalid circuit breaker config: %w", err)
	}
	return nil
}

// BuildDSN constructs database connection string from config
func (c *DatabaseConfig) BuildDSN() string {
	if c.DSN != "" {
		return c.DSN
	}

	switch c.Type {
	case "odbc":
		return odbc.ConnString(odbc.Params{
			DSN:       c.DataSource,
			Driver:    c.Driver,
			Host:      c.host(),
			Database:  c.Database,
			User:      c.User,
			Password:  c.Password,
			TrustCert: c.TrustCert,
			Timeout:   c.LoginTimeout,
		})

	case "mssql":
		if c.Host == "" {
			return ""
		}
		q := url.Values{}
		q.Set("database", c.Database)
		if c.TrustCert {
			q.Set("TrustServerCertificate", "true")
		}
		if c.LoginTimeout > 0 {
			q.Set("connection timeout", strconv.Itoa(c.LoginTimeout))
		}
		u := url.URL{Scheme: "sqlserver", Host: c.host()}
		if c.WindowsAuth {
			q.Set("integrated security", "SSPI")
		} else {
			u.User = url.UserPassword(c.User, c.Password)
		}
		u.RawQuery = q.Encode()
		return u.String()

	case "postgres":
		if c.Host == "" {
			return ""
		}
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     c.host(),
			Path:     "/" + c.Database,
			RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
		}
		return u.String()

	case "mysql":
		if c.Host == "" {
			return ""
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", c.User, c.Password, c.host(), c.Database)

	case "sqlite":
		return c.Database
	}
	return ""
}

func (c *DatabaseConfig) host() string {
	if c.Port > 0 {
		return c.Host + ":" + strconv.Itoa(c.Port)
	}
	return c.Host
}

// AdapterConfig returns the pool configuration for adapters.New.
func (c *Config) AdapterConfig() adapters.Config {
	db := c.Database
	ac := adapters.DefaultConfig(db.Type, db.BuildDSN())
	ac.Schema = db.Schema
	ac.Timeout = db.QueryTimeout
	ac.SlowQuery = db.SlowQuery
	ac.MaxConns = db.MaxConns
	ac.MinConns = db.MinConns
	ac.ConnMaxLifetime = db.ConnMaxLifetime
	ac.Retry = c.Resilience.Retry
	ac.Breaker = c.Resilience.CircuitBreaker
	return ac
}

// SaveConfig saves configuration to YAML file
func SaveConfig(filename string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
