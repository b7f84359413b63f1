// Package config loads process configuration from the environment.
// A .env file in the working directory (or its parent) is read first, then
// every key can be overridden by a real environment variable.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	Database DatabaseConfig

	// StaticDir overrides the embedded site assets when non-empty.
	StaticDir  string
	CORSOrigin string

	// DebugEndpoints registers GET /api/contacts. Never enable in production.
	DebugEndpoints bool
	AutoMigrate    bool

	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxyCount is how many reverse proxies sit in front of the server.
	// 0 means X-Forwarded-For is ignored.
	TrustedProxyCount int
}

// DatabaseConfig holds the relational store settings.
type DatabaseConfig struct {
	Driver   string
	URL      string // DATABASE_URL; takes precedence over the discrete fields
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// PoolSize is the maximum number of simultaneous connections.
	PoolSize int
	// QueueLimit caps callers waiting for a connection. 0 means unbounded.
	QueueLimit       int
	StatementTimeout time.Duration
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads .env files (if present) and the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 0)
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASS", "")
	v.SetDefault("DB_NAME", "stevens_computer")
	v.SetDefault("DB_POOL_SIZE", 10)
	v.SetDefault("DB_QUEUE_LIMIT", 100)
	v.SetDefault("DB_STATEMENT_TIMEOUT", "10s")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("TRUSTED_PROXY_COUNT", 0)

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Database: DatabaseConfig{
			Driver:           strings.ToLower(v.GetString("DB_DRIVER")),
			URL:              v.GetString("DATABASE_URL"),
			Host:             v.GetString("DB_HOST"),
			Port:             v.GetInt("DB_PORT"),
			User:             v.GetString("DB_USER"),
			Password:         v.GetString("DB_PASS"),
			Name:             v.GetString("DB_NAME"),
			PoolSize:         v.GetInt("DB_POOL_SIZE"),
			QueueLimit:       v.GetInt("DB_QUEUE_LIMIT"),
			StatementTimeout: v.GetDuration("DB_STATEMENT_TIMEOUT"),
		},
		StaticDir:         v.GetString("STATIC_DIR"),
		CORSOrigin:        v.GetString("CORS_ORIGIN"),
		AutoMigrate:       v.GetBool("AUTO_MIGRATE"),
		RateLimitRPS:      v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:    v.GetInt("RATE_LIMIT_BURST"),
		TrustedProxyCount: v.GetInt("TRUSTED_PROXY_COUNT"),
	}

	// The debug listing follows the environment unless set explicitly.
	if v.IsSet("DEBUG_ENDPOINTS") {
		cfg.DebugEndpoints = v.GetBool("DEBUG_ENDPOINTS")
	} else {
		cfg.DebugEndpoints = cfg.Environment == "development"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if c.Database.PoolSize <= 0 {
		errs = append(errs, errors.New("DB_POOL_SIZE must be positive"))
	}
	if c.Database.QueueLimit < 0 {
		errs = append(errs, errors.New("DB_QUEUE_LIMIT must not be negative"))
	}
	if c.Database.StatementTimeout < 0 {
		errs = append(errs, errors.New("DB_STATEMENT_TIMEOUT must not be negative"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if c.TrustedProxyCount < 0 {
		errs = append(errs, errors.New("TRUSTED_PROXY_COUNT must not be negative"))
	}
	return errors.Join(errs...)
}

// DSN returns the driver-specific connection string. DATABASE_URL wins when set.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case DriverMySQL:
		port := d.Port
		if port == 0 {
			port = 3306
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
			d.User, d.Password, net.JoinHostPort(d.Host, strconv.Itoa(port)), d.Name)
	default:
		port := d.Port
		if port == 0 {
			port = 5432
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     net.JoinHostPort(d.Host, strconv.Itoa(port)),
			Path:     "/" + d.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}
}

// MigrationURL returns the golang-migrate database URL for this store.
func (d DatabaseConfig) MigrationURL() string {
	dsn := d.DSN()
	if d.Driver != DriverMySQL {
		return dsn
	}
	dsn = strings.TrimPrefix(dsn, "mysql://")
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return "mysql://" + dsn + sep + "multiStatements=true"
}
