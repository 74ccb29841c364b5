package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Store backends accepted by store.backend.
const (
	BackendSQLite   = "sqlite3"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
	BackendMemory   = "memory"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	Catalog struct {
		BaseURL string
		Timeout time.Duration
	}
	Store struct {
		Backend string
		DSN     string
		Path    string
	}
	Auth struct {
		HashPasswords bool
	}
	Log struct {
		Level  string
		Format string
	}
}

// SQL reports whether the configured backend is one of the sqlx drivers.
func (c *Config) SQL() bool {
	switch c.Store.Backend {
	case BackendSQLite, BackendMySQL, BackendPostgres:
		return true
	}
	return false
}

// Load reads config from environment (ANIMESHELF_ prefix) and optional animeshelf.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ANIMESHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("animeshelf")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("catalog.base_url", "https://api.jikan.moe/v4")
	v.SetDefault("catalog.timeout", "15s")
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.dsn", "file:animeshelf.db")
	v.SetDefault("store.path", "animeshelf.badger")
	v.SetDefault("auth.hash_passwords", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.Catalog.BaseURL = strings.TrimRight(v.GetString("catalog.base_url"), "/")
	cfg.Store.Backend = strings.ToLower(v.GetString("store.backend"))
	cfg.Store.DSN = v.GetString("store.dsn")
	cfg.Store.Path = v.GetString("store.path")
	cfg.Auth.HashPasswords = v.GetBool("auth.hash_passwords")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	timeout, err := time.ParseDuration(v.GetString("catalog.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid ANIMESHELF_CATALOG_TIMEOUT: %w", err)
	}
	cfg.Catalog.Timeout = timeout

	if cfg.Catalog.BaseURL == "" {
		return nil, fmt.Errorf("ANIMESHELF_CATALOG_BASE_URL is required")
	}
	switch cfg.Store.Backend {
	case BackendSQLite, BackendMySQL, BackendPostgres:
		if cfg.Store.DSN == "" {
			return nil, fmt.Errorf("ANIMESHELF_STORE_DSN is required for %s", cfg.Store.Backend)
		}
	case BackendBadger:
		if cfg.Store.Path == "" {
			return nil, fmt.Errorf("ANIMESHELF_STORE_PATH is required for badger")
		}
	case BackendMemory:
	default:
		return nil, fmt.Errorf("unknown ANIMESHELF_STORE_BACKEND %q (sqlite3, mysql, postgres, badger, memory)", cfg.Store.Backend)
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid ANIMESHELF_LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the process logger from the log.* settings. Output goes to
// stderr so CLI commands can keep stdout for their results.
func (c *Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		l.SetLevel(lvl)
	}
	if strings.EqualFold(c.Log.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
