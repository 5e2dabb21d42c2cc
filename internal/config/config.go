// Package config loads aiafill settings from a YAML file and AIAFILL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/workbook"
	"gopkg.in/yaml.v3"
)

// Resolver kinds.
const (
	ResolverDir       = "dir"
	ResolverSQL       = "sql"
	ResolverFirestore = "firestore"
)

// Config is the process configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Repository RepositoryConfig `yaml:"repository"`
	Generate   GenerateConfig   `yaml:"generate"`
	Server     ServerConfig     `yaml:"server"`
}

// LogConfig selects the log encoding and level.
type LogConfig struct {
	// Format is json or console.
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// RepositoryConfig selects where descriptors and templates live.
type RepositoryConfig struct {
	Resolver     string          `yaml:"resolver"`
	Dir          string          `yaml:"dir"`
	SQL          SQLConfig       `yaml:"sql"`
	Firestore    FirestoreConfig `yaml:"firestore"`
	FetchTimeout time.Duration   `yaml:"fetch_timeout"`
}

// SQLConfig configures the SQL descriptor resolver.
type SQLConfig struct {
	// Driver is sqlite3 or postgres.
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// FirestoreConfig configures the Firestore descriptor resolver.
type FirestoreConfig struct {
	ProjectID  string `yaml:"project_id"`
	Collection string `yaml:"collection"`
}

// GenerateConfig mirrors the generator options.
type GenerateConfig struct {
	ZeroItems       string `yaml:"zero_items"`
	RebaseFormulas  *bool  `yaml:"rebase_formulas"`
	NumericSOVCells bool   `yaml:"numeric_sov_cells"`
	Concurrency     int    `yaml:"concurrency"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: LogConfig{Format: "json", Level: "info"},
		Repository: RepositoryConfig{
			Resolver:     ResolverDir,
			Dir:          "templates",
			SQL:          SQLConfig{Driver: "sqlite3"},
			FetchTimeout: 30 * time.Second,
		},
		Generate: GenerateConfig{
			ZeroItems:   string(workbook.ZeroItemsClear),
			Concurrency: 4,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path (if not empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// GetEnv reads an environment variable or returns fallback.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func (c *Config) applyEnv() error {
	c.Log.Format = GetEnv("AIAFILL_LOG_FORMAT", c.Log.Format)
	c.Log.Level = GetEnv("AIAFILL_LOG_LEVEL", c.Log.Level)
	c.Repository.Resolver = GetEnv("AIAFILL_RESOLVER", c.Repository.Resolver)
	c.Repository.Dir = GetEnv("AIAFILL_TEMPLATE_DIR", c.Repository.Dir)
	c.Repository.SQL.Driver = GetEnv("AIAFILL_SQL_DRIVER", c.Repository.SQL.Driver)
	c.Repository.SQL.DSN = GetEnv("AIAFILL_SQL_DSN", c.Repository.SQL.DSN)
	c.Repository.Firestore.ProjectID = GetEnv("AIAFILL_FIRESTORE_PROJECT", c.Repository.Firestore.ProjectID)
	c.Repository.Firestore.Collection = GetEnv("AIAFILL_FIRESTORE_COLLECTION", c.Repository.Firestore.Collection)
	c.Generate.ZeroItems = GetEnv("AIAFILL_ZERO_ITEMS", c.Generate.ZeroItems)
	c.Server.Addr = GetEnv("AIAFILL_ADDR", c.Server.Addr)

	if v, ok := os.LookupEnv("AIAFILL_FETCH_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AIAFILL_FETCH_TIMEOUT: %w", err)
		}
		c.Repository.FetchTimeout = d
	}
	if v, ok := os.LookupEnv("AIAFILL_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AIAFILL_CONCURRENCY: %w", err)
		}
		c.Generate.Concurrency = n
	}
	if v, ok := os.LookupEnv("AIAFILL_REBASE_FORMULAS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AIAFILL_REBASE_FORMULAS: %w", err)
		}
		c.Generate.RebaseFormulas = &b
	}
	if v, ok := os.LookupEnv("AIAFILL_NUMERIC_SOV_CELLS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AIAFILL_NUMERIC_SOV_CELLS: %w", err)
		}
		c.Generate.NumericSOVCells = b
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}

	switch c.Repository.Resolver {
	case ResolverDir:
		if c.Repository.Dir == "" {
			return errors.New("repository.dir is required for the dir resolver")
		}
	case ResolverSQL:
		if c.Repository.SQL.Driver != "sqlite3" && c.Repository.SQL.Driver != "postgres" {
			return fmt.Errorf("repository.sql.driver must be sqlite3 or postgres, got %q", c.Repository.SQL.Driver)
		}
		if c.Repository.SQL.DSN == "" {
			return errors.New("repository.sql.dsn is required for the sql resolver")
		}
	case ResolverFirestore:
		if c.Repository.Firestore.ProjectID == "" {
			return errors.New("repository.firestore.project_id is required for the firestore resolver")
		}
	default:
		return fmt.Errorf("repository.resolver must be dir, sql or firestore, got %q", c.Repository.Resolver)
	}
	if c.Repository.FetchTimeout < 0 {
		return errors.New("repository.fetch_timeout must not be negative")
	}

	if c.Generate.ZeroItems != "" && !workbook.ZeroItemPolicy(c.Generate.ZeroItems).Valid() {
		return fmt.Errorf("generate.zero_items must be clear, remove or keep, got %q", c.Generate.ZeroItems)
	}
	if c.Generate.Concurrency < 0 {
		return fmt.Errorf("generate.concurrency must not be negative, got %d", c.Generate.Concurrency)
	}
	return nil
}
