// Package config provides YAML-based configuration loading for tasktrail.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Environment variables that override file values.
const (
	EnvJWTSecret  = "TASKTRAIL_JWT_SECRET"
	EnvDBPassword = "TASKTRAIL_DB_PASSWORD"
	EnvDBDSN      = "TASKTRAIL_DB_DSN"
)

// Config is the top-level tasktrail configuration, loaded from tasktrail.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Seed     SeedConfig     `yaml:"seed"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig holds connection settings for the relational store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Path     string `yaml:"path"` // sqlite only
	DSN      string `yaml:"dsn"`  // overrides the discrete fields when set
}

// AuthConfig holds bearer-token verification settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// SeedConfig lists reference records upserted by `trail db init`.
type SeedConfig struct {
	Users    []SeedUser   `yaml:"users"`
	Statuses []SeedStatus `yaml:"statuses"`
	Labels   []SeedLabel  `yaml:"labels"`
}

// SeedUser is a user row to upsert.
type SeedUser struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// SeedStatus is a status row to upsert.
type SeedStatus struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// SeedLabel is a label row to upsert.
type SeedLabel struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Color string `yaml:"color"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config. Environment
// overrides are applied before validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvJWTSecret); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := getenv(EnvDBPassword); v != "" {
		c.Database.Password = v
	}
	if v := getenv(EnvDBDSN); v != "" {
		c.Database.DSN = v
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMySQL
	}
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			if c.Database.Driver == DriverPostgres {
				c.Database.Port = 5432
			} else {
				c.Database.Port = 3306
			}
		}
		if c.Database.Name == "" {
			c.Database.Name = "tasktrail"
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			c.Database.Path = "tasktrail.db"
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not one of mysql, postgres, sqlite", c.Database.Driver))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, "auth.jwt_secret is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q is not one of json, console", c.Log.Format))
	}
	for i, u := range c.Seed.Users {
		if !validID(u.ID) {
			errs = append(errs, fmt.Sprintf("seed.users[%d].id %q is not a uuid", i, u.ID))
		}
		if u.Name == "" {
			errs = append(errs, fmt.Sprintf("seed.users[%d].name is required", i))
		}
	}
	for i, s := range c.Seed.Statuses {
		if !validID(s.ID) {
			errs = append(errs, fmt.Sprintf("seed.statuses[%d].id %q is not a uuid", i, s.ID))
		}
		if s.Title == "" {
			errs = append(errs, fmt.Sprintf("seed.statuses[%d].title is required", i))
		}
	}
	for i, l := range c.Seed.Labels {
		if !validID(l.ID) {
			errs = append(errs, fmt.Sprintf("seed.labels[%d].id %q is not a uuid", i, l.ID))
		}
		if l.Title == "" {
			errs = append(errs, fmt.Sprintf("seed.labels[%d].title is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
