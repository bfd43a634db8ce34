// Package config provides Viper-based configuration loading for npcforge.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage driver names accepted by StorageConfig.Driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig locates the generator's data tables.
type ContentConfig struct {
	// Dir is the root of the content tree (archetypes/, races/, behaviors/, ...).
	Dir string `mapstructure:"dir"`
}

// GeneratorConfig tunes the stat engine.
type GeneratorConfig struct {
	// RetryCap bounds extra draws when a behavior pool yields duplicates.
	RetryCap int `mapstructure:"retry_cap"`
	// Seed makes generation reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// StorageConfig selects the NPC library backend.
type StorageConfig struct {
	// Driver is one of memory, sqlite, postgres, redis.
	Driver string `mapstructure:"driver"`
	// Capacity is the maximum number of saved NPCs.
	Capacity int `mapstructure:"capacity"`
}

// SQLiteConfig holds the local library file settings.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig holds the redis library settings.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Content   ContentConfig   `mapstructure:"content"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// Validate checks all configuration invariants. Backend sections are only
// checked for the selected storage driver.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	check := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	check(validateLogging(c.Logging))
	check(validateContent(c.Content))
	check(validateGenerator(c.Generator))
	check(validateStorage(c.Storage))

	switch c.Storage.Driver {
	case DriverPostgres:
		check(validateDatabase(c.Database))
	case DriverSQLite:
		if c.SQLite.Path == "" {
			errs = append(errs, "sqlite.path must not be empty")
		}
	case DriverRedis:
		check(validateRedis(c.Redis))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.Dir == "" {
		return errors.New("content.dir must not be empty")
	}
	return nil
}

func validateGenerator(g GeneratorConfig) error {
	if g.RetryCap < 0 {
		return fmt.Errorf("generator.retry_cap must be >= 0, got %d", g.RetryCap)
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	var errs []string
	validDrivers := map[string]bool{DriverMemory: true, DriverSQLite: true, DriverPostgres: true, DriverRedis: true}
	if !validDrivers[s.Driver] {
		errs = append(errs, fmt.Sprintf("storage.driver must be one of [memory, sqlite, postgres, redis], got %q", s.Driver))
	}
	if s.Capacity < 1 {
		errs = append(errs, fmt.Sprintf("storage.capacity must be >= 1, got %d", s.Capacity))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
	}
	if r.KeyPrefix == "" {
		errs = append(errs, "redis.key_prefix must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file and uses
// defaults plus environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a viper instance holding the defaults with NPCGEN_-prefixed
// environment overrides enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("NPCGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("content.dir", "content")

	v.SetDefault("generator.retry_cap", 5)
	v.SetDefault("generator.seed", 0)

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.capacity", 100)

	v.SetDefault("sqlite.path", "npcforge.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "npcforge")
	v.SetDefault("database.password", "npcforge")
	v.SetDefault("database.name", "npcforge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "npcforge:library")
}
