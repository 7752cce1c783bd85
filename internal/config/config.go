// Package config loads process settings: defaults, then an optional YAML
// file, then BLITZ_* environment overrides. Command-line flags are applied
// last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"blitzbot/internal/app/policy"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	JournalNone     = "none"
	JournalMemory   = "memory"
	JournalSQLite   = "sqlite"
	JournalPostgres = "postgres"
)

type Config struct {
	Server         ServerConfig  `yaml:"server"`
	Key            string        `yaml:"key"`
	Mode           string        `yaml:"mode"`
	GameID         string        `yaml:"game_id"`
	Map            string        `yaml:"map"`
	MaxTurns       int           `yaml:"max_turns"`
	Seed           int64         `yaml:"seed"`
	LogLevel       string        `yaml:"log_level"`
	ValidateSchema bool          `yaml:"validate_schema"`
	Tuning         policy.Tuning `yaml:"tuning"`
	Journal        JournalConfig `yaml:"journal"`
	Trace          TraceConfig   `yaml:"trace"`
	Ops            OpsConfig     `yaml:"ops"`
}

type ServerConfig struct {
	BaseURL      string        `yaml:"base_url"`
	StartTimeout time.Duration `yaml:"start_timeout"`
	MoveTimeout  time.Duration `yaml:"move_timeout"`
}

type JournalConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	Path        string `yaml:"path"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type TraceConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// OpsConfig controls the local HTTP surface. An empty Addr disables it.
type OpsConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:      "http://game.blitz.codes:8080",
			StartTimeout: 10 * time.Minute,
			MoveTimeout:  15 * time.Second,
		},
		Mode:           "training",
		LogLevel:       "info",
		ValidateSchema: true,
		Tuning:         policy.DefaultTuning(),
		Journal:        JournalConfig{Driver: JournalMemory, Path: "data/journal.db"},
		Trace:          TraceConfig{Prefix: "turns"},
	}
}

// Load reads path over the defaults (an empty path skips the file) and then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func (c *Config) ApplyEnv() {
	c.Server.BaseURL = stringEnv("BLITZ_SERVER_URL", c.Server.BaseURL)
	c.Server.StartTimeout = time.Duration(intEnv("BLITZ_START_TIMEOUT_SECONDS", int(c.Server.StartTimeout/time.Second))) * time.Second
	c.Server.MoveTimeout = time.Duration(intEnv("BLITZ_MOVE_TIMEOUT_SECONDS", int(c.Server.MoveTimeout/time.Second))) * time.Second
	c.Key = stringEnv("BLITZ_KEY", c.Key)
	c.Mode = stringEnv("BLITZ_MODE", c.Mode)
	c.GameID = stringEnv("BLITZ_GAME_ID", c.GameID)
	c.Map = stringEnv("BLITZ_MAP", c.Map)
	c.MaxTurns = intEnv("BLITZ_MAX_TURNS", c.MaxTurns)
	c.Seed = int64(intEnv("BLITZ_SEED", int(c.Seed)))
	c.LogLevel = stringEnv("BLITZ_LOG_LEVEL", c.LogLevel)
	c.ValidateSchema = boolEnv("BLITZ_VALIDATE_SCHEMA", c.ValidateSchema)

	c.Tuning.CriticalLife = intEnv("BLITZ_CRITICAL_LIFE", c.Tuning.CriticalLife)
	c.Tuning.MinLifeBeforeHeal = intEnv("BLITZ_MIN_LIFE_BEFORE_HEAL", c.Tuning.MinLifeBeforeHeal)
	c.Tuning.HealPrice = intEnv("BLITZ_HEAL_PRICE", c.Tuning.HealPrice)
	c.Tuning.HazardCost = intEnv("BLITZ_HAZARD_COST", c.Tuning.HazardCost)
	c.Tuning.StepCost = floatEnv("BLITZ_STEP_COST", c.Tuning.StepCost)

	c.Journal.Driver = stringEnv("BLITZ_JOURNAL", c.Journal.Driver)
	c.Journal.DSN = stringEnv("BLITZ_DB_DSN", c.Journal.DSN)
	c.Journal.Path = stringEnv("BLITZ_SQLITE_PATH", c.Journal.Path)
	c.Journal.AutoMigrate = boolEnv("BLITZ_DB_AUTO_MIGRATE", c.Journal.AutoMigrate)
	c.Trace.Dir = stringEnv("BLITZ_TRACE_DIR", c.Trace.Dir)
	c.Ops.Addr = stringEnv("BLITZ_OPS_ADDR", c.Ops.Addr)
}

func (c Config) Validate() error {
	switch c.Journal.Driver {
	case JournalNone, JournalMemory:
	case JournalSQLite:
		if strings.TrimSpace(c.Journal.Path) == "" {
			return fmt.Errorf("%w: journal.path is required for sqlite", ErrInvalidConfig)
		}
	case JournalPostgres:
		if strings.TrimSpace(c.Journal.DSN) == "" {
			return fmt.Errorf("%w: journal.dsn is required for postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown journal driver %q", ErrInvalidConfig, c.Journal.Driver)
	}
	if c.MaxTurns < 0 {
		return fmt.Errorf("%w: max_turns must be >= 0", ErrInvalidConfig)
	}
	if c.Server.StartTimeout <= 0 || c.Server.MoveTimeout <= 0 {
		return fmt.Errorf("%w: server timeouts must be positive", ErrInvalidConfig)
	}
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
