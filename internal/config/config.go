package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"taskflow/internal/logger"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string `toml:"app_port"`
	AppEnv   string `toml:"app_env"`
	LogLevel string `toml:"log_level"`
	LogJSON  bool   `toml:"log_json"`

	// Audit and access logs live under LogsDir unless given as absolute paths.
	LogsDir       string `toml:"logs_dir"`
	AuditLogFile  string `toml:"audit_log_file"`
	AccessLogFile string `toml:"access_log_file"`

	// StaticDir overrides the embedded client bundle when set.
	StaticDir string `toml:"static_dir"`

	// Artificial latency on task endpoints, drawn from [min, max) ms.
	LatencyMinMS int `toml:"latency_min_ms"`
	LatencyMaxMS int `toml:"latency_max_ms"`

	SeedSamples   bool   `toml:"seed_samples"`
	AllowedOrigin string `toml:"allowed_origin"`

	// Rate limit counters live in Redis when RedisAddr is set and in process
	// memory otherwise. APIRateLimit 0 disables limiting.
	RedisAddr            string `toml:"redis_addr"`
	RedisPassword        string `toml:"redis_password"`
	RedisDB              int    `toml:"redis_db"`
	APIRateLimit         int    `toml:"api_rate_limit"`
	APIRateWindowSeconds int    `toml:"api_rate_window_seconds"`

	// AuditDatabaseURL enables the Postgres audit sink.
	AuditDatabaseURL string `toml:"audit_database_url"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		AppPort:              "3000",
		AppEnv:               "production",
		LogLevel:             "info",
		LogsDir:              "logs",
		AuditLogFile:         "tasks.log",
		AccessLogFile:        "access.log",
		LatencyMinMS:         200,
		LatencyMaxMS:         500,
		SeedSamples:          true,
		APIRateLimit:         300,
		APIRateWindowSeconds: 60,
	}
}

// Load reads TASKFLOW_CONFIG (TOML), then .env, then the environment, and
// exits on an invalid result.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadFrom(os.Getenv("TASKFLOW_CONFIG"), os.LookupEnv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// LoadFrom builds a config from defaults, an optional TOML file and lookup,
// in increasing order of precedence.
func LoadFrom(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	env := envReader{lookup: lookup}
	env.str("APP_PORT", &cfg.AppPort)
	env.str("APP_ENV", &cfg.AppEnv)
	env.str("LOG_LEVEL", &cfg.LogLevel)
	env.boolean("LOG_JSON", &cfg.LogJSON)
	env.str("LOGS_DIR", &cfg.LogsDir)
	env.str("AUDIT_LOG_FILE", &cfg.AuditLogFile)
	env.str("ACCESS_LOG_FILE", &cfg.AccessLogFile)
	env.str("STATIC_DIR", &cfg.StaticDir)
	env.integer("LATENCY_MIN_MS", &cfg.LatencyMinMS)
	env.integer("LATENCY_MAX_MS", &cfg.LatencyMaxMS)
	env.boolean("SEED_SAMPLES", &cfg.SeedSamples)
	env.str("ALLOWED_ORIGIN", &cfg.AllowedOrigin)
	env.str("REDIS_ADDR", &cfg.RedisAddr)
	env.str("REDIS_PASSWORD", &cfg.RedisPassword)
	env.integer("REDIS_DB", &cfg.RedisDB)
	env.integer("API_RATE_LIMIT", &cfg.APIRateLimit)
	env.integer("API_RATE_WINDOW_SECONDS", &cfg.APIRateWindowSeconds)
	env.str("AUDIT_DATABASE_URL", &cfg.AuditDatabaseURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.AppPort == "" {
		errs = append(errs, errors.New("APP_PORT must not be empty"))
	}
	if c.LatencyMinMS < 0 || c.LatencyMaxMS < 0 {
		errs = append(errs, errors.New("latency bounds must not be negative"))
	}
	if c.LatencyMaxMS < c.LatencyMinMS {
		errs = append(errs, fmt.Errorf("LATENCY_MAX_MS (%d) is below LATENCY_MIN_MS (%d)", c.LatencyMaxMS, c.LatencyMinMS))
	}
	if c.APIRateLimit < 0 {
		errs = append(errs, errors.New("API_RATE_LIMIT must not be negative"))
	}
	if c.APIRateWindowSeconds <= 0 {
		errs = append(errs, errors.New("API_RATE_WINDOW_SECONDS must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return ":" + c.AppPort
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

func (c *Config) AuditLogPath() string {
	return c.logPath(c.AuditLogFile)
}

func (c *Config) AccessLogPath() string {
	return c.logPath(c.AccessLogFile)
}

func (c *Config) logPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.LogsDir, name)
}

// Latency returns the artificial latency bounds.
func (c *Config) Latency() (min, max time.Duration) {
	return time.Duration(c.LatencyMinMS) * time.Millisecond, time.Duration(c.LatencyMaxMS) * time.Millisecond
}

func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.APIRateWindowSeconds) * time.Second
}

// envReader applies environment overrides. Malformed numbers and booleans
// are ignored with a warning and the previous value is kept.
type envReader struct {
	lookup func(string) (string, bool)
}

func (e envReader) get(key string) (string, bool) {
	if e.lookup == nil {
		return "", false
	}
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e envReader) integer(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("ignoring malformed integer", "key", key, "value", v)
		return
	}
	*dst = n
}

func (e envReader) boolean(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("ignoring malformed boolean", "key", key, "value", v)
		return
	}
	*dst = b
}
