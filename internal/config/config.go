// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FUNNEL_SERVER_PORT.
const EnvPrefix = "FUNNEL"

// Config is the full application configuration.
// Values come from defaults, then an optional YAML/JSON file, then FUNNEL_* environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" json:"server"`
	Logging   LoggingConfig   `mapstructure:"logging" json:"logging"`
	Scoring   ScoringConfig   `mapstructure:"scoring" json:"scoring"`
	LLM       LLMConfig       `mapstructure:"llm" json:"llm"`
	Cache     CacheConfig     `mapstructure:"cache" json:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" json:"rate_limit"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `mapstructure:"host" json:"host"`
	Port            int           `mapstructure:"port" json:"port"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" json:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
	CORSOrigin      string        `mapstructure:"cors_origin" json:"cors_origin"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" json:"max_body_bytes"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	JSON  bool `mapstructure:"json" json:"json"`
	Debug bool `mapstructure:"debug" json:"debug"`
}

// ScoringConfig configures the deterministic pipeline.
type ScoringConfig struct {
	FloorPolicy string `mapstructure:"floor_policy" json:"floor_policy"` // advisory | soft_guard
}

// LLMConfig configures the optional explanation rewriter.
type LLMConfig struct {
	Enabled      bool          `mapstructure:"enabled" json:"enabled"`
	APIKey       string        `mapstructure:"api_key" json:"-"`
	Tier         string        `mapstructure:"tier" json:"tier"`   // lite | standard | advanced
	Model        string        `mapstructure:"model" json:"model"` // overrides the tier's default model
	Timeout      time.Duration `mapstructure:"timeout" json:"timeout"`
	MaxLogLength int           `mapstructure:"max_log_length" json:"max_log_length"`
}

// CacheConfig configures the Redis cache for rewritten explanations.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled" json:"enabled"`
	Addr     string        `mapstructure:"addr" json:"addr"`
	Password string        `mapstructure:"password" json:"-"`
	DB       int           `mapstructure:"db" json:"db"`
	TTL      time.Duration `mapstructure:"ttl" json:"ttl"`
}

// RateLimitConfig configures per-client token buckets.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled" json:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit" json:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window" json:"default_window"`
	AnalyzeLimit    int           `mapstructure:"analyze_limit" json:"analyze_limit"`
	AnalyzeWindow   time.Duration `mapstructure:"analyze_window" json:"analyze_window"`
	AnalyzeBurst    int           `mapstructure:"analyze_burst" json:"analyze_burst"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" json:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist" json:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist" json:"blacklist"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigin:      "*",
			MaxBodyBytes:    1 << 20,
		},
		Scoring: ScoringConfig{FloorPolicy: "advisory"},
		LLM: LLMConfig{
			Tier:         "standard",
			Timeout:      20 * time.Second,
			MaxLogLength: 500,
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
			TTL:  24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			AnalyzeLimit:    60,
			AnalyzeWindow:   time.Minute,
			AnalyzeBurst:    10,
			CleanupInterval: 5 * time.Minute,
		},
	}
}

// LoadConfig loads configuration from an optional file plus environment overrides.
// An empty path skips the file. GEMINI_API_KEY is honoured when FUNNEL_LLM_API_KEY is unset.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, &ConfigError{Field: "path", Message: "failed to get current directory", Cause: err}
			}
			path = filepath.Join(cwd, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
				return nil, &ConfigError{Field: "path", Message: fmt.Sprintf("failed to read config file %s", path), Cause: err}
			}
			return nil, &ConfigError{Field: "path", Message: "failed to parse config file", Cause: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Message: "failed to decode config", Cause: err}
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.cors_origin", d.Server.CORSOrigin)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)

	v.SetDefault("logging.json", d.Logging.JSON)
	v.SetDefault("logging.debug", d.Logging.Debug)

	v.SetDefault("scoring.floor_policy", d.Scoring.FloorPolicy)

	v.SetDefault("llm.enabled", d.LLM.Enabled)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.tier", d.LLM.Tier)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_log_length", d.LLM.MaxLogLength)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.addr", d.Cache.Addr)
	v.SetDefault("cache.password", d.Cache.Password)
	v.SetDefault("cache.db", d.Cache.DB)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.default_limit", d.RateLimit.DefaultLimit)
	v.SetDefault("rate_limit.default_window", d.RateLimit.DefaultWindow)
	v.SetDefault("rate_limit.analyze_limit", d.RateLimit.AnalyzeLimit)
	v.SetDefault("rate_limit.analyze_window", d.RateLimit.AnalyzeWindow)
	v.SetDefault("rate_limit.analyze_burst", d.RateLimit.AnalyzeBurst)
	v.SetDefault("rate_limit.cleanup_interval", d.RateLimit.CleanupInterval)
	v.SetDefault("rate_limit.whitelist", d.RateLimit.Whitelist)
	v.SetDefault("rate_limit.blacklist", d.RateLimit.Blacklist)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: fmt.Sprintf("must be between 0 and 65535, got %d", c.Server.Port)}
	}
	if c.Server.MaxBodyBytes < 0 {
		return &ConfigError{Field: "server.max_body_bytes", Message: "must be non-negative"}
	}

	switch strings.ToLower(c.Scoring.FloorPolicy) {
	case "", "advisory", "soft_guard":
	default:
		return &ConfigError{Field: "scoring.floor_policy", Message: fmt.Sprintf("must be advisory or soft_guard, got %q", c.Scoring.FloorPolicy)}
	}

	switch c.LLM.Tier {
	case "", "lite", "standard", "advanced":
	default:
		return &ConfigError{Field: "llm.tier", Message: fmt.Sprintf("must be lite, standard or advanced, got %q", c.LLM.Tier)}
	}
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return &ConfigError{Field: "llm.api_key", Message: "is required when llm.enabled is true (set FUNNEL_LLM_API_KEY or GEMINI_API_KEY)"}
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return &ConfigError{Field: "cache.addr", Message: "is required when cache.enabled is true"}
	}
	if c.Cache.TTL < 0 {
		return &ConfigError{Field: "cache.ttl", Message: "must be non-negative"}
	}

	if c.RateLimit.DefaultLimit < 0 || c.RateLimit.AnalyzeLimit < 0 || c.RateLimit.AnalyzeBurst < 0 {
		return &ConfigError{Field: "rate_limit", Message: "limits must be non-negative"}
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultWindow <= 0 || c.RateLimit.AnalyzeWindow <= 0) {
		return &ConfigError{Field: "rate_limit", Message: "windows must be positive when rate limiting is enabled"}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// Bool fields are not merged because unset cannot be told apart from false.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.Host == "" {
		result.Server.Host = defaults.Server.Host
	}
	if result.Server.RequestTimeout == 0 {
		result.Server.RequestTimeout = defaults.Server.RequestTimeout
	}
	if result.Server.ShutdownTimeout == 0 {
		result.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if result.Server.CORSOrigin == "" {
		result.Server.CORSOrigin = defaults.Server.CORSOrigin
	}
	if result.Server.MaxBodyBytes == 0 {
		result.Server.MaxBodyBytes = defaults.Server.MaxBodyBytes
	}

	if result.Scoring.FloorPolicy == "" {
		result.Scoring.FloorPolicy = defaults.Scoring.FloorPolicy
	}

	if result.LLM.APIKey == "" {
		result.LLM.APIKey = defaults.LLM.APIKey
	}
	if result.LLM.Tier == "" {
		result.LLM.Tier = defaults.LLM.Tier
	}
	if result.LLM.Model == "" {
		result.LLM.Model = defaults.LLM.Model
	}
	if result.LLM.Timeout == 0 {
		result.LLM.Timeout = defaults.LLM.Timeout
	}
	if result.LLM.MaxLogLength == 0 {
		result.LLM.MaxLogLength = defaults.LLM.MaxLogLength
	}

	if result.Cache.Addr == "" {
		result.Cache.Addr = defaults.Cache.Addr
	}
	if result.Cache.TTL == 0 {
		result.Cache.TTL = defaults.Cache.TTL
	}

	if result.RateLimit.DefaultLimit == 0 {
		result.RateLimit.DefaultLimit = defaults.RateLimit.DefaultLimit
	}
	if result.RateLimit.DefaultWindow == 0 {
		result.RateLimit.DefaultWindow = defaults.RateLimit.DefaultWindow
	}
	if result.RateLimit.AnalyzeLimit == 0 {
		result.RateLimit.AnalyzeLimit = defaults.RateLimit.AnalyzeLimit
	}
	if result.RateLimit.AnalyzeWindow == 0 {
		result.RateLimit.AnalyzeWindow = defaults.RateLimit.AnalyzeWindow
	}
	if result.RateLimit.AnalyzeBurst == 0 {
		result.RateLimit.AnalyzeBurst = defaults.RateLimit.AnalyzeBurst
	}
	if result.RateLimit.CleanupInterval == 0 {
		result.RateLimit.CleanupInterval = defaults.RateLimit.CleanupInterval
	}

	return result
}
