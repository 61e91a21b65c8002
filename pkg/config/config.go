// Package config loads run configuration from a file, the environment and defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/codeGROOVE-dev/substackfinder/pkg/export"
)

// EnvPrefix prefixes environment overrides, e.g. SUBSTACKFINDER_MAX_PROFILES.
const EnvPrefix = "SUBSTACKFINDER"

// Configuration errors.
var (
	ErrNoKeywords     = errors.New("config: keywords must not be empty")
	ErrInvalidConfig  = errors.New("config: invalid value")
	ErrConfigNotFound = errors.New("config: file not found")
)

// Defaults.
const (
	DefaultRateLimitDelay = 2.0
	DefaultMaxProfiles    = 100
	DefaultMaxRetries     = 3
	DefaultTimeout        = 15.0
	DefaultExploreLimit   = 50
	DefaultOutputDir      = "results"
)

// DiscoverySources toggles discovery modes.
type DiscoverySources struct {
	ExplorePage bool `mapstructure:"explore_page"`
	Leaderboard bool `mapstructure:"leaderboard"`
}

// Config holds everything a run needs. Durations are configured in seconds.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Config struct {
	Keywords         []string         `mapstructure:"keywords"`
	CaseSensitive    bool             `mapstructure:"case_sensitive"`
	RateLimitDelay   float64          `mapstructure:"rate_limit_delay"`
	MaxProfiles      int              `mapstructure:"max_profiles"`
	MaxRetries       int              `mapstructure:"max_retries"`
	Timeout          float64          `mapstructure:"timeout"`
	ExploreLimit     int              `mapstructure:"explore_limit"`
	DiscoverySources DiscoverySources `mapstructure:"discovery_sources"`
	OutputDir        string           `mapstructure:"output_dir"`
	ExportFormats    []string         `mapstructure:"export_formats"`
}

// RateLimit returns the pause taken before every request.
func (c *Config) RateLimit() time.Duration { return seconds(c.RateLimitDelay) }

// FetchTimeout returns the per-request timeout.
func (c *Config) FetchTimeout() time.Duration { return seconds(c.Timeout) }

// Formats returns the parsed export formats.
func (c *Config) Formats() ([]export.Format, error) { return export.ParseFormats(c.ExportFormats) }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("case_sensitive", false)
	v.SetDefault("rate_limit_delay", DefaultRateLimitDelay)
	v.SetDefault("max_profiles", DefaultMaxProfiles)
	v.SetDefault("max_retries", DefaultMaxRetries)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("explore_limit", DefaultExploreLimit)
	v.SetDefault("discovery_sources.explore_page", true)
	v.SetDefault("discovery_sources.leaderboard", true)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("export_formats", []string{string(export.JSON), string(export.CSV)})
}

// Load reads the config file at path (JSON, YAML or TOML by extension),
// applies environment overrides and defaults, and validates the result.
// An empty path searches for config.{json,yaml} in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("keywords"); err != nil {
		return nil, fmt.Errorf("bind keywords env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrConfigNotFound, err)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return FromViper(v)
}

// FromViper decodes and validates configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required keys and ranges.
func (c *Config) Validate() error {
	if len(c.Keywords) == 0 {
		return ErrNoKeywords
	}
	for i, kw := range c.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("%w: keywords[%d] is empty", ErrInvalidConfig, i)
		}
	}
	switch {
	case c.MaxProfiles <= 0:
		return fmt.Errorf("%w: max_profiles must be positive, got %d", ErrInvalidConfig, c.MaxProfiles)
	case c.MaxRetries <= 0:
		return fmt.Errorf("%w: max_retries must be positive, got %d", ErrInvalidConfig, c.MaxRetries)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfig, c.Timeout)
	case c.RateLimitDelay < 0:
		return fmt.Errorf("%w: rate_limit_delay must not be negative, got %v", ErrInvalidConfig, c.RateLimitDelay)
	case c.ExploreLimit <= 0:
		return fmt.Errorf("%w: explore_limit must be positive, got %d", ErrInvalidConfig, c.ExploreLimit)
	}
	if _, err := c.Formats(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
