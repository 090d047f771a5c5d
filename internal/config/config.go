package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort           = "8080"
	defaultSecretKey      = "add_your_key_here"
	defaultGinMode        = "release"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

var validGinModes = map[string]struct{}{
	"debug":   {},
	"release": {},
	"test":    {},
}

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML config > Defaults
type Config struct {
	Port                 string        `yaml:"port"`
	SecretKey            string        `yaml:"secret_key"`
	TemplatesDir         string        `yaml:"templates_dir"`
	StaticDir            string        `yaml:"static_dir"`
	GinMode              string        `yaml:"gin_mode"`
	LogLevel             string        `yaml:"log_level"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	IdleTimeout          time.Duration `yaml:"idle_timeout"`
	EnableRequestLogging bool          `yaml:"enable_request_logging"`
	SSLRedirect          bool          `yaml:"ssl_redirect"`
	MetricsAddr          string        `yaml:"metrics_addr"`
	RateLimitRPS         float64       `yaml:"-"`
	RateLimitBurst       int           `yaml:"-"`
}

// UsesPlaceholderSecret reports whether the secret key is still the shipped placeholder.
func (c Config) UsesPlaceholderSecret() bool {
	return c.SecretKey == defaultSecretKey
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	SecretKey            string        `yaml:"secret_key"`
	TemplatesDir         string        `yaml:"templates_dir"`
	StaticDir            string        `yaml:"static_dir"`
	GinMode              string        `yaml:"gin_mode"`
	LogLevel             string        `yaml:"log_level"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	SSLRedirect          *bool         `yaml:"ssl_redirect"`
	MetricsAddr          string        `yaml:"metrics_addr"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	EnvFile        string
	Port           *string
	TemplatesDir   *string
	StaticDir      *string
	GinMode        *string
	LogLevel       *string
	MetricsAddr    *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML config > Defaults
//
// Values from an env file (CLIOverrides.EnvFile) only fill in variables that
// are not already present in the process environment.
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	lookup := os.LookupEnv
	if overrides != nil && overrides.EnvFile != "" {
		fileVars, err := godotenv.Read(overrides.EnvFile)
		if err != nil {
			return Config{}, fmt.Errorf("read env file: %w", err)
		}
		lookup = envLookup(fileVars)
	}
	applyEnvConfig(&cfg, lookup)

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the configuration used when no file, environment or flags are supplied.
func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		SecretKey:            defaultSecretKey,
		GinMode:              defaultGinMode,
		LogLevel:             defaultLogLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	setString(&cfg.Port, yamlCfg.Port)
	setString(&cfg.SecretKey, yamlCfg.SecretKey)
	setString(&cfg.TemplatesDir, yamlCfg.TemplatesDir)
	setString(&cfg.StaticDir, yamlCfg.StaticDir)
	setString(&cfg.GinMode, yamlCfg.GinMode)
	setString(&cfg.LogLevel, yamlCfg.LogLevel)
	setString(&cfg.MetricsAddr, yamlCfg.MetricsAddr)

	setDuration(&cfg.ShutdownGracePeriod, yamlCfg.ShutdownGracePeriod)
	setDuration(&cfg.ReadHeaderTimeout, yamlCfg.ReadHeaderTimeout)
	setDuration(&cfg.WriteTimeout, yamlCfg.WriteTimeout)
	setDuration(&cfg.IdleTimeout, yamlCfg.IdleTimeout)

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
	if yamlCfg.SSLRedirect != nil {
		cfg.SSLRedirect = *yamlCfg.SSLRedirect
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}
}

func applyEnvConfig(cfg *Config, lookup func(string) (string, bool)) {
	get := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}

	setString(&cfg.Port, get("PORT"))
	setString(&cfg.SecretKey, get("SECRET_KEY"))
	setString(&cfg.TemplatesDir, get("TEMPLATES_DIR"))
	setString(&cfg.StaticDir, get("STATIC_DIR"))
	setString(&cfg.GinMode, get("GIN_MODE"))
	setString(&cfg.LogLevel, get("LOG_LEVEL"))
	setString(&cfg.MetricsAddr, get("METRICS_ADDR"))

	if raw := get("SSL_REDIRECT"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.SSLRedirect = value
		}
	}

	if rps := get("RATE_LIMIT_RPS"); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := get("RATE_LIMIT_BURST"); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// envLookup prefers the process environment and falls back to values read from an env file.
func envLookup(fileVars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := fileVars[key]
		return value, ok
	}
}

func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	setStringPtr(&cfg.Port, overrides.Port)
	setStringPtr(&cfg.TemplatesDir, overrides.TemplatesDir)
	setStringPtr(&cfg.StaticDir, overrides.StaticDir)
	setStringPtr(&cfg.GinMode, overrides.GinMode)
	setStringPtr(&cfg.LogLevel, overrides.LogLevel)
	setStringPtr(&cfg.MetricsAddr, overrides.MetricsAddr)

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("SECRET_KEY cannot be empty")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if _, ok := validGinModes[cfg.GinMode]; !ok {
		return fmt.Errorf("unknown gin mode %q (want debug, release or test)", cfg.GinMode)
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setStringPtr(dst *string, value *string) {
	if value != nil && *value != "" {
		*dst = *value
	}
}

func setDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}
