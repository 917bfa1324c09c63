package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// FileName is the config file looked up in the user config directory.
const FileName = "cdo.toml"

// DefaultAddress is the TCP bind address used when none is configured.
const DefaultAddress = "127.0.0.1:9000"

// EnvPrefix prefixes environment variables that override file values,
// e.g. CDO_DB_STRING.
const EnvPrefix = "CDO"

const (
	KeyTCP                 = "tcp"
	KeyDBString            = "db_string"
	KeyAddress             = "address"
	KeyEnvironment         = "environment"
	KeyLogLevel            = "log_level"
	KeyMaxConns            = "max_conns"
	KeyHealthCheckInterval = "health_check_interval"
	KeyMetricsSchedule     = "metrics_schedule"
)

var keys = []string{
	KeyTCP,
	KeyDBString,
	KeyAddress,
	KeyEnvironment,
	KeyLogLevel,
	KeyMaxConns,
	KeyHealthCheckInterval,
	KeyMetricsSchedule,
}

type Config struct {
	TCP                 bool   `mapstructure:"tcp" json:"tcp"`
	DBString            string `mapstructure:"db_string" json:"db_string"`
	Address             string `mapstructure:"address" json:"address"`
	Environment         string `mapstructure:"environment" json:"environment"`
	LogLevel            string `mapstructure:"log_level" json:"log_level"`
	MaxConns            int    `mapstructure:"max_conns" json:"max_conns"`
	HealthCheckInterval string `mapstructure:"health_check_interval" json:"health_check_interval"`
	MetricsSchedule     string `mapstructure:"metrics_schedule" json:"metrics_schedule"`
}

// DefaultPath returns <user config dir>/cdo.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the TOML file at path, applies defaults and CDO_* environment
// overrides, and validates the result. A missing file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault(KeyTCP, false)
	v.SetDefault(KeyAddress, DefaultAddress)
	v.SetDefault(KeyEnvironment, EnvProd)
	v.SetDefault(KeyLogLevel, LogLevelInfo)
	v.SetDefault(KeyMaxConns, 10)
	v.SetDefault(KeyHealthCheckInterval, "30s")
	v.SetDefault(KeyMetricsSchedule, "@every 5m")

	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DBString,
			validation.Required,
		),
		validation.Field(&c.Address,
			validation.Required,
			validation.By(validateHostPort),
		),
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.LogLevel,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
		validation.Field(&c.MaxConns,
			validation.Required,
			validation.Min(1),
		),
		validation.Field(&c.HealthCheckInterval,
			validation.Required,
			validation.By(validateDuration),
		),
		validation.Field(&c.MetricsSchedule,
			validation.Required,
			validation.By(validateSchedule),
		),
	)
}

// HealthCheckEvery returns the parsed health check interval. Zero disables
// the check.
func (c *Config) HealthCheckEvery() time.Duration {
	d, err := time.ParseDuration(c.HealthCheckInterval)
	if err != nil {
		return 0
	}
	return d
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	if d < 0 {
		return validation.NewError("validation_negative_duration", "must not be negative")
	}

	return nil
}

func validateSchedule(value interface{}) error {
	spec, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return validation.NewError("validation_invalid_schedule", "must be a cron spec or descriptor (e.g., @every 5m)")
	}

	return nil
}
