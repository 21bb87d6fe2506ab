package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the base name of the configuration file, without extension.
const FileName = "typemeta"

// EnvPrefix prefixes the environment variables overriding the configuration,
// e.g. TYPEMETA_LOG_LEVEL.
const EnvPrefix = "TYPEMETA"

// Config represents the typemeta configuration
type Config struct {
	Packages []string     `mapstructure:"packages"`
	Dir      string       `mapstructure:"dir"`
	Log      LogConfig    `mapstructure:"log"`
	Report   ReportConfig `mapstructure:"report"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ReportConfig represents report rendering configuration
type ReportConfig struct {
	MaxDepth  int  `mapstructure:"max_depth"`
	Inherited bool `mapstructure:"inherited"`
	Color     bool `mapstructure:"color"`
}

// Load loads the configuration from typemeta.yaml in dir, when present, and
// from TYPEMETA_* environment variables.
func Load(dir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("packages", []string{"./..."})
	v.SetDefault("dir", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
	v.SetDefault("report.max_depth", 3)
	v.SetDefault("report.inherited", true)
	v.SetDefault("report.color", true)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Logger builds the zap logger described by the configuration.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

func parseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log.level: %w", err)
	}

	return level, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	var errs []error

	if len(cfg.Packages) == 0 {
		errs = append(errs, errors.New("packages must list at least one pattern"))
	}
	for _, p := range cfg.Packages {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, errors.New("packages must not contain empty patterns"))
			break
		}
	}
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if cfg.Report.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("report.max_depth must not be negative, got: %d", cfg.Report.MaxDepth))
	}

	return errors.Join(errs...)
}
