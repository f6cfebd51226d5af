// Package config loads yozuk settings from config.yaml, YOZUK_ environment
// variables and bound command line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
	"github.com/yozuk/yozuk-sub000/pkg/telemetry"
	"github.com/yozuk/yozuk-sub000/pkg/yozuk"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "YOZUK"

// DefaultStreamLimit bounds the bytes buffered per input stream.
const DefaultStreamLimit = 16 << 20

// Config is the decoded configuration.
type Config struct {
	LogLevel     string                    `mapstructure:"log_level"`
	LogFormat    string                    `mapstructure:"log_format"`
	Model        string                    `mapstructure:"model"`
	Skills       map[string]map[string]any `mapstructure:"skills"`
	Allowlist    []string                  `mapstructure:"allowlist"`
	Redirections []yozuk.Redirection       `mapstructure:"redirections"`
	I18n         sdk.I18n                  `mapstructure:"i18n"`
	StreamLimit  int64                     `mapstructure:"stream_limit"`
	Tracing      telemetry.Config          `mapstructure:"tracing"`
	Modelgen     Modelgen                  `mapstructure:"modelgen"`
}

// Modelgen configures offline training.
type Modelgen struct {
	// Cache is the sqlite path of the model cache. Empty disables caching.
	Cache  string `mapstructure:"cache"`
	Epochs int    `mapstructure:"epochs"`
}

// SetDefaults registers defaults and search paths on v.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.yozuk")
	v.AddConfigPath(".")

	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "fmt")
	v.SetDefault("model", DefaultModelPath())
	v.SetDefault("stream_limit", DefaultStreamLimit)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sampler", "ratio")
	v.SetDefault("tracing.ratio", 1.0)
	v.SetDefault("modelgen.epochs", 0)
}

// DefaultModelPath is where modelgen writes and the CLI loads the model set.
func DefaultModelPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "model.data"
	}
	return filepath.Join(home, ".yozuk", "model.data")
}

// Read loads the config file when one exists. A missing file is not an error.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// Load decodes v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	if cfg.StreamLimit < 0 {
		return nil, errors.Errorf("stream_limit must not be negative, got %d", cfg.StreamLimit)
	}
	for i, r := range cfg.Redirections {
		if len(r.Tokens) == 0 {
			return nil, errors.Errorf("redirection %d has no tokens", i)
		}
	}
	return &cfg, nil
}

// BuilderOptions turns the engine related settings into builder options.
func (c *Config) BuilderOptions() []yozuk.Option {
	opts := []yozuk.Option{yozuk.WithI18n(c.I18n)}
	if len(c.Allowlist) > 0 {
		opts = append(opts, yozuk.WithAllowlist(c.Allowlist...))
	}
	for key, values := range c.Skills {
		opts = append(opts, yozuk.WithSkillConfig(key, values))
	}
	for _, r := range c.Redirections {
		opts = append(opts, yozuk.WithRedirection(r.Tokens, r.Args))
	}
	return opts
}
