// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Runlog RunlogConfig `yaml:"runlog" mapstructure:"runlog"`
	Rates  RatesConfig  `yaml:"rates" mapstructure:"rates"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SourceConfig locates the input data.
type SourceConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig configures where the gold artifact is written.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RunlogConfig configures the run history database.
type RunlogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RatesConfig holds rate provider settings. BaseCurrency is the reporting
// currency every amount is converted into.
type RatesConfig struct {
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	BaseCurrency string `yaml:"base_currency" mapstructure:"base_currency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FINPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.dir", "./data")
	v.SetDefault("output.path", "./processed_data/gold.csv")
	v.SetDefault("runlog.path", "./processed_data/runlog.db")
	v.SetDefault("rates.base_url", "https://v6.exchangerate-api.com/v6")
	v.SetDefault("rates.base_currency", "EUR")
	// Empty default so Unmarshal sees the key when it is supplied only via
	// FINPIPE_RATES_API_KEY; AutomaticEnv alone does not surface env-only keys.
	v.SetDefault("rates.api_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
