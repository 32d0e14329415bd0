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
	Run     RunConfig     `yaml:"run" mapstructure:"run"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// RunConfig configures a harvesting run.
type RunConfig struct {
	Concurrency   int     `yaml:"concurrency" mapstructure:"concurrency"`
	OutputDir     string  `yaml:"output_dir" mapstructure:"output_dir"`
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
}

// FetchConfig configures the resilient fetcher.
type FetchConfig struct {
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries        int     `yaml:"retries" mapstructure:"retries"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	DisableDelays  bool    `yaml:"disable_delays" mapstructure:"disable_delays"`
}

// ScoringConfig configures confidence scoring.
type ScoringConfig struct {
	GrowthBandMin   float64 `yaml:"growth_band_min" mapstructure:"growth_band_min"`
	GrowthBandMax   float64 `yaml:"growth_band_max" mapstructure:"growth_band_max"`
	GrowthBandBonus float64 `yaml:"growth_band_bonus" mapstructure:"growth_band_bonus"`
}

// StoreConfig configures the SQLite run archive.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
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
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("run.concurrency", 5)
	v.SetDefault("run.output_dir", "output")
	v.SetDefault("run.min_confidence", 0.7)
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.retries", 2)
	v.SetDefault("fetch.requests_per_sec", 2.0)
	v.SetDefault("fetch.disable_delays", false)
	v.SetDefault("scoring.growth_band_min", 7.0)
	v.SetDefault("scoring.growth_band_max", 15.0)
	v.SetDefault("scoring.growth_band_bonus", 0.15)
	v.SetDefault("store.path", "leadscout.db")
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
