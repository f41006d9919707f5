// Package config loads simulation settings from an optional bokisim.yaml
// plus environment overrides (BOKISIM_* variables take priority).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the top-level simulation configuration.
type Config struct {
	Game    GameConfig    `mapstructure:"game" yaml:"game"`
	Chart   ChartConfig   `mapstructure:"chart" yaml:"chart"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// GameConfig controls the simulated calendar and starting conditions.
type GameConfig struct {
	StartDate   string `mapstructure:"start_date" yaml:"start_date"` // "YYYY-MM-DD"
	PeriodDays  int    `mapstructure:"period_days" yaml:"period_days"`
	InitialCash int64  `mapstructure:"initial_cash" yaml:"initial_cash"`
	MarketSeed  int64  `mapstructure:"market_seed" yaml:"market_seed"` // 0 = time-seeded
}

// ChartConfig points at the chart-of-accounts source.
type ChartConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // empty = built-in default chart
}

// StorageConfig controls the optional SQLite recorder.
type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // empty = in-memory only
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Console bool   `mapstructure:"console" yaml:"console"`
}

// Default returns the configuration a fresh simulation starts with.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			StartDate:   "2024-01-01",
			PeriodDays:  90,
			InitialCash: 5000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Save writes the configuration as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Load reads configuration from dir/bokisim.yaml (if present) and the
// environment. Missing file is not an error; defaults fill the gaps.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("bokisim")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("game.start_date", "2024-01-01")
	v.SetDefault("game.period_days", 90)
	v.SetDefault("game.initial_cash", 5000)
	v.SetDefault("game.market_seed", 0)
	v.SetDefault("chart.path", "")
	v.SetDefault("storage.path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)

	v.SetEnvPrefix("bokisim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Game.PeriodDays <= 0 {
		return nil, fmt.Errorf("game.period_days must be positive, got %d", cfg.Game.PeriodDays)
	}
	if cfg.Game.InitialCash < 0 {
		return nil, fmt.Errorf("game.initial_cash must not be negative, got %d", cfg.Game.InitialCash)
	}
	return &cfg, nil
}
