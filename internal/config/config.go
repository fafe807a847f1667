package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds tasktray application configuration
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Window WindowConfig `mapstructure:"window"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
}

// StoreConfig selects where settings and tasks are persisted
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

// WindowConfig holds window controller settings
type WindowConfig struct {
	RecoveryDelayMS int `mapstructure:"recovery_delay_ms"`
	MinWidth        int `mapstructure:"min_width"`
	MinHeight       int `mapstructure:"min_height"`
}

// UIConfig holds presentation settings
type UIConfig struct {
	RelativeDates bool `mapstructure:"relative_dates"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RecoveryDelay returns the recovery delay as a duration.
func (w WindowConfig) RecoveryDelay() time.Duration {
	if w.RecoveryDelayMS <= 0 {
		return DefaultRecoveryDelayMS * time.Millisecond
	}
	return time.Duration(w.RecoveryDelayMS) * time.Millisecond
}

// LoadConfigWithFile loads configuration from a specific file if provided,
// otherwise from tasktray.yaml in the XDG config directory.
func LoadConfigWithFile(configFile string) (*Config, error) {
	if configFile != "" {
		return LoadConfigFromPath(configFile)
	}

	path, err := GlobalConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfig(filepath.Dir(path))
}

// LoadConfig loads configuration from tasktray.yaml in the given directory.
// If no config file exists, sensible defaults are returned.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// Read config file (ignore not found errors)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return unmarshal(v)
}

// LoadConfigFromPath loads configuration from a specific file path
func LoadConfigFromPath(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return unmarshal(v)
		}
		return nil, err
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if cfg.Store.Dir == "" {
		dir, err := DataDir()
		if err != nil {
			return nil, err
		}
		cfg.Store.Dir = dir
	}

	return cfg, nil
}

// setDefaults sets all default values for configuration
func setDefaults(v *viper.Viper) {
	// Store defaults; an empty dir resolves to the XDG data dir
	v.SetDefault("store.backend", DefaultStoreBackend)
	v.SetDefault("store.dir", "")

	// Window defaults
	v.SetDefault("window.recovery_delay_ms", DefaultRecoveryDelayMS)
	v.SetDefault("window.min_width", DefaultMinWidth)
	v.SetDefault("window.min_height", DefaultMinHeight)

	// UI defaults
	v.SetDefault("ui.relative_dates", DefaultRelativeDates)

	// Log defaults
	v.SetDefault("log.level", DefaultLogLevel)
}
