package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr      string `mapstructure:"LISTEN_ADDR"`
	StoreDriver     string `mapstructure:"STORE_DRIVER"`
	StoreDSN        string `mapstructure:"STORE_DSN"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	SimIntervalMS   int    `mapstructure:"SIM_INTERVAL_MS"`
	LoginDelayMS    int    `mapstructure:"LOGIN_DELAY_MS"`
	RegisterDelayMS int    `mapstructure:"REGISTER_DELAY_MS"`
}

func LoadConfig(path string) (config Config, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("failed to resolve config path: %w", err)
	}

	viper.AddConfigPath(filepath.Dir(absPath))
	viper.SetConfigName(filepath.Base(absPath))
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("LISTEN_ADDR", ":8080")
	viper.SetDefault("STORE_DRIVER", "sqlite")
	viper.SetDefault("STORE_DSN", "emaskripto.db")
	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("SIM_INTERVAL_MS", 4000)
	viper.SetDefault("LOGIN_DELAY_MS", 300)
	viper.SetDefault("REGISTER_DELAY_MS", 500)

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}
