package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, if present, a
// strand.yaml file in the working directory. Environment variables use the
// STRAND_ prefix with underscores for nesting (STRAND_ENGINE_POLL_INTERVAL)
// and take precedence over file values. Returns a populated Config or an
// error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("engine.submit_queue_size", 64)
	v.SetDefault("engine.poll_interval", "1ms")
	v.SetDefault("engine.default_read_timeout", "0s")
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.addr", "localhost:9090")

	v.SetConfigName("strand")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STRAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; anything else is a real problem.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
