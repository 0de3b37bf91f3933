package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// MetricsConfig contains the observability endpoint settings.
type MetricsConfig struct {
	// Addr is the listen address for the Prometheus metrics and health
	// endpoints. Empty disables the listener.
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// EngineConfig contains the scheduling engine's tuning settings.
type EngineConfig struct {
	// SubmitQueueSize bounds the hand-off queue through which external
	// callers submit tasks, publishes, and cancellations into the loop.
	SubmitQueueSize int `mapstructure:"submit_queue_size" validate:"required,gt=0"`

	// PollInterval is how often the loop re-polls read sources while no
	// timer deadline is nearer.
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required,gt=0"`

	// DefaultReadTimeout bounds read operations submitted without their
	// own deadline. Zero disables the default.
	DefaultReadTimeout time.Duration `mapstructure:"default_read_timeout" validate:"gte=0"`
}

// LogConfig contains the logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}
