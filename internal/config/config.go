package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds server configuration values.
// Zero limits (max_message_bytes, max_content_length, rate_limit_per_minute) disable them.
type Config struct {
	Addr               string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	ReadHeaderTimeout  time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout" validate:"gte=0"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
	DatabasePath       string        `mapstructure:"database_path" yaml:"database_path" validate:"required"`
	LogLevel           string        `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error disabled off"`
	LogFormat          string        `mapstructure:"log_format" yaml:"log_format" validate:"omitempty,oneof=console json"`
	MaxMessageBytes    int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes" validate:"gte=0"`
	MaxContentLength   int           `mapstructure:"max_content_length" yaml:"max_content_length" validate:"gte=0"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute" validate:"gte=0"`
}

var validate = validator.New()

// Validate reports every key holding an unusable value.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	problems := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Errorf("%s: must satisfy %s %s, got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return errors.Join(problems...)
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":8080",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		DatabasePath:       "dmchat.db",
		LogLevel:           "info",
		LogFormat:          "console",
		MaxMessageBytes:    1 << 20,
		MaxContentLength:   4096,
		RateLimitPerMinute: 120,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.MaxContentLength != 0 {
		c.MaxContentLength = other.MaxContentLength
	}
	if other.RateLimitPerMinute != 0 {
		c.RateLimitPerMinute = other.RateLimitPerMinute
	}
}
