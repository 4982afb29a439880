package config

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"heartbeat/internal/logger"
)

var (
	ConfigFile string
	LogLevel   string
)

// Config heartbeat configuration
type Config struct {
	LogLevel string          `mapstructure:"log_level"`
	Routines []RoutineConfig `mapstructure:"routines"`
}

// RoutineConfig one periodic routine
type RoutineConfig struct {
	Level    string        `mapstructure:"level"`
	Interval time.Duration `mapstructure:"interval"`
	Message  string        `mapstructure:"message"`
}

// MinInterval is the shortest accepted routine interval. Bare TOML
// integers decode as nanoseconds and fall below it.
const MinInterval = time.Millisecond

// Default returns the built-in configuration: info every 3s, warn every
// 5s and debug every 2s.
func Default() *Config {
	return &Config{
		LogLevel: "debug",
		Routines: []RoutineConfig{
			{Level: "info", Interval: 3 * time.Second, Message: "information"},
			{Level: "warn", Interval: 5 * time.Second, Message: "warning"},
			{Level: "debug", Interval: 2 * time.Second, Message: "debug message"},
		},
	}
}

// Load reads the configuration. An empty path searches SearchPaths for
// heartbeat.toml and falls back to the defaults when none exists; an
// explicit path must be readable.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = FindConfigFile()
	}
	if path != "" {
		v.SetConfigType("toml")
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigError{Type: ConfigErrorReadFailed, Key: v.ConfigFileUsed(), Cause: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Type: ConfigErrorDecodeFailed, Key: v.ConfigFileUsed(), Cause: err}
	}

	cfg.applyMessageDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	routines := make([]map[string]any, 0, len(def.Routines))
	for _, r := range def.Routines {
		routines = append(routines, map[string]any{
			"level":    r.Level,
			"interval": r.Interval.String(),
			"message":  r.Message,
		})
	}
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("routines", routines)
}

func (c *Config) applyMessageDefaults() {
	for i := range c.Routines {
		if c.Routines[i].Message == "" {
			c.Routines[i].Message = DefaultMessage(c.Routines[i].Level)
		}
	}
}

// DefaultMessage returns the message text used when a routine sets none.
func DefaultMessage(level string) string {
	switch level {
	case "info":
		return "information"
	case "warn", "warning":
		return "warning"
	case "debug":
		return "debug message"
	case "trace":
		return "trace message"
	case "error":
		return "error message"
	default:
		return level
	}
}

// Validate checks levels, intervals and that at least one routine exists.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return &ConfigError{Type: ConfigErrorInvalidLevel, Key: "log_level", Value: c.LogLevel, Cause: err}
	}

	if len(c.Routines) == 0 {
		return &ConfigError{Type: ConfigErrorNoRoutines, Key: "routines"}
	}

	for i, r := range c.Routines {
		key := fmt.Sprintf("routines[%d]", i)
		if _, err := logger.ParseLevel(r.Level); err != nil {
			return &ConfigError{Type: ConfigErrorInvalidLevel, Key: key + ".level", Value: r.Level, Cause: err}
		}
		if r.Interval < MinInterval {
			return &ConfigError{Type: ConfigErrorInvalidInterval, Key: key + ".interval", Value: r.Interval.String()}
		}
	}
	return nil
}

// Level returns the parsed minimum log level. Call after Validate.
func (c *Config) Level() slog.Level {
	l, _ := logger.ParseLevel(c.LogLevel)
	return l
}

// SlogLevel returns the parsed routine severity. Call after Validate.
func (r RoutineConfig) SlogLevel() slog.Level {
	l, _ := logger.ParseLevel(r.Level)
	return l
}

// fileConfig mirrors Config in the on-disk TOML shape.
type fileConfig struct {
	LogLevel string        `toml:"log_level"`
	Routines []fileRoutine `toml:"routines"`
}

type fileRoutine struct {
	Level    string `toml:"level"`
	Interval string `toml:"interval"`
	Message  string `toml:"message,omitempty"`
}

// Encode writes c as a TOML document that Load accepts.
func (c *Config) Encode(w io.Writer) error {
	out := fileConfig{LogLevel: c.LogLevel}
	for _, r := range c.Routines {
		out.Routines = append(out.Routines, fileRoutine{
			Level:    r.Level,
			Interval: r.Interval.String(),
			Message:  r.Message,
		})
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return nil
}
