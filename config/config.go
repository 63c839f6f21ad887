// Package config loads runtime settings from defaults, an optional YAML
// file, DUNGEON_* environment variables and command-line flags, in that
// order of precedence (later wins).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	UI      UIConfig      `mapstructure:"ui"`
	Save    SaveConfig    `mapstructure:"save"`
	Log     LogConfig     `mapstructure:"log"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type GameConfig struct {
	// Dir is the directory holding the game's .lua files.
	Dir string `mapstructure:"dir"`
}

type UIConfig struct {
	Plain bool `mapstructure:"plain"` // line-based REPL instead of the TUI
	Trace bool `mapstructure:"trace"` // print effects and events after each turn
}

type SaveConfig struct {
	// DB is the sqlite file holding save slots.
	DB string `mapstructure:"db"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
	File   string `mapstructure:"file"`   // empty means stderr
}

type EngineConfig struct {
	FibonacciTimeout time.Duration `mapstructure:"fibonacci_timeout"`
	Columns          int           `mapstructure:"columns"`
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables it.
	Addr string `mapstructure:"addr"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"game":             "game.dir",
	"plain":            "ui.plain",
	"trace":            "ui.trace",
	"save-db":          "save.db",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"log-file":         "log.file",
	"fib-timeout":      "engine.fibonacci_timeout",
	"columns":          "engine.columns",
	"tracing":          "tracing.enabled",
	"tracing-endpoint": "tracing.endpoint",
	"metrics-addr":     "metrics.addr",
}

// RegisterFlags defines the flags Load knows how to bind.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to a YAML config file")
	fs.StringP("game", "g", "games/armory", "directory containing the game's .lua files")
	fs.Bool("plain", false, "use the plain line-based interface")
	fs.Bool("trace", false, "print effects and events after each turn")
	fs.String("save-db", "dungeon.db", "sqlite file for save slots")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "text", "log format (text, json)")
	fs.String("log-file", "", "write logs to this file instead of stderr")
	fs.Duration("fib-timeout", time.Second, "time limit for the fibonacci command")
	fs.Int("columns", 80, "width long output is broken at")
	fs.Bool("tracing", false, "export OpenTelemetry traces")
	fs.String("tracing-endpoint", "http://localhost:4318/v1/traces", "OTLP/HTTP traces endpoint")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
}

// Load builds a Config. path may be empty; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("DUNGEON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	if c.Game.Dir == "" {
		return fmt.Errorf("game.dir is required")
	}
	if c.Engine.Columns < 2 {
		return fmt.Errorf("engine.columns must be at least 2, got %d", c.Engine.Columns)
	}
	if c.Engine.FibonacciTimeout <= 0 {
		return fmt.Errorf("engine.fibonacci_timeout must be positive, got %s", c.Engine.FibonacciTimeout)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.dir", "games/armory")
	v.SetDefault("ui.plain", false)
	v.SetDefault("ui.trace", false)
	v.SetDefault("save.db", "dungeon.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("engine.fibonacci_timeout", "1s")
	v.SetDefault("engine.columns", 80)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "http://localhost:4318/v1/traces")
	v.SetDefault("metrics.addr", "")
}
