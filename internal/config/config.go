// Package config holds the process configuration for the pipeline's backend
// executors and ambient concerns. Values come from code defaults, overridden
// by an optional YAML file, overridden by SCENEPIPE_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from strings like "30s" in
// both YAML and environment variables.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Flux configures the image-generation backend.
type Flux struct {
	BaseURL   string  `env:"URL" yaml:"url"`
	APIKey    string  `env:"API_KEY" yaml:"api_key"`
	ImageCost float64 `env:"IMAGE_COST" yaml:"image_cost"`
}

// TTS configures the text-to-speech backend.
type TTS struct {
	BaseURL string `env:"URL" yaml:"url"`
	APIKey  string `env:"API_KEY" yaml:"api_key"`
	Voice   string `env:"VOICE" yaml:"voice"`
}

// Config is the full process configuration.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" yaml:"log_level"`
	LogFormat string `env:"LOG_FORMAT" yaml:"log_format"`

	// StatusPort serves the JSON progress/cost endpoint for a polling UI.
	// 0 disables it.
	StatusPort int `env:"STATUS_PORT" yaml:"status_port"`

	// ActionTimeout bounds each executor call. 0 means unbounded.
	ActionTimeout Duration `env:"ACTION_TIMEOUT" yaml:"action_timeout"`

	Flux Flux `envPrefix:"FLUX_" yaml:"flux"`
	TTS  TTS  `envPrefix:"TTS_" yaml:"tts"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Flux: Flux{
			BaseURL:   "http://localhost:8188",
			ImageCost: 0.04,
		},
		TTS: TTS{
			BaseURL: "http://localhost:8880",
			Voice:   "af_heart",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then SCENEPIPE_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SCENEPIPE_"}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the rest of the process cannot act on.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be 'text' or 'json'", c.LogFormat)
	}
	if c.ActionTimeout < 0 {
		return fmt.Errorf("action timeout cannot be negative")
	}
	return nil
}
