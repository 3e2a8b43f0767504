// Package config loads the optional uikit.yaml file and .env overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project directory.
const FileName = "uikit.yaml"

// Config represents uikit.yaml.
type Config struct {
	Log   LogConfig   `yaml:"log"`
	Click ClickConfig `yaml:"click"`
	Trace TraceConfig `yaml:"trace"`
	Theme ThemeConfig `yaml:"theme"`
}

// LogConfig controls logrus setup.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // logrus level name
	Format string `yaml:"format,omitempty"` // "text" or "json"
	File   string `yaml:"file,omitempty"`   // empty discards output while the TUI owns the terminal
}

// ClickConfig selects how a button decides to re-enable after a click.
type ClickConfig struct {
	Policy string `yaml:"policy,omitempty"` // "vote", "reenable" or "legacy"
}

// TraceConfig controls in-memory trace history and OTLP export.
type TraceConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Service   string `yaml:"service,omitempty"`
	Insecure  bool   `yaml:"insecure,omitempty"`
	MaxTraces int    `yaml:"max_traces,omitempty"`
}

// ThemeConfig holds lipgloss color strings.
type ThemeConfig struct {
	Accent   string `yaml:"accent,omitempty"`
	Muted    string `yaml:"muted,omitempty"`
	Disabled string `yaml:"disabled,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// Environment variables that override file values.
const (
	EnvLogLevel     = "UIKIT_LOG_LEVEL"
	EnvLogFile      = "UIKIT_LOG_FILE"
	EnvClickPolicy  = "UIKIT_CLICK_POLICY"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
	EnvServiceName  = "OTEL_SERVICE_NAME"
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Log:   LogConfig{Level: "info", Format: "text"},
		Click: ClickConfig{Policy: "vote"},
		Trace: TraceConfig{Service: "uikit", MaxTraces: 10},
		Theme: ThemeConfig{
			Accent:   "212",
			Muted:    "241",
			Disabled: "238",
			Error:    "196",
		},
	}
}

// LoadOptional reads uikit.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Load resolves the configuration for dir: defaults, then uikit.yaml, then
// environment. A .env file in dir is loaded first; variables already set in
// the process environment win over it.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	file, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.merge(file)
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&c.Log.Level, o.Log.Level)
	set(&c.Log.Format, o.Log.Format)
	set(&c.Log.File, o.Log.File)
	set(&c.Click.Policy, o.Click.Policy)
	set(&c.Trace.Endpoint, o.Trace.Endpoint)
	set(&c.Trace.Service, o.Trace.Service)
	set(&c.Theme.Accent, o.Theme.Accent)
	set(&c.Theme.Muted, o.Theme.Muted)
	set(&c.Theme.Disabled, o.Theme.Disabled)
	set(&c.Theme.Error, o.Theme.Error)
	if o.Trace.Insecure {
		c.Trace.Insecure = true
	}
	if o.Trace.MaxTraces > 0 {
		c.Trace.MaxTraces = o.Trace.MaxTraces
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvClickPolicy); v != "" {
		c.Click.Policy = v
	}
	if v := os.Getenv(EnvOTLPEndpoint); v != "" {
		c.Trace.Endpoint = v
	}
	if v := os.Getenv(EnvServiceName); v != "" {
		c.Trace.Service = v
	}
	if v := os.Getenv(EnvOTLPInsecure); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvOTLPInsecure, err)
		}
		c.Trace.Insecure = b
	}
	return nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Click.Policy) {
	case "", "vote", "reenable", "legacy":
	default:
		return fmt.Errorf("unknown click policy %q", c.Click.Policy)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
