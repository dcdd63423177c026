// Package config holds the execution settings: which backend runs a module,
// the sandbox limits both backends enforce, and logging. Settings come from
// an optional vais.yaml, then from VAIS_* environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/vais-lang/vais/internal/faults"
)

// Config represents the top-level vais.yaml configuration.
type Config struct {
	// Mode selects the backend: "interpret" or "jit".
	Mode string `yaml:"mode,omitempty"`

	// MaxCallDepth bounds active non-tail calls. The interpreter, compiled
	// code and compiled code's calls back into the interpreter all count
	// against this one limit.
	MaxCallDepth int `yaml:"max_call_depth,omitempty"`

	// MaxArrayLen bounds the length of any array built at runtime.
	MaxArrayLen int `yaml:"max_array_len,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	JIT JITConfig `yaml:"jit"`
}

// JITConfig controls the JIT backend.
type JITConfig struct {
	// Enabled allows mode "jit". When false, jit requests run interpreted.
	Enabled bool `yaml:"enabled"`

	// LogFallbacks logs every function that stays interpreted.
	LogFallbacks bool `yaml:"log_fallbacks,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{JIT: JITConfig{Enabled: true}}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a vais.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses vais.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := Config{JIT: JITConfig{Enabled: true}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load finds vais.yaml from dir upwards, falling back to the defaults when
// there is none, and applies environment overrides.
func Load(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if path != "" {
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig searches for vais.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// ApplyEnv overrides fields from VAIS_* environment variables.
// The environment is re-read on every call.
func (c *Config) ApplyEnv() error {
	env.Load()
	c.Mode = env.Str(EnvMode, c.Mode)
	if err := envInt(EnvMaxCallDepth, &c.MaxCallDepth); err != nil {
		return err
	}
	if err := envInt(EnvMaxArrayLen, &c.MaxArrayLen); err != nil {
		return err
	}
	c.LogLevel = env.Str(EnvLogLevel, c.LogLevel)
	if env.Has(EnvJIT) {
		c.JIT.Enabled = env.Bool(EnvJIT)
	}
	return c.validate("environment")
}

// envInt sets *dst from the integer variable name, if it is set.
func envInt(name string, dst *int) error {
	if !env.Has(name) {
		return nil
	}
	raw := env.Str(name)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("environment: %s=%q is not an integer", name, raw)
	}
	*dst = n
	return nil
}

func (c *Config) setDefaults() {
	if c.Mode == "" {
		c.Mode = DefaultMode
	}
	if c.MaxCallDepth == 0 {
		c.MaxCallDepth = DefaultMaxCallDepth
	}
	if c.MaxArrayLen == 0 {
		c.MaxArrayLen = DefaultMaxArrayLen
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	switch c.Mode {
	case ModeInterpret, ModeJit:
	default:
		return fmt.Errorf("%s: mode %q is not one of %s, %s", path, c.Mode, ModeInterpret, ModeJit)
	}
	if c.MaxCallDepth < 1 {
		return fmt.Errorf("%s: max_call_depth must be positive, got %d", path, c.MaxCallDepth)
	}
	if c.MaxArrayLen < 1 {
		return fmt.Errorf("%s: max_array_len must be positive, got %d", path, c.MaxArrayLen)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Limits returns the sandbox limits for one execution.
func (c *Config) Limits() faults.Limits {
	return faults.Limits{MaxCallDepth: c.MaxCallDepth, MaxArrayLen: c.MaxArrayLen}
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}
	return level, nil
}
