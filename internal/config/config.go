// Package config holds the profiler's tunables and loads them from YAML.
//
// Example file:
//
//	enabled: true
//	page_capacity: 16384
//	min_span: 50ns
//	module_root: .
//	log:
//	  level: debug
//	  format: json
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/kolkov/callprof/internal/log"
	"github.com/kolkov/callprof/internal/prof/capture"
)

// DefaultMinSpan is the shortest span a renderer draws by default.
const DefaultMinSpan = 50 * time.Nanosecond

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config contains all profiler configuration.
type Config struct {
	// Enabled is the initial state of the capture gate.
	Enabled bool `yaml:"enabled"`

	// PageCapacity is the number of events per page. It trades memory
	// footprint against allocation frequency on the hot path.
	PageCapacity int `yaml:"page_capacity"`

	// MinSpan is the minimum renderable span duration. It only affects
	// what report writers draw, never reconstruction.
	MinSpan Duration `yaml:"min_span"`

	// ModuleRoot, when set, is a directory inside a Go module. Call-site
	// file names under that module are displayed module-relative.
	ModuleRoot string `yaml:"module_root"`

	// Log configures the profiler's diagnostics logger.
	Log Log `yaml:"log"`
}

// Log configures diagnostics logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Enabled:      true,
		PageCapacity: capture.DefaultPageCapacity,
		MinSpan:      Duration(DefaultMinSpan),
		Log: Log{
			Level:  log.DefaultLevel.String(),
			Format: log.DefaultFormat.String(),
		},
	}
}

// Load reads and parses a YAML configuration file. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over the default configuration and validates the
// result. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.PageCapacity < 1 {
		return fmt.Errorf("%w: page_capacity must be positive, got %d", ErrInvalid, c.PageCapacity)
	}

	if c.MinSpan < 0 {
		return fmt.Errorf("%w: min_span must not be negative, got %v", ErrInvalid, time.Duration(c.MinSpan))
	}

	if c.Log.Level != "" && !slices.Contains(slices.Collect(log.Levels()), strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Log.Level)
	}

	if c.Log.Format != "" && !slices.Contains(slices.Collect(log.Formats()), strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}

	return nil
}

// Options converts the logging section into logger options.
func (l Log) Options() []log.Option {
	var opts []log.Option
	if l.Level != "" {
		opts = append(opts, log.WithLevel(log.ParseLevel(l.Level)))
	}
	if l.Format != "" {
		opts = append(opts, log.WithFormat(log.ParseFormat(l.Format)))
	}
	return opts
}
