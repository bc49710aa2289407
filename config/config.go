// Package config loads the host configuration from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Bindings    BindingsConfig    `yaml:"bindings"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Screenshot  ScreenshotConfig  `yaml:"screenshot"`
	// ResizeSettleTicks is how many updates the window size has to stay
	// unchanged before a resize counts as finished.
	ResizeSettleTicks int `yaml:"resize_settle_ticks"`
	// Demo names a built-in renderer. Ignored when Script is set.
	Demo string `yaml:"demo"`
	// Script is a path to a tengo renderer.
	Script string `yaml:"script"`
}

type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Resizable  bool   `yaml:"resizable"`
	HideCursor bool   `yaml:"hide_cursor"`
	TPS        int    `yaml:"tps"`
}

// BindingsConfig maps the tracked keyboard buttons and the host actions to
// key names. A button is down when any of its keys is down.
type BindingsConfig struct {
	Left       []string `yaml:"left"`
	Right      []string `yaml:"right"`
	Up         []string `yaml:"up"`
	Down       []string `yaml:"down"`
	Quit       []string `yaml:"quit"`
	Screenshot []string `yaml:"screenshot"`
}

type DiagnosticsConfig struct {
	TitleFormat   string        `yaml:"title_format"`
	TitleInterval time.Duration `yaml:"title_interval"`
	Overlay       bool          `yaml:"overlay"`
}

type ScreenshotConfig struct {
	Clipboard bool   `yaml:"clipboard"`
	Dir       string `yaml:"dir"`
}

// Default returns the embedded configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic("config: embedded default.yaml: " + err.Error())
	}
	return &cfg
}

// Load reads path on top of the defaults. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data into cfg, keeping any field data does not mention,
// and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return cfg.Validate()
}

// Validate checks values that would otherwise fail later inside the window
// system. Key names are checked by the host, which owns the key table.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window tps %d must be positive", c.Window.TPS))
	}
	if c.ResizeSettleTicks < 0 {
		errs = append(errs, fmt.Errorf("resize_settle_ticks %d must not be negative", c.ResizeSettleTicks))
	}
	if c.Diagnostics.TitleInterval < 0 {
		errs = append(errs, fmt.Errorf("diagnostics title_interval %s must not be negative", c.Diagnostics.TitleInterval))
	}
	if f := c.Diagnostics.TitleFormat; f != "" && strings.Count(f, "%")-2*strings.Count(f, "%%") != 1 {
		errs = append(errs, fmt.Errorf("diagnostics title_format %q must contain exactly one verb", f))
	}
	for name, keys := range map[string][]string{
		"left":  c.Bindings.Left,
		"right": c.Bindings.Right,
		"up":    c.Bindings.Up,
		"down":  c.Bindings.Down,
	} {
		if len(keys) == 0 {
			errs = append(errs, fmt.Errorf("bindings %s has no keys", name))
		}
	}
	return errors.Join(errs...)
}
