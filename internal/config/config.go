// Package config provides configuration types and defaults for keyzone.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/keyzone/internal/display"
	"github.com/zjrosen/keyzone/internal/keyboard"
	"github.com/zjrosen/keyzone/internal/log"
	"github.com/zjrosen/keyzone/internal/tracing"
)

// Config holds all configuration options for keyzone.
type Config struct {
	Geometry keyboard.Geometry `mapstructure:"geometry" yaml:"geometry"`
	Keys     keyboard.Keys     `mapstructure:"keys" yaml:"keys"`
	Label    LabelConfig       `mapstructure:"label" yaml:"label"`
	Display  DisplayConfig     `mapstructure:"display" yaml:"display"`
	Replay   ReplayConfig      `mapstructure:"replay" yaml:"replay"`
	Tracing  tracing.Config    `mapstructure:"tracing" yaml:"tracing"`
}

// LabelConfig describes the instruction label drawn on init.
type LabelConfig struct {
	Line  int    `mapstructure:"line" yaml:"line"`
	Text  string `mapstructure:"text" yaml:"text"`
	Color string `mapstructure:"color" yaml:"color"` // name or "#RRGGBB"
}

// DisplayConfig holds emulator display options.
type DisplayConfig struct {
	TextColor   string `mapstructure:"text_color" yaml:"text_color"`
	BorderColor string `mapstructure:"border_color" yaml:"border_color"` // empty uses the terminal default
	ShowLog     bool   `mapstructure:"show_log" yaml:"show_log"`
	LogLines    int    `mapstructure:"log_lines" yaml:"log_lines"`
}

// ReplayConfig holds options for headless replays.
type ReplayConfig struct {
	MapBackspace   bool          `mapstructure:"map_backspace" yaml:"map_backspace"`
	FollowDebounce time.Duration `mapstructure:"follow_debounce" yaml:"follow_debounce"`
}

// Defaults returns the board's layout and colours.
func Defaults() Config {
	kb := keyboard.DefaultConfig()
	return Config{
		Geometry: kb.Geometry,
		Keys:     kb.Keys,
		Label: LabelConfig{
			Line:  kb.LabelLine,
			Text:  kb.LabelText,
			Color: string(kb.LabelColor),
		},
		Display: DisplayConfig{
			TextColor: string(kb.TextColor),
			LogLines:  8,
		},
		Replay: ReplayConfig{
			FollowDebounce: 50 * time.Millisecond,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate reports every problem found in c.
func (c Config) Validate() error {
	var errs []error
	if err := c.Geometry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("geometry: %w", err))
	}
	if err := c.Keys.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("keys: %w", err))
	}
	if c.Label.Line < 0 {
		errs = append(errs, fmt.Errorf("label.line must not be negative, got %d", c.Label.Line))
	}
	if _, err := display.ParseColor(c.Label.Color); err != nil {
		errs = append(errs, fmt.Errorf("label.color: %w", err))
	}
	if _, err := display.ParseColor(c.Display.TextColor); err != nil {
		errs = append(errs, fmt.Errorf("display.text_color: %w", err))
	}
	if c.Display.BorderColor != "" {
		if _, err := display.ParseColor(c.Display.BorderColor); err != nil {
			errs = append(errs, fmt.Errorf("display.border_color: %w", err))
		}
	}
	if c.Display.LogLines < 0 {
		errs = append(errs, fmt.Errorf("display.log_lines must not be negative, got %d", c.Display.LogLines))
	}
	if c.Replay.FollowDebounce < 0 {
		errs = append(errs, fmt.Errorf("replay.follow_debounce must not be negative, got %s", c.Replay.FollowDebounce))
	}
	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	return errors.Join(errs...)
}

// KeyboardConfig converts c into the cursor manager's configuration.
func (c Config) KeyboardConfig() (keyboard.Config, error) {
	labelColor, err := display.ParseColor(c.Label.Color)
	if err != nil {
		return keyboard.Config{}, fmt.Errorf("label.color: %w", err)
	}
	textColor, err := display.ParseColor(c.Display.TextColor)
	if err != nil {
		return keyboard.Config{}, fmt.Errorf("display.text_color: %w", err)
	}
	return keyboard.Config{
		Geometry:   c.Geometry,
		Keys:       c.Keys,
		LabelLine:  c.Label.Line,
		LabelText:  c.Label.Text,
		LabelColor: labelColor,
		TextColor:  textColor,
	}, nil
}

// BorderColor returns the parsed border colour, empty when unset.
func (c Config) BorderColor() display.Color {
	if c.Display.BorderColor == "" {
		return ""
	}
	color, err := display.ParseColor(c.Display.BorderColor)
	if err != nil {
		return ""
	}
	return color
}

// Dump renders c as YAML.
func Dump(c Config) ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}

// DefaultConfigTemplate returns the commented config written on first run.
func DefaultConfigTemplate() string {
	return `# keyzone configuration

# Text zone layout in display pixels. Glyphs are placed on a grid of
# column_width x line_height cells starting at (first_column, first_line).
geometry:
  first_column: 7
  last_column: 479    # first_column + a multiple of column_width
  first_line: 70
  last_line: 200
  column_width: 8
  line_height: 15

# Input byte codes for the control keys (decimal).
keys:
  newline: 10   # '\n'
  delete: 13    # '\r'

# Instruction label drawn when the zone is initialized.
label:
  line: 4
  text: "Use Keyboard to type characters:"
  color: yellow

# Colors are names (white, black, yellow, green, red, blue, cyan, magenta)
# or hex values like "#10B981".
display:
  text_color: green
  # border_color: cyan
  show_log: false     # open the debug log pane at startup (needs --debug)
  log_lines: 8

replay:
  map_backspace: false    # treat 0x08 and 0x7f as the delete key
  follow_debounce: 50ms   # wait after a write before reading with --follow

# Tracing (OpenTelemetry) for replay sessions
tracing:
  enabled: false
  exporter: file          # none, file, stdout or otlp
  # file_path: ~/.config/keyzone/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: keyzone
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
