package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/keyzone/internal/config"
	"github.com/zjrosen/keyzone/internal/lcd"
	"github.com/zjrosen/keyzone/internal/log"
	"github.com/zjrosen/keyzone/internal/session"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".keyzone/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	cfgErr    error
	logClose  func()
)

var rootCmd = &cobra.Command{
	Use:   "keyzone",
	Short: "A keyboard text zone emulator",
	Long: `keyzone emulates the text zone of a small LCD driven by a USB keyboard.
Typed characters are placed on a fixed glyph grid; the zone wraps at the
right edge and clears when it runs out of lines.

Run without arguments to open the emulator, or use 'keyzone replay' to feed
a recorded byte stream through the same cursor logic.`,
	Version:           version,
	PersistentPreRunE: setupLogging,
	RunE:              runEmulator,
	SilenceUsage:      true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/keyzone/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write debug logs (path from KEYZONE_LOG, default debug.log)")
}

func initConfig() {
	cfg, cfgErr = loadConfig(viper.GetViper(), cfgFile)
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("geometry.first_column", defaults.Geometry.FirstColumn)
	v.SetDefault("geometry.last_column", defaults.Geometry.LastColumn)
	v.SetDefault("geometry.first_line", defaults.Geometry.FirstLine)
	v.SetDefault("geometry.last_line", defaults.Geometry.LastLine)
	v.SetDefault("geometry.column_width", defaults.Geometry.ColumnWidth)
	v.SetDefault("geometry.line_height", defaults.Geometry.LineHeight)
	v.SetDefault("keys.newline", defaults.Keys.Newline)
	v.SetDefault("keys.delete", defaults.Keys.Delete)
	v.SetDefault("label.line", defaults.Label.Line)
	v.SetDefault("label.text", defaults.Label.Text)
	v.SetDefault("label.color", defaults.Label.Color)
	v.SetDefault("display.text_color", defaults.Display.TextColor)
	v.SetDefault("display.border_color", defaults.Display.BorderColor)
	v.SetDefault("display.show_log", defaults.Display.ShowLog)
	v.SetDefault("display.log_lines", defaults.Display.LogLines)
	v.SetDefault("replay.map_backspace", defaults.Replay.MapBackspace)
	v.SetDefault("replay.follow_debounce", defaults.Replay.FollowDebounce)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}

// loadConfig reads configuration into v. Lookup order:
// 1. path (--config)
// 2. .keyzone/config.yaml (current directory)
// 3. ~/.config/keyzone/config.yaml (user config)
// When none exists a commented default is written to .keyzone/config.yaml.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else if _, err := os.Stat(localConfigPath); err == nil {
		v.SetConfigFile(localConfigPath)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "keyzone"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
		// If write fails, just continue with defaults (no config file)
		if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
			v.SetConfigFile(localConfigPath)
			_ = v.ReadInConfig()
		}
	}
	log.Debug(log.CatConfig, "config loaded", "file", v.ConfigFileUsed())

	var loaded config.Config
	if err := v.Unmarshal(&loaded); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return loaded, nil
}

// setupLogging enables the debug log via --debug or KEYZONE_DEBUG.
func setupLogging(_ *cobra.Command, _ []string) error {
	if logClose != nil || (os.Getenv("KEYZONE_DEBUG") == "" && !debugFlag) {
		return nil
	}
	logPath := os.Getenv("KEYZONE_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}

	cleanup, err := log.InitWithTeaLog(logPath, "keyzone")
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logClose = cleanup
	log.Info(log.CatConfig, "keyzone starting", "version", version, "config", viper.ConfigFileUsed())
	return nil
}

func closeLog() {
	if logClose != nil {
		logClose()
		logClose = nil
	}
	log.Reset()
}

func runEmulator(_ *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	kb, err := cfg.KeyboardConfig()
	if err != nil {
		return err
	}

	model, err := lcd.New(lcd.Options{
		Session:     session.Options{Keyboard: kb},
		BorderColor: cfg.BorderColor(),
		ShowLog:     cfg.Display.ShowLog,
		LogLines:    cfg.Display.LogLines,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	defer closeLog()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
