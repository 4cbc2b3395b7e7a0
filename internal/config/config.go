// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/invite/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config `toml:"logger"` // [logger] table
	Editor  EditorConfig  `toml:"editor"`
	Export  ExportConfig  `toml:"export"`
	Fonts   FontsConfig   `toml:"fonts"`
	Plugins PluginsConfig `toml:"plugins"`
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	HistoryCapacity int    `toml:"history_capacity"`
	Checkpoint      string `toml:"checkpoint"` // "session" or "keystroke"
	Canvas          string `toml:"canvas"`     // size preset name
	Template        string `toml:"template"`   // template for new documents
	Theme           string `toml:"theme"`      // UI theme name
	NudgeStep       int    `toml:"nudge_step"`
	SystemClipboard bool   `toml:"system_clipboard"`
	StatusBarHeight int    `toml:"status_bar_height"`
}

// ExportConfig controls PNG/PDF output.
type ExportConfig struct {
	Dir        string `toml:"dir"`
	Multiplier int    `toml:"multiplier"`
}

// FontsConfig points at an optional directory of extra .ttf files.
type FontsConfig struct {
	Dir string `toml:"dir"`
}

// PluginsConfig groups per-plugin settings.
type PluginsConfig struct {
	Autosave AutosaveConfig `toml:"autosave"`
}

// AutosaveConfig controls the autosave plugin.
type AutosaveConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// Duration decodes TOML strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for toml.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			HistoryCapacity: DefaultHistoryCapacity,
			Checkpoint:      CheckpointSession,
			Canvas:          DefaultCanvas,
			Template:        DefaultTemplate,
			Theme:           DefaultTheme,
			NudgeStep:       DefaultNudgeStep,
			SystemClipboard: SystemClipboard,
			StatusBarHeight: StatusBarHeight,
		},
		Export: ExportConfig{
			Dir:        "",
			Multiplier: DefaultExportMultiplier,
		},
		Plugins: PluginsConfig{
			Autosave: AutosaveConfig{
				Enabled:  false,
				Interval: Duration{DefaultAutosaveInterval},
			},
		},
	}
}

// loadFromFile decodes filePath on top of cfg.
// A missing file is not an error; cfg keeps whatever it held.
func loadFromFile(filePath string, cfg *Config, verbose bool) error {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		if verbose {
			logger.Debugf("Config file not found: %s", filePath)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 && verbose {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	if verbose {
		logger.Infof("Successfully loaded configuration from: %s", filePath)
	}
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.HistoryCapacity < 2 { // need room for the seed plus one change
		c.Editor.HistoryCapacity = defaults.Editor.HistoryCapacity
	}
	c.Editor.Checkpoint = strings.ToLower(strings.TrimSpace(c.Editor.Checkpoint))
	if c.Editor.Checkpoint != CheckpointSession && c.Editor.Checkpoint != CheckpointKeystroke {
		c.Editor.Checkpoint = defaults.Editor.Checkpoint
	}
	if c.Editor.Canvas == "" {
		c.Editor.Canvas = defaults.Editor.Canvas
	}
	if strings.TrimSpace(c.Editor.Template) == "" {
		c.Editor.Template = defaults.Editor.Template
	}
	if strings.TrimSpace(c.Editor.Theme) == "" {
		c.Editor.Theme = defaults.Editor.Theme
	}
	if c.Editor.NudgeStep <= 0 {
		c.Editor.NudgeStep = defaults.Editor.NudgeStep
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}

	if c.Export.Multiplier <= 0 || c.Export.Multiplier > MaxExportMultiplier {
		c.Export.Multiplier = defaults.Export.Multiplier
	}

	if c.Plugins.Autosave.Interval.Duration < time.Second {
		c.Plugins.Autosave.Interval = defaults.Plugins.Autosave.Interval
	}

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// DefaultConfigPath returns <UserConfigDir>/invite/config.toml, or "" if unknown.
func DefaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
}

// Dir returns the application's config directory, or "" if unknown.
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName)
}

// Load builds a Config from defaults, an optional file and flag overrides.
// It does not touch the package-level config.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	// The logger is not initialized yet, so stay quiet.
	verbose := false

	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultConfigPath()
	}

	var err error
	if effectivePath != "" {
		err = loadFromFile(effectivePath, cfg, verbose)
	}

	if flags != nil {
		flags.ApplyOverrides(cfg, verbose)
	}

	cfg.validate()
	return cfg, err
}

// LoadConfig loads the configuration once and stores it for Get.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
