// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/invite/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath  *string
	Version         *bool
	LogLevel        *string
	LogFilePath     *string
	HistoryCapacity *int
	Checkpoint      *string
	Canvas          *string
	Template        *string
	Theme           *string
	Export          *string // headless export target (.png or .pdf)
	Multiplier      *int
	FontsDir        *string
	Autosave        *bool
	// Logger filters
	EnableTags      *string
	DisableTags     *string
	EnablePkgs      *string
	DisablePkgs     *string
	EnableFiles     *string
	DisableFiles    *string
	DebugLog        *bool
	SystemClipboard *bool
}

// DefineFlags registers the flags on fs (flag.CommandLine when nil).
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.HistoryCapacity = fs.Int("history", 0, "Maximum number of undo steps - Overrides config file") // 0 means unset
	f.Checkpoint = fs.String("checkpoint", "", "Text edit undo granularity: session or keystroke - Overrides config file")
	f.Canvas = fs.String("canvas", "", "Canvas size preset for new documents (5x7, a5) - Overrides config file")
	f.Template = fs.String("template", "", "Template for new documents - Overrides config file")
	f.Theme = fs.String("theme", "", "UI theme name - Overrides config file")
	f.Export = fs.String("export", "", "Render the document to this .png or .pdf file and exit")
	f.Multiplier = fs.Int("multiplier", 0, "PNG export resolution multiplier - Overrides config file")
	f.FontsDir = fs.String("fonts", "", "Directory with extra .ttf fonts - Overrides config file")
	f.Autosave = fs.Bool("autosave", false, "Enable the autosave plugin")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.DebugLog = fs.Bool("debug-log", false, "Enable verbose debug logging for the logger filtering system")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Use system clipboard for object copy/paste")
}

// ParseFlags defines and parses the command-line flags.
// It returns the remaining non-flag arguments (e.g., the document path).
func (f *Flags) ParseFlags() []string {
	f.DefineFlags(nil)
	flag.Parse()
	return flag.Args()
}

// ParseArgs is ParseFlags over an explicit argument list and flag set.
func (f *Flags) ParseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	f.DefineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config, verbose bool) {
	if f.fs == nil {
		return
	}
	// Visit only processes flags that were actually set
	f.fs.Visit(func(fl *flag.Flag) {
		if verbose {
			logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		}
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath // "-" is valid
		case "history":
			if *f.HistoryCapacity > 0 {
				cfg.Editor.HistoryCapacity = *f.HistoryCapacity
			}
		case "checkpoint":
			if *f.Checkpoint != "" {
				cfg.Editor.Checkpoint = *f.Checkpoint
			}
		case "canvas":
			if *f.Canvas != "" {
				cfg.Editor.Canvas = *f.Canvas
			}
		case "template":
			if *f.Template != "" {
				cfg.Editor.Template = *f.Template
			}
		case "theme":
			if *f.Theme != "" {
				cfg.Editor.Theme = *f.Theme
			}
		case "multiplier":
			if *f.Multiplier > 0 {
				cfg.Export.Multiplier = *f.Multiplier
			}
		case "fonts":
			cfg.Fonts.Dir = *f.FontsDir
		case "autosave":
			cfg.Plugins.Autosave.Enabled = *f.Autosave
		case "system-clipboard":
			cfg.Editor.SystemClipboard = *f.SystemClipboard
		case "debug-log":
			logger.SetFilterDebug(*f.DebugLog)
		case "log-tags":
			if tags := splitCommaList(*f.EnableTags); tags != nil {
				cfg.Logger.EnabledTags = tags
			}
		case "log-disable-tags":
			if tags := splitCommaList(*f.DisableTags); tags != nil {
				cfg.Logger.DisabledTags = tags
			}
		case "log-packages":
			if pkgs := splitCommaList(*f.EnablePkgs); pkgs != nil {
				cfg.Logger.EnabledPackages = pkgs
			}
		case "log-disable-packages":
			if pkgs := splitCommaList(*f.DisablePkgs); pkgs != nil {
				cfg.Logger.DisabledPackages = pkgs
			}
		case "log-files":
			if files := splitCommaList(*f.EnableFiles); files != nil {
				cfg.Logger.EnabledFiles = files
			}
		case "log-disable-files":
			if files := splitCommaList(*f.DisableFiles); files != nil {
				cfg.Logger.DisabledFiles = files
			}
		}
	})
}

// splitCommaList splits "a, b,,c" into [a b c]; empty input yields nil.
func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
