// cmd/invite/main.go
package main

import (
	"fmt"
	"io"
	stlog "log" // standard log for fatal errors before the logger is ready
	"os"

	"github.com/bethropolis/invite/internal/app"
	"github.com/bethropolis/invite/internal/config"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/gogpu/gg"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	args := flags.ParseFlags()
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}
	docPath := ""
	if len(args) > 0 {
		docPath = args[0]
	}

	// --- Configuration ---
	cfg, cfgErr := config.LoadConfig(*flags.ConfigFilePath, &flags)
	if cfg == nil {
		stlog.Fatalf("Failed to load configuration: %v", cfgErr)
	}

	// --- Logger Initialization ---
	logOutput, closeLog, err := openLog(cfg.Logger.LogFilePath)
	if err != nil {
		stlog.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()
	logger.Init(cfg.Logger, logOutput)
	gg.SetLogger(logger.Get())

	logger.Infof("Starting %s %s", config.AppName, version)
	if cfgErr != nil {
		logger.Warnf("Config: %v (using defaults for the rest)", cfgErr)
	}
	if docPath != "" {
		logger.Debugf("Document specified: %s", docPath)
	} else {
		logger.Debugf("No document specified, starting from template %s", cfg.Editor.Template)
	}

	// --- Headless export ---
	if *flags.Export != "" {
		out, err := app.Export(cfg, docPath, *flags.Export)
		if err != nil {
			logger.Errorf("Export failed: %v", err)
			fmt.Fprintf(os.Stderr, "%s: export failed: %v\n", config.AppName, err)
			closeLog()
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	// --- Create and Run App ---
	inviteApp, err := app.NewApp(cfg, docPath, nil)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		closeLog()
		os.Exit(1)
	}
	if err := inviteApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		closeLog()
		os.Exit(1)
	}
	logger.Infof("%s finished", config.AppName)
}

// openLog opens the configured log destination: "-" is stderr and "" is
// the default log file in the working directory.
func openLog(path string) (io.Writer, func(), error) {
	switch path {
	case "-":
		return os.Stderr, func() {}, nil
	case "":
		path = config.DefaultLogFileName
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open '%s': %w", path, err)
	}
	var once bool
	return f, func() {
		if !once {
			once = true
			f.Close()
		}
	}, nil
}
