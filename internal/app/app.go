// internal/app/app.go
package app

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bethropolis/invite/internal/config"
	"github.com/bethropolis/invite/internal/core"
	"github.com/bethropolis/invite/internal/core/history"
	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/fonts"
	"github.com/bethropolis/invite/internal/input"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/modehandler"
	"github.com/bethropolis/invite/internal/plugin"
	"github.com/bethropolis/invite/internal/scene"
	"github.com/bethropolis/invite/internal/statusbar"
	"github.com/bethropolis/invite/internal/templates"
	"github.com/bethropolis/invite/internal/theme"
	"github.com/bethropolis/invite/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// App encapsulates the core components and main loop of the editor.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	editor        *core.Editor
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	modeHandler   *modehandler.ModeHandler
	themeManager  *theme.Manager
	editorAPI     *appEditorAPI
	preview       *previewManager

	// mu serializes key handling against drawing; the editor is not
	// safe for concurrent use.
	mu sync.Mutex

	quit          chan struct{}
	redrawRequest chan struct{}
}

// NewApp creates the application for docPath ("" for a new invitation).
// screen is nil for the real terminal.
func NewApp(cfg *config.Config, docPath string, screen tcell.Screen) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	themesDir := ""
	if dir := config.Dir(); dir != "" {
		themesDir = filepath.Join(dir, config.ThemesDirName)
	}
	themeManager := theme.NewManager(themesDir, cfg.Editor.Theme)
	activeTheme := themeManager.Current()
	baseStyle := activeTheme.GetStyle(theme.StyleDefault)

	var tuiManager *tui.TUI
	var err error
	if screen != nil {
		tuiManager, err = tui.NewWithScreen(screen, baseStyle)
	} else {
		tuiManager, err = tui.New(baseStyle)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	eventManager := event.NewManager()
	editor, err := NewEditor(cfg, docPath, eventManager)
	if err != nil {
		tuiManager.Close()
		return nil, err
	}

	statusBar := statusbar.New(statusbar.ConfigFromTheme(activeTheme))
	quitChan := make(chan struct{})

	modeHandler := modehandler.New(modehandler.Config{
		Editor:          editor,
		InputProcessor:  input.NewInputProcessor(),
		EventManager:    eventManager,
		StatusBar:       statusBar,
		QuitSignal:      quitChan,
		NudgeMultiplier: config.NudgeMultiplier,
	})

	a := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		editor:        editor,
		statusBar:     statusBar,
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		modeHandler:   modeHandler,
		themeManager:  themeManager,
		quit:          quitChan,
		redrawRequest: make(chan struct{}, 1),
	}
	a.editorAPI = newEditorAPI(a)
	a.preview = newPreviewManager(editor.Scene(), editor.Fonts(), a.requestRedraw)

	// Every completed edit and every restore repaints the preview.
	editor.Scene().SetRenderHook(a.schedulePreview)

	a.subscribeEvents()
	registerAppCommands(a)
	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}
	a.pluginManager.InitializePlugins(a.editorAPI)

	a.updateStatusBarContent()
	return a, nil
}

// NewEditor builds the scene, fonts, templates and editor for docPath as
// configured by cfg. The headless export path uses it without a screen.
func NewEditor(cfg *config.Config, docPath string, em *event.Manager) (*core.Editor, error) {
	size, err := templates.LookupSize(cfg.Editor.Canvas)
	if err != nil {
		logger.Warnf("App: %v, using %s", err, config.DefaultCanvas)
		if size, err = templates.LookupSize(config.DefaultCanvas); err != nil {
			return nil, err
		}
	}

	reg, err := fonts.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	if cfg.Fonts.Dir != "" {
		n, err := reg.LoadDir(cfg.Fonts.Dir)
		if err != nil {
			logger.Warnf("App: fonts from %s: %v", cfg.Fonts.Dir, err)
		}
		logger.Infof("App: loaded %d font files from %s", n, cfg.Fonts.Dir)
	}

	templatesDir := ""
	if dir := config.Dir(); dir != "" {
		templatesDir = filepath.Join(dir, config.TemplatesDirName)
	}
	lib, err := templates.NewLibrary(templatesDir)
	if lib == nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	if err != nil {
		logger.Warnf("App: templates: %v", err)
	}

	granularity, err := history.ParseGranularity(cfg.Editor.Checkpoint)
	if err != nil {
		logger.Warnf("App: %v", err)
	}

	sc := scene.New(size.Width, size.Height, em)
	return core.NewEditor(sc, em, reg, lib, core.Options{
		HistoryCapacity:  cfg.Editor.HistoryCapacity,
		Granularity:      granularity,
		NudgeStep:        float64(cfg.Editor.NudgeStep),
		SystemClipboard:  cfg.Editor.SystemClipboard,
		Template:         cfg.Editor.Template,
		Document:         docPath,
		ExportDir:        cfg.Export.Dir,
		ExportMultiplier: float64(cfg.Export.Multiplier),
	})
}

// Run starts the application's main event and drawing loops.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.preview.Shutdown()
	defer a.pluginManager.ShutdownPlugins()

	go a.eventLoop()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("Invite - t text | Enter edit | Ctrl+Z undo | Ctrl+S save | : commands | ESC quit")
	a.resizePreview()
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.editor.IsModified() {
				logger.Warnf("App: exited with unsaved changes")
			}
			logger.Infof("App: exiting")
			return nil
		case <-a.redrawRequest:
			a.drawEditor()
		}
	}
}

// eventLoop handles TUI events, delegating key events to ModeHandler.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}

		needsRedraw := false
		switch eventData := ev.(type) {
		case *tcell.EventResize:
			a.tuiManager.GetScreen().Sync()
			a.resizePreview()
			needsRedraw = true
		case *tcell.EventKey:
			needsRedraw = a.handleKey(eventData)
		}

		if needsRedraw {
			a.requestRedraw()
		}
	}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.modeHandler.HandleKeyEvent(ev)
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // a redraw is already pending
	}
}

// GetModeHandler allows the API adapter to reach command registration.
func (a *App) GetModeHandler() *modehandler.ModeHandler {
	return a.modeHandler
}

// GetThemeManager returns the theme manager.
func (a *App) GetThemeManager() *theme.Manager {
	return a.themeManager
}

// GetTheme returns the app's active theme.
func (a *App) GetTheme() *theme.Theme {
	return a.themeManager.Current()
}

// applyTheme restyles the screen and status bar for the active theme.
func (a *App) applyTheme() {
	th := a.themeManager.Current()
	a.tuiManager.SetStyle(th.GetStyle(theme.StyleDefault))
	a.statusBar.SetConfig(statusbar.ConfigFromTheme(th))
	a.eventManager.Dispatch(event.TypeThemeChanged, th.Name)
	a.requestRedraw()
}
