// internal/modehandler/modehandler.go
package modehandler

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bethropolis/invite/internal/core"
	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/input"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/plugin"
	"github.com/bethropolis/invite/internal/statusbar"
	"github.com/gdamore/tcell/v2"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal   InputMode = iota // object selection and manipulation
	ModeTextEdit                  // typing into the selected textbox
	ModeCommand                   // ":" command line
)

func (m InputMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeTextEdit:
		return "EDIT"
	case ModeCommand:
		return "COMMAND"
	}
	return "UNKNOWN"
}

// ModeHandler manages input modes, command execution, and related state.
type ModeHandler struct {
	editor         *core.Editor
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar
	quitSignal     chan<- struct{}
	quitOnce       sync.Once

	currentMode      InputMode
	cmdBuffer        string
	commands         map[string]plugin.CommandFunc
	forceQuitPending bool
	nudgeMultiplier  int
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Editor          *core.Editor
	InputProcessor  *input.InputProcessor
	EventManager    *event.Manager
	StatusBar       *statusbar.StatusBar
	QuitSignal      chan<- struct{} // closed once to end the application
	NudgeMultiplier int             // Shift+arrow step factor
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Editor == nil || cfg.InputProcessor == nil || cfg.EventManager == nil || cfg.StatusBar == nil || cfg.QuitSignal == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	if cfg.NudgeMultiplier <= 0 {
		cfg.NudgeMultiplier = 1
	}
	mh := &ModeHandler{
		editor:          cfg.Editor,
		inputProcessor:  cfg.InputProcessor,
		eventManager:    cfg.EventManager,
		statusBar:       cfg.StatusBar,
		quitSignal:      cfg.QuitSignal,
		currentMode:     ModeNormal,
		commands:        make(map[string]plugin.CommandFunc),
		nudgeMultiplier: cfg.NudgeMultiplier,
	}
	mh.statusBar.SetEditorMode(mh.currentMode.String())
	return mh
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event resulted in an action requiring redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})

	actionEvent := mh.inputProcessor.ProcessEvent(ev)
	logger.DebugTagf("input", "ModeHandler: %s key %v -> %v", mh.currentMode, ev.Name(), actionEvent.Action)

	var processed bool
	switch mh.currentMode {
	case ModeNormal:
		processed = mh.handleActionNormal(actionEvent)
	case ModeTextEdit:
		processed = mh.handleActionTextEdit(actionEvent)
	case ModeCommand:
		processed = mh.handleActionCommand(actionEvent)
	default:
		logger.Warnf("ModeHandler: Unknown input mode: %v", mh.currentMode)
	}

	// The editor may end a text edit on its own (undo, paste, selection change).
	if mh.currentMode == ModeTextEdit && !mh.editor.IsEditingText() {
		mh.setMode(ModeNormal)
	}

	if actionEvent.Action != input.ActionQuit && actionEvent.Action != input.ActionUnknown {
		mh.forceQuitPending = false
	}
	return processed || actionEvent.Action == input.ActionQuit
}

// setMode switches mode and tells the status bar and subscribers.
func (mh *ModeHandler) setMode(mode InputMode) {
	if mh.currentMode == mode {
		return
	}
	logger.Debugf("ModeHandler: %s -> %s", mh.currentMode, mode)
	mh.currentMode = mode
	mh.statusBar.SetEditorMode(mode.String())
	mh.statusBar.SetCommandLine(mode == ModeCommand, mh.cmdBuffer)
	mh.eventManager.Dispatch(event.TypeModeChanged, event.ModeChangedData{Mode: mode.String()})
}

// RequestQuit ends the application. Without force it refuses once while
// the document has unsaved changes and asks for confirmation.
func (mh *ModeHandler) RequestQuit(force bool) {
	if !force && mh.editor.IsModified() && !mh.forceQuitPending {
		mh.statusBar.SetTemporaryMessage("Unsaved changes! Press ESC again or Ctrl+Q to force quit.")
		mh.forceQuitPending = true
		return
	}
	mh.quitOnce.Do(func() {
		logger.Debugf("ModeHandler: quitting (force=%v)", force)
		close(mh.quitSignal)
	})
}

// RegisterCommand adds a command to the registry. Called via EditorAPI.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.DebugTagf("command", "ModeHandler: Registered command ':%s'", name)
	return nil
}

// CommandNames returns the registered command names, sorted.
func (mh *ModeHandler) CommandNames() []string {
	names := make([]string, 0, len(mh.commands))
	for name := range mh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// GetCurrentModeString returns the mode name shown in the status bar.
func (mh *ModeHandler) GetCurrentModeString() string {
	return mh.currentMode.String()
}

// GetCommandBuffer returns the command line being typed ("" outside command mode).
func (mh *ModeHandler) GetCommandBuffer() string {
	if mh.currentMode == ModeCommand {
		return mh.cmdBuffer
	}
	return ""
}
