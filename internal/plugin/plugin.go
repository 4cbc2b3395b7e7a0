// internal/plugin/plugin.go
package plugin

import (
	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/scene"
	"github.com/bethropolis/invite/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// CommandFunc defines the signature for commands registered by plugins.
// It takes the ":" command arguments and returns an error for the status bar.
type CommandFunc func(args []string) error

// EditorAPI defines the methods plugins can use to interact with the editor core.
// Plugins get read access to the document; changes go through commands.
type EditorAPI interface {
	// --- Document Access ---
	Objects() []scene.Object
	SelectedObject() (scene.Object, bool)
	DocumentPath() string
	IsModified() bool
	Document() scene.Snapshot // canonical JSON, safe to call from any goroutine

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler)

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status Bar ---
	SetStatusMessage(format string, args ...interface{})

	// --- Theme Access ---
	GetThemeStyle(styleName string) tcell.Style
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string

	// --- Configuration ---
	// GetPluginConfigValue returns the [plugins.<name>] value for key.
	GetPluginConfigValue(pluginName, key string) (interface{}, bool)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded.
	// Used for setup, subscribing to events, registering commands.
	Initialize(api EditorAPI) error

	// Shutdown is called once when the editor is closing.
	Shutdown() error
}
