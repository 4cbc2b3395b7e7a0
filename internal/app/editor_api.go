// internal/app/editor_api.go
package app

import (
	"fmt"

	"github.com/bethropolis/invite/internal/commands"
	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/plugin"
	"github.com/bethropolis/invite/internal/scene"
	"github.com/bethropolis/invite/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// Ensure appEditorAPI serves both plugins and the built-in commands.
var (
	_ plugin.EditorAPI = (*appEditorAPI)(nil)
	_ commands.API     = (*appEditorAPI)(nil)
)

// appEditorAPI provides the concrete implementation of the EditorAPI interface.
type appEditorAPI struct {
	app *App
}

func newEditorAPI(app *App) *appEditorAPI {
	return &appEditorAPI{app: app}
}

// --- Document Access ---

func (api *appEditorAPI) Objects() []scene.Object {
	return api.app.editor.Scene().Objects()
}

func (api *appEditorAPI) SelectedObject() (scene.Object, bool) {
	return api.app.editor.SelectedObject()
}

func (api *appEditorAPI) DocumentPath() string {
	return api.app.editor.DocumentPath()
}

func (api *appEditorAPI) IsModified() bool {
	return api.app.editor.IsModified()
}

func (api *appEditorAPI) Document() scene.Snapshot {
	return api.app.editor.Scene().Document()
}

// --- Event Bus Interaction ---

func (api *appEditorAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appEditorAPI) SubscribeEvent(eventType event.Type, handler event.Handler) {
	api.app.eventManager.Subscribe(eventType, handler)
}

// --- Command Registration ---

func (api *appEditorAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if api.app == nil || api.app.GetModeHandler() == nil {
		logger.Errorf("appEditorAPI cannot register command '%s', app or modeHandler is nil", name)
		return fmt.Errorf("internal error: API cannot access command registration")
	}
	return api.app.GetModeHandler().RegisterCommand(name, cmdFunc)
}

// RequestQuit ends the application, asking first when there are unsaved
// changes unless force is set.
func (api *appEditorAPI) RequestQuit(force bool) {
	api.app.GetModeHandler().RequestQuit(force)
}

// --- Status Bar ---

func (api *appEditorAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.SetStatusMessage(format, args...)
}

// --- Theme Access ---

func (api *appEditorAPI) GetThemeStyle(styleName string) tcell.Style {
	return api.app.GetTheme().GetStyle(styleName)
}

// SetTheme activates a theme by name and restyles the screen.
func (api *appEditorAPI) SetTheme(name string) error {
	if err := api.app.GetThemeManager().SetTheme(name); err != nil {
		return err
	}
	api.app.applyTheme()
	logger.Debugf("Theme changed to '%s', redraw requested", name)
	return nil
}

func (api *appEditorAPI) GetTheme() *theme.Theme {
	return api.app.GetTheme()
}

func (api *appEditorAPI) ListThemes() []string {
	return api.app.GetThemeManager().ListThemes()
}

// --- Configuration ---

// GetPluginConfigValue exposes the [plugins.<name>] tables of the config.
func (api *appEditorAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	plugins := api.app.cfg.Plugins
	switch pluginName {
	case "autosave":
		switch key {
		case "enabled":
			return plugins.Autosave.Enabled, true
		case "interval":
			return plugins.Autosave.Interval.Duration.String(), true
		}
	}
	return nil, false
}
