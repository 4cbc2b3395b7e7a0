package app

import (
	"github.com/bethropolis/invite/internal/commands"
)

// registerAppCommands registers the built-in ":" commands. Plugins add
// theirs later through the same API.
func registerAppCommands(app *App) {
	commands.RegisterAppCommands(app.editorAPI, app.editor)
}
