package commands

import (
	"fmt"
	"strings"

	"github.com/bethropolis/invite/internal/theme"
)

// ThemeAPI is what the theme commands need from the application.
type ThemeAPI interface {
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string
	SetStatusMessage(format string, args ...interface{})
}

// themeCommands returns :theme and :themes.
func themeCommands(api ThemeAPI) map[string]Command {
	return map[string]Command{
		"theme": func(args []string) error {
			if len(args) == 0 {
				api.SetStatusMessage("Current theme: %s", api.GetTheme().Name)
				return nil
			}
			name := strings.Join(args, " ") // theme names may contain spaces
			if err := api.SetTheme(name); err != nil {
				return fmt.Errorf("theme '%s' not found. Available: %s", name, strings.Join(api.ListThemes(), ", "))
			}
			api.SetStatusMessage("Theme set to: %s", api.GetTheme().Name)
			return nil
		},
		"themes": func(args []string) error {
			api.SetStatusMessage("Available themes: %s", strings.Join(api.ListThemes(), ", "))
			return nil
		},
	}
}
