// Package commands holds the built-in ":" commands.
package commands

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bethropolis/invite/internal/core"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/plugin"
	"github.com/bethropolis/invite/internal/templates"
	"github.com/bethropolis/invite/internal/utils"
)

// Command is a ":" command handler.
type Command = plugin.CommandFunc

// API is what the built-in commands need from the application besides
// the editor itself.
type API interface {
	ThemeAPI
	RegisterCommand(name string, cmdFunc plugin.CommandFunc) error
	RequestQuit(force bool)
}

// statusWidth bounds list output so it fits the status line.
const statusWidth = 120

// RegisterAppCommands registers every built-in command.
func RegisterAppCommands(api API, ed *core.Editor) {
	all := editorCommands(api, ed)
	for name, fn := range themeCommands(api) {
		all[name] = fn
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := api.RegisterCommand(name, all[name]); err != nil {
			logger.Warnf("Failed to register ':%s' command: %v", name, err)
		}
	}
}

// joined returns the arguments as one string, for paths and font names
// containing spaces.
func joined(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func requireArg(name string, args []string) (string, error) {
	arg := joined(args)
	if arg == "" {
		return "", fmt.Errorf("usage: :%s <argument>", name)
	}
	return arg, nil
}

func editorCommands(api API, ed *core.Editor) map[string]Command {
	added := func(kind string, add func() (string, error)) Command {
		return func(args []string) error {
			if _, err := add(); err != nil {
				return err
			}
			api.SetStatusMessage("Added %s", kind)
			return nil
		}
	}
	simple := func(msg string, fn func() error) Command {
		return func(args []string) error {
			if err := fn(); err != nil {
				return err
			}
			api.SetStatusMessage("%s", msg)
			return nil
		}
	}

	return map[string]Command{
		// --- Objects ---
		"text":   added("text", ed.AddText),
		"line":   added("line", ed.AddLine),
		"rect":   added("rectangle", ed.AddRect),
		"circle": added("circle", ed.AddCircle),
		"image": func(args []string) error {
			path, err := requireArg("image", args)
			if err != nil {
				return err
			}
			if _, err := ed.AddImage(path); err != nil {
				return err
			}
			api.SetStatusMessage("Added image %s", path)
			return nil
		},
		"delete": simple("Deleted", ed.DeleteSelected),

		// --- Style ---
		"font": func(args []string) error {
			name, err := requireArg("font", args)
			if err != nil {
				return err
			}
			if err := ed.SetFontFamily(name); err != nil {
				return err
			}
			obj, _ := ed.SelectedObject()
			api.SetStatusMessage("Font: %s", obj.FontFamily)
			return nil
		},
		"size": func(args []string) error {
			arg, err := requireArg("size", args)
			if err != nil {
				return err
			}
			size, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("invalid size %q", arg)
			}
			if err := ed.SetFontSize(size); err != nil {
				return err
			}
			api.SetStatusMessage("Size: %v", size)
			return nil
		},
		"color": func(args []string) error {
			arg, err := requireArg("color", args)
			if err != nil {
				return err
			}
			return ed.SetColor(arg)
		},
		"bold":   simple("Bold toggled", ed.ToggleBold),
		"italic": simple("Italic toggled", ed.ToggleItalic),

		// --- Background and canvas ---
		"bg": func(args []string) error {
			arg, err := requireArg("bg", args)
			if err != nil {
				return err
			}
			return ed.SetBackgroundColor(arg)
		},
		"bgimage": func(args []string) error {
			path, err := requireArg("bgimage", args)
			if err != nil {
				return err
			}
			return ed.SetBackgroundImage(path)
		},
		"clearbg": func(args []string) error {
			ed.ClearBackground()
			return nil
		},
		"canvas": func(args []string) error {
			if len(args) == 0 {
				w, h := ed.Scene().Size()
				api.SetStatusMessage("Canvas %dx%d px. Sizes: %s", w, h, strings.Join(templates.SizeNames(), ", "))
				return nil
			}
			if err := ed.SetCanvasSize(args[0]); err != nil {
				return err
			}
			api.SetStatusMessage("Canvas set to %s", args[0])
			return nil
		},
		"reset": simple("Template reset", ed.ResetTemplate),
		"template": func(args []string) error {
			if len(args) == 0 {
				api.SetStatusMessage("Current template: %s", ed.TemplateName())
				return nil
			}
			if err := ed.ApplyTemplate(joined(args)); err != nil {
				return err
			}
			api.SetStatusMessage("Template: %s", ed.TemplateName())
			return nil
		},
		"templates": func(args []string) error {
			api.SetStatusMessage("%s", utils.Truncate("Templates: "+strings.Join(ed.Templates().Names(), ", "), statusWidth))
			return nil
		},
		"fonts": func(args []string) error {
			families := ed.Fonts().Families()
			if pattern := joined(args); pattern != "" {
				families = ed.Fonts().Lookup(pattern)
			}
			api.SetStatusMessage("%s", utils.Truncate("Fonts: "+strings.Join(families, ", "), statusWidth))
			return nil
		},

		// --- History ---
		"undo": func(args []string) error {
			if ok, err := ed.Undo(); err != nil {
				return err
			} else if !ok {
				api.SetStatusMessage("Nothing to undo")
			}
			return nil
		},
		"redo": func(args []string) error {
			if ok, err := ed.Redo(); err != nil {
				return err
			} else if !ok {
				api.SetStatusMessage("Nothing to redo")
			}
			return nil
		},

		// --- Files ---
		"w": func(args []string) error {
			path, err := ed.Save(joined(args))
			if err != nil {
				return err
			}
			api.SetStatusMessage("Saved %s", path)
			return nil
		},
		"e": func(args []string) error {
			path, err := requireArg("e", args)
			if err != nil {
				return err
			}
			if err := ed.Open(path); err != nil {
				return err
			}
			api.SetStatusMessage("Opened %s", path)
			return nil
		},
		"export": func(args []string) error {
			path, err := ed.Export(joined(args))
			if err != nil {
				return err
			}
			api.SetStatusMessage("Exported %s", path)
			return nil
		},
		"q": func(args []string) error {
			if ed.IsModified() {
				return errors.New("no write since last change (add ! to override)")
			}
			api.RequestQuit(false)
			return nil
		},
		"q!": func(args []string) error {
			api.RequestQuit(true)
			return nil
		},
		"wq": func(args []string) error {
			if _, err := ed.Save(joined(args)); err != nil {
				return err
			}
			api.RequestQuit(true)
			return nil
		},
	}
}
