// internal/theme/loader.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// styleDef is one [styles.<Name>] table. Pointers tell unset from false.
type styleDef struct {
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
	Dim       *bool   `toml:"dim"`
}

// themeFile is the on-disk form of a theme:
//
//	name = "Paper"
//	extends = "Invite Light"
//	[styles.StatusBar]
//	bg = "#e8e0d0"
type themeFile struct {
	Name    string              `toml:"name"`
	IsDark  *bool               `toml:"is_dark"`
	Extends string              `toml:"extends"`
	Styles  map[string]styleDef `toml:"styles"`
}

// knownStyles are the names the editor draws with.
var knownStyles = map[string]bool{
	StyleDefault: true, StyleStatusBar: true, StyleStatusBarModified: true,
	StyleStatusBarMessage: true, StyleStatusBarCommand: true, StyleStatusBarMode: true,
	StylePanel: true, StylePanelTitle: true, StylePanelSelected: true,
	StylePanelEditing: true, StylePanelDim: true, StyleCanvasBorder: true, StyleCaret: true,
}

// LoadThemeFromFile parses a TOML theme file. parent resolves the
// `extends` key and may be nil.
func LoadThemeFromFile(filePath string, parent func(name string) (*Theme, bool)) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file '%s': %w", filePath, err)
	}

	var tf themeFile
	metadata, err := toml.Decode(string(data), &tf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML theme file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 {
		logger.Warnf("Theme file '%s': unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	if tf.Name == "" {
		tf.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		logger.Debugf("Theme file '%s' missing 'name', using '%s'", filePath, tf.Name)
	}

	theme := &Theme{Name: tf.Name, Styles: make(map[string]tcell.Style)}
	if tf.Extends != "" {
		var base *Theme
		ok := false
		if parent != nil {
			base, ok = parent(tf.Extends)
		}
		if !ok {
			return nil, fmt.Errorf("theme '%s' extends unknown theme '%s'", tf.Name, tf.Extends)
		}
		theme.IsDark = base.IsDark
		for name, style := range base.Styles {
			theme.Styles[name] = style
		}
	}
	if tf.IsDark != nil {
		theme.IsDark = *tf.IsDark
	}
	if _, ok := theme.Styles[StyleDefault]; !ok {
		theme.Styles[StyleDefault] = tcell.StyleDefault
	}

	// Sorted, so "Panel" resolves before "Panel.selected".
	names := make([]string, 0, len(tf.Styles))
	for name := range tf.Styles {
		if name != StyleDefault {
			names = append(names, name)
		}
		if !knownStyles[name] {
			logger.Warnf("Theme '%s': style '%s' is not used by the editor", tf.Name, name)
		}
	}
	sort.Strings(names)
	if _, ok := tf.Styles[StyleDefault]; ok {
		names = append([]string{StyleDefault}, names...)
	}

	// Each style starts from the extended theme's, else its dotted base, else Default.
	for _, name := range names {
		style, err := applyStyleDef(tf.Styles[name], theme.GetStyle(name))
		if err != nil {
			logger.Warnf("Theme '%s': style '%s' skipped: %v", tf.Name, name, err)
			continue
		}
		theme.Styles[name] = style
	}

	logger.Debugf("Loaded theme '%s' from '%s'", theme.Name, filePath)
	return theme, nil
}

// applyStyleDef overlays the set fields of def on base.
func applyStyleDef(def styleDef, base tcell.Style) (tcell.Style, error) {
	style := base
	if def.Fg != nil {
		c, err := parseColorString(*def.Fg)
		if err != nil {
			return base, fmt.Errorf("foreground: %w", err)
		}
		style = style.Foreground(c)
	}
	if def.Bg != nil {
		c, err := parseColorString(*def.Bg)
		if err != nil {
			return base, fmt.Errorf("background: %w", err)
		}
		style = style.Background(c)
	}
	if def.Bold != nil {
		style = style.Bold(*def.Bold)
	}
	if def.Italic != nil {
		style = style.Italic(*def.Italic)
	}
	if def.Underline != nil {
		style = style.Underline(*def.Underline)
	}
	if def.Reverse != nil {
		style = style.Reverse(*def.Reverse)
	}
	if def.Dim != nil {
		style = style.Dim(*def.Dim)
	}
	return style, nil
}

// parseColorString converts "#rgb", "#rrggbb", a colour name ("navy",
// "gold") or the keywords "reset" and "default" to a tcell.Color.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default", "":
		return tcell.ColorDefault, nil
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex colour '%s', want #rgb or #rrggbb", s)
		}
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
	}
	c := tcell.GetColor(s)
	if c == tcell.ColorDefault {
		return tcell.ColorDefault, fmt.Errorf("unknown colour name '%s'", s)
	}
	return c, nil
}
