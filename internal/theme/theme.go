// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/invite/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Style names used by the UI.
const (
	StyleDefault           = "Default"
	StyleStatusBar         = "StatusBar"
	StyleStatusBarModified = "StatusBarModified"
	StyleStatusBarMessage  = "StatusBarMessage"
	StyleStatusBarCommand  = "StatusBarCommand"
	StyleStatusBarMode     = "StatusBarMode"
	StylePanel             = "Panel"
	StylePanelTitle        = "Panel.title"
	StylePanelSelected     = "Panel.selected"
	StylePanelEditing      = "Panel.editing"
	StylePanelDim          = "Panel.dim"
	StyleCanvasBorder      = "CanvasBorder"
	StyleCaret             = "Caret"
)

// Theme is a named set of tcell styles for the editor chrome.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style, falling back to the part before the
// first dot and then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	// 1. Try exact name
	if style, ok := t.Styles[name]; ok {
		return style
	}

	// 2. Try base name (part before first dot)
	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, baseName)
			return style
		}
	}

	// 3. Return "Default" style
	if defStyle, ok := t.Styles[StyleDefault]; ok {
		return defStyle
	}

	// 4. Absolute fallback
	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// Built-in themes.
var (
	InviteDark  Theme
	InviteLight Theme
)

func init() {
	// --- Palette for Invite Dark ---
	dkBar := tcell.NewHexColor(0x2a2f38)
	dkFg := tcell.NewHexColor(0xc5cdd9)
	dkDim := tcell.NewHexColor(0x5c6370)
	dkGold := tcell.NewHexColor(0xe5c07b)
	dkGreen := tcell.NewHexColor(0x98c379)
	dkBlue := tcell.NewHexColor(0x61afef)
	dkRose := tcell.NewHexColor(0xe06c75)

	dkBase := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(dkFg)
	InviteDark = Theme{
		Name:   "Invite Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:           dkBase,
			StyleStatusBar:         tcell.StyleDefault.Background(dkBar).Foreground(dkFg),
			StyleStatusBarModified: tcell.StyleDefault.Background(dkBar).Foreground(dkGold),
			StyleStatusBarMessage:  tcell.StyleDefault.Background(dkBar).Foreground(dkFg).Bold(true),
			StyleStatusBarCommand:  tcell.StyleDefault.Background(dkBar).Foreground(dkGreen).Bold(true),
			StyleStatusBarMode:     tcell.StyleDefault.Background(dkBlue).Foreground(tcell.ColorBlack).Bold(true),
			StylePanel:             dkBase,
			StylePanelTitle:        dkBase.Foreground(dkGold).Bold(true),
			StylePanelSelected:     dkBase.Reverse(true),
			StylePanelEditing:      dkBase.Foreground(dkRose).Bold(true),
			StylePanelDim:          dkBase.Foreground(dkDim),
			StyleCanvasBorder:      dkBase.Foreground(dkDim),
			StyleCaret:             dkBase.Foreground(dkRose),
		},
	}

	// --- Palette for Invite Light ---
	ltBar := tcell.NewHexColor(0xe8e2d6)
	ltFg := tcell.NewHexColor(0x2b2b2b)
	ltDim := tcell.NewHexColor(0x9a948a)
	ltGold := tcell.NewHexColor(0x9c6b00)
	ltGreen := tcell.NewHexColor(0x3d7a2a)
	ltRose := tcell.NewHexColor(0xb03050)

	ltBase := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(ltFg)
	InviteLight = Theme{
		Name:   "Invite Light",
		IsDark: false,
		Styles: map[string]tcell.Style{
			StyleDefault:           ltBase,
			StyleStatusBar:         tcell.StyleDefault.Background(ltBar).Foreground(ltFg),
			StyleStatusBarModified: tcell.StyleDefault.Background(ltBar).Foreground(ltGold),
			StyleStatusBarMessage:  tcell.StyleDefault.Background(ltBar).Foreground(ltFg).Bold(true),
			StyleStatusBarCommand:  tcell.StyleDefault.Background(ltBar).Foreground(ltGreen).Bold(true),
			StyleStatusBarMode:     tcell.StyleDefault.Background(ltGold).Foreground(tcell.ColorWhite).Bold(true),
			StylePanel:             ltBase,
			StylePanelTitle:        ltBase.Foreground(ltGold).Bold(true),
			StylePanelSelected:     ltBase.Reverse(true),
			StylePanelEditing:      ltBase.Foreground(ltRose).Bold(true),
			StylePanelDim:          ltBase.Foreground(ltDim),
			StyleCanvasBorder:      ltBase.Foreground(ltDim),
			StyleCaret:             ltBase.Foreground(ltRose),
		},
	}
}
