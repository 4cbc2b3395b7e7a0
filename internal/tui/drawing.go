// internal/tui/drawing.go
package tui

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/bethropolis/invite/internal/core"
	"github.com/bethropolis/invite/internal/render"
	"github.com/bethropolis/invite/internal/scene"
	"github.com/bethropolis/invite/internal/theme"
	"github.com/bethropolis/invite/internal/utils"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// halfBlock draws the top pixel in the foreground and the bottom pixel in
// the background colour.
const halfBlock = '▀'

// minCanvasWidth is the narrowest preview worth keeping the panel for.
const minCanvasWidth = 20

// Area is a rectangle of terminal cells.
type Area struct {
	X, Y, W, H int
}

// Layout splits the screen into the canvas preview and, when there is
// room, an object panel on the right. The status bar takes the bottom rows.
func Layout(width, height, statusHeight, panelWidth int) (canvas, panel Area) {
	h := height - statusHeight
	if h < 0 {
		h = 0
	}
	if width-panelWidth < minCanvasWidth {
		return Area{0, 0, width, h}, Area{}
	}
	return Area{0, 0, width - panelWidth, h}, Area{width - panelWidth, 0, panelWidth, h}
}

// drawText draws s at (x, y) clipped to maxX and returns the next column.
func drawText(screen tcell.Screen, x, y, maxX int, s string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if x+w > maxX {
			break
		}
		runes := gr.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}

func fill(screen tcell.Screen, a Area, style tcell.Style) {
	for y := a.Y; y < a.Y+a.H; y++ {
		for x := a.X; x < a.X+a.W; x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// DrawPreview draws half-block cells centred in area.
func DrawPreview(t *TUI, area Area, cells [][]render.Cell, activeTheme *theme.Theme) {
	screen := t.screen
	fill(screen, area, activeTheme.GetStyle(theme.StyleDefault))
	if len(cells) == 0 || area.W <= 0 || area.H <= 0 {
		return
	}

	rows, cols := len(cells), len(cells[0])
	offX := area.X + (area.W-cols)/2
	offY := area.Y + (area.H-rows)/2
	for y, row := range cells {
		sy := offY + y
		if sy < area.Y || sy >= area.Y+area.H {
			continue
		}
		for x, c := range row {
			sx := offX + x
			if sx < area.X || sx >= area.X+area.W {
				continue
			}
			style := tcell.StyleDefault.Foreground(rgb(c.Top)).Background(rgb(c.Bottom))
			screen.SetContent(sx, sy, halfBlock, nil, style)
		}
	}
}

// Describe returns a one-line label for an object.
func Describe(o scene.Object) string {
	switch o.Type {
	case scene.KindText:
		text := strings.ReplaceAll(o.Text, "\n", " ")
		return fmt.Sprintf("T %q", text)
	case scene.KindLine:
		return "— line"
	case scene.KindRect:
		return "□ rect"
	case scene.KindCircle:
		return "○ circle"
	case scene.KindImage:
		return "▣ " + filepath.Base(o.Src)
	}
	return string(o.Type)
}

// DrawObjectPanel lists the objects, topmost first, marking the selected
// one. While a textbox is edited the panel also shows its text with the caret.
func DrawObjectPanel(t *TUI, area Area, editor *core.Editor, activeTheme *theme.Theme) {
	if area.W <= 2 || area.H <= 0 {
		return
	}
	screen := t.screen
	base := activeTheme.GetStyle(theme.StylePanel)
	fill(screen, area, base)

	border := activeTheme.GetStyle(theme.StyleCanvasBorder)
	for y := area.Y; y < area.Y+area.H; y++ {
		screen.SetContent(area.X, y, '│', nil, border)
	}

	x0, maxX := area.X+2, area.X+area.W
	y := area.Y
	drawText(screen, x0, y, maxX, "Objects", activeTheme.GetStyle(theme.StylePanelTitle))
	y++

	editorRows := 0
	text, editing := editor.EditingText()
	if editing {
		editorRows = strings.Count(text, "\n") + 3 // title, lines, spacer
	}
	listEnd := area.Y + area.H - editorRows

	objs := editor.Scene().Objects()
	selected := editor.SelectedID()
	for i := len(objs) - 1; i >= 0 && y < listEnd; i-- {
		o := objs[i]
		style := base
		switch {
		case o.ID == editor.EditingID():
			style = activeTheme.GetStyle(theme.StylePanelEditing)
		case o.ID == selected:
			style = activeTheme.GetStyle(theme.StylePanelSelected)
		}
		drawText(screen, x0, y, maxX, utils.Truncate(Describe(o), maxX-x0), style)
		y++
	}

	if editing && editorRows < area.H {
		drawEditingText(screen, x0, area.Y+area.H-editorRows+1, maxX, text, editor, activeTheme)
	}
}

// drawEditingText shows the edited text line by line with the caret cell
// highlighted. Lines are clipped, not wrapped.
func drawEditingText(screen tcell.Screen, x0, y, maxX int, text string, editor *core.Editor, activeTheme *theme.Theme) {
	dim := activeTheme.GetStyle(theme.StylePanelDim)
	style := activeTheme.GetStyle(theme.StylePanel)
	caret := activeTheme.GetStyle(theme.StyleCaret).Reverse(true)
	pos := editor.CaretPosition()

	drawText(screen, x0, y, maxX, "Editing:", dim)
	for i, line := range strings.Split(text, "\n") {
		row := y + 1 + i
		x := x0
		for col, g := range utils.Graphemes(line) {
			st := style
			if i == pos.Line && col == pos.Col {
				st = caret
			}
			x = drawText(screen, x, row, maxX, g, st)
		}
		if i == pos.Line && pos.Col >= len(utils.Graphemes(line)) && x < maxX {
			screen.SetContent(x, row, ' ', nil, caret)
		}
	}
}
