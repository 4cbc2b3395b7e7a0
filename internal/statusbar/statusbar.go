// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bethropolis/invite/internal/theme"
	"github.com/bethropolis/invite/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style
	StyleModified  tcell.Style // modified indicator
	StyleMessage   tcell.Style // temporary messages
	StyleCommand   tcell.Style // ":" command line
	StyleMode      tcell.Style // mode badge
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return ConfigFromTheme(&theme.InviteDark)
}

// ConfigFromTheme builds a Config from a theme's status bar styles.
func ConfigFromTheme(th *theme.Theme) Config {
	return Config{
		StyleDefault:   th.GetStyle(theme.StyleStatusBar),
		StyleModified:  th.GetStyle(theme.StyleStatusBarModified),
		StyleMessage:   th.GetStyle(theme.StyleStatusBarMessage),
		StyleCommand:   th.GetStyle(theme.StyleStatusBarCommand),
		StyleMode:      th.GetStyle(theme.StyleStatusBarMode),
		MessageTimeout: 4 * time.Second,
	}
}

// StatusBar is the bottom line of the screen: mode, document, selection,
// history depth and caret, or a temporary message, or the command line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	filePath   string
	isModified bool
	editorMode string
	selection  string // short description of the selected object
	undoDepth  int
	redoDepth  int
	editing    bool
	cursorPos  types.Position

	command       string
	commandActive bool

	tempMessage     string
	tempMessageTime time.Time
	now             func() time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config: config,
		now:    time.Now,
	}
}

// SetConfig swaps the styles, e.g. after a theme change.
func (sb *StatusBar) SetConfig(config Config) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.config = config
}

// SetFileInfo updates the document path shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetSelectionInfo updates the selected object description ("" for none).
func (sb *StatusBar) SetSelectionInfo(desc string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.selection = desc
}

// SetHistoryInfo updates the undo and redo depths.
func (sb *StatusBar) SetHistoryInfo(undo, redo int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.undoDepth = undo
	sb.redoDepth = redo
}

// SetCursorInfo updates the caret position. It is shown only while
// editing is true.
func (sb *StatusBar) SetCursorInfo(editing bool, pos types.Position) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.editing = editing
	sb.cursorPos = pos
}

// SetEditorMode updates the displayed editor mode.
func (sb *StatusBar) SetEditorMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.editorMode = mode
}

// SetCommandLine shows buf as the ":" prompt while active is true.
func (sb *StatusBar) SetCommandLine(active bool, buf string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.commandActive = active
	sb.command = buf
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// segment is a run of status text in one style.
type segment struct {
	text  string
	style tcell.Style
}

// defaultSegments builds the normal status line. Caller holds the lock.
func (sb *StatusBar) defaultSegments() []segment {
	var segs []segment
	if sb.editorMode != "" {
		segs = append(segs, segment{" " + sb.editorMode + " ", sb.config.StyleMode})
	}

	name := "[No Name]"
	if sb.filePath != "" {
		name = filepath.Base(sb.filePath)
	}
	segs = append(segs, segment{" " + name, sb.config.StyleDefault})
	if sb.isModified {
		segs = append(segs, segment{" [+]", sb.config.StyleModified})
	}

	sel := sb.selection
	if sel == "" {
		sel = "no selection"
	}
	info := fmt.Sprintf(" | %s | undo %d redo %d", sel, sb.undoDepth, sb.redoDepth)
	if sb.editing {
		info += fmt.Sprintf(" | Ln %d, Col %d", sb.cursorPos.Line+1, sb.cursorPos.Col+1)
	}
	segs = append(segs, segment{info, sb.config.StyleDefault})
	return segs
}

// Draw renders the status bar onto the last screen line using visual widths.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	sb.mu.Lock()
	isTempMsgActive := !sb.tempMessageTime.IsZero() && sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !isTempMsgActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	fill := sb.config.StyleDefault
	var segs []segment
	switch {
	case sb.commandActive:
		fill = sb.config.StyleCommand
		segs = []segment{{":" + sb.command, sb.config.StyleCommand}}
	case isTempMsgActive:
		fill = sb.config.StyleMessage
		segs = []segment{{sb.tempMessage, sb.config.StyleMessage}}
	default:
		segs = sb.defaultSegments()
	}
	sb.mu.Unlock()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, fill)
	}

	x := 0
	for _, seg := range segs {
		x = drawText(screen, x, y, width, seg.text, seg.style)
		if x >= width {
			break
		}
	}
}

// drawText draws text from column x, clipping at maxX, and returns the
// column after the last cell drawn.
func drawText(screen tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusterWidth := gr.Width()
		if x+clusterWidth > maxX {
			return maxX
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			var combining []rune
			if len(runes) > 1 {
				combining = runes[1:]
			}
			screen.SetContent(x, y, runes[0], combining, style)
		}
		x += clusterWidth
	}
	return x
}
