package cursor

import (
	"strings"

	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/types"
	"github.com/bethropolis/invite/internal/utils"
)

// Editor is the interface cursor manager expects from the editor
type Editor interface {
	EditingText() (string, bool) // Text of the textbox in edit, if any
}

// Manager tracks the caret inside the textbox being edited.
// The caret is a grapheme index in [0, len(graphemes)].
type Manager struct {
	editor Editor
	index  int
}

// NewManager creates a new cursor manager
func NewManager(editor Editor) *Manager {
	return &Manager{editor: editor}
}

// Index returns the caret's grapheme index.
func (m *Manager) Index() int {
	return m.index
}

// SetIndex places the caret, clamped to the current text.
func (m *Manager) SetIndex(i int) {
	m.index = i
	m.Clamp()
}

// Move shifts the caret by delta graphemes.
func (m *Manager) Move(delta int) {
	m.SetIndex(m.index + delta)
}

// Home moves the caret to the start of its line.
func (m *Manager) Home() {
	g := m.graphemes()
	i := m.index
	for i > 0 && g[i-1] != "\n" {
		i--
	}
	m.index = i
}

// End moves the caret to the end of its line.
func (m *Manager) End() {
	g := m.graphemes()
	i := m.index
	for i < len(g) && g[i] != "\n" {
		i++
	}
	m.index = i
}

// MoveToEnd puts the caret after the last grapheme.
func (m *Manager) MoveToEnd() {
	m.index = len(m.graphemes())
}

// Clamp keeps the caret inside the text.
func (m *Manager) Clamp() {
	n := len(m.graphemes())
	if m.index < 0 {
		m.index = 0
	} else if m.index > n {
		logger.DebugTagf("core", "Cursor Manager: clamping %d to %d", m.index, n)
		m.index = n
	}
}

// Position converts the caret to a line and column.
func (m *Manager) Position() types.Position {
	text, _ := m.editor.EditingText()
	before := utils.Graphemes(text)
	if m.index < len(before) {
		before = before[:m.index]
	}
	joined := strings.Join(before, "")
	line := strings.Count(joined, "\n")
	col := len(before)
	if nl := strings.LastIndex(joined, "\n"); nl >= 0 {
		col = len(utils.Graphemes(joined[nl+1:]))
	}
	return types.Position{Line: line, Col: col}
}

func (m *Manager) graphemes() []string {
	text, _ := m.editor.EditingText()
	return utils.Graphemes(text)
}
