package core

import (
	"github.com/bethropolis/invite/internal/types"
)

// CaretIndex returns the caret's grapheme index in the edited text.
func (e *Editor) CaretIndex() int {
	return e.cursor.Index()
}

// SetCaretIndex places the caret, clamped to the edited text.
func (e *Editor) SetCaretIndex(i int) {
	e.cursor.SetIndex(i)
}

// CaretPosition returns the caret as line and column.
func (e *Editor) CaretPosition() types.Position {
	return e.cursor.Position()
}

// MoveCaret shifts the caret by delta graphemes.
func (e *Editor) MoveCaret(delta int) {
	if e.editingID != "" {
		e.cursor.Move(delta)
	}
}

// CaretHome moves the caret to the start of its line.
func (e *Editor) CaretHome() {
	if e.editingID != "" {
		e.cursor.Home()
	}
}

// CaretEnd moves the caret to the end of its line.
func (e *Editor) CaretEnd() {
	if e.editingID != "" {
		e.cursor.End()
	}
}
