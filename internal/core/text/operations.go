package text

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/utils"
)

// ErrNotEditing is returned when no textbox is in edit mode.
var ErrNotEditing = errors.New("no textbox is being edited")

// Operations handles text insertion/deletion
type Operations struct {
	editor EditorInterface
}

// EditorInterface defines editor methods needed
type EditorInterface interface {
	EditingText() (string, bool)
	SetEditingText(text string) error
	CaretIndex() int
	SetCaretIndex(i int)
}

// NewOperations creates a text operations manager
func NewOperations(editor EditorInterface) *Operations {
	return &Operations{
		editor: editor,
	}
}

// InsertRune inserts a single rune at the caret.
func (o *Operations) InsertRune(r rune) error {
	return o.InsertString(string(r))
}

// InsertNewLine breaks the line at the caret.
func (o *Operations) InsertNewLine() error {
	return o.InsertString("\n")
}

// InsertString inserts s at the caret and moves the caret past it.
func (o *Operations) InsertString(s string) error {
	text, ok := o.editor.EditingText()
	if !ok {
		return ErrNotEditing
	}
	if s == "" {
		return nil
	}
	g := utils.Graphemes(text)
	at := clamp(o.editor.CaretIndex(), len(g))

	before := strings.Join(g[:at], "")
	after := strings.Join(g[at:], "")
	updated := before + s + after
	if err := o.editor.SetEditingText(updated); err != nil {
		return fmt.Errorf("insert text: %w", err)
	}
	// Combining marks may merge with the grapheme before the caret,
	// so count the result rather than the inserted string.
	o.editor.SetCaretIndex(len(utils.Graphemes(before + s)))
	return nil
}

// DeleteBackward removes the grapheme before the caret.
// Returns false when the caret is already at the start.
func (o *Operations) DeleteBackward() (bool, error) {
	text, ok := o.editor.EditingText()
	if !ok {
		return false, ErrNotEditing
	}
	g := utils.Graphemes(text)
	at := clamp(o.editor.CaretIndex(), len(g))
	if at == 0 {
		return false, nil
	}
	updated := strings.Join(g[:at-1], "") + strings.Join(g[at:], "")
	if err := o.editor.SetEditingText(updated); err != nil {
		return false, fmt.Errorf("delete text: %w", err)
	}
	o.editor.SetCaretIndex(at - 1)
	logger.DebugTagf("core", "Text: deleted %q before caret", g[at-1])
	return true, nil
}

// DeleteForward removes the grapheme after the caret.
func (o *Operations) DeleteForward() (bool, error) {
	text, ok := o.editor.EditingText()
	if !ok {
		return false, ErrNotEditing
	}
	g := utils.Graphemes(text)
	at := clamp(o.editor.CaretIndex(), len(g))
	if at == len(g) {
		return false, nil
	}
	updated := strings.Join(g[:at], "") + strings.Join(g[at+1:], "")
	if err := o.editor.SetEditingText(updated); err != nil {
		return false, fmt.Errorf("delete text: %w", err)
	}
	o.editor.SetCaretIndex(at)
	return true, nil
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
