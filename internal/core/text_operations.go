package core

import (
	"fmt"

	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/scene"
)

// BeginTextEdit opens a text edit session on the selected textbox with
// the caret at the end of its text.
func (e *Editor) BeginTextEdit() error {
	obj, err := e.selected()
	if err != nil {
		return err
	}
	if !obj.IsText() {
		return fmt.Errorf("%s: %w", obj.Type, scene.ErrNotText)
	}
	if e.editingID == obj.ID {
		return nil
	}
	e.endEdit()

	e.editingID = obj.ID
	e.cursor.MoveToEnd()
	e.history.BeginEdit()
	logger.Debugf("Editor: editing text of %s", obj.ID)
	e.dispatch(event.TypeTextEditEntered, event.ObjectData{ID: obj.ID, Kind: string(obj.Type)})
	return nil
}

// EndTextEdit closes the text edit session, recording it as one undo
// step under session granularity.
func (e *Editor) EndTextEdit() {
	e.endEdit()
	e.scene.Render()
}

func (e *Editor) endEdit() {
	if e.editingID == "" {
		return
	}
	id := e.editingID
	e.editingID = ""
	e.history.EndEdit()
	e.dispatch(event.TypeTextEditExited, event.ObjectData{ID: id, Kind: string(scene.KindText)})
}

// flushEdit commits pending session text without leaving the session.
func (e *Editor) flushEdit() {
	if e.editingID == "" {
		return
	}
	e.history.EndEdit()
	e.history.BeginEdit()
}

// IsEditingText reports whether a text edit session is open.
func (e *Editor) IsEditingText() bool {
	return e.editingID != ""
}

// EditingID returns the textbox being edited, or "".
func (e *Editor) EditingID() string {
	return e.editingID
}

// EditingText returns the text of the textbox being edited.
func (e *Editor) EditingText() (string, bool) {
	if e.editingID == "" {
		return "", false
	}
	obj, ok := e.scene.Object(e.editingID)
	if !ok {
		return "", false
	}
	return obj.Text, true
}

// SetEditingText replaces the edited textbox's text and tells history.
func (e *Editor) SetEditingText(s string) error {
	if e.editingID == "" {
		return ErrNoSelection
	}
	if err := e.scene.SetText(e.editingID, s); err != nil {
		return err
	}
	e.history.TextChanged()
	e.scene.Render()
	return nil
}

// Text operation methods delegated to textOps

func (e *Editor) InsertRune(r rune) error {
	return e.textOps.InsertRune(r)
}

func (e *Editor) InsertString(s string) error {
	return e.textOps.InsertString(s)
}

func (e *Editor) InsertNewLine() error {
	return e.textOps.InsertNewLine()
}

func (e *Editor) DeleteBackward() (bool, error) {
	return e.textOps.DeleteBackward()
}

func (e *Editor) DeleteForward() (bool, error) {
	return e.textOps.DeleteForward()
}
