package core

import (
	"github.com/bethropolis/invite/internal/scene"
)

// Select makes the object with id the selection. Selecting ends any
// text edit session on another object.
func (e *Editor) Select(id string) bool {
	if e.editingID != "" && e.editingID != id {
		e.endEdit()
	}
	return e.selection.Select(id)
}

// SelectNext selects the next object in stacking order, wrapping around.
func (e *Editor) SelectNext() bool {
	e.endEdit()
	return e.selection.Cycle(1)
}

// SelectPrev selects the previous object in stacking order, wrapping around.
func (e *Editor) SelectPrev() bool {
	e.endEdit()
	return e.selection.Cycle(-1)
}

// ClearSelection deselects everything.
func (e *Editor) ClearSelection() {
	e.endEdit()
	e.selection.Clear()
}

// HasSelection returns true if an object is selected.
func (e *Editor) HasSelection() bool {
	return e.selection.HasSelection()
}

// SelectedID returns the selected object's ID, or "".
func (e *Editor) SelectedID() string {
	id, _ := e.selection.Selected()
	return id
}

// SelectedObject returns a copy of the selected object.
func (e *Editor) SelectedObject() (scene.Object, bool) {
	obj, err := e.selected()
	return obj, err == nil
}
