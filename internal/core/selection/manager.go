package selection

import (
	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/logger"
)

// Manager tracks which scene object is selected.
type Manager struct {
	editor   EditorInterface
	selected string // Object ID, "" when nothing is selected
}

// EditorInterface defines what the selection manager needs from editor.
type EditorInterface interface {
	ObjectIDs() []string // Stacking order, bottom first
	GetEventManager() *event.Manager
}

// NewManager creates a new selection manager.
func NewManager(editor EditorInterface) *Manager {
	return &Manager{editor: editor}
}

// Selected returns the selected object ID and whether there is one.
func (m *Manager) Selected() (string, bool) {
	return m.selected, m.selected != ""
}

// HasSelection returns whether an object is selected.
func (m *Manager) HasSelection() bool {
	return m.selected != ""
}

// Select makes id the selection. Unknown IDs clear it.
func (m *Manager) Select(id string) bool {
	if id != "" && !m.contains(id) {
		logger.DebugTagf("core", "Selection Manager: unknown object %q", id)
		id = ""
	}
	m.set(id)
	return id != ""
}

// Clear drops the selection.
func (m *Manager) Clear() {
	if m.selected != "" {
		logger.DebugTagf("core", "Selection Manager: Cleared")
	}
	m.set("")
}

// Cycle moves the selection delta steps through the stacking order,
// wrapping at both ends. With no selection, a positive delta selects
// the bottom object and a negative one the top object.
func (m *Manager) Cycle(delta int) bool {
	ids := m.editor.ObjectIDs()
	if len(ids) == 0 || delta == 0 {
		return false
	}
	idx := -1
	for i, id := range ids {
		if id == m.selected {
			idx = i
			break
		}
	}
	var next int
	switch {
	case idx < 0 && delta > 0:
		next = 0
	case idx < 0:
		next = len(ids) - 1
	default:
		next = ((idx+delta)%len(ids) + len(ids)) % len(ids)
	}
	m.set(ids[next])
	return true
}

// Validate clears the selection if the object no longer exists,
// e.g. after undo removed it. Returns true when it changed.
func (m *Manager) Validate() bool {
	if m.selected == "" || m.contains(m.selected) {
		return false
	}
	logger.DebugTagf("core", "Selection Manager: %q vanished, clearing", m.selected)
	m.set("")
	return true
}

func (m *Manager) contains(id string) bool {
	for _, have := range m.editor.ObjectIDs() {
		if have == id {
			return true
		}
	}
	return false
}

func (m *Manager) set(id string) {
	if id == m.selected {
		return
	}
	m.selected = id
	if em := m.editor.GetEventManager(); em != nil {
		em.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{ID: id})
	}
}
