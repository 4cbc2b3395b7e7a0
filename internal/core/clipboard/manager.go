package clipboard

import (
	"errors"
	"fmt"

	sysclip "github.com/atotto/clipboard"

	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/scene"
)

// ErrEmpty is returned by Paste when nothing has been copied.
var ErrEmpty = errors.New("clipboard is empty")

// Manager holds copied objects. The internal register always works;
// the system clipboard is mirrored when enabled.
type Manager struct {
	register []byte // Object JSON as produced by scene.MarshalObject
	system   bool
	offset   float64
}

// NewManager creates a clipboard manager. offset is added to both
// coordinates of every pasted object.
func NewManager(useSystem bool, offset float64) *Manager {
	if useSystem && sysclip.Unsupported {
		logger.Warnf("Clipboard: system clipboard unsupported, using internal register")
		useSystem = false
	}
	return &Manager{system: useSystem, offset: offset}
}

// Copy stores a copy of obj.
func (m *Manager) Copy(obj scene.Object) error {
	data, err := scene.MarshalObject(obj)
	if err != nil {
		return fmt.Errorf("copy object: %w", err)
	}
	m.register = data
	logger.Debugf("ClipboardManager: Copied %s (%d bytes)", obj.Type, len(data))

	if m.system {
		if err := sysclip.WriteAll(string(data)); err != nil {
			// The register still holds the object.
			logger.Warnf("Clipboard: system write failed: %v", err)
		}
	}
	return nil
}

// HasContent reports whether Paste has something to return.
func (m *Manager) HasContent() bool {
	return len(m.register) > 0
}

// Paste returns a fresh copy of the clipboard object with a new ID,
// shifted by the paste offset. When the system clipboard holds a
// different object (copied from another instance) that one wins.
func (m *Manager) Paste() (scene.Object, error) {
	data := m.register
	if m.system {
		if text, err := sysclip.ReadAll(); err == nil && text != "" && text != string(data) {
			if _, perr := scene.UnmarshalObject([]byte(text)); perr == nil {
				data = []byte(text)
			}
		}
	}
	if len(data) == 0 {
		return scene.Object{}, ErrEmpty
	}
	obj, err := scene.UnmarshalObject(data)
	if err != nil {
		return scene.Object{}, fmt.Errorf("paste object: %w", err)
	}
	obj.ID = scene.NewID()
	obj.Move(m.offset, m.offset)
	return obj, nil
}
