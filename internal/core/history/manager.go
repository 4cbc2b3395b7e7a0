// Package history provides snapshot-based undo/redo for the scene.
package history

import (
	"fmt"
	"sync"

	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/scene"
)

const DefaultCapacity = 50

// Graph is the part of the scene the history manager needs.
type Graph interface {
	Serialize(exclude []string) scene.Snapshot
	// Deserialize replaces the scene and calls onComplete exactly once, possibly later.
	Deserialize(snap scene.Snapshot, onComplete func(error))
	Render()
}

// Config holds constructor options.
type Config struct {
	Capacity    int // maximum undo stack length, DefaultCapacity when <= 0
	Granularity Granularity
	Events      *event.Manager // optional, receives TypeHistoryChanged
}

// Manager keeps two bounded snapshot stacks. The top of the undo stack equals
// the scene after every completed mutation. The mutex guards only the manager's
// own fields and is never held while calling into the graph.
type Manager struct {
	graph       Graph
	events      *event.Manager
	capacity    int
	granularity Granularity

	mu      sync.Mutex
	undo    []scene.Snapshot // oldest first
	redo    []scene.Snapshot // top is the next state to reapply
	mode    Mode
	editing bool // a text edit session is open
	dirty   bool // the open session changed text without a snapshot
}

// NewManager creates a history manager seeded with the graph's current state.
func NewManager(graph Graph, cfg Config) *Manager {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	m := &Manager{
		graph:       graph,
		events:      cfg.Events,
		capacity:    cfg.Capacity,
		granularity: cfg.Granularity,
		undo:        make([]scene.Snapshot, 0, cfg.Capacity),
	}
	m.undo = append(m.undo, graph.Serialize(scene.VolatileKeys))
	logger.DebugTagf("history", "History: seeded (capacity %d, granularity %v)", m.capacity, m.granularity)
	return m
}

// Record captures the current scene as a new undo step and discards the redo stack.
// It is a no-op while a restore is in progress and reports whether a snapshot was taken.
func (m *Manager) Record() bool {
	if m.Mode() == Restoring {
		logger.DebugTagf("history", "History: Record ignored while restoring")
		return false
	}

	snap := m.graph.Serialize(scene.VolatileKeys)

	m.mu.Lock()
	if m.mode == Restoring {
		m.mu.Unlock()
		return false
	}
	m.redo = nil
	m.undo = append(m.undo, snap)
	if len(m.undo) > m.capacity {
		m.undo[0] = nil
		m.undo = m.undo[1:]
		logger.DebugTagf("history", "History: evicted oldest snapshot")
	}
	m.dirty = false
	depth := len(m.undo)
	m.mu.Unlock()

	logger.DebugTagf("history", "History: recorded snapshot, depth %d", depth)
	m.notify()
	return true
}

// Undo restores the previous snapshot. It returns false without error when
// there is nothing to undo or a restore is already running.
func (m *Manager) Undo() (bool, error) {
	m.flushSession()

	m.mu.Lock()
	if m.mode == Restoring {
		m.mu.Unlock()
		logger.DebugTagf("history", "History: Undo rejected while restoring")
		return false, nil
	}
	if len(m.undo) <= 1 {
		m.mu.Unlock()
		logger.DebugTagf("history", "History: Nothing to undo.")
		return false, nil
	}
	top := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, top)
	target := m.undo[len(m.undo)-1]
	m.mu.Unlock()

	logger.DebugTagf("history", "History: Undo")
	return true, m.restore(target)
}

// Redo reapplies the most recently undone snapshot.
func (m *Manager) Redo() (bool, error) {
	m.flushSession()

	m.mu.Lock()
	if m.mode == Restoring {
		m.mu.Unlock()
		logger.DebugTagf("history", "History: Redo rejected while restoring")
		return false, nil
	}
	if len(m.redo) == 0 {
		m.mu.Unlock()
		logger.DebugTagf("history", "History: Nothing to redo.")
		return false, nil
	}
	target := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, target)
	m.mu.Unlock()

	logger.DebugTagf("history", "History: Redo")
	return true, m.restore(target)
}

// restore applies snap to the graph. The manager stays in Restoring until the
// graph signals completion. If that happens before restore returns, a load
// failure is returned; a later failure is only logged.
func (m *Manager) restore(snap scene.Snapshot) error {
	m.mu.Lock()
	m.mode = Restoring
	m.dirty = false
	m.mu.Unlock()

	done := make(chan error, 1)
	var once sync.Once
	m.graph.Deserialize(snap, func(err error) {
		once.Do(func() {
			m.graph.Render()
			m.mu.Lock()
			m.mode = Idle
			m.mu.Unlock()
			if err != nil {
				logger.Errorf("History: restore failed: %v", err)
			}
			m.notify()
			done <- err
		})
	})

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		return nil
	default:
		return nil
	}
}

// BeginEdit opens a text edit session. No snapshot is taken: the top of the
// undo stack already matches the scene.
func (m *Manager) BeginEdit() {
	m.mu.Lock()
	m.editing = true
	m.dirty = false
	m.mu.Unlock()
}

// TextChanged is called after every keystroke that changed text.
func (m *Manager) TextChanged() {
	m.mu.Lock()
	if m.mode == Restoring {
		m.mu.Unlock()
		return
	}
	if m.granularity == GranularitySession && m.editing {
		m.dirty = true
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	m.Record()
}

// EndEdit closes the edit session, recording one snapshot if the session
// changed text under session granularity. It reports whether it recorded.
func (m *Manager) EndEdit() bool {
	m.mu.Lock()
	pending := m.editing && m.dirty
	m.editing = false
	m.dirty = false
	m.mu.Unlock()

	if pending {
		return m.Record()
	}
	return false
}

// flushSession commits uncommitted session text so undo starts from the visible state.
func (m *Manager) flushSession() {
	m.mu.Lock()
	pending := m.editing && m.dirty && m.mode == Idle
	m.mu.Unlock()
	if pending {
		m.Record()
	}
}

func (m *Manager) notify() {
	if m.events == nil {
		return
	}
	m.mu.Lock()
	data := event.HistoryChangedData{UndoDepth: len(m.undo), RedoDepth: len(m.redo)}
	m.mu.Unlock()
	m.events.Dispatch(event.TypeHistoryChanged, data)
}

// CanUndo reports whether Undo would change the scene.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode == Idle && (len(m.undo) > 1 || (m.editing && m.dirty))
}

// CanRedo reports whether Redo would change the scene.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode == Idle && len(m.redo) > 0 && !(m.editing && m.dirty)
}

// UndoDepth returns the undo stack length, including the seed.
func (m *Manager) UndoDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo)
}

// RedoDepth returns the redo stack length.
func (m *Manager) RedoDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo)
}

// Mode returns the current restore state.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Editing reports whether a text edit session is open.
func (m *Manager) Editing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editing
}

func (m *Manager) Capacity() int { return m.capacity }

func (m *Manager) Granularity() Granularity { return m.granularity }
