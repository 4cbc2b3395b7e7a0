// internal/plugin/manager.go
package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bethropolis/invite/internal/logger"
)

// Manager handles the registration, initialization, and lifecycle of plugins.
type Manager struct {
	mu          sync.RWMutex
	plugins     map[string]Plugin
	order       []string // registration order, used for init and reverse shutdown
	initialized map[string]bool
	api         EditorAPI
}

// NewManager creates a new plugin manager.
func NewManager() *Manager {
	return &Manager{
		plugins:     make(map[string]Plugin),
		initialized: make(map[string]bool),
	}
}

// Register adds a plugin instance to the manager.
// This should be called before InitializePlugins.
func (m *Manager) Register(plugin Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := plugin.Name()
	if name == "" {
		return fmt.Errorf("plugin registration failed: plugin name cannot be empty")
	}
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin registration failed: plugin named '%s' already registered", name)
	}

	m.plugins[name] = plugin
	m.order = append(m.order, name)
	logger.Debugf("Plugin Manager: Registered plugin '%s'", name)
	return nil
}

// InitializePlugins calls Initialize on every registered plugin in
// registration order. A failing plugin is logged and skipped at shutdown.
func (m *Manager) InitializePlugins(api EditorAPI) {
	m.mu.Lock()
	m.api = api
	toInit := make([]Plugin, 0, len(m.order))
	for _, name := range m.order {
		toInit = append(toInit, m.plugins[name])
	}
	m.mu.Unlock()

	logger.Debugf("Plugin Manager: Initializing %d plugins...", len(toInit))
	for _, p := range toInit {
		if err := p.Initialize(api); err != nil {
			logger.Errorf("Plugin Manager: Failed to initialize plugin '%s': %v", p.Name(), err)
			continue
		}
		m.mu.Lock()
		m.initialized[p.Name()] = true
		m.mu.Unlock()
		logger.Debugf("Plugin Manager: Plugin '%s' initialized", p.Name())
	}
}

// ShutdownPlugins shuts down initialized plugins in reverse order.
func (m *Manager) ShutdownPlugins() {
	m.mu.Lock()
	var toStop []Plugin
	for i := len(m.order) - 1; i >= 0; i-- {
		name := m.order[i]
		if m.initialized[name] {
			toStop = append(toStop, m.plugins[name])
			delete(m.initialized, name)
		}
	}
	m.mu.Unlock()

	for _, p := range toStop {
		if err := p.Shutdown(); err != nil {
			logger.Errorf("Plugin Manager: Error shutting down plugin '%s': %v", p.Name(), err)
		}
	}
	logger.Debugf("Plugin Manager: %d plugins shut down", len(toStop))
}

// GetPlugin returns a registered plugin by name. Use cautiously.
func (m *Manager) GetPlugin(name string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.plugins[name]
	return p, exists
}

// Names returns the registered plugin names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.plugins))
	for name := range m.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
