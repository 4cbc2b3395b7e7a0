package app

import (
	"fmt"

	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/plugin"

	"github.com/bethropolis/invite/plugins/autosave"
	"github.com/bethropolis/invite/plugins/wordcount"
)

// pluginConstructors lists the built-in plugins in initialization order.
var pluginConstructors = []func() plugin.Plugin{
	wordcount.New,
	autosave.New,
}

// registerPlugins registers all known plugins with the manager.
func registerPlugins(pm *plugin.Manager) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}

	var finalErr error
	for _, newPlugin := range pluginConstructors {
		p := newPlugin()
		logger.Debugf("Registering plugin: %s", p.Name())
		if err := pm.Register(p); err != nil {
			wrappedErr := fmt.Errorf("failed to register plugin '%s': %w", p.Name(), err)
			logger.Errorf("%v", wrappedErr)
			if finalErr == nil {
				finalErr = wrappedErr // keep the first, register the rest
			}
		}
	}
	return finalErr
}
