// plugins/autosave/autosave.go
package autosave

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/plugin"
	"github.com/bethropolis/invite/internal/scene"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

const (
	defaultEnabled  = false
	defaultInterval = 30 * time.Second
	backupSuffix    = ".autosave"
)

// AutoSave periodically writes a backup copy of the modified document
// next to it. It never touches the document file itself or the history;
// an explicit save removes the backup.
type AutoSave struct {
	api plugin.EditorAPI

	mutex    sync.RWMutex // protects the fields below
	enabled  bool
	interval time.Duration
	lastSnap scene.Snapshot // last backup written

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new instance of the AutoSave plugin.
func New() plugin.Plugin {
	return &AutoSave{
		enabled:  defaultEnabled,
		interval: defaultInterval,
	}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// BackupPath returns the backup file for a document: card.json -> card.autosave.json.
func BackupPath(docPath string) string {
	ext := filepath.Ext(docPath)
	return strings.TrimSuffix(docPath, ext) + backupSuffix + ext
}

// Initialize reads configuration and starts the auto-save loop if enabled.
func (p *AutoSave) Initialize(api plugin.EditorAPI) error {
	p.api = api
	pluginName := p.Name()

	p.mutex.Lock()
	if enabledVal, ok := api.GetPluginConfigValue(pluginName, "enabled"); ok {
		if boolVal, isBool := enabledVal.(bool); isBool {
			p.enabled = boolVal
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", pluginName, enabledVal, p.enabled)
		}
	}
	if intervalVal, ok := api.GetPluginConfigValue(pluginName, "interval"); ok {
		if strVal, isStr := intervalVal.(string); isStr {
			parsed, err := time.ParseDuration(strVal)
			switch {
			case err != nil:
				logger.Warnf("%s: Invalid format for 'interval' config ('%s'): %v. Using default (%v)", pluginName, strVal, err, p.interval)
			case parsed <= 0:
				logger.Warnf("%s: 'interval' config must be positive ('%s'). Using default (%v)", pluginName, strVal, p.interval)
			default:
				p.interval = parsed
			}
		} else {
			logger.Warnf("%s: Invalid type for 'interval' config (%T), using default (%v)", pluginName, intervalVal, p.interval)
		}
	}
	isEnabled := p.enabled
	interval := p.interval
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Interval: %v", pluginName, isEnabled, interval)
	if !isEnabled {
		return nil
	}

	api.SubscribeEvent(event.TypeDocumentSaved, p.handleSaved)
	if err := api.RegisterCommand("autosave", p.executeStatus); err != nil {
		return fmt.Errorf("failed to register 'autosave' command: %w", err)
	}

	p.stopChan = make(chan struct{})
	p.wg.Add(1)
	go p.saverLoop(interval)
	return nil
}

// Shutdown signals the saver goroutine to stop and waits for it.
func (p *AutoSave) Shutdown() error {
	if p.stopChan != nil {
		close(p.stopChan)
		p.wg.Wait()
		p.stopChan = nil
		logger.Debugf("%s: Saver goroutine stopped.", p.Name())
	}
	return nil
}

func (p *AutoSave) saverLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := p.saveIfModified(); err != nil {
				logger.Errorf("%s: %v", p.Name(), err)
			}
		case <-p.stopChan:
			return
		}
	}
}

// saveIfModified writes the backup when the document is modified and
// differs from the last backup. It reports whether a file was written.
func (p *AutoSave) saveIfModified() (bool, error) {
	if p.api == nil || !p.api.IsModified() {
		return false, nil
	}
	snap := p.api.Document()

	p.mutex.Lock()
	defer p.mutex.Unlock()
	if snap.Equal(p.lastSnap) {
		return false, nil
	}

	path := BackupPath(p.api.DocumentPath())
	if err := os.WriteFile(path, snap, 0o644); err != nil {
		return false, fmt.Errorf("auto-save to '%s' failed: %w", path, err)
	}
	p.lastSnap = snap
	logger.Debugf("%s: wrote %s (%d bytes)", p.Name(), path, len(snap))
	return true, nil
}

// handleSaved drops the backup once the document itself is on disk.
func (p *AutoSave) handleSaved(e event.Event) bool {
	data, ok := e.Data.(event.DocumentData)
	if !ok {
		return false
	}
	p.mutex.Lock()
	p.lastSnap = nil
	p.mutex.Unlock()

	path := BackupPath(data.Path)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("%s: could not remove %s: %v", p.Name(), path, err)
	}
	return false
}

// executeStatus implements ":autosave".
func (p *AutoSave) executeStatus(args []string) error {
	p.mutex.RLock()
	interval := p.interval
	p.mutex.RUnlock()
	p.api.SetStatusMessage("Autosave every %v to %s", interval, BackupPath(p.api.DocumentPath()))
	return nil
}
