package app

import (
	"github.com/bethropolis/invite/internal/config"
	"github.com/bethropolis/invite/internal/event"
)

// Export renders docPath, or the configured template when docPath is ""
// or missing, to out (.png or .pdf) without opening the terminal.
func Export(cfg *config.Config, docPath, out string) (string, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	editor, err := NewEditor(cfg, docPath, event.NewManager())
	if err != nil {
		return "", err
	}
	return editor.Export(out)
}
