// plugins/wordcount/wordcount.go
package wordcount

import (
	"fmt"
	"strings"

	"github.com/bethropolis/invite/internal/plugin"
	"github.com/bethropolis/invite/internal/scene"
	"github.com/rivo/uniseg"
)

// Ensure WordCount implements plugin.Plugin
var _ plugin.Plugin = (*WordCount)(nil)

// WordCount counts the text on the card.
type WordCount struct {
	api plugin.EditorAPI
}

// Stats summarises the text of a set of textboxes.
type Stats struct {
	Textboxes  int
	Lines      int
	Words      int
	Characters int // user-perceived characters (grapheme clusters)
}

// New creates a new instance of the WordCount plugin.
func New() plugin.Plugin {
	return &WordCount{}
}

// Name returns the unique name of the plugin.
func (p *WordCount) Name() string {
	return "wordcount"
}

// Initialize registers the :wc command.
func (p *WordCount) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if err := api.RegisterCommand("wc", p.executeWordCount); err != nil {
		return fmt.Errorf("failed to register 'wc' command: %w", err)
	}
	return nil
}

// Shutdown performs cleanup (nothing needed for this simple plugin).
func (p *WordCount) Shutdown() error {
	return nil
}

// Count returns the statistics for every textbox in objs.
func Count(objs []scene.Object) Stats {
	var s Stats
	for _, o := range objs {
		if !o.IsText() {
			continue
		}
		s.Textboxes++
		s.Lines += strings.Count(o.Text, "\n") + 1
		s.Words += len(strings.Fields(o.Text))
		s.Characters += uniseg.GraphemeClusterCount(o.Text)
	}
	return s
}

// executeWordCount implements ":wc", or ":wc sel" for the selected textbox only.
func (p *WordCount) executeWordCount(args []string) error {
	if p.api == nil {
		return fmt.Errorf("wordcount plugin not initialized with API")
	}

	objs := p.api.Objects()
	scope := "card"
	if len(args) > 0 && args[0] == "sel" {
		obj, ok := p.api.SelectedObject()
		if !ok {
			return fmt.Errorf("nothing selected")
		}
		objs = []scene.Object{obj}
		scope = "selection"
	}

	s := Count(objs)
	p.api.SetStatusMessage("%s: %d textboxes, %d lines, %d words, %d characters",
		scope, s.Textboxes, s.Lines, s.Words, s.Characters)
	return nil
}
