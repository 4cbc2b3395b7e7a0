// internal/core/editor.go
package core

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/bethropolis/invite/internal/config"
	"github.com/bethropolis/invite/internal/core/clipboard"
	"github.com/bethropolis/invite/internal/core/cursor"
	"github.com/bethropolis/invite/internal/core/history"
	"github.com/bethropolis/invite/internal/core/selection"
	"github.com/bethropolis/invite/internal/core/text"
	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/fonts"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/render"
	"github.com/bethropolis/invite/internal/scene"
	"github.com/bethropolis/invite/internal/templates"
)

var (
	// ErrNoSelection is returned by operations that act on the selected object.
	ErrNoSelection = errors.New("nothing selected")
	// ErrUnknownFont is returned when a font family matches nothing loaded.
	ErrUnknownFont = errors.New("unknown font family")
	// ErrInvalidColor is returned for colours that are not #rgb or #rrggbb.
	ErrInvalidColor = errors.New("invalid colour")
)

const (
	MinFontSize = 6
	MaxFontSize = 400
)

// Options configures a new Editor.
type Options struct {
	HistoryCapacity  int
	Granularity      history.Granularity
	NudgeStep        float64
	SystemClipboard  bool
	Template         string  // template applied when Document is empty
	Document         string  // document opened at start, "" for a new one
	ExportDir        string  // directory for exports without a path
	ExportMultiplier float64 // PNG/PDF resolution multiplier
}

// Editor owns the scene and every operation a user can perform on it.
// Each completed mutation records exactly one history snapshot.
type Editor struct {
	scene        *scene.Scene
	history      *history.Manager
	eventManager *event.Manager
	fonts        *fonts.Registry
	templates    *templates.Library

	selection *selection.Manager
	cursor    *cursor.Manager
	textOps   *text.Operations
	clipboard *clipboard.Manager

	template string // name of the template reset restores

	savedMu      sync.RWMutex // autosave reads these from its own goroutine
	documentPath string
	savedSnap    scene.Snapshot // document as last saved or opened

	editingID string // textbox in a text edit session, "" otherwise

	nudgeStep        float64
	exportDir        string
	exportMultiplier float64
}

// NewEditor loads the initial document (or template) into sc and seeds
// history with it.
func NewEditor(sc *scene.Scene, em *event.Manager, reg *fonts.Registry, lib *templates.Library, opts Options) (*Editor, error) {
	if opts.NudgeStep <= 0 {
		opts.NudgeStep = config.DefaultNudgeStep
	}
	if opts.ExportMultiplier <= 0 {
		opts.ExportMultiplier = config.DefaultExportMultiplier
	}
	if opts.Template == "" {
		opts.Template = templates.DefaultName
	}

	e := &Editor{
		scene:            sc,
		eventManager:     em,
		fonts:            reg,
		templates:        lib,
		template:         opts.Template,
		nudgeStep:        opts.NudgeStep,
		exportDir:        opts.ExportDir,
		exportMultiplier: opts.ExportMultiplier,
	}
	e.selection = selection.NewManager(e)
	e.cursor = cursor.NewManager(e)
	e.textOps = text.NewOperations(e)
	e.clipboard = clipboard.NewManager(opts.SystemClipboard, config.PasteOffset)

	fresh := true
	if opts.Document != "" {
		err := sc.Open(opts.Document)
		switch {
		case err == nil:
			fresh = false
		case errors.Is(err, fs.ErrNotExist):
			logger.Infof("Editor: %s does not exist yet, starting from template %s", opts.Document, opts.Template)
		case errors.Is(err, scene.ErrImage):
			logger.Warnf("Editor: %v", err)
			fresh = false
		default:
			return nil, err
		}
	}
	if fresh {
		if err := e.applyTemplate(opts.Template); err != nil {
			return nil, err
		}
	}
	e.markSaved(opts.Document)

	e.history = history.NewManager(sc, history.Config{
		Capacity:    opts.HistoryCapacity,
		Granularity: opts.Granularity,
		Events:      em,
	})
	logger.Debugf("Editor: ready with %d objects", sc.Len())
	return e, nil
}

// GetEventManager returns the editor's event bus (may be nil).
func (e *Editor) GetEventManager() *event.Manager {
	return e.eventManager
}

// GetHistoryManager returns the history manager.
func (e *Editor) GetHistoryManager() *history.Manager {
	return e.history
}

// Scene returns the edited scene.
func (e *Editor) Scene() *scene.Scene {
	return e.scene
}

// Fonts returns the font registry.
func (e *Editor) Fonts() *fonts.Registry {
	return e.fonts
}

// Templates returns the template library.
func (e *Editor) Templates() *templates.Library {
	return e.templates
}

// TemplateName returns the template that ResetTemplate applies.
func (e *Editor) TemplateName() string {
	return e.template
}

// ObjectIDs lists object IDs in stacking order.
func (e *Editor) ObjectIDs() []string {
	objs := e.scene.Objects()
	ids := make([]string, len(objs))
	for i, o := range objs {
		ids[i] = o.ID
	}
	return ids
}

// commit records a history step after a successful mutation.
func (e *Editor) commit() {
	e.history.Record()
	e.scene.Render()
}

func (e *Editor) dispatch(t event.Type, data interface{}) {
	if e.eventManager != nil {
		e.eventManager.Dispatch(t, data)
	}
}

// --- Documents ---

// DocumentPath returns where Save writes by default.
func (e *Editor) DocumentPath() string {
	e.savedMu.RLock()
	defer e.savedMu.RUnlock()
	if e.documentPath == "" {
		return config.DefaultDocumentFileName
	}
	return e.documentPath
}

// IsModified reports whether the document differs from the last save or open.
func (e *Editor) IsModified() bool {
	e.savedMu.RLock()
	saved := e.savedSnap
	e.savedMu.RUnlock()
	return !e.scene.Document().Equal(saved)
}

// markSaved records the current document as saved at path ("" keeps the
// current path).
func (e *Editor) markSaved(path string) {
	doc := e.scene.Document()
	e.savedMu.Lock()
	if path != "" {
		e.documentPath = path
	}
	e.savedSnap = doc
	e.savedMu.Unlock()
}

// Save writes the document as JSON. An empty path reuses the current one.
func (e *Editor) Save(path string) (string, error) {
	if path == "" {
		path = e.DocumentPath()
	}
	e.flushEdit()
	if err := e.scene.Save(path); err != nil {
		return "", err
	}
	e.markSaved(path)
	logger.Infof("Editor: saved %s", path)
	e.dispatch(event.TypeDocumentSaved, event.DocumentData{Path: path})
	return path, nil
}

// Open replaces the scene with a saved document. The load is undoable.
func (e *Editor) Open(path string) error {
	e.endEdit()
	if err := e.scene.Open(path); err != nil {
		// Missing images keep the document; anything else left the scene unchanged.
		if !errors.Is(err, scene.ErrImage) {
			return err
		}
		logger.Warnf("Editor: %v", err)
	}
	e.markSaved(path)
	e.selection.Clear()
	e.commit()
	return nil
}

// Export renders the invitation to path (PNG or PDF by extension). An
// empty path writes the default file name into the export directory.
// The selection is cleared first; history is not touched.
func (e *Editor) Export(path string) (string, error) {
	if path == "" {
		path = filepath.Join(e.exportDir, render.DefaultExportName)
	}
	e.endEdit()
	e.selection.Clear()
	if err := render.Export(path, e.scene, e.fonts, e.exportMultiplier); err != nil {
		return "", err
	}
	e.dispatch(event.TypeDocumentExported, event.DocumentData{Path: path})
	return path, nil
}

// --- History ---

// Undo steps back one snapshot. It reports whether anything changed.
func (e *Editor) Undo() (bool, error) {
	ok, err := e.history.Undo()
	e.afterRestore()
	return ok, err
}

// Redo reapplies the last undone snapshot.
func (e *Editor) Redo() (bool, error) {
	ok, err := e.history.Redo()
	e.afterRestore()
	return ok, err
}

// afterRestore drops view state that points at objects the restore removed.
func (e *Editor) afterRestore() {
	e.selection.Validate()
	if e.editingID == "" {
		return
	}
	if o, ok := e.scene.Object(e.editingID); !ok || !o.IsText() {
		e.endEdit()
		return
	}
	e.cursor.Clamp()
}

// --- Templates and canvas ---

// ResetTemplate clears the canvas and lays out the current template again.
func (e *Editor) ResetTemplate() error {
	return e.ApplyTemplate(e.template)
}

// ApplyTemplate replaces the canvas content with the named template.
func (e *Editor) ApplyTemplate(name string) error {
	e.endEdit()
	if err := e.applyTemplate(name); err != nil {
		return err
	}
	e.commit()
	return nil
}

func (e *Editor) applyTemplate(name string) error {
	t, err := e.templates.Get(name)
	if err != nil {
		return err
	}
	w, h := e.scene.Size()
	objects, err := t.Build(w, h)
	if err != nil {
		return err
	}

	e.scene.Clear()
	e.scene.SetBackgroundColor(t.Background)
	var loadErrs []error
	for _, o := range objects {
		if _, err := e.scene.Add(o); err != nil {
			loadErrs = append(loadErrs, err)
		}
	}
	if err := errors.Join(loadErrs...); err != nil {
		logger.Warnf("Editor: template %s: %v", t.Name, err)
	}
	e.template = t.Name

	e.selection.Clear()
	if i := t.SelectedIndex(); i >= 0 {
		e.selection.Select(objects[i].ID)
	}
	logger.Debugf("Editor: applied template %s (%d objects)", t.Name, len(objects))
	return nil
}

// SetCanvasSize switches to a size preset and resets the template for it.
func (e *Editor) SetCanvasSize(name string) error {
	size, err := templates.LookupSize(name)
	if err != nil {
		return err
	}
	e.endEdit()
	oldW, oldH := e.scene.Size()
	e.scene.SetSize(size.Width, size.Height)
	if err := e.applyTemplate(e.template); err != nil {
		e.scene.SetSize(oldW, oldH)
		return fmt.Errorf("canvas %s: %w", size.Name, err)
	}
	e.commit()
	return nil
}
