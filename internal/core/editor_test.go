package core

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/invite/internal/core/history"
	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/fonts"
	"github.com/bethropolis/invite/internal/scene"
	"github.com/bethropolis/invite/internal/templates"
)

// classicObjects is the object count of the built-in default template.
const classicObjects = 5

func newTestEditor(t *testing.T, opts Options) *Editor {
	t.Helper()
	em := event.NewManager()
	sc := scene.New(750, 1050, em)
	sc.SetImageLoader(func(src string) (image.Image, error) {
		if src != "photo.png" {
			return nil, os.ErrNotExist
		}
		return image.NewRGBA(image.Rect(0, 0, 1000, 500)), nil
	})
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	lib, err := templates.NewLibrary("")
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	e, err := NewEditor(sc, em, reg, lib, opts)
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}
	return e
}

func mustUndo(t *testing.T, e *Editor) {
	t.Helper()
	ok, err := e.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
}

func TestNewEditorSeedsTemplate(t *testing.T) {
	e := newTestEditor(t, Options{})
	if n := e.Scene().Len(); n != classicObjects {
		t.Fatalf("objects = %d, want %d", n, classicObjects)
	}
	if d := e.GetHistoryManager().UndoDepth(); d != 1 {
		t.Fatalf("UndoDepth = %d, want 1", d)
	}
	obj, ok := e.SelectedObject()
	if !ok || obj.Text != "SOFIA & STELIOS" {
		t.Fatalf("selected = %+v, %v; want the title", obj, ok)
	}
	if e.IsModified() {
		t.Error("fresh document reports modified")
	}
	if ok, _ := e.Undo(); ok {
		t.Error("undo past the seed should be a no-op")
	}
}

func TestAddRecordsOneStep(t *testing.T) {
	adders := []struct {
		name string
		add  func(e *Editor) (string, error)
		kind scene.Kind
	}{
		{"text", (*Editor).AddText, scene.KindText},
		{"line", (*Editor).AddLine, scene.KindLine},
		{"rect", (*Editor).AddRect, scene.KindRect},
		{"circle", (*Editor).AddCircle, scene.KindCircle},
		{"image", func(e *Editor) (string, error) { return e.AddImage("photo.png") }, scene.KindImage},
	}
	for _, tt := range adders {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEditor(t, Options{})
			before := e.Scene().Document()

			id, err := tt.add(e)
			if err != nil {
				t.Fatal(err)
			}
			obj, ok := e.SelectedObject()
			if !ok || obj.ID != id || obj.Type != tt.kind {
				t.Fatalf("selected = %+v, want new %s", obj, tt.kind)
			}
			if d := e.GetHistoryManager().UndoDepth(); d != 2 {
				t.Fatalf("UndoDepth = %d, want 2", d)
			}

			mustUndo(t, e)
			if !e.Scene().Document().Equal(before) {
				t.Error("undo did not restore the previous document")
			}
			if e.HasSelection() {
				t.Error("selection should be cleared when its object is undone away")
			}
		})
	}
}

func TestAddImageFitsCanvas(t *testing.T) {
	e := newTestEditor(t, Options{})
	if _, err := e.AddImage("missing.png"); !errors.Is(err, scene.ErrImage) {
		t.Fatalf("AddImage(missing) = %v, want ErrImage", err)
	}
	if _, err := e.AddImage("photo.png"); err != nil {
		t.Fatal(err)
	}
	obj, _ := e.SelectedObject()
	_, _, w, _ := obj.Bounds()
	if w > 750*imageMaxShare+0.001 {
		t.Errorf("image width %v exceeds the canvas share", w)
	}
}

func TestSelectionRequired(t *testing.T) {
	e := newTestEditor(t, Options{})
	e.ClearSelection()

	ops := map[string]func() error{
		"delete": e.DeleteSelected,
		"nudge":  func() error { return e.Nudge(1, 0) },
		"size":   func() error { return e.SetFontSize(30) },
		"color":  func() error { return e.SetColor("#ff0000") },
		"bold":   e.ToggleBold,
		"copy":   e.Copy,
		"edit":   e.BeginTextEdit,
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrNoSelection) {
			t.Errorf("%s: err = %v, want ErrNoSelection", name, err)
		}
	}
	if d := e.GetHistoryManager().UndoDepth(); d != 1 {
		t.Errorf("failed operations recorded history, depth %d", d)
	}
}

func TestTextOnlyOperations(t *testing.T) {
	e := newTestEditor(t, Options{})
	if _, err := e.AddLine(); err != nil {
		t.Fatal(err)
	}
	for name, op := range map[string]func() error{
		"bold":   e.ToggleBold,
		"italic": e.ToggleItalic,
		"font":   func() error { return e.SetFontFamily("Go") },
		"edit":   e.BeginTextEdit,
	} {
		if err := op(); !errors.Is(err, scene.ErrNotText) {
			t.Errorf("%s on a line: err = %v, want ErrNotText", name, err)
		}
	}

	// Lines take colour on the stroke.
	if err := e.SetColor("#abc"); err != nil {
		t.Fatal(err)
	}
	obj, _ := e.SelectedObject()
	if obj.Stroke != "#aabbcc" {
		t.Errorf("Stroke = %q, want #aabbcc", obj.Stroke)
	}
}

func TestStyleOperations(t *testing.T) {
	e := newTestEditor(t, Options{})
	steps := []struct {
		name  string
		op    func() error
		check func(o scene.Object) bool
	}{
		{"bold", e.ToggleBold, func(o scene.Object) bool { return o.FontWeight == scene.WeightBold }},
		{"italic", e.ToggleItalic, func(o scene.Object) bool { return o.FontStyle == scene.StyleItalic }},
		{"size", func() error { return e.SetFontSize(40) }, func(o scene.Object) bool { return o.FontSize == 40 }},
		{"font alias", func() error { return e.SetFontFamily("georgia") }, func(o scene.Object) bool { return o.FontFamily == "georgia" }},
		{"font fuzzy", func() error { return e.SetFontFamily("gomono") }, func(o scene.Object) bool { return o.FontFamily == "Go Mono" }},
		{"color", func() error { return e.SetColor("#FF0000") }, func(o scene.Object) bool { return o.Fill == "#ff0000" }},
		{"nudge", func() error { return e.Nudge(-1, 2) }, func(o scene.Object) bool { return o.Left == 374 && o.Top == 182 }},
	}
	for i, st := range steps {
		if err := st.op(); err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		obj, _ := e.SelectedObject()
		if !st.check(obj) {
			t.Errorf("%s: object not updated: %+v", st.name, obj)
		}
		if d := e.GetHistoryManager().UndoDepth(); d != i+2 {
			t.Errorf("%s: UndoDepth = %d, want %d", st.name, d, i+2)
		}
	}

	if err := e.SetFontSize(2); err == nil {
		t.Error("font size below the minimum accepted")
	}
	if err := e.SetFontFamily("zzqqxx"); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("unknown font: err = %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#ffffff", "#ffffff", false},
		{"#FFF", "#ffffff", false},
		{"c0ffee", "#c0ffee", false},
		{" #123456 ", "#123456", false},
		{"#12345", "", true},
		{"#gggggg", "", true},
		{"red", "", true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q) err = %v, want ErrInvalidColor", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextSessionIsOneStep(t *testing.T) {
	e := newTestEditor(t, Options{})
	if err := e.BeginTextEdit(); err != nil {
		t.Fatal(err)
	}
	for _, r := range "!!" {
		if err := e.InsertRune(r); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := e.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if got, _ := e.EditingText(); got != "SOFIA & STELIOS!" {
		t.Fatalf("text = %q", got)
	}

	// Delete edits text, never the object, during a session.
	if err := e.DeleteSelected(); err != nil {
		t.Fatal(err)
	}
	if e.Scene().Len() != classicObjects {
		t.Fatal("DeleteSelected removed an object during a text edit")
	}

	e.EndTextEdit()
	if d := e.GetHistoryManager().UndoDepth(); d != 2 {
		t.Fatalf("UndoDepth = %d, want 2", d)
	}
	mustUndo(t, e)
	obj, _ := e.Scene().Object(e.SelectedID())
	if obj.Text != "SOFIA & STELIOS" {
		t.Errorf("after undo text = %q", obj.Text)
	}
}

func TestUndoDuringTextEdit(t *testing.T) {
	e := newTestEditor(t, Options{})
	if err := e.BeginTextEdit(); err != nil {
		t.Fatal(err)
	}
	if err := e.InsertString(" X"); err != nil {
		t.Fatal(err)
	}
	mustUndo(t, e)
	if got, _ := e.EditingText(); got != "SOFIA & STELIOS" {
		t.Fatalf("text after undo = %q", got)
	}
	if e.CaretIndex() > len("SOFIA & STELIOS") {
		t.Errorf("caret %d past the end of the restored text", e.CaretIndex())
	}
	if ok, err := e.Redo(); !ok || err != nil {
		t.Fatalf("Redo = %v, %v", ok, err)
	}
	if got, _ := e.EditingText(); got != "SOFIA & STELIOS X" {
		t.Fatalf("text after redo = %q", got)
	}
}

func TestStyleChangeAfterTypingIsSeparateStep(t *testing.T) {
	e := newTestEditor(t, Options{})
	if err := e.BeginTextEdit(); err != nil {
		t.Fatal(err)
	}
	if err := e.InsertString("XYZ"); err != nil {
		t.Fatal(err)
	}
	if err := e.ToggleBold(); err != nil {
		t.Fatal(err)
	}
	if d := e.GetHistoryManager().UndoDepth(); d != 3 {
		t.Fatalf("UndoDepth = %d, want 3", d)
	}

	mustUndo(t, e)
	obj, _ := e.Scene().Object(e.SelectedID())
	if obj.Text != "SOFIA & STELIOSXYZ" || obj.FontWeight != scene.WeightNormal {
		t.Errorf("after first undo text = %q weight = %v, want typed text without bold", obj.Text, obj.FontWeight)
	}
	mustUndo(t, e)
	obj, _ = e.Scene().Object(e.SelectedID())
	if obj.Text != "SOFIA & STELIOS" {
		t.Errorf("after second undo text = %q", obj.Text)
	}
}

func TestKeystrokeGranularity(t *testing.T) {
	e := newTestEditor(t, Options{Granularity: history.GranularityKeystroke})
	if err := e.BeginTextEdit(); err != nil {
		t.Fatal(err)
	}
	for _, r := range "abc" {
		if err := e.InsertRune(r); err != nil {
			t.Fatal(err)
		}
	}
	e.EndTextEdit()
	if d := e.GetHistoryManager().UndoDepth(); d != 4 {
		t.Fatalf("UndoDepth = %d, want 4", d)
	}
}

func TestCopyPaste(t *testing.T) {
	e := newTestEditor(t, Options{})
	orig, _ := e.SelectedObject()
	if err := e.Copy(); err != nil {
		t.Fatal(err)
	}
	id, err := e.Paste()
	if err != nil {
		t.Fatal(err)
	}
	pasted, ok := e.Scene().Object(id)
	if !ok || id == orig.ID {
		t.Fatalf("pasted %q, original %q", id, orig.ID)
	}
	if pasted.Left != orig.Left+20 || pasted.Top != orig.Top+20 {
		t.Errorf("pasted at (%v,%v)", pasted.Left, pasted.Top)
	}
	if e.SelectedID() != id {
		t.Error("pasted object is not selected")
	}
	mustUndo(t, e)
	if e.Scene().Len() != classicObjects {
		t.Error("undo did not remove the pasted object")
	}
}

func TestCanvasSizeResetsTemplate(t *testing.T) {
	e := newTestEditor(t, Options{})
	if err := e.SetCanvasSize("a5"); err != nil {
		t.Fatal(err)
	}
	if w, h := e.Scene().Size(); w != 874 || h != 1240 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if d := e.GetHistoryManager().UndoDepth(); d != 2 {
		t.Fatalf("UndoDepth = %d, want 2", d)
	}
	mustUndo(t, e)
	if w, h := e.Scene().Size(); w != 750 || h != 1050 {
		t.Errorf("size after undo = %dx%d", w, h)
	}
	if err := e.SetCanvasSize("letter"); !errors.Is(err, templates.ErrUnknownSize) {
		t.Errorf("err = %v, want ErrUnknownSize", err)
	}
}

func TestBackgroundAndReset(t *testing.T) {
	e := newTestEditor(t, Options{})
	if err := e.SetBackgroundColor("#f5f0e6"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetBackgroundImage("photo.png"); err != nil {
		t.Fatal(err)
	}
	if bg := e.Scene().Background(); bg.Image == nil || bg.Color != "#f5f0e6" {
		t.Fatalf("background = %+v", bg)
	}
	e.ClearBackground()
	if _, err := e.AddRect(); err != nil {
		t.Fatal(err)
	}
	if err := e.ResetTemplate(); err != nil {
		t.Fatal(err)
	}
	if e.Scene().Len() != classicObjects {
		t.Errorf("objects after reset = %d", e.Scene().Len())
	}
	if bg := e.Scene().Background(); bg.Color != "#ffffff" || bg.Image != nil {
		t.Errorf("background after reset = %+v", bg)
	}
	if d := e.GetHistoryManager().UndoDepth(); d != 6 {
		t.Errorf("UndoDepth = %d, want 6", d)
	}
	if err := e.ApplyTemplate("no-such-template-xyz"); !errors.Is(err, templates.ErrUnknownTemplate) {
		t.Errorf("err = %v, want ErrUnknownTemplate", err)
	}
}

func TestSaveOpenAndModified(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.json")

	e := newTestEditor(t, Options{})
	if err := e.SetFontSize(64); err != nil {
		t.Fatal(err)
	}
	if !e.IsModified() {
		t.Fatal("edit not reported as modification")
	}
	if _, err := e.Save(path); err != nil {
		t.Fatal(err)
	}
	if e.IsModified() || e.DocumentPath() != path {
		t.Fatalf("after save: modified=%v path=%q", e.IsModified(), e.DocumentPath())
	}

	other := newTestEditor(t, Options{Document: path})
	if !other.Scene().Document().Equal(e.Scene().Document()) {
		t.Error("opened document differs from saved one")
	}

	if err := other.Open(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Open of a missing file succeeded")
	}
}

func TestNewDocumentPathStartsFromTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.json")
	e := newTestEditor(t, Options{Document: path})
	if e.Scene().Len() != classicObjects {
		t.Errorf("objects = %d, want the %d template objects", e.Scene().Len(), classicObjects)
	}
	if e.DocumentPath() != path {
		t.Errorf("DocumentPath = %q, want %q", e.DocumentPath(), path)
	}
	if e.IsModified() {
		t.Error("fresh document reported as modified")
	}
}

func TestExportClearsSelection(t *testing.T) {
	e := newTestEditor(t, Options{ExportMultiplier: 1})
	path := filepath.Join(t.TempDir(), "out.png")
	got, err := e.Export(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("Export path = %q", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	if e.HasSelection() {
		t.Error("export should clear the selection")
	}
	if d := e.GetHistoryManager().UndoDepth(); d != 1 {
		t.Errorf("export touched history, depth %d", d)
	}
}

func TestSelectCycle(t *testing.T) {
	e := newTestEditor(t, Options{})
	ids := e.ObjectIDs()
	e.SelectNext()
	if e.SelectedID() != ids[1] {
		t.Fatalf("SelectNext = %q, want %q", e.SelectedID(), ids[1])
	}
	e.SelectPrev()
	e.SelectPrev()
	if e.SelectedID() != ids[len(ids)-1] {
		t.Fatalf("SelectPrev wrap = %q", e.SelectedID())
	}
	if e.Select("nope") {
		t.Error("Select of an unknown ID succeeded")
	}
}
