package modehandler

import (
	"testing"

	"github.com/bethropolis/invite/internal/core"
	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/fonts"
	"github.com/bethropolis/invite/internal/input"
	"github.com/bethropolis/invite/internal/scene"
	"github.com/bethropolis/invite/internal/statusbar"
	"github.com/bethropolis/invite/internal/templates"
	"github.com/gdamore/tcell/v2"
)

type harness struct {
	mh   *ModeHandler
	ed   *core.Editor
	quit chan struct{}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	em := event.NewManager()
	sc := scene.New(750, 1050, em)
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	lib, err := templates.NewLibrary("")
	if err != nil {
		t.Fatal(err)
	}
	ed, err := core.NewEditor(sc, em, reg, lib, core.Options{})
	if err != nil {
		t.Fatal(err)
	}
	quit := make(chan struct{})
	mh := New(Config{
		Editor:          ed,
		InputProcessor:  input.NewInputProcessor(),
		EventManager:    em,
		StatusBar:       statusbar.New(statusbar.DefaultConfig()),
		QuitSignal:      quit,
		NudgeMultiplier: 10,
	})
	return &harness{mh: mh, ed: ed, quit: quit}
}

func (h *harness) key(k tcell.Key, mod tcell.ModMask) {
	h.mh.HandleKeyEvent(tcell.NewEventKey(k, 0, mod))
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.mh.HandleKeyEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func (h *harness) quitClosed() bool {
	select {
	case <-h.quit:
		return true
	default:
		return false
	}
}

func selectedText(t *testing.T, ed *core.Editor) string {
	t.Helper()
	obj, ok := ed.SelectedObject()
	if !ok {
		t.Fatal("nothing selected")
	}
	return obj.Text
}

func TestTextEditSession(t *testing.T) {
	h := newHarness(t)
	orig := selectedText(t, h.ed)
	objects := h.ed.Scene().Len()

	h.key(tcell.KeyEnter, tcell.ModNone)
	if h.mh.GetCurrentMode() != ModeTextEdit {
		t.Fatalf("mode = %v, want EDIT", h.mh.GetCurrentMode())
	}

	// 't' adds a textbox in Normal mode but is typed here.
	h.typeText("xt")
	h.key(tcell.KeyBackspace2, tcell.ModNone)
	if got := selectedText(t, h.ed); got != orig+"x" {
		t.Errorf("text = %q, want %q", got, orig+"x")
	}
	if h.ed.Scene().Len() != objects {
		t.Errorf("typing changed the object count")
	}

	h.key(tcell.KeyEscape, tcell.ModNone)
	if h.mh.GetCurrentMode() != ModeNormal {
		t.Fatalf("mode = %v after Esc, want NORMAL", h.mh.GetCurrentMode())
	}
	if h.quitClosed() {
		t.Fatal("Esc in edit mode must not quit")
	}
	if d := h.ed.GetHistoryManager().UndoDepth(); d != 2 {
		t.Errorf("UndoDepth = %d, want 2 (seed + session)", d)
	}

	h.key(tcell.KeyCtrlZ, tcell.ModCtrl)
	if got := selectedText(t, h.ed); got != orig {
		t.Errorf("after undo text = %q, want %q", got, orig)
	}
}

func TestDeleteSuppressedWhileEditing(t *testing.T) {
	h := newHarness(t)
	objects := h.ed.Scene().Len()

	h.key(tcell.KeyEnter, tcell.ModNone)
	h.key(tcell.KeyDelete, tcell.ModNone)
	h.key(tcell.KeyBackspace2, tcell.ModNone)
	if h.ed.Scene().Len() != objects {
		t.Fatalf("Delete/Backspace removed an object while editing")
	}

	h.key(tcell.KeyEscape, tcell.ModNone)
	h.key(tcell.KeyDelete, tcell.ModNone)
	if h.ed.Scene().Len() != objects-1 {
		t.Errorf("Delete in Normal mode should remove the selection")
	}
	if h.ed.HasSelection() {
		t.Errorf("selection should be cleared after delete")
	}
}

func TestUndoActiveInEditMode(t *testing.T) {
	h := newHarness(t)
	orig := selectedText(t, h.ed)

	h.key(tcell.KeyEnter, tcell.ModNone)
	h.typeText("abc")
	h.key(tcell.KeyCtrlZ, tcell.ModCtrl)

	if got := selectedText(t, h.ed); got != orig {
		t.Errorf("text = %q, want %q", got, orig)
	}
	h.key(tcell.KeyCtrlY, tcell.ModCtrl)
	if got := selectedText(t, h.ed); got != orig+"abc" {
		t.Errorf("after redo text = %q, want %q", got, orig+"abc")
	}
}

func TestShiftArrowNudgesFurther(t *testing.T) {
	h := newHarness(t)
	before, _ := h.ed.SelectedObject()

	h.key(tcell.KeyRight, tcell.ModNone)
	h.key(tcell.KeyDown, tcell.ModShift)

	after, _ := h.ed.SelectedObject()
	if after.Left != before.Left+1 || after.Top != before.Top+10 {
		t.Errorf("moved by (%v, %v), want (1, 10)", after.Left-before.Left, after.Top-before.Top)
	}
}

func TestNormalModeAdders(t *testing.T) {
	h := newHarness(t)
	n := h.ed.Scene().Len()
	h.typeText("tlro")
	if got := h.ed.Scene().Len(); got != n+4 {
		t.Errorf("objects = %d, want %d", got, n+4)
	}
	obj, _ := h.ed.SelectedObject()
	if obj.Type != scene.KindCircle {
		t.Errorf("selected = %s, want the new circle", obj.Type)
	}
}

func TestCommandMode(t *testing.T) {
	h := newHarness(t)
	var got []string
	if err := h.mh.RegisterCommand("circle", func(args []string) error {
		got = append(got, "circle")
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := h.mh.RegisterCommand("circle", nil); err == nil {
		t.Errorf("duplicate registration should fail")
	}

	h.typeText(":circ")
	if h.mh.GetCommandBuffer() != "circ" {
		t.Fatalf("buffer = %q", h.mh.GetCommandBuffer())
	}
	h.key(tcell.KeyTab, tcell.ModNone)
	if h.mh.GetCommandBuffer() != "circle " {
		t.Fatalf("completed buffer = %q", h.mh.GetCommandBuffer())
	}
	h.key(tcell.KeyEnter, tcell.ModNone)
	if len(got) != 1 || h.mh.GetCurrentMode() != ModeNormal {
		t.Errorf("ran %v, mode %v", got, h.mh.GetCurrentMode())
	}

	// Esc cancels without running or quitting.
	h.typeText(":circle")
	h.key(tcell.KeyEscape, tcell.ModNone)
	if len(got) != 1 || h.quitClosed() {
		t.Errorf("Esc should cancel the command line")
	}

	// Backspace on an empty line leaves command mode.
	h.typeText(":")
	h.key(tcell.KeyBackspace2, tcell.ModNone)
	if h.mh.GetCurrentMode() != ModeNormal {
		t.Errorf("mode = %v, want NORMAL", h.mh.GetCurrentMode())
	}
}

func TestQuitAsksWhenModified(t *testing.T) {
	h := newHarness(t)
	h.typeText("r")

	h.key(tcell.KeyEscape, tcell.ModNone)
	if h.quitClosed() {
		t.Fatal("first Esc with unsaved changes must not quit")
	}
	h.key(tcell.KeyEscape, tcell.ModNone)
	if !h.quitClosed() {
		t.Fatal("second Esc should quit")
	}
	// Closing twice must not panic.
	h.key(tcell.KeyCtrlQ, tcell.ModCtrl)
}

func TestQuitUnmodified(t *testing.T) {
	h := newHarness(t)
	h.key(tcell.KeyEscape, tcell.ModNone)
	if !h.quitClosed() {
		t.Fatal("Esc on an unmodified document should quit")
	}
}
