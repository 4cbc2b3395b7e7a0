package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestProcessEvent(t *testing.T) {
	p := NewInputProcessor()
	tests := []struct {
		name  string
		ev    *tcell.EventKey
		want  Action
		rune  rune
		shift bool
	}{
		{"undo", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), ActionUndo, 0, false},
		{"undo without mod bit", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModNone), ActionUndo, 0, false},
		{"redo", tcell.NewEventKey(tcell.KeyCtrlY, 0, tcell.ModCtrl), ActionRedo, 0, false},
		{"copy", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), ActionCopy, 0, false},
		{"paste", tcell.NewEventKey(tcell.KeyCtrlV, 0, tcell.ModCtrl), ActionPaste, 0, false},
		{"italic", tcell.NewEventKey(tcell.KeyCtrlT, 0, tcell.ModCtrl), ActionToggleItalic, 0, false},
		{"force quit", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), ActionForceQuit, 0, false},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), ActionSelectNext, 0, false},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModShift), ActionSelectPrev, 0, true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionEnter, 0, false},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit, 0, false},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), ActionDeleteBackward, 0, false},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), ActionDeleteForward, 0, false},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), ActionMoveLeft, 0, false},
		{"shift arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), ActionMoveUp, 0, true},
		{"add text", tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone), ActionAddText, 't', false},
		{"add circle", tcell.NewEventKey(tcell.KeyRune, 'o', tcell.ModNone), ActionAddCircle, 'o', false},
		{"command", tcell.NewEventKey(tcell.KeyRune, ':', tcell.ModNone), ActionEnterCommandMode, ':', false},
		{"plain rune", tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone), ActionInsertRune, 'é', false},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), ActionUnknown, 0, false},
		{"unbound key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), ActionUnknown, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ProcessEvent(tt.ev)
			if got.Action != tt.want {
				t.Fatalf("Action = %v, want %v", got.Action, tt.want)
			}
			if got.Rune != tt.rune {
				t.Errorf("Rune = %q, want %q", got.Rune, tt.rune)
			}
			if got.Shift != tt.shift {
				t.Errorf("Shift = %v, want %v", got.Shift, tt.shift)
			}
		})
	}
}

func TestBindOverrides(t *testing.T) {
	p := NewInputProcessor()
	p.BindRune('t', ActionInsertRune)
	p.Bind(tcell.ModCtrl, tcell.KeyCtrlZ, ActionRedo)
	p.Bind(tcell.ModNone, tcell.KeyF2, ActionSave)

	if got := p.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone)); got.Action != ActionInsertRune {
		t.Errorf("t = %v", got.Action)
	}
	if got := p.ProcessEvent(tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl)); got.Action != ActionRedo {
		t.Errorf("Ctrl+Z = %v", got.Action)
	}
	if got := p.ProcessEvent(tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone)); got.Action != ActionSave {
		t.Errorf("F2 = %v", got.Action)
	}
}

func TestActionString(t *testing.T) {
	if ActionUndo.String() != "undo" || Action(999).String() != "unknown" {
		t.Error("unexpected action names")
	}
}
