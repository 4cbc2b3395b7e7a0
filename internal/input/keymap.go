// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to editor actions.
type Keymap map[tcell.Key]Action        // For special keys (Enter, Arrows, etc.)
type RuneKeymap map[rune]Action         // Normal-mode single-letter bindings
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt, Shift)

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyTab] = ActionSelectNext
	p.keymap[tcell.KeyBacktab] = ActionSelectPrev // Shift+Tab
	p.keymap[tcell.KeyEnter] = ActionEnter
	p.keymap[tcell.KeyBackspace] = ActionDeleteBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteBackward // Often used for Backspace
	p.keymap[tcell.KeyDelete] = ActionDeleteForward
	p.keymap[tcell.KeyEscape] = ActionQuit

	// --- Ctrl Keys ---
	// Ctrl+I is Tab in a terminal, so italic lives on Ctrl+T.
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	ctrlMap[tcell.KeyCtrlY] = ActionRedo
	ctrlMap[tcell.KeyCtrlC] = ActionCopy
	ctrlMap[tcell.KeyCtrlV] = ActionPaste
	ctrlMap[tcell.KeyCtrlB] = ActionToggleBold
	ctrlMap[tcell.KeyCtrlT] = ActionToggleItalic
	ctrlMap[tcell.KeyCtrlE] = ActionExport
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	ctrlMap[tcell.KeyCtrlQ] = ActionForceQuit
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Rune Mappings (Normal mode only) ---
	p.runeKeymap['t'] = ActionAddText
	p.runeKeymap['l'] = ActionAddLine
	p.runeKeymap['r'] = ActionAddRect
	p.runeKeymap['o'] = ActionAddCircle
	p.runeKeymap[':'] = ActionEnterCommandMode
}

// Bind overrides the action for a special key (mod = tcell.ModNone) or a
// Ctrl key (mod = tcell.ModCtrl).
func (p *InputProcessor) Bind(mod tcell.ModMask, key tcell.Key, action Action) {
	if mod == tcell.ModNone {
		p.keymap[key] = action
		return
	}
	m, ok := p.modKeymap[mod]
	if !ok {
		m = make(Keymap)
		p.modKeymap[mod] = m
	}
	m[key] = action
}

// BindRune overrides the Normal-mode action of a rune.
func (p *InputProcessor) BindRune(r rune, action Action) {
	p.runeKeymap[r] = action
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
// INPUT MODE IS NOT HANDLED HERE - the mode handler decides based on mode + action.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()
	shift := mod&tcell.ModShift != 0

	// 1. Ctrl+letter arrives as its own key code; some terminals omit ModCtrl.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod |= tcell.ModCtrl
	}
	if modKeyMap, modOk := p.modKeymap[mod&^tcell.ModShift]; modOk && mod&^tcell.ModShift != tcell.ModNone {
		if action, keyOk := modKeyMap[key]; keyOk {
			return ActionEvent{Action: action, Shift: shift}
		}
	}

	// 2. Plain special keys. Shift is allowed (Shift+Arrow nudges further).
	if key != tcell.KeyRune {
		if mod&^tcell.ModShift == tcell.ModNone || p.isControlAlias(key) {
			if action, ok := p.keymap[key]; ok {
				return ActionEvent{Action: action, Shift: shift}
			}
		}
		return ActionEvent{Action: ActionUnknown}
	}

	// 3. Runes. Alt/Ctrl+rune are not bound.
	if mod&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) != 0 {
		return ActionEvent{Action: ActionUnknown}
	}
	if action, ok := p.runeKeymap[runeVal]; ok {
		return ActionEvent{Action: action, Rune: runeVal}
	}
	return ActionEvent{Action: ActionInsertRune, Rune: runeVal}
}

// isControlAlias reports keys tcell encodes as control codes (Tab is
// Ctrl+I, Enter is Ctrl+M, Backspace is Ctrl+H).
func (p *InputProcessor) isControlAlias(key tcell.Key) bool {
	switch key {
	case tcell.KeyTab, tcell.KeyEnter, tcell.KeyBackspace, tcell.KeyEscape:
		return true
	}
	return false
}
