// internal/input/action.go
package input

// Action represents a command or operation to be performed by the editor.
type Action int

// Define the set of possible editor actions.
const (
	// --- Meta Actions ---
	ActionUnknown   Action = iota // Default/invalid action
	ActionQuit                    // Esc: leaves the current mode, quits from Normal
	ActionForceQuit               // Quit without checking modified status
	ActionSave
	ActionExport

	// --- History / Clipboard ---
	ActionUndo
	ActionRedo
	ActionCopy
	ActionPaste

	// --- Movement (nudge in Normal mode, caret in TextEdit mode) ---
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMoveHome
	ActionMoveEnd

	// --- Selection ---
	ActionSelectNext
	ActionSelectPrev

	// --- Objects ---
	ActionAddText
	ActionAddLine
	ActionAddRect
	ActionAddCircle
	ActionToggleBold
	ActionToggleItalic

	// --- Text / Deletion ---
	ActionInsertRune     // Requires Rune argument
	ActionEnter          // Begin text edit (Normal), new line (TextEdit), run command (Command)
	ActionDeleteForward  // Delete key
	ActionDeleteBackward // Backspace key

	// --- Editor Mode ---
	ActionEnterCommandMode // ':'
)

var actionNames = map[Action]string{
	ActionUnknown:          "unknown",
	ActionQuit:             "quit",
	ActionForceQuit:        "force-quit",
	ActionSave:             "save",
	ActionExport:           "export",
	ActionUndo:             "undo",
	ActionRedo:             "redo",
	ActionCopy:             "copy",
	ActionPaste:            "paste",
	ActionMoveUp:           "move-up",
	ActionMoveDown:         "move-down",
	ActionMoveLeft:         "move-left",
	ActionMoveRight:        "move-right",
	ActionMoveHome:         "move-home",
	ActionMoveEnd:          "move-end",
	ActionSelectNext:       "select-next",
	ActionSelectPrev:       "select-prev",
	ActionAddText:          "add-text",
	ActionAddLine:          "add-line",
	ActionAddRect:          "add-rect",
	ActionAddCircle:        "add-circle",
	ActionToggleBold:       "bold",
	ActionToggleItalic:     "italic",
	ActionInsertRune:       "insert-rune",
	ActionEnter:            "enter",
	ActionDeleteForward:    "delete-forward",
	ActionDeleteBackward:   "delete-backward",
	ActionEnterCommandMode: "command-mode",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionEvent represents a decoded input event resulting in an action.
// Rune is set for every printable key, mapped or not, so text-entry
// modes can insert it regardless of the Normal-mode binding.
type ActionEvent struct {
	Action Action
	Rune   rune
	Shift  bool // Shift held, e.g. for coarse nudging
}
